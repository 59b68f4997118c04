package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tdnguyen-dev/moneykeeper/middleware"
	"github.com/tdnguyen-dev/moneykeeper/services"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	Stats *services.StatisticsService
}

// RangeStatistics reports totals, per-category breakdowns and daily
// series between two dates (inclusive). Defaults to the current month.
func (h *StatisticsHandler) RangeStatistics(c *gin.Context) {
	userID := middleware.GetUserID(c)

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	if f := c.Query("from"); f != "" {
		parsed, err := parseDate(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if t := c.Query("to"); t != "" {
		parsed, err := parseDate(t)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
			return
		}
		to = parsed
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not be before from"})
		return
	}

	stats, err := h.Stats.Range(c.Request.Context(), userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// MonthlyStatistics breaks one year into twelve income/expense totals.
func (h *StatisticsHandler) MonthlyStatistics(c *gin.Context) {
	userID := middleware.GetUserID(c)

	year := time.Now().Year()
	if y := c.Query("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}
		year = parsed
	}

	totals, err := h.Stats.Monthly(c.Request.Context(), userID, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, totals)
}

// TrendStatistics returns the last n months of income and expense,
// including empty months, newest last.
func (h *StatisticsHandler) TrendStatistics(c *gin.Context) {
	userID := middleware.GetUserID(c)

	months := 6
	if m := c.Query("months"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 36 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "months must be between 1 and 36"})
			return
		}
		months = parsed
	}

	trend, err := h.Stats.Trend(c.Request.Context(), userID, months)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, trend)
}

// HomeSummary backs the dashboard: this month's balance, recent
// transactions, nearest goals and budgets close to their cap.
func (h *StatisticsHandler) HomeSummary(c *gin.Context) {
	userID := middleware.GetUserID(c)

	summary, err := h.Stats.HomeSummary(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
