package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/tdnguyen-dev/moneykeeper/middleware"
	"github.com/tdnguyen-dev/moneykeeper/models"
	"github.com/tdnguyen-dev/moneykeeper/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type IncomeHandler struct {
	DB    *sql.DB
	Goals *services.GoalService
	Stats *services.StatisticsService
	WS    *WSHandler
}

// settle funnels new surplus into savings goals and drops cached
// statistics after any income mutation.
func (h *IncomeHandler) settle(c *gin.Context, userID string) {
	ctx := c.Request.Context()

	reminders, err := h.Goals.Reallocate(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Goal reallocation failed for user %s: %v", userID, err)
	}
	for _, r := range reminders {
		h.WS.PushReminder(r)
	}

	h.Stats.Invalidate(ctx, userID)
}

// attribution resolves the accounting month for an income. When the
// request leaves month/year out, they default to the received date.
func attribution(req models.IncomeRequest, receivedOn time.Time) (int, int) {
	month := int(receivedOn.Month())
	year := receivedOn.Year()
	if req.Month != nil {
		month = *req.Month
	}
	if req.Year != nil {
		year = *req.Year
	}
	return month, year
}

func (h *IncomeHandler) ListIncomes(c *gin.Context) {
	userID := middleware.GetUserID(c)

	query := `
		SELECT i.id, i.user_id, i.category_id, COALESCE(cat.name, ''),
		       i.amount, i.received_on, i.month, i.year, COALESCE(i.note, ''), i.created_at
		FROM incomes i
		LEFT JOIN categories cat ON cat.id = i.category_id
		WHERE i.user_id = $1
	`
	args := []interface{}{userID}

	if month := c.Query("month"); month != "" {
		year := c.Query("year")
		if year == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month filter requires year"})
			return
		}
		args = append(args, month, year)
		query += ` AND i.month = $2 AND i.year = $3`
	}
	query += ` ORDER BY i.received_on DESC, i.created_at DESC`

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	incomes := []models.Income{}
	for rows.Next() {
		var in models.Income
		if err := rows.Scan(&in.ID, &in.UserID, &in.CategoryID, &in.CategoryName, &in.Amount, &in.ReceivedOn, &in.Month, &in.Year, &in.Note, &in.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		incomes = append(incomes, in)
	}

	c.JSON(http.StatusOK, incomes)
}

func (h *IncomeHandler) CreateIncome(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be a positive number", "field": "amount"})
		return
	}

	receivedOn, err := parseDate(req.ReceivedOn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD", "field": "received_on"})
		return
	}

	if req.CategoryID != nil {
		ok, err := validCategory(h.DB, userID, *req.CategoryID, models.CategoryKindIncome)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown income category", "field": "category_id"})
			return
		}
	}

	month, year := attribution(req, receivedOn)

	income := models.Income{
		ID:         uuid.New().String(),
		UserID:     userID,
		CategoryID: req.CategoryID,
		Amount:     amount,
		ReceivedOn: receivedOn,
		Month:      month,
		Year:       year,
		Note:       req.Note,
		CreatedAt:  time.Now(),
	}

	_, err = h.DB.Exec(`
		INSERT INTO incomes (id, user_id, category_id, amount, received_on, month, year, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, income.ID, income.UserID, income.CategoryID, income.Amount, income.ReceivedOn, income.Month, income.Year, income.Note, income.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create income"})
		return
	}

	// New money may push savings goals forward.
	h.settle(c, userID)

	c.JSON(http.StatusCreated, income)
}

func (h *IncomeHandler) UpdateIncome(c *gin.Context) {
	userID := middleware.GetUserID(c)
	incomeID := c.Param("id")

	var req models.IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be a positive number", "field": "amount"})
		return
	}

	receivedOn, err := parseDate(req.ReceivedOn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD", "field": "received_on"})
		return
	}

	if req.CategoryID != nil {
		ok, err := validCategory(h.DB, userID, *req.CategoryID, models.CategoryKindIncome)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown income category", "field": "category_id"})
			return
		}
	}

	month, year := attribution(req, receivedOn)

	result, err := h.DB.Exec(`
		UPDATE incomes
		SET category_id = $1, amount = $2, received_on = $3, month = $4, year = $5, note = $6
		WHERE id = $7 AND user_id = $8
	`, req.CategoryID, amount, receivedOn, month, year, req.Note, incomeID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update income"})
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Income not found"})
		return
	}

	h.settle(c, userID)

	income := models.Income{
		ID:         incomeID,
		UserID:     userID,
		CategoryID: req.CategoryID,
		Amount:     amount,
		ReceivedOn: receivedOn,
		Month:      month,
		Year:       year,
		Note:       req.Note,
	}
	c.JSON(http.StatusOK, income)
}

func (h *IncomeHandler) DeleteIncome(c *gin.Context) {
	userID := middleware.GetUserID(c)
	incomeID := c.Param("id")

	result, err := h.DB.Exec(
		`DELETE FROM incomes WHERE id = $1 AND user_id = $2`, incomeID, userID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete income"})
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Income not found"})
		return
	}

	h.settle(c, userID)

	c.JSON(http.StatusOK, gin.H{"message": "Income deleted"})
}
