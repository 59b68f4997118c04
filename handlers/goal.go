package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tdnguyen-dev/moneykeeper/middleware"
	"github.com/tdnguyen-dev/moneykeeper/models"
	"github.com/tdnguyen-dev/moneykeeper/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GoalHandler struct {
	DB    *sql.DB
	Goals *services.GoalService
	Stats *services.StatisticsService
	WS    *WSHandler
}

// goalView decorates a goal with its derived progress fields.
type goalView struct {
	models.Goal
	Percent   int  `json:"percent"`
	Completed bool `json:"completed"`
}

func viewOf(g models.Goal) goalView {
	return goalView{Goal: g, Percent: g.Percent(), Completed: g.Completed()}
}

func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_id, name, target, saved, deadline, created_at
		FROM goals
		WHERE user_id = $1
		ORDER BY deadline ASC NULLS LAST, created_at ASC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	goals := []goalView{}
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Target, &g.Saved, &g.Deadline, &g.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		goals = append(goals, viewOf(g))
	}

	c.JSON(http.StatusOK, goals)
}

func (h *GoalHandler) parseGoalRequest(c *gin.Context) (models.GoalRequest, decimal.Decimal, decimal.Decimal, *time.Time, bool) {
	var req models.GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, decimal.Zero, decimal.Zero, nil, false
	}

	target, err := parseAmount(req.Target)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Target must be a positive number", "field": "target"})
		return req, decimal.Zero, decimal.Zero, nil, false
	}

	saved := decimal.Zero
	if req.Saved != "" {
		saved, err = parseCap(req.Saved)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Saved must be a non-negative number", "field": "saved"})
			return req, decimal.Zero, decimal.Zero, nil, false
		}
	}

	var deadline *time.Time
	if req.Deadline != "" {
		parsed, err := parseDate(req.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deadline, expected YYYY-MM-DD", "field": "deadline"})
			return req, decimal.Zero, decimal.Zero, nil, false
		}
		deadline = &parsed
	}

	return req, target, saved, deadline, true
}

func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID := middleware.GetUserID(c)

	req, target, saved, deadline, ok := h.parseGoalRequest(c)
	if !ok {
		return
	}

	goal := models.Goal{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      req.Name,
		Target:    target,
		Saved:     saved,
		Deadline:  deadline,
		CreatedAt: time.Now(),
	}

	_, err := h.DB.Exec(`
		INSERT INTO goals (id, user_id, name, target, saved, deadline, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, goal.ID, goal.UserID, goal.Name, goal.Target, goal.Saved, goal.Deadline, goal.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create goal"})
		return
	}

	reminder := models.Reminder{
		ID:        uuid.New().String(),
		UserID:    userID,
		Content:   fmt.Sprintf("New savings goal created: %s (target %s)", goal.Name, services.FormatVND(goal.Target)),
		FireAt:    time.Now(),
		Kind:      models.ReminderKindGoal,
		CreatedAt: time.Now(),
	}
	_, err = h.DB.Exec(`
		INSERT INTO reminders (id, user_id, content, fire_at, kind, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, reminder.ID, reminder.UserID, reminder.Content, reminder.FireAt, reminder.Kind, reminder.CreatedAt)
	if err == nil {
		h.WS.PushReminder(reminder)
	}

	h.Stats.Invalidate(c.Request.Context(), userID)

	c.JSON(http.StatusCreated, viewOf(goal))
}

func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID := middleware.GetUserID(c)
	goalID := c.Param("id")

	req, target, saved, deadline, ok := h.parseGoalRequest(c)
	if !ok {
		return
	}

	var before models.Goal
	err := h.DB.QueryRow(
		`SELECT id, user_id, name, target, saved FROM goals WHERE id = $1 AND user_id = $2`,
		goalID, userID,
	).Scan(&before.ID, &before.UserID, &before.Name, &before.Target, &before.Saved)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	goal := models.Goal{
		ID:       goalID,
		UserID:   userID,
		Name:     req.Name,
		Target:   target,
		Saved:    saved,
		Deadline: deadline,
	}

	result, err := h.DB.Exec(`
		UPDATE goals SET name = $1, target = $2, saved = $3, deadline = $4
		WHERE id = $5 AND user_id = $6
	`, goal.Name, goal.Target, goal.Saved, goal.Deadline, goalID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update goal"})
		return
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": conflictMessage})
		return
	}

	// Congratulate only on the transition into completion, not on
	// every edit of an already finished goal.
	if !before.Completed() && goal.Completed() {
		reminder := models.Reminder{
			ID:        uuid.New().String(),
			UserID:    userID,
			Content:   fmt.Sprintf("Congratulations! You reached your savings goal \"%s\" (%s).", goal.Name, services.FormatVND(goal.Target)),
			FireAt:    time.Now(),
			Kind:      models.ReminderKindGoalReached,
			CreatedAt: time.Now(),
		}
		_, err = h.DB.Exec(`
			INSERT INTO reminders (id, user_id, content, fire_at, kind, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, reminder.ID, reminder.UserID, reminder.Content, reminder.FireAt, reminder.Kind, reminder.CreatedAt)
		if err == nil {
			h.WS.PushReminder(reminder)
		}
	}

	h.Stats.Invalidate(c.Request.Context(), userID)

	c.JSON(http.StatusOK, viewOf(goal))
}

func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID := middleware.GetUserID(c)
	goalID := c.Param("id")

	result, err := h.DB.Exec(
		`DELETE FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete goal"})
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}

	h.Stats.Invalidate(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted"})
}

// AddSavings records a manual deposit against one goal.
func (h *GoalHandler) AddSavings(c *gin.Context) {
	userID := middleware.GetUserID(c)
	goalID := c.Param("id")

	var req models.AddSavingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be a positive number", "field": "amount"})
		return
	}

	goal, reminder, err := h.Goals.AddSavings(c.Request.Context(), userID, goalID, amount)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add savings"})
		return
	}

	if reminder != nil {
		h.WS.PushReminder(*reminder)
	}

	h.Stats.Invalidate(c.Request.Context(), userID)

	c.JSON(http.StatusOK, viewOf(*goal))
}
