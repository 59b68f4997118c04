package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/tdnguyen-dev/moneykeeper/middleware"
	"github.com/tdnguyen-dev/moneykeeper/models"
	"github.com/tdnguyen-dev/moneykeeper/services"
	"github.com/tdnguyen-dev/moneykeeper/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReminderHandler struct {
	DB *sql.DB
	WS *WSHandler
}

func (h *ReminderHandler) ListReminders(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_id, content, fire_at, kind, category_id, created_at
		FROM reminders
		WHERE user_id = $1
		ORDER BY fire_at ASC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	reminders := []models.Reminder{}
	for rows.Next() {
		var r models.Reminder
		if err := rows.Scan(&r.ID, &r.UserID, &r.Content, &r.FireAt, &r.Kind, &r.CategoryID, &r.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		reminders = append(reminders, r)
	}

	c.JSON(http.StatusOK, reminders)
}

func reminderKind(kind string) string {
	if kind == "" {
		return models.ReminderKindOther
	}
	return kind
}

func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fireAt, err := time.Parse(time.RFC3339, req.FireAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fire_at, expected RFC 3339", "field": "fire_at"})
		return
	}

	reminder := models.Reminder{
		ID:        uuid.New().String(),
		UserID:    userID,
		Content:   req.Content,
		FireAt:    fireAt,
		Kind:      reminderKind(req.Kind),
		CreatedAt: time.Now(),
	}

	_, err = h.DB.Exec(`
		INSERT INTO reminders (id, user_id, content, fire_at, kind, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, reminder.ID, reminder.UserID, reminder.Content, reminder.FireAt, reminder.Kind, reminder.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reminder"})
		return
	}

	// Keep other open sessions of the same user in sync.
	h.WS.PushReminder(reminder)

	c.JSON(http.StatusCreated, reminder)
}

// CreateRecurringReminder inserts a whole series at once: the base
// occurrence plus its daily, weekly or monthly repetitions.
func (h *ReminderHandler) CreateRecurringReminder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.RecurringReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fireAt, err := time.Parse(time.RFC3339, req.FireAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fire_at, expected RFC 3339", "field": "fire_at"})
		return
	}

	base := models.Reminder{
		ID:        uuid.New().String(),
		UserID:    userID,
		Content:   req.Content,
		FireAt:    fireAt,
		Kind:      reminderKind(req.Kind),
		CreatedAt: time.Now(),
	}

	every := req.Every
	if every == 0 {
		every = 1
	}
	series := append([]models.Reminder{base}, services.ExpandRecurring(base, req.Repeat, every)...)

	err = utils.WithTransaction(h.DB, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO reminders (id, user_id, content, fire_at, kind, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range series {
			if _, err := stmt.Exec(r.ID, r.UserID, r.Content, r.FireAt, r.Kind, r.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reminders"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reminders": series, "count": len(series)})
}

func (h *ReminderHandler) UpdateReminder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	reminderID := c.Param("id")

	var req models.ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fireAt, err := time.Parse(time.RFC3339, req.FireAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fire_at, expected RFC 3339", "field": "fire_at"})
		return
	}

	result, err := h.DB.Exec(`
		UPDATE reminders SET content = $1, fire_at = $2, kind = $3
		WHERE id = $4 AND user_id = $5
	`, req.Content, fireAt, reminderKind(req.Kind), reminderID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reminder"})
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder updated"})
}

// DeleteReminder also serves as "mark read": there is no read flag,
// a dismissed reminder is simply removed.
func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	reminderID := c.Param("id")

	result, err := h.DB.Exec(
		`DELETE FROM reminders WHERE id = $1 AND user_id = $2`, reminderID, userID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reminder"})
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder deleted"})
}
