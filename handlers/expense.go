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

type ExpenseHandler struct {
	DB      *sql.DB
	Budgets *services.BudgetService
	Goals   *services.GoalService
	Stats   *services.StatisticsService
	WS      *WSHandler
}

// validCategory checks that the category exists, belongs to the caller
// (or is a shared row) and has the expected kind.
func validCategory(db *sql.DB, userID, categoryID, kind string) (bool, error) {
	var ok bool
	err := db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM categories
			WHERE id = $1 AND (user_id = $2 OR user_id IS NULL) AND kind = $3
		)
	`, categoryID, userID, kind).Scan(&ok)
	return ok, err
}

// afterMoneyChange runs the bookkeeping shared by every expense and
// income mutation: re-check the budget for the touched month, funnel
// any new surplus into savings goals, drop cached statistics, and push
// fresh reminders over the websocket.
func (h *ExpenseHandler) afterMoneyChange(c *gin.Context, userID string, categoryID *string, date time.Time) {
	ctx := c.Request.Context()

	if categoryID != nil {
		reminder, err := h.Budgets.ReconcilePost(ctx, userID, *categoryID, date)
		if err != nil {
			log.Printf("⚠️ Budget reconcile failed for user %s: %v", userID, err)
		} else if reminder != nil {
			h.WS.PushReminder(*reminder)
		}
	}

	reminders, err := h.Goals.Reallocate(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Goal reallocation failed for user %s: %v", userID, err)
	}
	for _, r := range reminders {
		h.WS.PushReminder(r)
	}

	h.Stats.Invalidate(ctx, userID)
}

func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	userID := middleware.GetUserID(c)

	query := `
		SELECT e.id, e.user_id, e.category_id, COALESCE(cat.name, ''),
		       e.amount, e.spent_on, COALESCE(e.note, ''), e.created_at
		FROM expenses e
		LEFT JOIN categories cat ON cat.id = e.category_id
		WHERE e.user_id = $1
	`
	args := []interface{}{userID}

	if from := c.Query("from"); from != "" {
		fromDate, err := parseDate(from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
			return
		}
		args = append(args, fromDate)
		query += ` AND e.spent_on >= $2`
	}
	if to := c.Query("to"); to != "" {
		toDate, err := parseDate(to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
			return
		}
		args = append(args, toDate)
		if len(args) == 3 {
			query += ` AND e.spent_on <= $3`
		} else {
			query += ` AND e.spent_on <= $2`
		}
	}
	query += ` ORDER BY e.spent_on DESC, e.created_at DESC`

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.CategoryID, &e.CategoryName, &e.Amount, &e.SpentOn, &e.Note, &e.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		expenses = append(expenses, e)
	}

	c.JSON(http.StatusOK, expenses)
}

func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be a positive number", "field": "amount"})
		return
	}

	spentOn, err := parseDate(req.SpentOn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD", "field": "spent_on"})
		return
	}

	var warning string
	if req.CategoryID != nil {
		ok, err := validCategory(h.DB, userID, *req.CategoryID, models.CategoryKindExpense)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown expense category", "field": "category_id"})
			return
		}

		warning, err = h.Budgets.EvaluatePre(c.Request.Context(), userID, *req.CategoryID, amount, spentOn, "")
		if err != nil {
			log.Printf("⚠️ Budget check failed for user %s: %v", userID, err)
		}
	}

	expense := models.Expense{
		ID:         uuid.New().String(),
		UserID:     userID,
		CategoryID: req.CategoryID,
		Amount:     amount,
		SpentOn:    spentOn,
		Note:       req.Note,
		CreatedAt:  time.Now(),
	}

	_, err = h.DB.Exec(`
		INSERT INTO expenses (id, user_id, category_id, amount, spent_on, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, expense.ID, expense.UserID, expense.CategoryID, expense.Amount, expense.SpentOn, expense.Note, expense.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		return
	}

	h.afterMoneyChange(c, userID, req.CategoryID, spentOn)

	c.JSON(http.StatusCreated, gin.H{"expense": expense, "warning": warning})
}

func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID := middleware.GetUserID(c)
	expenseID := c.Param("id")

	var req models.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be a positive number", "field": "amount"})
		return
	}

	spentOn, err := parseDate(req.SpentOn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD", "field": "spent_on"})
		return
	}

	// Only the new coordinates need a budget reconcile afterwards:
	// moving spend out of a month lowers that month's total and can
	// never create an overage there.
	var exists bool
	err = h.DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM expenses WHERE id = $1 AND user_id = $2)`,
		expenseID, userID,
	).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}

	var warning string
	if req.CategoryID != nil {
		ok, err := validCategory(h.DB, userID, *req.CategoryID, models.CategoryKindExpense)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown expense category", "field": "category_id"})
			return
		}

		warning, err = h.Budgets.EvaluatePre(c.Request.Context(), userID, *req.CategoryID, amount, spentOn, expenseID)
		if err != nil {
			log.Printf("⚠️ Budget check failed for user %s: %v", userID, err)
		}
	}

	result, err := h.DB.Exec(`
		UPDATE expenses
		SET category_id = $1, amount = $2, spent_on = $3, note = $4
		WHERE id = $5 AND user_id = $6
	`, req.CategoryID, amount, spentOn, req.Note, expenseID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update expense"})
		return
	}

	// The row existed a moment ago; zero rows updated means another
	// session deleted it in between.
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": conflictMessage})
		return
	}

	h.afterMoneyChange(c, userID, req.CategoryID, spentOn)

	expense := models.Expense{
		ID:         expenseID,
		UserID:     userID,
		CategoryID: req.CategoryID,
		Amount:     amount,
		SpentOn:    spentOn,
		Note:       req.Note,
	}
	c.JSON(http.StatusOK, gin.H{"expense": expense, "warning": warning})
}

func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID := middleware.GetUserID(c)
	expenseID := c.Param("id")

	result, err := h.DB.Exec(
		`DELETE FROM expenses WHERE id = $1 AND user_id = $2`, expenseID, userID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}

	// Removing spend can free surplus for savings goals.
	h.afterMoneyChange(c, userID, nil, time.Time{})

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}
