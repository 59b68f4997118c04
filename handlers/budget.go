package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/tdnguyen-dev/moneykeeper/middleware"
	"github.com/tdnguyen-dev/moneykeeper/models"
	"github.com/tdnguyen-dev/moneykeeper/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BudgetHandler struct {
	DB      *sql.DB
	Budgets *services.BudgetService
	WS      *WSHandler
}

func monthDate(month, year int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// reconcile re-checks a budget's month after the cap changed. Lowering
// a cap below what is already spent produces an overage reminder.
func (h *BudgetHandler) reconcile(c *gin.Context, userID, categoryID string, month, year int) {
	reminder, err := h.Budgets.ReconcilePost(c.Request.Context(), userID, categoryID, monthDate(month, year))
	if err != nil {
		log.Printf("⚠️ Budget reconcile failed for user %s: %v", userID, err)
		return
	}
	if reminder != nil {
		h.WS.PushReminder(*reminder)
	}
}

// ListBudgets returns the caller's budgets for one month, each joined
// with the spend recorded so far.
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	userID := middleware.GetUserID(c)

	now := time.Now()
	month, year := int(now.Month()), now.Year()
	if m := c.Query("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return
		}
		month = parsed
	}
	if y := c.Query("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}
		year = parsed
	}

	statuses, err := h.Budgets.StatusesForMonth(c.Request.Context(), userID, month, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, statuses)
}

func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	capAmount, err := parseCap(req.Cap)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cap must be a non-negative number", "field": "cap"})
		return
	}

	ok, err := validCategory(h.DB, userID, req.CategoryID, models.CategoryKindExpense)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown expense category", "field": "category_id"})
		return
	}

	budget := models.Budget{
		ID:         uuid.New().String(),
		UserID:     userID,
		CategoryID: req.CategoryID,
		Cap:        capAmount,
		Month:      req.Month,
		Year:       req.Year,
		CreatedAt:  time.Now(),
	}

	_, err = h.DB.Exec(`
		INSERT INTO budgets (id, user_id, category_id, cap, month, year, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, budget.ID, budget.UserID, budget.CategoryID, budget.Cap, budget.Month, budget.Year, budget.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "A budget for this category and month already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create budget"})
		return
	}

	h.reconcile(c, userID, budget.CategoryID, budget.Month, budget.Year)

	c.JSON(http.StatusCreated, budget)
}

func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")

	var req models.BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	capAmount, err := parseCap(req.Cap)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cap must be a non-negative number", "field": "cap"})
		return
	}

	ok, err := validCategory(h.DB, userID, req.CategoryID, models.CategoryKindExpense)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown expense category", "field": "category_id"})
		return
	}

	result, err := h.DB.Exec(`
		UPDATE budgets
		SET category_id = $1, cap = $2, month = $3, year = $4
		WHERE id = $5 AND user_id = $6
	`, req.CategoryID, capAmount, req.Month, req.Year, budgetID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "A budget for this category and month already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update budget"})
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		return
	}

	h.reconcile(c, userID, req.CategoryID, req.Month, req.Year)

	budget := models.Budget{
		ID:         budgetID,
		UserID:     userID,
		CategoryID: req.CategoryID,
		Cap:        capAmount,
		Month:      req.Month,
		Year:       req.Year,
	}
	c.JSON(http.StatusOK, budget)
}

func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")

	result, err := h.DB.Exec(
		`DELETE FROM budgets WHERE id = $1 AND user_id = $2`, budgetID, userID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete budget"})
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted"})
}

// LookupBudget answers "is there a budget covering this category on
// this date, and how much room is left" for entry forms.
func (h *BudgetHandler) LookupBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)

	categoryID := c.Query("category_id")
	if categoryID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category_id is required"})
		return
	}

	date := time.Now()
	if d := c.Query("date"); d != "" {
		parsed, err := parseDate(d)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	lookup, err := h.Budgets.Lookup(c.Request.Context(), userID, categoryID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, lookup)
}

// BudgetedCategories lists the categories that already have a budget
// for a month, so entry forms can offer the remaining ones.
func (h *BudgetHandler) BudgetedCategories(c *gin.Context) {
	userID := middleware.GetUserID(c)

	now := time.Now()
	month, year := int(now.Month()), now.Year()
	if m := c.Query("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return
		}
		month = parsed
	}
	if y := c.Query("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}
		year = parsed
	}

	rows, err := h.DB.Query(`
		SELECT c.id, c.user_id, c.name, c.kind, c.category_group, COALESCE(c.note, ''), c.created_at
		FROM categories c
		JOIN budgets b ON b.category_id = c.id
		WHERE b.user_id = $1 AND b.month = $2 AND b.year = $3
		ORDER BY c.name
	`, userID, month, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Kind, &cat.Group, &cat.Note, &cat.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		categories = append(categories, cat)
	}

	c.JSON(http.StatusOK, categories)
}
