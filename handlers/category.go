package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/tdnguyen-dev/moneykeeper/middleware"
	"github.com/tdnguyen-dev/moneykeeper/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	DB *sql.DB
}

// ListCategories returns the caller's categories plus legacy shared
// rows (user_id IS NULL), optionally filtered by ?kind=expense|income.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID := middleware.GetUserID(c)
	kind := c.Query("kind")

	query := `
		SELECT id, user_id, name, kind, category_group, COALESCE(note, ''), created_at
		FROM categories
		WHERE (user_id = $1 OR user_id IS NULL)
	`
	args := []interface{}{userID}
	if kind != "" {
		query += ` AND kind = $2`
		args = append(args, kind)
	}
	query += ` ORDER BY name ASC`

	rows, err := h.DB.Query(query, args...)
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

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cat := models.Category{
		ID:        uuid.New().String(),
		UserID:    &userID,
		Name:      req.Name,
		Kind:      req.Kind,
		Group:     req.Group,
		Note:      req.Note,
		CreatedAt: time.Now(),
	}

	_, err := h.DB.Exec(`
		INSERT INTO categories (id, user_id, name, kind, category_group, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, cat.ID, cat.UserID, cat.Name, cat.Kind, cat.Group, cat.Note, cat.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "A category with this name already exists", "field": "name"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	categoryID := c.Param("id")

	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Shared rows (user_id IS NULL) are read-only: the WHERE clause
	// only matches rows the caller owns.
	result, err := h.DB.Exec(`
		UPDATE categories
		SET name = $1, kind = $2, category_group = $3, note = $4
		WHERE id = $5 AND user_id = $6
	`, req.Name, req.Kind, req.Group, req.Note, categoryID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "A category with this name already exists", "field": "name"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var cat models.Category
	err = h.DB.QueryRow(`
		SELECT id, user_id, name, kind, category_group, COALESCE(note, ''), created_at
		FROM categories WHERE id = $1
	`, categoryID).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Kind, &cat.Group, &cat.Note, &cat.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) categoryUsage(userID, categoryID string) (models.CategoryUsage, error) {
	var usage models.CategoryUsage
	err := h.DB.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM expenses WHERE user_id = $1 AND category_id = $2),
			(SELECT COUNT(*) FROM incomes  WHERE user_id = $1 AND category_id = $2),
			(SELECT COUNT(*) FROM budgets  WHERE user_id = $1 AND category_id = $2)
	`, userID, categoryID).Scan(&usage.Expenses, &usage.Incomes, &usage.Budgets)
	return usage, err
}

// DeleteCategory refuses to delete a category that expenses, incomes
// or budgets still point at. The caller has to move or delete those
// records first.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	categoryID := c.Param("id")

	usage, err := h.categoryUsage(userID, categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if usage.InUse() {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Category is still in use",
			"usage": usage,
		})
		return
	}

	result, err := h.DB.Exec(
		`DELETE FROM categories WHERE id = $1 AND user_id = $2`, categoryID, userID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			// Another user's rows can reference a shared category.
			c.JSON(http.StatusConflict, gin.H{"error": "Category is still in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
