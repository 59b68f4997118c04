package handlers

import (
	"database/sql"
	"net/http"

	"github.com/tdnguyen-dev/moneykeeper/middleware"
	"github.com/tdnguyen-dev/moneykeeper/models"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	DB *sql.DB
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var user models.User
	err := h.DB.QueryRow(`
		SELECT id, username, COALESCE(full_name, ''), COALESCE(email, ''),
		       COALESCE(phone, ''), COALESCE(address, ''), COALESCE(avatar_path, ''),
		       totp_enabled, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID).Scan(
		&user.ID, &user.Username, &user.FullName, &user.Email,
		&user.Phone, &user.Address, &user.AvatarPath,
		&user.TOTPEnabled, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email != "" {
		var taken bool
		err := h.DB.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id != $2)`,
			req.Email, userID,
		).Scan(&taken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if taken {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered", "field": "email"})
			return
		}
	}

	_, err := h.DB.Exec(`
		UPDATE users
		SET full_name = $1, email = COALESCE(NULLIF($2, ''), email),
		    phone = $3, address = $4, avatar_path = $5, updated_at = NOW()
		WHERE id = $6
	`, req.FullName, req.Email, req.Phone, req.Address, req.AvatarPath, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	h.GetProfile(c)
}
