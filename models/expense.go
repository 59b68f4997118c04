package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	CategoryID   *string         `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	SpentOn      time.Time       `json:"spent_on"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type ExpenseRequest struct {
	CategoryID *string `json:"category_id"`
	Amount     string  `json:"amount" binding:"required"`
	SpentOn    string  `json:"spent_on" binding:"required"` // YYYY-MM-DD
	Note       string  `json:"note" binding:"max=200"`
}
