package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget caps spending for one category in one calendar month.
// A cap of zero means "track but never warn".
type Budget struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	Cap          decimal.Decimal `json:"cap"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	CreatedAt    time.Time       `json:"created_at"`
}

type BudgetRequest struct {
	CategoryID string `json:"category_id" binding:"required"`
	Cap        string `json:"cap" binding:"required"`
	Month      int    `json:"month" binding:"required,min=1,max=12"`
	Year       int    `json:"year" binding:"required,min=2000,max=2100"`
}

// BudgetStatus is a budget joined with the actual spend for its month.
type BudgetStatus struct {
	Budget      Budget          `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	UsedPercent float64         `json:"used_percent"`
}

// BudgetLookup answers the category/date lookup endpoint: does a
// budget exist for this category and date, and how much room is left.
type BudgetLookup struct {
	Found     bool            `json:"found"`
	Cap       decimal.Decimal `json:"cap,omitempty"`
	Spent     decimal.Decimal `json:"spent,omitempty"`
	Remaining decimal.Decimal `json:"remaining,omitempty"`
	Warning   string          `json:"warning,omitempty"`
}
