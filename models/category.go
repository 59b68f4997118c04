package models

import "time"

// Category kinds. A category is either an expense bucket or an income
// source, never both (enforced by a CHECK constraint).
const (
	CategoryKindExpense = "expense"
	CategoryKindIncome  = "income"
)

// Category groups, optional.
const (
	CategoryGroupFixed    = "fixed"
	CategoryGroupVariable = "variable"
)

type Category struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id,omitempty"` // nil for legacy shared rows
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Group     *string   `json:"group,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CategoryRequest struct {
	Name  string  `json:"name" binding:"required,max=100"`
	Kind  string  `json:"kind" binding:"required,oneof=expense income"`
	Group *string `json:"group" binding:"omitempty,oneof=fixed variable"`
	Note  string  `json:"note" binding:"max=200"`
}

// CategoryUsage reports how many rows still reference a category.
// Deletion is rejected while any count is non-zero.
type CategoryUsage struct {
	Expenses int `json:"expenses"`
	Incomes  int `json:"incomes"`
	Budgets  int `json:"budgets"`
}

func (u CategoryUsage) InUse() bool {
	return u.Expenses > 0 || u.Incomes > 0 || u.Budgets > 0
}
