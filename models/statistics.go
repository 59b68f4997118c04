package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CategoryBreakdown struct {
	CategoryID   *string         `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
	Percent      float64         `json:"percent"`
}

type DailyTotal struct {
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// RangeStatistics covers a date range on a received/spent-date basis.
type RangeStatistics struct {
	From              time.Time           `json:"from"`
	To                time.Time           `json:"to"`
	TotalIncome       decimal.Decimal     `json:"total_income"`
	TotalExpense      decimal.Decimal     `json:"total_expense"`
	IncomeByCategory  []CategoryBreakdown `json:"income_by_category"`
	ExpenseByCategory []CategoryBreakdown `json:"expense_by_category"`
	IncomeByDay       []DailyTotal        `json:"income_by_day"`
	ExpenseByDay      []DailyTotal        `json:"expense_by_day"`
}

// MonthlyTotal is one month of a year view. Income groups by the
// attribution pair, expense by spend date.
type MonthlyTotal struct {
	Month   int             `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type TrendPoint struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// HomeSummary backs the dashboard: current-month position plus the
// most recent activity and anything demanding attention.
type HomeSummary struct {
	MonthIncome    decimal.Decimal `json:"month_income"`
	MonthExpense   decimal.Decimal `json:"month_expense"`
	Balance        decimal.Decimal `json:"balance"`
	SpendRatio     float64         `json:"spend_ratio"`
	RecentExpenses []Expense       `json:"recent_expenses"`
	RecentIncomes  []Income        `json:"recent_incomes"`
	NearestGoals   []Goal          `json:"nearest_goals"`
	BudgetsAtRisk  []BudgetStatus  `json:"budgets_at_risk"`
}
