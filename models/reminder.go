package models

import "time"

// Reminder kinds. Free-form text in the original schema; these are the
// values the application itself writes.
const (
	ReminderKindBudgetExceeded = "BudgetExceeded"
	ReminderKindGoalReached    = "GoalReached"
	ReminderKindGoal           = "Goal"
	ReminderKindExpense        = "Expense"
	ReminderKindIncome         = "Income"
	ReminderKindOther          = "Other"
)

// Reminder has no read flag: marking one as read deletes the row.
// CategoryID and DedupDay are set only on budget-overage reminders,
// where (user, category, kind, day) forms the dedup key.
type Reminder struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Content    string     `json:"content"`
	FireAt     time.Time  `json:"fire_at"`
	Kind       string     `json:"kind"`
	CategoryID *string    `json:"category_id,omitempty"`
	DedupDay   *time.Time `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
}

type ReminderRequest struct {
	Content string `json:"content" binding:"required,max=200"`
	FireAt  string `json:"fire_at" binding:"required"` // RFC 3339
	Kind    string `json:"kind" binding:"max=50"`
}

// RecurringReminderRequest expands into a series of reminder rows.
// Repeat is one of daily, weekly, monthly; Every is the step in that
// unit (every 2 days, every 1 month, ...).
type RecurringReminderRequest struct {
	Content string `json:"content" binding:"required,max=200"`
	FireAt  string `json:"fire_at" binding:"required"`
	Kind    string `json:"kind" binding:"max=50"`
	Repeat  string `json:"repeat" binding:"required,oneof=none daily weekly monthly"`
	Every   int    `json:"every" binding:"omitempty,min=1"`
}
