package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tdnguyen-dev/moneykeeper/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetService evaluates spending against monthly category caps.
// The pre-check produces an advisory warning before an expense is
// saved; the post-reconcile recomputes true spend afterwards and
// persists an overage reminder at most once per category per day.
type BudgetService struct {
	db *sql.DB
}

func NewBudgetService(db *sql.DB) *BudgetService {
	return &BudgetService{db: db}
}

// monthRange returns [first day, first day of next month) for the
// month containing date.
func monthRange(date time.Time) (time.Time, time.Time) {
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, 0)
}

// OverageWarning builds the pre-submit warning text. All six figures
// the user needs are in it: category, overage, cap, prior spend,
// incoming amount, projected total.
func OverageWarning(categoryName string, month, year int, prior, incoming, limit decimal.Decimal) string {
	projected := prior.Add(incoming)
	over := projected.Sub(limit)
	return fmt.Sprintf(
		"Warning: this expense will exceed your %s budget for %d/%d. Spent so far: %s, this expense: %s, projected total: %s, cap: %s (over by %s).",
		categoryName, month, year,
		FormatVND(prior), FormatVND(incoming), FormatVND(projected), FormatVND(limit), FormatVND(over),
	)
}

func overageReminderContent(categoryName string, month, year int, spent, limit decimal.Decimal) string {
	return fmt.Sprintf(
		"You have exceeded the %s budget for %d/%d. Spent: %s, cap: %s.",
		categoryName, month, year, FormatVND(spent), FormatVND(limit),
	)
}

// capFor returns the cap and category name of the budget covering
// (user, category, month of date), or found=false.
func (s *BudgetService) capFor(ctx context.Context, userID, categoryID string, date time.Time) (decimal.Decimal, string, bool, error) {
	var limit decimal.Decimal
	var name string
	err := s.db.QueryRowContext(ctx, `
		SELECT b.cap, c.name
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.user_id = $1 AND b.category_id = $2 AND b.month = $3 AND b.year = $4
	`, userID, categoryID, int(date.Month()), date.Year()).Scan(&limit, &name)
	if err == sql.ErrNoRows {
		return decimal.Zero, "", false, nil
	}
	if err != nil {
		return decimal.Zero, "", false, err
	}
	return limit, name, true, nil
}

// MonthlySpend sums a user's expenses for one category in the month
// containing date. excludeExpenseID skips the row under edit.
func (s *BudgetService) MonthlySpend(ctx context.Context, userID, categoryID string, date time.Time, excludeExpenseID string) (decimal.Decimal, error) {
	first, next := monthRange(date)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE user_id = $1 AND category_id = $2 AND spent_on >= $3 AND spent_on < $4
	`
	args := []interface{}{userID, categoryID, first, next}
	if excludeExpenseID != "" {
		query += ` AND id <> $5`
		args = append(args, excludeExpenseID)
	}

	var total decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// EvaluatePre returns a warning string when saving amount would push
// the month's spend past the category's cap. Empty string means no
// budget, cap of zero, or still under cap. Advisory only: two racing
// submissions can both pass, the post-reconcile catches it.
func (s *BudgetService) EvaluatePre(ctx context.Context, userID, categoryID string, amount decimal.Decimal, date time.Time, excludeExpenseID string) (string, error) {
	limit, categoryName, found, err := s.capFor(ctx, userID, categoryID, date)
	if err != nil {
		return "", err
	}
	if !found || !limit.IsPositive() {
		return "", nil
	}

	prior, err := s.MonthlySpend(ctx, userID, categoryID, date, excludeExpenseID)
	if err != nil {
		return "", err
	}

	if prior.Add(amount).LessThanOrEqual(limit) {
		return "", nil
	}

	return OverageWarning(categoryName, int(date.Month()), date.Year(), prior, amount, limit), nil
}

// ReconcilePost recomputes the true month spend after an expense (or
// a budget edit) has been persisted, and records a BudgetExceeded
// reminder when the cap is blown. The partial unique index on
// (user, category, kind, dedup_day) makes the insert a no-op when
// today's reminder already exists; the returned reminder is nil in
// that case. Deleting a budget never retracts past reminders.
func (s *BudgetService) ReconcilePost(ctx context.Context, userID, categoryID string, date time.Time) (*models.Reminder, error) {
	limit, categoryName, found, err := s.capFor(ctx, userID, categoryID, date)
	if err != nil {
		return nil, err
	}
	if !found || !limit.IsPositive() {
		return nil, nil
	}

	spent, err := s.MonthlySpend(ctx, userID, categoryID, date, "")
	if err != nil {
		return nil, err
	}
	if spent.LessThanOrEqual(limit) {
		return nil, nil
	}

	now := time.Now()
	reminder := models.Reminder{
		ID:         uuid.New().String(),
		UserID:     userID,
		Content:    overageReminderContent(categoryName, int(date.Month()), date.Year(), spent, limit),
		FireAt:     now,
		Kind:       models.ReminderKindBudgetExceeded,
		CategoryID: &categoryID,
		CreatedAt:  now,
	}

	var insertedID string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO reminders (id, user_id, content, fire_at, kind, category_id, dedup_day, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_DATE, $7)
		ON CONFLICT (user_id, category_id, kind, dedup_day) WHERE dedup_day IS NOT NULL
		DO NOTHING
		RETURNING id
	`, reminder.ID, reminder.UserID, reminder.Content, reminder.FireAt, reminder.Kind, reminder.CategoryID, reminder.CreatedAt).Scan(&insertedID)
	if err == sql.ErrNoRows {
		// Already reminded today for this category.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &reminder, nil
}

// Lookup backs the category/date JSON endpoint used by the expense
// form: cap, spent so far and remaining room for the budget covering
// the date, if any.
func (s *BudgetService) Lookup(ctx context.Context, userID, categoryID string, date time.Time) (models.BudgetLookup, error) {
	limit, _, found, err := s.capFor(ctx, userID, categoryID, date)
	if err != nil {
		return models.BudgetLookup{}, err
	}
	if !found {
		return models.BudgetLookup{Found: false}, nil
	}

	spent, err := s.MonthlySpend(ctx, userID, categoryID, date, "")
	if err != nil {
		return models.BudgetLookup{}, err
	}

	return models.BudgetLookup{
		Found:     true,
		Cap:       limit,
		Spent:     spent,
		Remaining: limit.Sub(spent),
	}, nil
}

// StatusesForMonth joins every budget of the month with its actual
// spend and usage percentage.
func (s *BudgetService) StatusesForMonth(ctx context.Context, userID string, month, year int) ([]models.BudgetStatus, error) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.user_id, b.category_id, c.name, b.cap, b.month, b.year, b.created_at,
		       COALESCE((
		           SELECT SUM(e.amount) FROM expenses e
		           WHERE e.user_id = b.user_id AND e.category_id = b.category_id
		             AND e.spent_on >= $3 AND e.spent_on < $4
		       ), 0) AS spent
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.user_id = $1 AND b.month = $2 AND b.year = $5
		ORDER BY c.name
	`, userID, month, first, next, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []models.BudgetStatus
	for rows.Next() {
		var st models.BudgetStatus
		if err := rows.Scan(
			&st.Budget.ID, &st.Budget.UserID, &st.Budget.CategoryID, &st.Budget.CategoryName,
			&st.Budget.Cap, &st.Budget.Month, &st.Budget.Year, &st.Budget.CreatedAt, &st.Spent,
		); err != nil {
			return nil, err
		}
		st.UsedPercent = UsagePercent(st.Spent, st.Budget.Cap)
		statuses = append(statuses, st)
	}
	return statuses, rows.Err()
}

// UsagePercent is spend over cap as a percentage rounded to two
// decimals, 0 when the cap is zero.
func UsagePercent(spent, limit decimal.Decimal) float64 {
	if !limit.IsPositive() {
		return 0
	}
	pct, _ := spent.Div(limit).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return pct
}
