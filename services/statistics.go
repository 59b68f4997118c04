package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/tdnguyen-dev/moneykeeper/models"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const statsCacheTTL = 5 * time.Minute

// StatisticsService computes read-only aggregates. Results are cached
// in redis when a client is configured; cache entries are keyed on a
// per-user version that mutations bump, so invalidation is one INCR
// instead of a key scan.
type StatisticsService struct {
	db      *sql.DB
	budgets *BudgetService
	cache   *redis.Client
}

func NewStatisticsService(db *sql.DB, budgets *BudgetService, cache *redis.Client) *StatisticsService {
	return &StatisticsService{db: db, budgets: budgets, cache: cache}
}

// Invalidate bumps the user's cache version after an expense or
// income mutation. Cache failures only cost freshness, never
// correctness, so they are logged and ignored.
func (s *StatisticsService) Invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, "stats:ver:"+userID).Err(); err != nil {
		log.Printf("⚠️ Stats cache invalidate for %s: %v", userID, err)
	}
}

func (s *StatisticsService) cacheKey(ctx context.Context, userID, suffix string) string {
	ver, err := s.cache.Get(ctx, "stats:ver:"+userID).Int64()
	if err != nil && err != redis.Nil {
		log.Printf("⚠️ Stats cache version for %s: %v", userID, err)
	}
	return fmt.Sprintf("stats:%s:%d:%s", userID, ver, suffix)
}

func cacheFetch[T any](ctx context.Context, s *StatisticsService, userID, suffix string, compute func() (T, error)) (T, error) {
	if s.cache == nil {
		return compute()
	}

	key := s.cacheKey(ctx, userID, suffix)
	if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	result, err := compute()
	if err != nil {
		return result, err
	}

	if raw, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, raw, statsCacheTTL).Err(); err != nil {
			log.Printf("⚠️ Stats cache set %s: %v", key, err)
		}
	}
	return result, nil
}

// ApplyPercents fills each breakdown's share of total, rounded to two
// decimals. A non-positive total leaves everything at zero.
func ApplyPercents(items []models.CategoryBreakdown, total decimal.Decimal) {
	if !total.IsPositive() {
		return
	}
	for i := range items {
		pct, _ := items[i].Total.Div(total).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		items[i].Percent = pct
	}
}

func (s *StatisticsService) breakdownByCategory(ctx context.Context, table, dateColumn, userID string, from, to time.Time) ([]models.CategoryBreakdown, decimal.Decimal, error) {
	query := fmt.Sprintf(`
		SELECT t.category_id, COALESCE(c.name, 'Uncategorized'), SUM(t.amount)
		FROM %s t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.%s >= $2 AND t.%s <= $3
		GROUP BY t.category_id, c.name
		ORDER BY SUM(t.amount) DESC
	`, table, dateColumn, dateColumn)

	rows, err := s.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer rows.Close()

	var items []models.CategoryBreakdown
	total := decimal.Zero
	for rows.Next() {
		var item models.CategoryBreakdown
		if err := rows.Scan(&item.CategoryID, &item.CategoryName, &item.Total); err != nil {
			return nil, decimal.Zero, err
		}
		total = total.Add(item.Total)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, decimal.Zero, err
	}

	ApplyPercents(items, total)
	return items, total, nil
}

func (s *StatisticsService) totalsByDay(ctx context.Context, table, dateColumn, userID string, from, to time.Time) ([]models.DailyTotal, error) {
	query := fmt.Sprintf(`
		SELECT %s, SUM(amount)
		FROM %s
		WHERE user_id = $1 AND %s >= $2 AND %s <= $3
		GROUP BY %s
		ORDER BY %s
	`, dateColumn, table, dateColumn, dateColumn, dateColumn, dateColumn)

	rows, err := s.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []models.DailyTotal
	for rows.Next() {
		var d models.DailyTotal
		if err := rows.Scan(&d.Date, &d.Total); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// Range aggregates both sides of the ledger over [from, to] on a
// received/spent-date basis.
func (s *StatisticsService) Range(ctx context.Context, userID string, from, to time.Time) (models.RangeStatistics, error) {
	suffix := fmt.Sprintf("range:%s:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))

	return cacheFetch(ctx, s, userID, suffix, func() (models.RangeStatistics, error) {
		stats := models.RangeStatistics{From: from, To: to}

		var err error
		if stats.IncomeByCategory, stats.TotalIncome, err = s.breakdownByCategory(ctx, "incomes", "received_on", userID, from, to); err != nil {
			return stats, err
		}
		if stats.ExpenseByCategory, stats.TotalExpense, err = s.breakdownByCategory(ctx, "expenses", "spent_on", userID, from, to); err != nil {
			return stats, err
		}
		if stats.IncomeByDay, err = s.totalsByDay(ctx, "incomes", "received_on", userID, from, to); err != nil {
			return stats, err
		}
		if stats.ExpenseByDay, err = s.totalsByDay(ctx, "expenses", "spent_on", userID, from, to); err != nil {
			return stats, err
		}
		return stats, nil
	})
}

// Monthly returns one entry per calendar month of year. Income groups
// by its (month, year) attribution pair, expense by spend date.
func (s *StatisticsService) Monthly(ctx context.Context, userID string, year int) ([]models.MonthlyTotal, error) {
	suffix := fmt.Sprintf("monthly:%d", year)

	return cacheFetch(ctx, s, userID, suffix, func() ([]models.MonthlyTotal, error) {
		months := make([]models.MonthlyTotal, 12)
		for i := range months {
			months[i] = models.MonthlyTotal{Month: i + 1, Income: decimal.Zero, Expense: decimal.Zero}
		}

		rows, err := s.db.QueryContext(ctx, `
			SELECT month, SUM(amount) FROM incomes
			WHERE user_id = $1 AND year = $2
			GROUP BY month
		`, userID, year)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var month int
			var total decimal.Decimal
			if err := rows.Scan(&month, &total); err != nil {
				rows.Close()
				return nil, err
			}
			if month >= 1 && month <= 12 {
				months[month-1].Income = total
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		rows, err = s.db.QueryContext(ctx, `
			SELECT EXTRACT(MONTH FROM spent_on)::int, SUM(amount) FROM expenses
			WHERE user_id = $1 AND EXTRACT(YEAR FROM spent_on) = $2
			GROUP BY 1
		`, userID, year)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var month int
			var total decimal.Decimal
			if err := rows.Scan(&month, &total); err != nil {
				rows.Close()
				return nil, err
			}
			if month >= 1 && month <= 12 {
				months[month-1].Expense = total
			}
		}
		rows.Close()
		return months, rows.Err()
	})
}

// Trend returns total spending for each of the last n months,
// including empty months, oldest first.
func (s *StatisticsService) Trend(ctx context.Context, userID string, n int) ([]models.TrendPoint, error) {
	if n <= 0 {
		n = 6
	}
	suffix := fmt.Sprintf("trend:%d", n)

	return cacheFetch(ctx, s, userID, suffix, func() ([]models.TrendPoint, error) {
		now := time.Now()
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)

		points := make([]models.TrendPoint, n)
		index := make(map[string]int, n)
		for i := 0; i < n; i++ {
			m := first.AddDate(0, i, 0)
			points[i] = models.TrendPoint{Year: m.Year(), Month: int(m.Month()), Total: decimal.Zero}
			index[fmt.Sprintf("%d-%d", m.Year(), int(m.Month()))] = i
		}

		rows, err := s.db.QueryContext(ctx, `
			SELECT EXTRACT(YEAR FROM spent_on)::int, EXTRACT(MONTH FROM spent_on)::int, SUM(amount)
			FROM expenses
			WHERE user_id = $1 AND spent_on >= $2
			GROUP BY 1, 2
		`, userID, first)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		for rows.Next() {
			var year, month int
			var total decimal.Decimal
			if err := rows.Scan(&year, &month, &total); err != nil {
				return nil, err
			}
			if i, ok := index[fmt.Sprintf("%d-%d", year, month)]; ok {
				points[i].Total = total
			}
		}
		return points, rows.Err()
	})
}

// HomeSummary builds the dashboard: current-month position, recent
// activity, nearest goals and budgets at or past 80% usage.
func (s *StatisticsService) HomeSummary(ctx context.Context, userID string) (models.HomeSummary, error) {
	now := time.Now()
	first, next := monthRange(now)

	summary := models.HomeSummary{
		MonthIncome:  decimal.Zero,
		MonthExpense: decimal.Zero,
		Balance:      decimal.Zero,
	}

	if err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM incomes
		WHERE user_id = $1 AND month = $2 AND year = $3
	`, userID, int(now.Month()), now.Year()).Scan(&summary.MonthIncome); err != nil {
		return summary, err
	}

	if err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM expenses
		WHERE user_id = $1 AND spent_on >= $2 AND spent_on < $3
	`, userID, first, next).Scan(&summary.MonthExpense); err != nil {
		return summary, err
	}

	summary.Balance = summary.MonthIncome.Sub(summary.MonthExpense)
	if summary.MonthIncome.IsPositive() {
		ratio, _ := summary.MonthExpense.Div(summary.MonthIncome).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		summary.SpendRatio = ratio
	}

	expenses, err := s.recentExpenses(ctx, userID, 5)
	if err != nil {
		return summary, err
	}
	summary.RecentExpenses = expenses

	incomes, err := s.recentIncomes(ctx, userID, 5)
	if err != nil {
		return summary, err
	}
	summary.RecentIncomes = incomes

	goals, err := s.nearestGoals(ctx, userID, 3)
	if err != nil {
		return summary, err
	}
	summary.NearestGoals = goals

	statuses, err := s.budgets.StatusesForMonth(ctx, userID, int(now.Month()), now.Year())
	if err != nil {
		return summary, err
	}
	for _, st := range statuses {
		if st.UsedPercent >= 80 {
			summary.BudgetsAtRisk = append(summary.BudgetsAtRisk, st)
		}
	}

	return summary, nil
}

func (s *StatisticsService) recentExpenses(ctx context.Context, userID string, limit int) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.user_id, e.category_id, COALESCE(c.name, ''), e.amount, e.spent_on, COALESCE(e.note, ''), e.created_at
		FROM expenses e
		LEFT JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = $1
		ORDER BY e.spent_on DESC, e.created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.CategoryID, &e.CategoryName, &e.Amount, &e.SpentOn, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *StatisticsService) recentIncomes(ctx context.Context, userID string, limit int) ([]models.Income, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.user_id, i.category_id, COALESCE(c.name, ''), i.amount, i.received_on, i.month, i.year, COALESCE(i.note, ''), i.created_at
		FROM incomes i
		LEFT JOIN categories c ON c.id = i.category_id
		WHERE i.user_id = $1
		ORDER BY i.received_on DESC, i.created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incomes []models.Income
	for rows.Next() {
		var in models.Income
		if err := rows.Scan(&in.ID, &in.UserID, &in.CategoryID, &in.CategoryName, &in.Amount, &in.ReceivedOn, &in.Month, &in.Year, &in.Note, &in.CreatedAt); err != nil {
			return nil, err
		}
		incomes = append(incomes, in)
	}
	return incomes, rows.Err()
}

func (s *StatisticsService) nearestGoals(ctx context.Context, userID string, limit int) ([]models.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, target, saved, deadline, created_at
		FROM goals
		WHERE user_id = $1
		ORDER BY deadline ASC NULLS LAST
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Target, &g.Saved, &g.Deadline, &g.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}
