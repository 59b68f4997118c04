package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tdnguyen-dev/moneykeeper/models"
	"github.com/tdnguyen-dev/moneykeeper/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalService distributes a user's surplus (all-time income minus
// all-time expense) across their savings goals. The whole pass runs
// in one transaction behind a per-user advisory lock, so two requests
// mutating the same user's money cannot interleave goal updates.
type GoalService struct {
	db *sql.DB
}

func NewGoalService(db *sql.DB) *GoalService {
	return &GoalService{db: db}
}

func goalReachedContent(name string, target decimal.Decimal) string {
	return fmt.Sprintf("Congratulations! You completed the goal %q with %s.", name, FormatVND(target))
}

// Reallocate recomputes the all-time surplus from scratch and walks
// open goals by nearest deadline, topping each up with min(needed,
// remaining). The surplus is not banked anywhere; it is re-derived on
// every call, and the crossing check keeps reruns from duplicating
// completion reminders. Returns the completion reminders created in
// this pass.
func (s *GoalService) Reallocate(ctx context.Context, userID string) ([]models.Reminder, error) {
	var created []models.Reminder

	err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
			return err
		}

		var income, expense decimal.Decimal
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(amount), 0) FROM incomes WHERE user_id = $1`, userID,
		).Scan(&income); err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = $1`, userID,
		).Scan(&expense); err != nil {
			return err
		}

		surplus := income.Sub(expense)
		if !surplus.IsPositive() {
			return nil
		}

		rows, err := tx.QueryContext(ctx, `
			SELECT id, user_id, name, target, saved, deadline, created_at
			FROM goals
			WHERE user_id = $1 AND (deadline IS NULL OR deadline >= CURRENT_DATE)
			ORDER BY deadline ASC NULLS LAST
			FOR UPDATE
		`, userID)
		if err != nil {
			return err
		}

		var goals []models.Goal
		for rows.Next() {
			var g models.Goal
			if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Target, &g.Saved, &g.Deadline, &g.CreatedAt); err != nil {
				rows.Close()
				return err
			}
			goals = append(goals, g)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, alloc := range PlanAllocations(surplus, goals) {
			if _, err := tx.ExecContext(ctx,
				`UPDATE goals SET saved = $1 WHERE id = $2`, alloc.NewSaved, alloc.Goal.ID,
			); err != nil {
				return err
			}

			if !alloc.Completed {
				continue
			}

			reminder := models.Reminder{
				ID:        uuid.New().String(),
				UserID:    userID,
				Content:   goalReachedContent(alloc.Goal.Name, alloc.Goal.Target),
				FireAt:    time.Now(),
				Kind:      models.ReminderKindGoalReached,
				CreatedAt: time.Now(),
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO reminders (id, user_id, content, fire_at, kind, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, reminder.ID, reminder.UserID, reminder.Content, reminder.FireAt, reminder.Kind, reminder.CreatedAt); err != nil {
				return err
			}
			created = append(created, reminder)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// AddSavings tops a goal up by hand. The completion reminder fires
// only when this deposit crosses the target.
func (s *GoalService) AddSavings(ctx context.Context, userID, goalID string, amount decimal.Decimal) (*models.Goal, *models.Reminder, error) {
	var goal models.Goal
	var reminder *models.Reminder

	err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			SELECT id, user_id, name, target, saved, deadline, created_at
			FROM goals
			WHERE id = $1 AND user_id = $2
			FOR UPDATE
		`, goalID, userID).Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.Target, &goal.Saved, &goal.Deadline, &goal.CreatedAt)
		if err != nil {
			return err
		}

		wasComplete := goal.Completed()
		goal.Saved = goal.Saved.Add(amount)

		if _, err := tx.ExecContext(ctx,
			`UPDATE goals SET saved = $1 WHERE id = $2`, goal.Saved, goal.ID,
		); err != nil {
			return err
		}

		if !wasComplete && goal.Completed() {
			r := models.Reminder{
				ID:        uuid.New().String(),
				UserID:    userID,
				Content:   goalReachedContent(goal.Name, goal.Target),
				FireAt:    time.Now(),
				Kind:      models.ReminderKindGoalReached,
				CreatedAt: time.Now(),
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO reminders (id, user_id, content, fire_at, kind, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, r.ID, r.UserID, r.Content, r.FireAt, r.Kind, r.CreatedAt); err != nil {
				return err
			}
			reminder = &r
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &goal, reminder, nil
}
