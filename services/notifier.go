package services

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"
)

const defaultNotifierInterval = 5 * time.Minute

// ReminderNotifier is the background poller: every interval it emails
// reminders about to fire and warns users whose current-month budgets
// sit between 80% and 100% used. It never stops on error; only
// context cancellation ends the loop.
type ReminderNotifier struct {
	db       *sql.DB
	budgets  *BudgetService
	email    *EmailService
	interval time.Duration
}

func NewReminderNotifier(db *sql.DB, budgets *BudgetService, email *EmailService) *ReminderNotifier {
	interval := defaultNotifierInterval
	if v := os.Getenv("NOTIFIER_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			interval = d
		}
	}

	return &ReminderNotifier{
		db:       db,
		budgets:  budgets,
		email:    email,
		interval: interval,
	}
}

func (n *ReminderNotifier) Run(ctx context.Context) {
	log.Printf("🔔 Reminder notifier starting (interval %s)", n.interval)

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		n.runCycle(ctx)

		select {
		case <-ctx.Done():
			log.Println("🔔 Reminder notifier stopping")
			return
		case <-ticker.C:
		}
	}
}

// runCycle runs both passes. Each pass traps its own error so a bad
// cycle only costs one tick.
func (n *ReminderNotifier) runCycle(ctx context.Context) {
	if !n.email.Enabled() {
		return
	}
	if err := n.checkDueReminders(ctx); err != nil {
		log.Printf("❌ Notifier: reminder pass failed: %v", err)
	}
	if err := n.checkBudgetWarnings(ctx); err != nil {
		log.Printf("❌ Notifier: budget pass failed: %v", err)
	}
}

// InWindow reports whether fireAt falls inside the notifier's send
// window [now, now+interval].
func InWindow(fireAt, now time.Time, interval time.Duration) bool {
	return !fireAt.Before(now) && !fireAt.After(now.Add(interval))
}

// InWarningBand reports whether a budget usage percentage warrants a
// warning email: at least 80% used but not yet over the cap.
func InWarningBand(percent float64) bool {
	return percent >= 80 && percent < 100
}

func (n *ReminderNotifier) checkDueReminders(ctx context.Context) error {
	now := time.Now()

	rows, err := n.db.QueryContext(ctx, `
		SELECT r.id, r.content, r.fire_at, COALESCE(r.kind, 'Other'),
		       u.email, COALESCE(NULLIF(u.full_name, ''), u.username)
		FROM reminders r
		JOIN users u ON u.id = r.user_id
		WHERE r.fire_at >= $1 AND r.fire_at <= $2
		  AND u.email IS NOT NULL AND u.email <> ''
	`, now, now.Add(n.interval))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, content, kind, email, name string
		var fireAt time.Time
		if err := rows.Scan(&id, &content, &fireAt, &kind, &email, &name); err != nil {
			log.Printf("❌ Notifier: scanning reminder: %v", err)
			continue
		}

		if err := n.email.SendReminderNotification(ctx, email, name, content, fireAt, kind); err != nil {
			log.Printf("❌ Notifier: sending reminder %s: %v", id, err)
			continue
		}
		log.Printf("📧 Sent reminder email %s to %s", id, email)
	}
	return rows.Err()
}

// checkBudgetWarnings re-derives spend-to-cap for every user's
// current-month budgets. Unlike the post-expense reconcile, this only
// emails; no reminder row is written.
func (n *ReminderNotifier) checkBudgetWarnings(ctx context.Context) error {
	now := time.Now()

	rows, err := n.db.QueryContext(ctx, `
		SELECT id, email, COALESCE(NULLIF(full_name, ''), username)
		FROM users
		WHERE email IS NOT NULL AND email <> ''
	`)
	if err != nil {
		return err
	}

	type target struct{ id, email, name string }
	var users []target
	for rows.Next() {
		var t target
		if err := rows.Scan(&t.id, &t.email, &t.name); err != nil {
			rows.Close()
			return err
		}
		users = append(users, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, user := range users {
		statuses, err := n.budgets.StatusesForMonth(ctx, user.id, int(now.Month()), now.Year())
		if err != nil {
			log.Printf("❌ Notifier: budgets for user %s: %v", user.id, err)
			continue
		}

		for _, st := range statuses {
			if !InWarningBand(st.UsedPercent) {
				continue
			}

			if err := n.email.SendBudgetWarning(ctx, user.email, user.name, st.Budget.CategoryName, st.Spent, st.Budget.Cap); err != nil {
				log.Printf("❌ Notifier: budget warning for user %s category %s: %v", user.id, st.Budget.CategoryName, err)
				continue
			}
			log.Printf("📧 Sent budget warning to %s (%s at %.1f%%)", user.email, st.Budget.CategoryName, st.UsedPercent)
		}
	}
	return nil
}
