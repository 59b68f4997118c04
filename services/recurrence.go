package services

import (
	"time"

	"github.com/tdnguyen-dev/moneykeeper/models"

	"github.com/google/uuid"
)

// Occurrence counts per repeat mode: daily repeats cover a month,
// weekly a quarter, monthly a year.
var recurrenceCounts = map[string]int{
	"daily":   30,
	"weekly":  12,
	"monthly": 12,
}

// ExpandRecurring returns the follow-up occurrences of a recurring
// reminder, stepped by every units after the base fire time. The base
// reminder itself is not included. "none" or an unknown mode expands
// to nothing.
func ExpandRecurring(base models.Reminder, repeat string, every int) []models.Reminder {
	count, ok := recurrenceCounts[repeat]
	if !ok || every <= 0 {
		return nil
	}

	occurrences := make([]models.Reminder, 0, count)
	for i := 1; i <= count; i++ {
		var fireAt time.Time
		switch repeat {
		case "daily":
			fireAt = base.FireAt.AddDate(0, 0, i*every)
		case "weekly":
			fireAt = base.FireAt.AddDate(0, 0, i*7*every)
		case "monthly":
			fireAt = base.FireAt.AddDate(0, i*every, 0)
		}

		occurrences = append(occurrences, models.Reminder{
			ID:        uuid.New().String(),
			UserID:    base.UserID,
			Content:   base.Content,
			FireAt:    fireAt,
			Kind:      base.Kind,
			CreatedAt: base.CreatedAt,
		})
	}
	return occurrences
}
