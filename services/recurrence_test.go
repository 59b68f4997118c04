package services

import (
	"testing"
	"time"

	"github.com/tdnguyen-dev/moneykeeper/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseReminder() models.Reminder {
	return models.Reminder{
		ID:      "base",
		UserID:  "u1",
		Content: "pay rent",
		Kind:    models.ReminderKindOther,
		FireAt:  time.Date(2026, time.August, 15, 9, 0, 0, 0, time.UTC),
	}
}

func TestExpandRecurringDaily(t *testing.T) {
	series := ExpandRecurring(baseReminder(), "daily", 1)

	require.Len(t, series, 30)
	assert.Equal(t, time.Date(2026, time.August, 16, 9, 0, 0, 0, time.UTC), series[0].FireAt)
	assert.Equal(t, time.Date(2026, time.September, 14, 9, 0, 0, 0, time.UTC), series[29].FireAt)
}

func TestExpandRecurringWeeklyStep(t *testing.T) {
	series := ExpandRecurring(baseReminder(), "weekly", 2)

	require.Len(t, series, 12)
	assert.Equal(t, time.Date(2026, time.August, 29, 9, 0, 0, 0, time.UTC), series[0].FireAt)
}

func TestExpandRecurringMonthly(t *testing.T) {
	series := ExpandRecurring(baseReminder(), "monthly", 1)

	require.Len(t, series, 12)
	assert.Equal(t, time.Date(2026, time.September, 15, 9, 0, 0, 0, time.UTC), series[0].FireAt)
	assert.Equal(t, time.Date(2027, time.August, 15, 9, 0, 0, 0, time.UTC), series[11].FireAt)
}

func TestExpandRecurringExcludesBase(t *testing.T) {
	base := baseReminder()
	series := ExpandRecurring(base, "daily", 1)

	for _, r := range series {
		assert.NotEqual(t, base.FireAt, r.FireAt)
		assert.NotEqual(t, base.ID, r.ID, "occurrences need their own ids")
		assert.Equal(t, base.Content, r.Content)
	}
}

func TestExpandRecurringNone(t *testing.T) {
	assert.Empty(t, ExpandRecurring(baseReminder(), "none", 1))
	assert.Empty(t, ExpandRecurring(baseReminder(), "daily", 0))
}
