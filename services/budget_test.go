package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// 700k already spent, a 400k expense incoming, 1M cap: the warning has
// to quote the projected total and the overage.
func TestOverageWarning(t *testing.T) {
	msg := OverageWarning("Groceries", 8, 2026, d(700_000), d(400_000), d(1_000_000))

	assert.Contains(t, msg, "Groceries")
	assert.Contains(t, msg, "8/2026")
	assert.Contains(t, msg, "700.000 VND")
	assert.Contains(t, msg, "400.000 VND")
	assert.Contains(t, msg, "1.100.000 VND")
	assert.Contains(t, msg, "1.000.000 VND")
	assert.Contains(t, msg, "over by 100.000 VND")
}

func TestOverageReminderContent(t *testing.T) {
	msg := overageReminderContent("Groceries", 8, 2026, d(1_100_000), d(1_000_000))

	assert.Contains(t, msg, "exceeded the Groceries budget for 8/2026")
	assert.Contains(t, msg, "1.100.000 VND")
	assert.Contains(t, msg, "1.000.000 VND")
}

func TestUsagePercent(t *testing.T) {
	assert.Equal(t, 50.0, UsagePercent(d(500), d(1000)))
	assert.Equal(t, 110.0, UsagePercent(d(1100), d(1000)))
	assert.Equal(t, 0.0, UsagePercent(d(500), decimal.Zero), "zero cap means no limit")
	assert.Equal(t, 33.33, UsagePercent(d(1), d(3)))
}
