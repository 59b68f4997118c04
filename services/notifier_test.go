package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInWindow(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	interval := 5 * time.Minute

	assert.True(t, InWindow(now, now, interval), "window start is inclusive")
	assert.True(t, InWindow(now.Add(3*time.Minute), now, interval))
	assert.True(t, InWindow(now.Add(5*time.Minute), now, interval), "window end is inclusive")
	assert.False(t, InWindow(now.Add(-time.Second), now, interval), "past reminders are not resent")
	assert.False(t, InWindow(now.Add(6*time.Minute), now, interval))
}

func TestInWarningBand(t *testing.T) {
	assert.False(t, InWarningBand(79.99))
	assert.True(t, InWarningBand(80))
	assert.True(t, InWarningBand(99.99))
	assert.False(t, InWarningBand(100), "overage is the reminder's job, not the warning email's")
	assert.False(t, InWarningBand(0))
}
