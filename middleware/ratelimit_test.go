package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("1.2.3.4", now)
		assert.True(t, ok, "request %d should pass", i+1)
	}

	ok, retryAfter := rl.Allow("1.2.3.4", now)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retryAfter)
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	now := time.Now()

	ok, _ := rl.Allow("1.1.1.1", now)
	assert.True(t, ok)

	ok, _ = rl.Allow("2.2.2.2", now)
	assert.True(t, ok, "a second IP has its own budget")

	ok, _ = rl.Allow("1.1.1.1", now)
	assert.False(t, ok)
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	now := time.Now()

	ok, _ := rl.Allow("1.2.3.4", now)
	assert.True(t, ok)
	ok, _ = rl.Allow("1.2.3.4", now)
	assert.False(t, ok)

	ok, _ = rl.Allow("1.2.3.4", now.Add(time.Minute+time.Second))
	assert.True(t, ok, "a fresh window starts after reset")
}
