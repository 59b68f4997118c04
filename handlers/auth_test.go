package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextLockout(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

	for prior := 0; prior < 3; prior++ {
		failed, lockedUntil := nextLockout(prior, now)
		assert.Equal(t, prior+1, failed)
		assert.Nil(t, lockedUntil, "failure %d must not lock yet", prior+1)
	}

	failed, lockedUntil := nextLockout(4, now)
	assert.Equal(t, 5, failed)
	require.NotNil(t, lockedUntil, "fifth failure locks the account")
	assert.Equal(t, now.Add(15*time.Minute), *lockedUntil)

	// Failures past the threshold keep extending the lock.
	_, lockedUntil = nextLockout(5, now)
	require.NotNil(t, lockedUntil)
}
