package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundtrip(t *testing.T) {
	token, err := GenerateAccessToken("user-123", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	_, err := ParseAccessToken("not-a-token")
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsTampered(t *testing.T) {
	token, err := GenerateAccessToken("user-123", "alice")
	require.NoError(t, err)

	_, err = ParseAccessToken(token + "x")
	assert.Error(t, err)
}
