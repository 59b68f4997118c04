package handlers

import (
	"testing"
	"time"

	"github.com/tdnguyen-dev/moneykeeper/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	parsed, err := parseDate("2026-08-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC), parsed)

	_, err = parseDate("15/08/2026")
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	amount, err := parseAmount("45000")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(45000)))

	_, err = parseAmount("0")
	assert.Error(t, err, "amounts must be positive")

	_, err = parseAmount("-100")
	assert.Error(t, err)

	_, err = parseAmount("abc")
	assert.Error(t, err)
}

func TestParseCap(t *testing.T) {
	capAmount, err := parseCap("0")
	require.NoError(t, err, "a zero cap is a tracked but unlimited budget")
	assert.True(t, capAmount.IsZero())

	_, err = parseCap("-1")
	assert.Error(t, err)
}

func TestAttributionDefaultsToReceivedDate(t *testing.T) {
	receivedOn := time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)

	month, year := attribution(models.IncomeRequest{}, receivedOn)
	assert.Equal(t, 8, month)
	assert.Equal(t, 2026, year)
}

func TestAttributionExplicitOverride(t *testing.T) {
	// Salary paid on the 28th for the following month.
	receivedOn := time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)
	m, y := 9, 2026

	month, year := attribution(models.IncomeRequest{Month: &m, Year: &y}, receivedOn)
	assert.Equal(t, 9, month)
	assert.Equal(t, 2026, year)
}
