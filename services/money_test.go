package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{5, "5"},
		{999, "999"},
		{1000, "1.000"},
		{45000, "45.000"},
		{1100000, "1.100.000"},
		{1234567890, "1.234.567.890"},
		{-45000, "-45.000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(decimal.NewFromInt(tt.in)))
	}
}

func TestFormatAmountRoundsFractions(t *testing.T) {
	assert.Equal(t, "1.000", FormatAmount(decimal.NewFromFloat(999.5)))
	assert.Equal(t, "999", FormatAmount(decimal.NewFromFloat(999.4)))
}

func TestFormatVND(t *testing.T) {
	assert.Equal(t, "1.100.000 VND", FormatVND(decimal.NewFromInt(1100000)))
}
