package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGoalPercent(t *testing.T) {
	tests := []struct {
		name   string
		target int64
		saved  int64
		want   int
	}{
		{"empty", 1000, 0, 0},
		{"half", 1000, 500, 50},
		{"rounds", 3000, 1000, 33},
		{"exact", 1000, 1000, 100},
		{"capped at 100", 1000, 1500, 100},
		{"zero target", 0, 500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Goal{Target: decimal.NewFromInt(tt.target), Saved: decimal.NewFromInt(tt.saved)}
			assert.Equal(t, tt.want, g.Percent())
		})
	}
}

func TestGoalCompleted(t *testing.T) {
	assert.True(t, Goal{Target: decimal.NewFromInt(100), Saved: decimal.NewFromInt(100)}.Completed())
	assert.True(t, Goal{Target: decimal.NewFromInt(100), Saved: decimal.NewFromInt(150)}.Completed())
	assert.False(t, Goal{Target: decimal.NewFromInt(100), Saved: decimal.NewFromInt(99)}.Completed())
	assert.False(t, Goal{Target: decimal.Zero, Saved: decimal.NewFromInt(50)}.Completed(), "zero target never completes")
}
