package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Goal struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Target    decimal.Decimal `json:"target"`
	Saved     decimal.Decimal `json:"saved"`
	Deadline  *time.Time      `json:"deadline,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Percent returns the completion percentage, capped at 100.
// A non-positive target reports 0.
func (g Goal) Percent() int {
	if !g.Target.IsPositive() {
		return 0
	}
	pct := g.Saved.Div(g.Target).Mul(decimal.NewFromInt(100)).Round(0)
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return 100
	}
	p := pct.IntPart()
	if p < 0 {
		return 0
	}
	return int(p)
}

func (g Goal) Completed() bool {
	return g.Target.IsPositive() && g.Saved.GreaterThanOrEqual(g.Target)
}

type GoalRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Target   string `json:"target" binding:"required"`
	Saved    string `json:"saved"`
	Deadline string `json:"deadline"` // YYYY-MM-DD, empty for none
}

type AddSavingsRequest struct {
	Amount string `json:"amount" binding:"required"`
}
