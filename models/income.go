package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income carries two notions of period: the date the money actually
// arrived (ReceivedOn) and the accounting month it belongs to
// (Month/Year), which may differ for salaries paid early or late.
// Monthly groupings use the attribution pair; transaction lists and
// date-range statistics use ReceivedOn.
type Income struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	CategoryID   *string         `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	ReceivedOn   time.Time       `json:"received_on"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type IncomeRequest struct {
	CategoryID *string `json:"category_id"`
	Amount     string  `json:"amount" binding:"required"`
	ReceivedOn string  `json:"received_on" binding:"required"` // YYYY-MM-DD
	Month      *int    `json:"month" binding:"omitempty,min=1,max=12"`
	Year       *int    `json:"year" binding:"omitempty,min=2000,max=2100"`
	Note       string  `json:"note" binding:"max=200"`
}
