package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount the way the UI shows VND: rounded to
// whole dong, thousands grouped with dots ("1.100.000").
func FormatAmount(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// FormatVND is FormatAmount with the currency suffix used in
// reminders and emails.
func FormatVND(d decimal.Decimal) string {
	return FormatAmount(d) + " VND"
}
