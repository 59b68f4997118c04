package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

// parseAmount validates the positive-decimal rule shared by expenses,
// incomes and savings deposits.
func parseAmount(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", value)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be greater than 0")
	}
	return d, nil
}

// parseCap allows zero: a zero cap tracks a category without warning.
func parseCap(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid cap %q", value)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("cap must not be negative")
	}
	return d, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

// conflictMessage is the retry message for update/delete races
// surfaced by the database.
const conflictMessage = "This record was changed or removed by someone else, please refresh and retry"
