package services

import (
	"testing"

	"github.com/tdnguyen-dev/moneykeeper/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestApplyPercents(t *testing.T) {
	items := []models.CategoryBreakdown{
		{CategoryName: "Food", Total: d(750)},
		{CategoryName: "Rent", Total: d(250)},
	}

	ApplyPercents(items, d(1000))

	assert.Equal(t, 75.0, items[0].Percent)
	assert.Equal(t, 25.0, items[1].Percent)
}

func TestApplyPercentsRounding(t *testing.T) {
	items := []models.CategoryBreakdown{{Total: d(1)}}

	ApplyPercents(items, d(3))

	assert.Equal(t, 33.33, items[0].Percent)
}

func TestApplyPercentsZeroTotal(t *testing.T) {
	items := []models.CategoryBreakdown{{Total: d(100), Percent: 0}}

	ApplyPercents(items, decimal.Zero)

	assert.Equal(t, 0.0, items[0].Percent)
}
