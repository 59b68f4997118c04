package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryUsageInUse(t *testing.T) {
	assert.False(t, CategoryUsage{}.InUse())
	assert.True(t, CategoryUsage{Expenses: 1}.InUse())
	assert.True(t, CategoryUsage{Incomes: 2}.InUse())
	assert.True(t, CategoryUsage{Budgets: 1}.InUse())
}
