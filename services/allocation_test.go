package services

import (
	"testing"
	"time"

	"github.com/tdnguyen-dev/moneykeeper/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func goal(name string, target, saved int64, deadline *time.Time) models.Goal {
	return models.Goal{
		ID:       name,
		Name:     name,
		Target:   d(target),
		Saved:    d(saved),
		Deadline: deadline,
	}
}

func datePtr(y int, m time.Month, day int) *time.Time {
	t := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestPlanAllocationsFillsNearestDeadlineFirst(t *testing.T) {
	goals := []models.Goal{
		goal("later", 1000, 0, datePtr(2026, time.December, 1)),
		goal("sooner", 1000, 0, datePtr(2026, time.September, 1)),
	}

	allocs := PlanAllocations(d(1200), goals)

	require.Len(t, allocs, 2)
	assert.Equal(t, "sooner", allocs[0].Goal.Name)
	assert.True(t, allocs[0].Added.Equal(d(1000)))
	assert.Equal(t, "later", allocs[1].Goal.Name)
	assert.True(t, allocs[1].Added.Equal(d(200)))
}

func TestPlanAllocationsDeadlinedBeforeOpenEnded(t *testing.T) {
	goals := []models.Goal{
		goal("open", 500, 0, nil),
		goal("dated", 500, 0, datePtr(2027, time.January, 1)),
	}

	allocs := PlanAllocations(d(600), goals)

	require.Len(t, allocs, 2)
	assert.Equal(t, "dated", allocs[0].Goal.Name)
	assert.Equal(t, "open", allocs[1].Goal.Name)
	assert.True(t, allocs[1].Added.Equal(d(100)))
}

func TestPlanAllocationsNeverExceedsSurplus(t *testing.T) {
	goals := []models.Goal{
		goal("a", 1000, 0, nil),
		goal("b", 1000, 0, nil),
	}

	allocs := PlanAllocations(d(300), goals)

	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Added)
	}
	assert.True(t, total.Equal(d(300)))
}

func TestPlanAllocationsSkipsFinishedGoals(t *testing.T) {
	goals := []models.Goal{
		goal("done", 1000, 1000, nil),
		goal("open", 1000, 0, nil),
	}

	allocs := PlanAllocations(d(500), goals)

	require.Len(t, allocs, 1)
	assert.Equal(t, "open", allocs[0].Goal.Name)
}

func TestPlanAllocationsCompletionOnlyOnCrossing(t *testing.T) {
	goals := []models.Goal{
		goal("crossing", 1000, 800, nil),
		goal("partial", 1000, 0, nil),
	}

	allocs := PlanAllocations(d(700), goals)

	require.Len(t, allocs, 2)
	assert.True(t, allocs[0].Completed, "goal filled to target should complete")
	assert.True(t, allocs[0].NewSaved.Equal(d(1000)))
	assert.False(t, allocs[1].Completed, "partially filled goal must not complete")
	assert.True(t, allocs[1].NewSaved.Equal(d(500)))
}

func TestPlanAllocationsNoSurplusNoAllocations(t *testing.T) {
	goals := []models.Goal{goal("a", 1000, 0, nil)}

	assert.Empty(t, PlanAllocations(decimal.Zero, goals))
	assert.Empty(t, PlanAllocations(d(-200), goals))
}

// A goal needing one million more than its savings, with a two million
// surplus: the goal finishes exactly at its target and reports
// completion once.
func TestPlanAllocationsFiveMillionTarget(t *testing.T) {
	goals := []models.Goal{goal("tet", 5_000_000, 4_000_000, nil)}

	allocs := PlanAllocations(d(2_000_000), goals)

	require.Len(t, allocs, 1)
	assert.True(t, allocs[0].Added.Equal(d(1_000_000)))
	assert.True(t, allocs[0].NewSaved.Equal(d(5_000_000)))
	assert.True(t, allocs[0].Completed)
}

func TestPlanAllocationsDoesNotMutateInput(t *testing.T) {
	goals := []models.Goal{
		goal("b", 100, 0, datePtr(2027, time.June, 1)),
		goal("a", 100, 0, datePtr(2026, time.June, 1)),
	}

	PlanAllocations(d(50), goals)

	assert.Equal(t, "b", goals[0].Name, "caller's slice order must be preserved")
	assert.True(t, goals[0].Saved.Equal(decimal.Zero))
}
