package services

import (
	"sort"

	"github.com/tdnguyen-dev/moneykeeper/models"

	"github.com/shopspring/decimal"
)

// GoalAllocation is one goal's share of an allocation pass.
// Completed is set only when this pass takes the goal from below its
// target to at or above it, so completion reminders fire once per
// crossing.
type GoalAllocation struct {
	Goal      models.Goal
	Added     decimal.Decimal
	NewSaved  decimal.Decimal
	Completed bool
}

// PlanAllocations distributes surplus greedily across goals ordered
// by nearest deadline, goals without a deadline last. Each goal gets
// min(target-saved, remaining); already-saturated goals get nothing.
// The sum of Added never exceeds surplus. Pure: callers persist the
// result.
func PlanAllocations(surplus decimal.Decimal, goals []models.Goal) []GoalAllocation {
	if !surplus.IsPositive() || len(goals) == 0 {
		return nil
	}

	ordered := make([]models.Goal, len(goals))
	copy(ordered, goals)
	sort.SliceStable(ordered, func(i, j int) bool {
		di, dj := ordered[i].Deadline, ordered[j].Deadline
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return di.Before(*dj)
	})

	remaining := surplus
	var plan []GoalAllocation

	for _, goal := range ordered {
		if !remaining.IsPositive() {
			break
		}

		needed := goal.Target.Sub(goal.Saved)
		if !needed.IsPositive() {
			continue
		}

		added := decimal.Min(needed, remaining)
		remaining = remaining.Sub(added)
		newSaved := goal.Saved.Add(added)

		plan = append(plan, GoalAllocation{
			Goal:      goal,
			Added:     added,
			NewSaved:  newSaved,
			Completed: !goal.Completed() && goal.Target.IsPositive() && newSaved.GreaterThanOrEqual(goal.Target),
		})
	}

	return plan
}
