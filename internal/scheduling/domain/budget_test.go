package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestBudgetSetAddAndCap(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	gs := GoalSet{
		"parent": {ID: "parent", Children: []string{"a", "b"}, BudgetConfig: &BudgetConfig{MaxPerDay: intPtr(3)}},
		"a":      {ID: "a"},
		"b":      {ID: "b"},
	}

	hourTime := func(i int) time.Time { return start.Add(time.Duration(i) * time.Hour) }
	bs := NewBudgetSet(hourTime)
	require.NoError(t, bs.AddBudgetsFrom(gs, start, end))

	assert.True(t, bs.CanReserve("a", 0, 3))
	assert.False(t, bs.CanReserve("a", 0, 4))

	bs.Update("a", 0)
	bs.Update("a", 1)
	assert.True(t, bs.CanReserve("b", 2, 1))
	bs.Update("b", 2)
	assert.False(t, bs.CanReserve("a", 3, 1))

	excl := bs.ExclusionsFor("b")
	assert.Equal(t, 24, excl.TotalHours())
}

func TestBudgetSetParticipatingDescendants(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	gs := GoalSet{
		"root":  {ID: "root", Children: []string{"mid"}, BudgetConfig: &BudgetConfig{MaxPerDay: intPtr(2)}},
		"mid":   {ID: "mid", Children: []string{"leaf"}},
		"leaf":  {ID: "leaf"},
		"other": {ID: "other"},
	}

	bs := NewBudgetSet(func(i int) time.Time { return start.Add(time.Duration(i) * time.Hour) })
	require.NoError(t, bs.AddBudgetsFrom(gs, start, end))

	assert.True(t, bs.budgets[0].ParticipatingGoals["leaf"])
	assert.False(t, bs.budgets[0].ParticipatingGoals["other"])
}
