package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandGoalsSimple(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)

	gs := GoalSet{
		"read": {ID: "read", Title: "Read", MinDuration: 1, Repetition: Repetition{Kind: RepDaily, N: 1}},
	}

	activities, err := ExpandGoals(gs, []string{"read"}, start, end)
	require.NoError(t, err)
	assert.Len(t, activities, 2) // one per day
	for _, a := range activities {
		assert.Equal(t, "read", a.GoalID)
		assert.Equal(t, 1, a.DurationLeft)
		assert.Equal(t, ReadyToSchedule, a.Status)
	}
}

func TestExpandGoalsSkipsZeroDurationContainer(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	gs := GoalSet{
		"parent": {ID: "parent", Title: "Parent", Children: []string{"child"}},
		"child":  {ID: "child", Title: "Child", MinDuration: 2},
	}

	activities, err := ExpandGoals(gs, []string{"parent"}, start, end)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "child", activities[0].GoalID)
}

func TestExpandGoalsBudgetSynthesizesPerDay(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)

	gs := GoalSet{
		"fitness": {
			ID: "fitness", Title: "Fitness", Children: []string{"run"},
			BudgetConfig: &BudgetConfig{MinPerDay: intPtr(1), MaxPerDay: intPtr(3)},
		},
		"run": {ID: "run", Title: "Run"},
	}

	activities, err := ExpandGoals(gs, []string{"fitness"}, start, end)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	for _, a := range activities {
		assert.Equal(t, BudgetActivity, a.ActivityType)
		assert.Equal(t, 1, a.DurationLeft)
	}
}

func TestExpandGoalsRespectsStartAndDeadline(t *testing.T) {
	calStart := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	calEnd := calStart.AddDate(0, 0, 5)
	goalStart := calStart.AddDate(0, 0, 1)
	goalDeadline := calStart.AddDate(0, 0, 2)

	gs := GoalSet{
		"report": {ID: "report", Title: "Report", MinDuration: 3, Start: &goalStart, Deadline: &goalDeadline},
	}

	activities, err := ExpandGoals(gs, []string{"report"}, calStart, calEnd)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.True(t, !activities[0].CandidateWindows.Slots()[0].Start.Before(goalStart))
}

func TestExpandGoalsInvalidDeadlineBeforeStart(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	badStart := start.AddDate(0, 0, 2)
	badDeadline := start.AddDate(0, 0, 1)

	gs := GoalSet{
		"bad": {ID: "bad", Title: "Bad", MinDuration: 1, Start: &badStart, Deadline: &badDeadline},
	}

	_, err := ExpandGoals(gs, []string{"bad"}, start, end)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
