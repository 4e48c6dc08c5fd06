package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayWindowTimeline(start time.Time, days int) *Timeline {
	return InitializeTimeline(start, start.AddDate(0, 0, days))
}

func TestPlacerSchedulesSingleActivityFully(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	cal := NewCalendar(start, start.AddDate(0, 0, 1))

	candidate := dayWindowTimeline(start, 1)
	activities := []*Activity{
		NewActivity("read", "Read", SimpleGoal, 2, candidate, nil, 0),
	}

	p := NewPlacer(cal, activities)
	require.NoError(t, p.Run())

	assert.Equal(t, Scheduled, activities[0].Status)
	assert.Equal(t, 0, activities[0].DurationLeft)

	final := cal.Render()
	require.Len(t, final.Scheduled, 1)
	require.Len(t, final.Scheduled[0].Tasks, 2)
	assert.Equal(t, 2, final.Scheduled[0].Tasks[0].Duration)
	assert.Equal(t, "free", final.Scheduled[0].Tasks[1].GoalID)
	assert.Equal(t, 22, final.Scheduled[0].Tasks[1].Duration)
	assert.Empty(t, final.Impossible)
}

func TestPlacerPrefersLeastFlexActivity(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	cal := NewCalendar(start, start.AddDate(0, 0, 1))

	// "tight" has a 3-hour window and needs 2 hours: flex 1, so it is
	// picked before "loose" (flex 22) despite coming later in the list.
	tightWindow := InitializeTimeline(start, start.Add(3*time.Hour))
	tight := NewActivity("tight", "Tight", SimpleGoal, 2, tightWindow, nil, 0)

	looseWindow := dayWindowTimeline(start, 1)
	loose := NewActivity("loose", "Loose", SimpleGoal, 2, looseWindow, nil, 1)

	p := NewPlacer(cal, []*Activity{loose, tight})
	require.NoError(t, p.Run())

	assert.Equal(t, Scheduled, tight.Status)
	assert.Equal(t, Scheduled, loose.Status)

	// tight's block must fall inside its narrow 3-hour window.
	idx, err := cal.IndexOf(start)
	require.NoError(t, err)
	tightOccupiedByTight := false
	for i := idx; i < idx+3; i++ {
		if cal.hours[i].ActivityGoalID == "tight" {
			tightOccupiedByTight = true
		}
	}
	assert.True(t, tightOccupiedByTight)
}

func TestPlacerMarksImpossibleWhenNoRoom(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	cal := NewCalendar(start, start.AddDate(0, 0, 1))

	onlyHour := InitializeTimeline(start, start.Add(1*time.Hour))
	a := NewActivity("big", "Big", SimpleGoal, 3, onlyHour, nil, 0)

	p := NewPlacer(cal, []*Activity{a})
	require.NoError(t, p.Run())

	assert.Equal(t, Impossible, a.Status)
	final := cal.Render()
	require.Len(t, final.Impossible, 1)
	assert.Equal(t, "big", final.Impossible[0].GoalID)
	assert.Equal(t, 3, final.Impossible[0].HoursMissing)
}

func TestPlacerAfterGoalsOrdering(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	cal := NewCalendar(start, start.AddDate(0, 0, 1))

	window := InitializeTimeline(start, start.Add(4*time.Hour))
	first := NewActivity("draft", "Draft", SimpleGoal, 1, window.Clone(), nil, 0)
	second := NewActivity("edit", "Edit", SimpleGoal, 1, window.Clone(), []string{"draft"}, 1)

	p := NewPlacer(cal, []*Activity{first, second})
	require.NoError(t, p.Run())

	assert.Equal(t, Scheduled, first.Status)
	assert.Equal(t, Scheduled, second.Status)

	firstIdx := p.latestReserved["draft"]
	secondIdx := p.latestReserved["edit"]
	assert.Greater(t, secondIdx, firstIdx)
}

func TestPlacerBudgetActivityFallsBackToShorterBlock(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	cal := NewCalendar(start, start.AddDate(0, 0, 1))

	// Only a single hour is available but the budget activity wants 2;
	// it should take the 1-hour block it can get rather than go unplaced.
	window := InitializeTimeline(start, start.Add(1*time.Hour))
	budgetActivity := NewActivity("fitness", "Fitness", BudgetActivity, 2, window, nil, 0)

	p := NewPlacer(cal, []*Activity{budgetActivity})
	require.NoError(t, p.Run())

	// The remaining hour is unreachable, so the activity ends Processed
	// (not Impossible) with the unplaceable remainder still on it.
	assert.Equal(t, Processed, budgetActivity.Status)
	assert.Equal(t, 1, budgetActivity.DurationLeft)

	idx, err := cal.IndexOf(start)
	require.NoError(t, err)
	assert.Equal(t, "fitness", cal.hours[idx].ActivityGoalID)
}

func TestContiguousRuns(t *testing.T) {
	runs := contiguousRuns([]int{1, 2, 3, 7, 8, 10})
	assert.Equal(t, [][2]int{{1, 4}, {7, 9}, {10, 11}}, runs)
	assert.Nil(t, contiguousRuns(nil))
}
