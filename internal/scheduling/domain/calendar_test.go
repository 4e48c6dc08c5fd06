package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarNewHasPad(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)

	c := NewCalendar(start, end)
	assert.Equal(t, 24+3*24+24, c.Len())
}

func TestCalendarIndexOf(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	c := NewCalendar(start, end)

	idx, err := c.IndexOf(start)
	require.NoError(t, err)
	assert.Equal(t, 24, idx)

	_, err = c.IndexOf(start.AddDate(0, 0, -1))
	require.NoError(t, err)

	_, err = c.IndexOf(start.AddDate(0, 0, -2))
	assert.Error(t, err)
}

func TestCalendarReserveConflict(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	c := NewCalendar(start, end)

	idx, _ := c.IndexOf(start)
	require.NoError(t, c.Reserve(idx, 2, "g1", "Goal 1"))

	err := c.Reserve(idx+1, 1, "g2", "Goal 2")
	assert.ErrorIs(t, err, ErrReserveConflict)
}

func TestCalendarReserveBudgetExceeded(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	c := NewCalendar(start, end)

	gs := GoalSet{
		"g": {ID: "g", BudgetConfig: &BudgetConfig{MaxPerDay: intPtr(1)}},
	}
	require.NoError(t, c.Budgets.AddBudgetsFrom(gs, start, end))

	idx, _ := c.IndexOf(start)
	require.NoError(t, c.Reserve(idx, 1, "g", "G"))
	err := c.Reserve(idx+1, 1, "g", "G")
	assert.ErrorIs(t, err, ErrBudgetExceeded)
}

func TestCalendarRender(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	c := NewCalendar(start, end)

	idx, _ := c.IndexOf(start)
	require.NoError(t, c.Reserve(idx, 2, "brush", "Brush teeth"))
	c.AddImpossible("x", "X", 1)

	final := c.Render()
	require.Len(t, final.Scheduled, 1)
	require.Len(t, final.Scheduled[0].Tasks, 2)
	assert.Equal(t, "brush", final.Scheduled[0].Tasks[0].GoalID)
	assert.Equal(t, 2, final.Scheduled[0].Tasks[0].Duration)
	assert.Equal(t, "free", final.Scheduled[0].Tasks[1].GoalID)
	assert.Equal(t, "free", final.Scheduled[0].Tasks[1].Title)
	assert.Equal(t, 22, final.Scheduled[0].Tasks[1].Duration)
	require.Len(t, final.Impossible, 1)
	assert.Equal(t, 1, final.Impossible[0].HoursMissing)
}

func TestCalendarWeekdayOf(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC) // Monday
	end := start.AddDate(0, 0, 1)
	c := NewCalendar(start, end)

	idx, _ := c.IndexOf(start)
	assert.Equal(t, time.Monday, c.WeekdayOf(idx))
}
