package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunSummarizesFinalTasks(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	final := FinalTasks{
		Scheduled: []ScheduledDay{
			{Day: start, Tasks: []ScheduledTask{{GoalID: "a", Duration: 2}, {GoalID: "b", Duration: 1}}},
		},
		Impossible: []ImpossibleActivity{{GoalID: "c", HoursMissing: 4}},
	}

	run := NewRun("hash123", start, end, final)

	assert.Equal(t, "hash123", run.InputHash)
	assert.Equal(t, 3, run.ScheduledHours)
	assert.Equal(t, 1, run.ImpossibleCount)
	require.Len(t, run.DomainEvents(), 1)

	evt, ok := run.DomainEvents()[0].(RunCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, "schedule.completed", evt.RoutingKey())
	assert.Equal(t, run.ID(), evt.AggregateID())
}

func TestRehydrateRunPreservesFields(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	finishedAt := start.Add(2 * time.Hour)

	original := NewRun("hash", start, end, FinalTasks{})
	rehydrated := RehydrateRun(original.ID(), original.CreatedAt(), original.UpdatedAt(), 3, "hash", start, end, 5, 2, finishedAt)

	assert.Equal(t, original.ID(), rehydrated.ID())
	assert.Equal(t, 3, rehydrated.Version())
	assert.Equal(t, 5, rehydrated.ScheduledHours)
	assert.Equal(t, 2, rehydrated.ImpossibleCount)
	assert.Empty(t, rehydrated.DomainEvents())
}
