package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSlotsIteratorNone(t *testing.T) {
	tl := NewTimeline()
	tl.Insert(mustSlot(t, 0, 10))

	it := NewTimeSlotsIterator(tl, Repetition{Kind: RepNone})
	emissions := it.Collect()
	require.Len(t, emissions, 1)
	assert.Equal(t, tl.Slots(), emissions[0].Slots())
}

func TestTimeSlotsIteratorHourly(t *testing.T) {
	tl := NewTimeline()
	tl.Insert(mustSlot(t, 0, 3))

	it := NewTimeSlotsIterator(tl, Repetition{Kind: RepHourly})
	emissions := it.Collect()
	require.Len(t, emissions, 3)
	for _, e := range emissions {
		assert.Equal(t, 1, e.TotalHours())
	}
}

func TestTimeSlotsIteratorDailyN(t *testing.T) {
	tl := NewTimeline()
	tl.Insert(mustSlot(t, 0, 48)) // two days

	it := NewTimeSlotsIterator(tl, Repetition{Kind: RepDaily, N: 2})
	emissions := it.Collect()
	// 2 days * 2 emissions/day
	require.Len(t, emissions, 4)
	for _, e := range emissions {
		assert.Equal(t, 24, e.TotalHours())
	}
}

func TestTimeSlotsIteratorWeekly(t *testing.T) {
	tl := NewTimeline()
	tl.Insert(mustSlot(t, 0, 24*14)) // two weeks

	it := NewTimeSlotsIterator(tl, Repetition{Kind: RepWeekly, N: 1})
	emissions := it.Collect()
	require.Len(t, emissions, 2)
}

func TestTimeSlotsIteratorSpecificWeekday(t *testing.T) {
	// 2023-01-01 is Sunday; window covers 2 weeks.
	tl := NewTimeline()
	tl.Insert(mustSlot(t, 0, 24*14))

	it := NewTimeSlotsIterator(tl, Repetition{Kind: RepSpecificWeekday, Weekday: time.Monday})
	emissions := it.Collect()
	require.Len(t, emissions, 2)
	for _, e := range emissions {
		assert.Equal(t, time.Monday, e.Slots()[0].Start.Weekday())
	}
}

func TestTimeSlotsIteratorWeekdaysWeekends(t *testing.T) {
	tl := NewTimeline()
	tl.Insert(mustSlot(t, 0, 24*7))

	weekdays := NewTimeSlotsIterator(tl, Repetition{Kind: RepWeekdays}).Collect()
	weekends := NewTimeSlotsIterator(tl, Repetition{Kind: RepWeekends}).Collect()
	assert.Len(t, weekdays, 5)
	assert.Len(t, weekends, 2)
}

func TestTimeSlotsIteratorEveryXDays(t *testing.T) {
	tl := NewTimeline()
	tl.Insert(mustSlot(t, 0, 24*6))

	it := NewTimeSlotsIterator(tl, Repetition{Kind: RepEveryXDays, N: 2})
	emissions := it.Collect()
	require.Len(t, emissions, 3)
}

func TestTimeSlotsIteratorEveryXHours(t *testing.T) {
	tl := NewTimeline()
	tl.Insert(mustSlot(t, 0, 9))

	it := NewTimeSlotsIterator(tl, Repetition{Kind: RepEveryXHours, N: 3})
	emissions := it.Collect()
	require.Len(t, emissions, 3)
}
