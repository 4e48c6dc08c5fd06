package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineInitialize(t *testing.T) {
	tl := InitializeTimeline(h(0), h(4))
	assert.Equal(t, []Slot{mustSlot(t, 0, 4)}, tl.Slots())

	empty := InitializeTimeline(h(4), h(4))
	assert.True(t, empty.IsEmpty())
}

func TestTimelineInsertMergesAdjacentAndOverlapping(t *testing.T) {
	tl := NewTimeline()
	tl.Insert(mustSlot(t, 0, 2))
	tl.Insert(mustSlot(t, 2, 4)) // adjacent
	tl.Insert(mustSlot(t, 6, 8))
	tl.Insert(mustSlot(t, 7, 9)) // overlapping

	got := tl.Slots()
	require.Len(t, got, 2)
	assert.Equal(t, mustSlot(t, 0, 4), got[0])
	assert.Equal(t, mustSlot(t, 6, 9), got[1])
}

func TestTimelineInsertSorted(t *testing.T) {
	tl := NewTimeline()
	tl.Insert(mustSlot(t, 10, 12))
	tl.Insert(mustSlot(t, 0, 2))
	tl.Insert(mustSlot(t, 5, 6))

	got := tl.Slots()
	require.Len(t, got, 3)
	assert.True(t, got[0].Start.Before(got[1].Start))
	assert.True(t, got[1].Start.Before(got[2].Start))
}

func TestTimelineRemove(t *testing.T) {
	tl := NewTimeline()
	tl.Insert(mustSlot(t, 0, 10))
	tl.Remove(mustSlot(t, 3, 5))

	got := tl.Slots()
	require.Len(t, got, 2)
	assert.Equal(t, mustSlot(t, 0, 3), got[0])
	assert.Equal(t, mustSlot(t, 5, 10), got[1])
}

func TestTimelineRemoveMany(t *testing.T) {
	tl := NewTimeline()
	tl.Insert(mustSlot(t, 0, 10))
	tl.RemoveMany([]Slot{mustSlot(t, 1, 2), mustSlot(t, 5, 6)})

	assert.Equal(t, 8, tl.TotalHours())
}

func TestTimelineRemoveTotalHoursLaw(t *testing.T) {
	tl := NewTimeline()
	tl.Insert(mustSlot(t, 0, 10))
	before := tl.TotalHours()

	other := NewTimeline()
	other.Insert(mustSlot(t, 3, 5))
	overlap := tl.Intersect(other).TotalHours()

	tl.Remove(mustSlot(t, 3, 5))
	assert.Equal(t, before-overlap, tl.TotalHours())
}

func TestTimelineIntersect(t *testing.T) {
	a := NewTimeline()
	a.Insert(mustSlot(t, 0, 10))
	b := NewTimeline()
	b.Insert(mustSlot(t, 5, 15))

	inter := a.Intersect(b)
	assert.Equal(t, []Slot{mustSlot(t, 5, 10)}, inter.Slots())
}

func TestTimelineUnion(t *testing.T) {
	a := NewTimeline()
	a.Insert(mustSlot(t, 0, 2))
	b := NewTimeline()
	b.Insert(mustSlot(t, 2, 4))

	u := a.Union(b)
	assert.Equal(t, []Slot{mustSlot(t, 0, 4)}, u.Slots())
}

func TestTimelineIterBy(t *testing.T) {
	tl := NewTimeline()
	tl.Insert(mustSlot(t, 0, 4))
	tl.Insert(mustSlot(t, 10, 12))

	got := tl.IterBy(time.Hour)
	assert.Len(t, got, 6)
}

func TestTimelineEmptyOperationsNeverFail(t *testing.T) {
	tl := NewTimeline()
	tl.Remove(mustSlot(t, 0, 5))
	tl.RemoveMany([]Slot{mustSlot(t, 0, 5)})
	assert.Equal(t, 0, tl.TotalHours())
	assert.Empty(t, tl.IterBy(time.Hour))
}

func TestTimelineClone(t *testing.T) {
	tl := NewTimeline()
	tl.Insert(mustSlot(t, 0, 2))
	clone := tl.Clone()
	clone.Insert(mustSlot(t, 4, 6))

	assert.Len(t, tl.Slots(), 1)
	assert.Len(t, clone.Slots(), 2)
}
