package domain

import (
	"fmt"
	"sort"
	"time"
)

// HourState is the occupancy of one Calendar hour cell.
type HourState int

const (
	Free HourState = iota
	Occupied
)

// Hour is one cell of the Calendar's hour grid.
type Hour struct {
	State          HourState
	ActivityGoalID string
	ActivityTitle  string
}

// ImpossibleActivity records a goal (or goal-fragment) that could not be fully placed.
type ImpossibleActivity struct {
	GoalID       string
	Title        string
	HoursMissing int
}

// ErrReserveConflict is returned by Reserve when an hour in the requested
// range is already Occupied. The placer treats this as a programmer-error
// assertion: best_block must never propose an occupied hour.
var ErrReserveConflict = fmt.Errorf("%w: reserve conflict", ErrInternal)

// ErrBudgetExceeded is returned by Reserve when the reservation would push
// a participating TimeBudget's `used` over its `max`.
var ErrBudgetExceeded = fmt.Errorf("budget exceeded")

// Calendar is a fixed-length hour grid with a one-day pre/post pad so
// filter boundary logic never runs out of range.
type Calendar struct {
	Start time.Time
	End   time.Time

	hours      []Hour
	Impossible []ImpossibleActivity
	Budgets    *BudgetSet

	gridStart time.Time // Start - 1 day
}

// NewCalendar allocates the hour array for [start,end), all Free, with a
// one-day pad on each side.
func NewCalendar(start, end time.Time) *Calendar {
	numHours := int(end.Sub(start) / time.Hour)
	size := 24 + numHours + 24
	c := &Calendar{
		Start:     start,
		End:       end,
		hours:     make([]Hour, size),
		gridStart: start.AddDate(0, 0, -1),
	}
	c.Budgets = NewBudgetSet(c.TimeOf)
	return c
}

// Len returns the number of hour cells in the grid.
func (c *Calendar) Len() int {
	return len(c.hours)
}

// IndexOf returns the hour index corresponding to t, or an error if t falls
// more than one day outside [Start,End).
func (c *Calendar) IndexOf(t time.Time) (int, error) {
	diff := t.Sub(c.gridStart)
	if diff < 0 {
		return 0, fmt.Errorf("%w: %s is before calendar grid start", ErrInternal, t)
	}
	idx := int(diff / time.Hour)
	if idx >= len(c.hours) {
		return 0, fmt.Errorf("%w: %s is after calendar grid end", ErrInternal, t)
	}
	return idx, nil
}

// TimeOf returns the wall-clock time of hour index i: gridStart + i hours.
func (c *Calendar) TimeOf(i int) time.Time {
	return c.gridStart.Add(time.Duration(i) * time.Hour)
}

// WeekdayOf returns the weekday of hour index i.
func (c *Calendar) WeekdayOf(i int) time.Weekday {
	return c.TimeOf(i).Weekday()
}

// IsFree reports whether every hour in [index, index+length) is Free.
func (c *Calendar) IsFree(index, length int) bool {
	if index < 0 || index+length > len(c.hours) {
		return false
	}
	for i := index; i < index+length; i++ {
		if c.hours[i].State != Free {
			return false
		}
	}
	return true
}

// Reserve marks [index, index+length) Occupied for activity and increments
// every budget the activity's goal participates in. Returns
// ErrReserveConflict if any hour is already occupied, ErrBudgetExceeded if
// the reservation would exceed a participating budget's max. Reservation is
// atomic: on any error, no hour is mutated and no budget is incremented.
func (c *Calendar) Reserve(index, length int, activityGoalID, activityTitle string) error {
	if !c.IsFree(index, length) {
		return ErrReserveConflict
	}
	if !c.Budgets.CanReserve(activityGoalID, index, length) {
		return ErrBudgetExceeded
	}
	for i := index; i < index+length; i++ {
		c.hours[i] = Hour{State: Occupied, ActivityGoalID: activityGoalID, ActivityTitle: activityTitle}
		c.Budgets.Update(activityGoalID, i)
	}
	return nil
}

// OccupiedTimeline returns the merged Timeline of every currently Occupied
// hour run, used by the Placer to exclude already-reserved time from every
// activity's overlay before the next selection round.
func (c *Calendar) OccupiedTimeline() *Timeline {
	tl := NewTimeline()
	i := 0
	for i < len(c.hours) {
		if c.hours[i].State != Occupied {
			i++
			continue
		}
		j := i + 1
		for j < len(c.hours) && c.hours[j].State == Occupied {
			j++
		}
		if s, ok := NewSlot(c.TimeOf(i), c.TimeOf(j)); ok {
			tl.Insert(s)
		}
		i = j
	}
	return tl
}

// AddImpossible records a goal (or fragment) that could not be placed.
func (c *Calendar) AddImpossible(goalID, title string, hoursMissing int) {
	c.Impossible = append(c.Impossible, ImpossibleActivity{GoalID: goalID, Title: title, HoursMissing: hoursMissing})
}

// ScheduledTask is one contiguous, coalesced run of occupied hours for a single goal.
type ScheduledTask struct {
	TaskID   string
	GoalID   string
	Title    string
	Duration int // hours
	Start    time.Time
	Deadline time.Time
}

// ScheduledDay groups ScheduledTasks by calendar day.
type ScheduledDay struct {
	Day   time.Time
	Tasks []ScheduledTask
}

// FinalTasks is the output of a scheduling run.
type FinalTasks struct {
	Scheduled  []ScheduledDay
	Impossible []ImpossibleActivity
}

// taskIDFunc allows Render's taskid generation to be swapped out in tests
// for a deterministic sequence; defaults to uuid.NewString.
var taskIDFunc = func() string { return newUUID() }

// Render walks hours [24, len-24) — the real [Start,End) span without the
// pad — coalescing consecutive equal-keyed hours into day-grouped tasks.
// Free runs become "free" tasks; Occupied runs become titled tasks keyed by
// goal id.
func (c *Calendar) Render() FinalTasks {
	padStart := 24
	padEnd := len(c.hours) - 24

	byDay := map[time.Time]*ScheduledDay{}
	var dayOrder []time.Time

	i := padStart
	for i < padEnd {
		h := c.hours[i]
		startTime := c.TimeOf(i)
		dayKey := time.Date(startTime.Year(), startTime.Month(), startTime.Day(), 0, 0, 0, 0, startTime.Location())
		nextMidnight := dayKey.AddDate(0, 0, 1)

		runEnd := i + 1
		for runEnd < padEnd && sameHourKey(c.hours[runEnd], h) && c.TimeOf(runEnd).Before(nextMidnight) {
			runEnd++
		}

		endTime := c.TimeOf(runEnd)

		goalID, title := "free", "free"
		if h.State == Occupied {
			goalID, title = h.ActivityGoalID, h.ActivityTitle
		}
		day, ok := byDay[dayKey]
		if !ok {
			day = &ScheduledDay{Day: dayKey}
			byDay[dayKey] = day
			dayOrder = append(dayOrder, dayKey)
		}
		day.Tasks = append(day.Tasks, ScheduledTask{
			TaskID:   taskIDFunc(),
			GoalID:   goalID,
			Title:    title,
			Duration: runEnd - i,
			Start:    startTime,
			Deadline: endTime,
		})

		i = runEnd
	}

	sort.Slice(dayOrder, func(a, b int) bool { return dayOrder[a].Before(dayOrder[b]) })
	scheduled := make([]ScheduledDay, 0, len(dayOrder))
	for _, d := range dayOrder {
		scheduled = append(scheduled, *byDay[d])
	}

	return FinalTasks{Scheduled: scheduled, Impossible: append([]ImpossibleActivity(nil), c.Impossible...)}
}

func sameHourKey(a, b Hour) bool {
	return a.State == b.State && a.ActivityGoalID == b.ActivityGoalID
}
