package domain

import "time"

// BudgetScope is the accounting window a TimeBudget floors/caps.
type BudgetScope int

const (
	Daily BudgetScope = iota
	Weekly
)

// TimeBudget is one daily or weekly min/max hour accounting window.
type TimeBudget struct {
	Scope  BudgetScope
	Window Slot
	Min    int
	Max    int
	Used   int
}

// containsTime reports whether t falls inside the budget's half-open
// window; callers map hour indices to times via the calendar.
func (tb *TimeBudget) containsTime(t time.Time) bool {
	return !t.Before(tb.Window.Start) && t.Before(tb.Window.End)
}

// Budget is one budget goal's accounting: the goal itself plus every
// transitive descendant through Children, and the set of daily/weekly
// TimeBudgets spanning the calendar.
type Budget struct {
	OriginatingGoalID  string
	ParticipatingGoals map[string]bool
	TimeBudgets        []*TimeBudget
}

// BudgetSet is the full collection of Budgets for a scheduling run, plus
// the hour-index-to-time mapping needed to evaluate windows.
type BudgetSet struct {
	budgets  []*Budget
	hourTime func(i int) time.Time
}

// NewBudgetSet builds an empty BudgetSet. hourTime maps a Calendar hour
// index to its wall-clock time, used to evaluate TimeBudget windows.
func NewBudgetSet(hourTime func(i int) time.Time) *BudgetSet {
	return &BudgetSet{hourTime: hourTime}
}

// AddBudgetsFrom builds one Budget per budget goal in gs, spanning
// [calendarStart, calendarEnd) in day-aligned and week-aligned windows.
func (bs *BudgetSet) AddBudgetsFrom(gs GoalSet, calendarStart, calendarEnd time.Time) error {
	for id, g := range gs {
		if !g.IsBudgetGoal() {
			continue
		}
		participating := map[string]bool{id: true}
		collectDescendants(gs, id, participating)

		budget := &Budget{
			OriginatingGoalID:  id,
			ParticipatingGoals: participating,
		}

		cfg := g.BudgetConfig
		if cfg.MinPerDay != nil || cfg.MaxPerDay != nil {
			for _, day := range dayWindows(calendarStart, calendarEnd) {
				budget.TimeBudgets = append(budget.TimeBudgets, &TimeBudget{
					Scope:  Daily,
					Window: day,
					Min:    derefOr(cfg.MinPerDay, 0),
					Max:    derefOr(cfg.MaxPerDay, day.Hours()),
				})
			}
		}
		if cfg.MinPerWeek != nil || cfg.MaxPerWeek != nil {
			for _, week := range weekWindows(calendarStart, calendarEnd) {
				budget.TimeBudgets = append(budget.TimeBudgets, &TimeBudget{
					Scope:  Weekly,
					Window: week,
					Min:    derefOr(cfg.MinPerWeek, 0),
					Max:    derefOr(cfg.MaxPerWeek, week.Hours()),
				})
			}
		}
		bs.budgets = append(bs.budgets, budget)
	}
	return nil
}

// Update increments `used` on every TimeBudget, across every Budget goalID
// participates in, whose window contains hourIndex.
func (bs *BudgetSet) Update(goalID string, hourIndex int) {
	t := bs.hourTime(hourIndex)
	for _, b := range bs.budgets {
		if !b.ParticipatingGoals[goalID] {
			continue
		}
		for _, tb := range b.TimeBudgets {
			if tb.containsTime(t) {
				tb.Used++
			}
		}
	}
}

// CanReserve reports whether reserving [hourIndex, hourIndex+length) for
// goalID would keep every TimeBudget's `used` at or below `max`.
func (bs *BudgetSet) CanReserve(goalID string, hourIndex, length int) bool {
	deltas := map[*TimeBudget]int{}
	for _, b := range bs.budgets {
		if !b.ParticipatingGoals[goalID] {
			continue
		}
		for i := hourIndex; i < hourIndex+length; i++ {
			t := bs.hourTime(i)
			for _, tb := range b.TimeBudgets {
				if tb.containsTime(t) {
					deltas[tb]++
				}
			}
		}
	}
	for tb, d := range deltas {
		if tb.Used+d > tb.Max {
			return false
		}
	}
	return true
}

// ExclusionsFor returns the union, as a Timeline, of every TimeBudget
// window (across every Budget a's goal participates in) where Used >= Max.
// The placer subtracts this from the activity's overlay before scoring.
func (bs *BudgetSet) ExclusionsFor(goalID string) *Timeline {
	result := NewTimeline()
	for _, b := range bs.budgets {
		if !b.ParticipatingGoals[goalID] {
			continue
		}
		for _, tb := range b.TimeBudgets {
			if tb.Used >= tb.Max {
				result.Insert(tb.Window)
			}
		}
	}
	return result
}

func collectDescendants(gs GoalSet, id string, into map[string]bool) {
	g, ok := gs[id]
	if !ok {
		return
	}
	for _, childID := range g.Children {
		if into[childID] {
			continue
		}
		into[childID] = true
		collectDescendants(gs, childID, into)
	}
}

func dayWindows(start, end time.Time) []Slot {
	var out []Slot
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	for dayStart.Before(end) {
		dayEnd := dayStart.AddDate(0, 0, 1)
		if s, ok := NewSlot(dayStart, dayEnd); ok {
			out = append(out, s)
		}
		dayStart = dayEnd
	}
	return out
}

func weekWindows(start, end time.Time) []Slot {
	var out []Slot
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	weekStart := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
	for weekStart.Before(end) {
		weekEnd := weekStart.AddDate(0, 0, 7)
		if s, ok := NewSlot(weekStart, weekEnd); ok {
			out = append(out, s)
		}
		weekStart = weekEnd
	}
	return out
}

func derefOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
