package domain

import (
	"fmt"
	"time"
)

// Schedule is the core `schedule(input) → FinalTasks` entry point: it
// validates and expands gs into Activities, builds the Calendar and its
// Budgets, drives the Placer to completion, and renders the result.
// Everything above the domain package (JSON parsing, caching, persistence)
// is an adapter around this call.
func Schedule(gs GoalSet, rootOrder []string, calendarStart, calendarEnd time.Time) (FinalTasks, error) {
	if !calendarEnd.After(calendarStart) {
		return FinalTasks{}, fmt.Errorf("%w: calendar end must be after calendar start", ErrInvalidInput)
	}

	activities, err := ExpandGoals(gs, rootOrder, calendarStart, calendarEnd)
	if err != nil {
		return FinalTasks{}, err
	}

	calendar := NewCalendar(calendarStart, calendarEnd)
	if err := calendar.Budgets.AddBudgetsFrom(gs, calendarStart, calendarEnd); err != nil {
		return FinalTasks{}, err
	}

	placer := NewPlacer(calendar, activities)
	if err := placer.Run(); err != nil {
		return FinalTasks{}, err
	}

	return calendar.Render(), nil
}
