package domain

import "time"

// ExpandGoals turns a validated GoalSet into the flat list of Activities the
// Placer consumes. rootOrder is the order goal ids were
// declared in the input, used by PostOrderFrom to keep expansion
// deterministic: children expand before the parents that reference them, so
// a parent budget goal sees its descendants' activities already built.
func ExpandGoals(gs GoalSet, rootOrder []string, calendarStart, calendarEnd time.Time) ([]*Activity, error) {
	if err := gs.Validate(); err != nil {
		return nil, err
	}

	order := gs.PostOrderFrom(rootOrder)
	var activities []*Activity
	insertionOrder := 0

	for _, id := range order {
		goal := gs[id]

		windowStart := calendarStart
		if goal.Start != nil && goal.Start.After(windowStart) {
			windowStart = *goal.Start
		}
		windowEnd := calendarEnd
		if goal.Deadline != nil && goal.Deadline.Before(windowEnd) {
			windowEnd = *goal.Deadline
		}

		if goal.IsBudgetGoal() {
			candidate := budgetCandidate(gs, goal, windowStart, windowEnd)
			budgetActivities := expandBudgetGoal(goal, candidate, windowStart, windowEnd, &insertionOrder)
			activities = append(activities, budgetActivities...)
			continue
		}

		candidate := InitializeTimeline(windowStart, windowEnd)
		candidate = goal.Filter.Apply(candidate)

		if goal.MinDuration <= 0 {
			// Organizational goal with no duration of its own (a pure
			// container for Children); nothing to place directly.
			continue
		}

		it := NewTimeSlotsIterator(candidate, goal.Repetition)
		for _, emission := range it.Collect() {
			if emission.IsEmpty() {
				continue
			}
			activities = append(activities, NewActivity(
				id, goal.Title, SimpleGoal, goal.MinDuration, emission, goal.AfterGoals, insertionOrder,
			))
			insertionOrder++
		}
	}

	return activities, nil
}

// budgetCandidate unions the filtered timelines of the budget goal and every
// participating descendant, so budget floors can land anywhere any
// participant could run.
func budgetCandidate(gs GoalSet, goal *Goal, windowStart, windowEnd time.Time) *Timeline {
	participating := map[string]bool{goal.ID: true}
	collectDescendants(gs, goal.ID, participating)

	result := NewTimeline()
	for id := range participating {
		filtered := gs[id].Filter.Apply(InitializeTimeline(windowStart, windowEnd))
		result = result.Union(filtered)
	}
	return result
}

// expandBudgetGoal synthesizes one BudgetActivity per day/week window that
// must receive at least min_per_day/min_per_week hours across the budget
// goal's participating descendants. These activities compete in the Placer
// like any other, but carry no after_goals ordering of their own.
func expandBudgetGoal(goal *Goal, candidate *Timeline, windowStart, windowEnd time.Time, insertionOrder *int) []*Activity {
	var activities []*Activity
	cfg := goal.BudgetConfig

	if cfg.MinPerDay != nil && *cfg.MinPerDay > 0 {
		for _, win := range dayWindows(windowStart, windowEnd) {
			winTl := NewTimeline()
			winTl.Insert(win)
			overlap := candidate.Intersect(winTl)
			if overlap.IsEmpty() {
				continue
			}
			activities = append(activities, NewActivity(
				goal.ID, goal.Title, BudgetActivity, *cfg.MinPerDay, overlap, nil, *insertionOrder,
			))
			*insertionOrder++
		}
	}

	if cfg.MinPerWeek != nil && *cfg.MinPerWeek > 0 {
		for _, win := range weekWindows(windowStart, windowEnd) {
			winTl := NewTimeline()
			winTl.Insert(win)
			overlap := candidate.Intersect(winTl)
			if overlap.IsEmpty() {
				continue
			}
			activities = append(activities, NewActivity(
				goal.ID, goal.Title, BudgetActivity, *cfg.MinPerWeek, overlap, nil, *insertionOrder,
			))
			*insertionOrder++
		}
	}

	return activities
}
