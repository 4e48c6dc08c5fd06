// Package dto is the external JSON boundary for the scheduler: parsing and
// validating an Input document, and rendering FinalTasks back to JSON. This
// schema-validation adapter sits outside the domain core.
package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/calendraio/calendra/internal/scheduling/domain"
)

const naiveLayout = "2006-01-02T15:04:05"

// naiveTime unmarshals an ISO-8601-shaped naive (no timezone) datetime as
// UTC: no timezone arithmetic is ever performed on it.
type naiveTime struct {
	time.Time
}

func (t *naiveTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSuffix(s, "Z")
	parsed, err := time.ParseInLocation(naiveLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("%w: invalid datetime %q: %v", domain.ErrInvalidInput, s, err)
	}
	t.Time = parsed
	return nil
}

func (t naiveTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(naiveLayout))
}

// SlotInput is a wire (start,end) pair, used for filters.not_on.
type SlotInput struct {
	Start naiveTime `json:"start"`
	End   naiveTime `json:"end"`
}

// TimeFilterInput is the wire shape of a Goal's `filters` field.
type TimeFilterInput struct {
	AfterTime  *int        `json:"after_time,omitempty"`
	BeforeTime *int        `json:"before_time,omitempty"`
	OnDays     []string    `json:"on_days,omitempty"`
	NotOn      []SlotInput `json:"not_on,omitempty"`
}

// BudgetConfigInput is the wire shape of a Goal's `budget_config` field.
type BudgetConfigInput struct {
	MinPerDay  *int `json:"min_per_day,omitempty"`
	MaxPerDay  *int `json:"max_per_day,omitempty"`
	MinPerWeek *int `json:"min_per_week,omitempty"`
	MaxPerWeek *int `json:"max_per_week,omitempty"`
}

// GoalInput is the wire shape of one Goal.
type GoalInput struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	MinDuration  int                `json:"min_duration"`
	Start        *naiveTime         `json:"start,omitempty"`
	Deadline     *naiveTime         `json:"deadline,omitempty"`
	Repetition   string             `json:"repetition,omitempty"`
	Filters      *TimeFilterInput   `json:"filters,omitempty"`
	Children     []string           `json:"children,omitempty"`
	BudgetConfig *BudgetConfigInput `json:"budget_config,omitempty"`
	AfterGoals   []string           `json:"after_goals,omitempty"`
}

// Input is the wire shape of the scheduler's entry point. Goals is an
// ordered list rather than a map keyed by goal id: encoding/json does not
// preserve JSON object key order through Unmarshal, and a map's range order
// is randomized per process, but goal declaration order is the one thing
// that drives deterministic post-order expansion and the placer's
// insertion-order tie-break (see domain.GoalSet.PostOrderFrom /
// Placer.selectNext). An array survives round-trip in declared order.
type Input struct {
	CalendarStart naiveTime   `json:"calendarStart"`
	CalendarEnd   naiveTime   `json:"calendarEnd"`
	Goals         []GoalInput `json:"goals"`
}

// ParseInput decodes and validates raw JSON into an Input, returning
// domain.ErrInvalidInput-wrapped errors for any schema violation.
func ParseInput(raw []byte) (Input, error) {
	var in Input
	if err := json.Unmarshal(raw, &in); err != nil {
		return Input{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !in.CalendarEnd.After(in.CalendarStart.Time) {
		return Input{}, fmt.Errorf("%w: calendarEnd must be after calendarStart", domain.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(in.Goals))
	for _, g := range in.Goals {
		if g.ID == "" {
			return Input{}, fmt.Errorf("%w: goal missing id", domain.ErrInvalidInput)
		}
		if seen[g.ID] {
			return Input{}, fmt.Errorf("%w: duplicate goal id %q", domain.ErrInvalidInput, g.ID)
		}
		seen[g.ID] = true
	}
	return in, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
}

// ToGoalSet translates the wire Input into a domain.GoalSet plus the goal
// ids in declaration order (the root order for deterministic post-order
// expansion). The calendar span is read from Input directly by callers.
func ToGoalSet(in Input) (domain.GoalSet, []string, error) {
	gs := make(domain.GoalSet, len(in.Goals))
	order := make([]string, 0, len(in.Goals))

	for _, g := range in.Goals {
		id := g.ID
		order = append(order, id)

		rep, err := domain.ParseRepetition(g.Repetition)
		if err != nil {
			return nil, nil, fmt.Errorf("goal %s: %w", id, err)
		}

		goal := &domain.Goal{
			ID:          id,
			Title:       g.Title,
			MinDuration: g.MinDuration,
			Repetition:  rep,
			Children:    g.Children,
			AfterGoals:  g.AfterGoals,
		}
		if g.Start != nil {
			start := g.Start.Time
			goal.Start = &start
		}
		if g.Deadline != nil {
			deadline := g.Deadline.Time
			goal.Deadline = &deadline
		}
		if g.Filters != nil {
			filter, err := toTimeFilter(*g.Filters)
			if err != nil {
				return nil, nil, fmt.Errorf("goal %s: %w", id, err)
			}
			goal.Filter = filter
		}
		if g.BudgetConfig != nil {
			goal.BudgetConfig = &domain.BudgetConfig{
				MinPerDay:  g.BudgetConfig.MinPerDay,
				MaxPerDay:  g.BudgetConfig.MaxPerDay,
				MinPerWeek: g.BudgetConfig.MinPerWeek,
				MaxPerWeek: g.BudgetConfig.MaxPerWeek,
			}
		}

		gs[id] = goal
	}

	return gs, order, nil
}

func toTimeFilter(f TimeFilterInput) (domain.TimeFilter, error) {
	var filter domain.TimeFilter
	if f.AfterTime != nil || f.BeforeTime != nil {
		filter.HasTiming = true
		if f.AfterTime != nil {
			filter.AfterTime = *f.AfterTime
		}
		if f.BeforeTime != nil {
			filter.BeforeTime = *f.BeforeTime
		}
	}
	for _, name := range f.OnDays {
		day, ok := weekdayNames[strings.ToLower(name)]
		if !ok {
			return domain.TimeFilter{}, fmt.Errorf("%w: unknown weekday %q", domain.ErrInvalidInput, name)
		}
		filter.OnDays = append(filter.OnDays, day)
	}
	for _, s := range f.NotOn {
		slot, ok := domain.NewSlot(s.Start.Time, s.End.Time)
		if !ok {
			return domain.TimeFilter{}, fmt.Errorf("%w: invalid not_on slot", domain.ErrInvalidInput)
		}
		filter.NotOn = append(filter.NotOn, slot)
	}
	return filter, nil
}
