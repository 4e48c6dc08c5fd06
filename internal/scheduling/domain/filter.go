package domain

import "time"

// TimeFilter narrows a Timeline by time-of-day, allowed weekdays, and
// explicit blackout slots. All fields are optional; a zero-value
// TimeFilter (AfterTime == BeforeTime == 0, no OnDays, no NotOn) is a no-op.
type TimeFilter struct {
	// AfterTime/BeforeTime are hours in [0,24]. If both are zero, timing is unfiltered.
	AfterTime  int
	BeforeTime int
	HasTiming  bool

	// OnDays restricts to the given weekdays, if non-empty.
	OnDays []time.Weekday

	// NotOn is a set of explicit blackout slots, removed unconditionally.
	NotOn []Slot
}

// Apply runs the filter pipeline over tl in the fixed order timing -> on_days -> not_on,
// returning a new Timeline. An empty input Timeline yields an empty result.
func (f TimeFilter) Apply(tl *Timeline) *Timeline {
	if tl.IsEmpty() {
		return NewTimeline()
	}

	result := tl.Clone()
	if f.HasTiming {
		result = applyTiming(result, f.AfterTime, f.BeforeTime)
	}
	if len(f.OnDays) > 0 {
		result = applyOnDays(result, f.OnDays)
	}
	if len(f.NotOn) > 0 {
		result.RemoveMany(f.NotOn)
	}
	return result
}

// daySlices splits s at every local midnight boundary it crosses.
func daySlices(s Slot) []Slot {
	var out []Slot
	cur := s.Start
	for cur.Before(s.End) {
		dayEnd := time.Date(cur.Year(), cur.Month(), cur.Day(), 0, 0, 0, 0, cur.Location()).AddDate(0, 0, 1)
		end := dayEnd
		if end.After(s.End) {
			end = s.End
		}
		if slice, ok := NewSlot(cur, end); ok {
			out = append(out, slice)
		}
		cur = end
	}
	return out
}

// applyTiming clips each stored slot to one time-of-day window per day it
// spans. A window that wraps midnight (beforeHour <= afterHour) runs from
// afterHour into the following day's beforeHour; wrap windows are anchored
// to the day they start on, so a slot's first hours never inherit the tail
// of the previous day's window.
func applyTiming(tl *Timeline, afterHour, beforeHour int) *Timeline {
	wraps := beforeHour <= afterHour
	result := NewTimeline()
	for _, s := range tl.Slots() {
		day := time.Date(s.Start.Year(), s.Start.Month(), s.Start.Day(), 0, 0, 0, 0, s.Start.Location())
		for day.Before(s.End) {
			lo := day.Add(time.Duration(afterHour) * time.Hour)
			hi := day.Add(time.Duration(beforeHour) * time.Hour)
			if wraps {
				hi = day.AddDate(0, 0, 1).Add(time.Duration(beforeHour) * time.Hour)
			}
			if clipped, ok := SlotIntersect(s, Slot{Start: lo, End: hi}); ok {
				result.Insert(clipped)
			}
			day = day.AddDate(0, 0, 1)
		}
	}
	return result
}

func applyOnDays(tl *Timeline, allowed []time.Weekday) *Timeline {
	allowedSet := make(map[time.Weekday]bool, len(allowed))
	for _, d := range allowed {
		allowedSet[d] = true
	}

	result := NewTimeline()
	for _, s := range tl.Slots() {
		for _, day := range daySlices(s) {
			if allowedSet[day.Start.Weekday()] {
				result.Insert(day)
			}
		}
	}
	return result
}
