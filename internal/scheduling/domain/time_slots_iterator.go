package domain

import "time"

// TimeSlotsIterator emits one filtered Timeline per repetition window. It
// is a finite, non-restartable sequence whose emissions are all built
// eagerly by the constructor, since calendar spans are bounded.
type TimeSlotsIterator struct {
	emissions []*Timeline
	idx       int
}

// NewTimeSlotsIterator builds the emission sequence for tl under rep.
func NewTimeSlotsIterator(tl *Timeline, rep Repetition) *TimeSlotsIterator {
	return &TimeSlotsIterator{emissions: buildEmissions(tl, rep)}
}

// Next returns the next emitted Timeline and true, or (nil, false) when exhausted.
func (it *TimeSlotsIterator) Next() (*Timeline, bool) {
	if it.idx >= len(it.emissions) {
		return nil, false
	}
	emission := it.emissions[it.idx]
	it.idx++
	return emission, true
}

// Collect drains the iterator into a slice.
func (it *TimeSlotsIterator) Collect() []*Timeline {
	var out []*Timeline
	for {
		e, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, e)
	}
	return out
}

func buildEmissions(tl *Timeline, rep Repetition) []*Timeline {
	switch rep.Kind {
	case RepNone:
		return []*Timeline{tl}
	case RepHourly:
		return oneHourEmissions(tl)
	case RepDaily:
		return perDayEmissions(tl, rep.N, nil)
	case RepWeekly:
		return perWeekEmissions(tl, rep.N)
	case RepWeekdays:
		return perDayEmissions(tl, 1, func(d time.Weekday) bool { return d != time.Saturday && d != time.Sunday })
	case RepWeekends:
		return perDayEmissions(tl, 1, func(d time.Weekday) bool { return d == time.Saturday || d == time.Sunday })
	case RepSpecificWeekday:
		return perDayEmissions(tl, 1, func(d time.Weekday) bool { return d == rep.Weekday })
	case RepEveryXDays:
		return strideEmissions(tl, time.Duration(rep.N)*24*time.Hour)
	case RepEveryXHours:
		return strideEmissions(tl, time.Duration(rep.N)*time.Hour)
	default:
		return []*Timeline{tl}
	}
}

func oneHourEmissions(tl *Timeline) []*Timeline {
	var out []*Timeline
	for _, s := range tl.IterBy(time.Hour) {
		emission := NewTimeline()
		emission.Insert(s)
		out = append(out, emission)
	}
	return out
}

// perDayEmissions groups tl's slots by calendar day, keeps only days whose
// weekday passes the keep predicate (nil = keep every day), and emits each
// surviving day's Timeline N times, one emission per Daily(N) repetition
// count.
func perDayEmissions(tl *Timeline, n int, keep func(time.Weekday) bool) []*Timeline {
	if n <= 0 {
		n = 1
	}
	var out []*Timeline
	for _, day := range groupByDay(tl) {
		if keep != nil && !keep(day.Slots()[0].Start.Weekday()) {
			continue
		}
		for i := 0; i < n; i++ {
			out = append(out, day.Clone())
		}
	}
	return out
}

func perWeekEmissions(tl *Timeline, n int) []*Timeline {
	if n <= 0 {
		n = 1
	}
	var out []*Timeline
	for _, week := range groupByWeek(tl) {
		for i := 0; i < n; i++ {
			out = append(out, week.Clone())
		}
	}
	return out
}

// strideEmissions walks tl's overall span in step-sized strides starting at
// the first slot's start, emitting the portion of tl overlapping each stride.
func strideEmissions(tl *Timeline, step time.Duration) []*Timeline {
	slots := tl.Slots()
	if len(slots) == 0 || step <= 0 {
		return nil
	}
	start := slots[0].Start
	end := slots[len(slots)-1].End

	var out []*Timeline
	for cur := start; cur.Before(end); cur = cur.Add(step) {
		strideEnd := cur.Add(step)
		if strideEnd.After(end) {
			strideEnd = end
		}
		window, ok := NewSlot(cur, strideEnd)
		if !ok {
			continue
		}
		windowTl := NewTimeline()
		windowTl.Insert(window)
		emission := tl.Intersect(windowTl)
		if !emission.IsEmpty() {
			out = append(out, emission)
		}
	}
	return out
}

// groupByDay returns one Timeline per distinct calendar day present in tl,
// in chronological order.
func groupByDay(tl *Timeline) []*Timeline {
	order := []time.Time{}
	byDay := map[time.Time]*Timeline{}
	for _, s := range tl.Slots() {
		for _, slice := range daySlices(s) {
			key := time.Date(slice.Start.Year(), slice.Start.Month(), slice.Start.Day(), 0, 0, 0, 0, slice.Start.Location())
			if _, ok := byDay[key]; !ok {
				byDay[key] = NewTimeline()
				order = append(order, key)
			}
			byDay[key].Insert(slice)
		}
	}
	out := make([]*Timeline, 0, len(order))
	for _, k := range order {
		out = append(out, byDay[k])
	}
	return out
}

// groupByWeek returns one Timeline per calendar week present in tl (weeks
// start on Sunday, matching Go's time.Weekday numbering), in chronological order.
func groupByWeek(tl *Timeline) []*Timeline {
	order := []time.Time{}
	byWeek := map[time.Time]*Timeline{}
	for _, s := range tl.Slots() {
		for _, slice := range daySlices(s) {
			dayStart := time.Date(slice.Start.Year(), slice.Start.Month(), slice.Start.Day(), 0, 0, 0, 0, slice.Start.Location())
			weekStart := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
			if _, ok := byWeek[weekStart]; !ok {
				byWeek[weekStart] = NewTimeline()
				order = append(order, weekStart)
			}
			byWeek[weekStart].Insert(slice)
		}
	}
	out := make([]*Timeline, 0, len(order))
	for _, k := range order {
		out = append(out, byWeek[k])
	}
	return out
}
