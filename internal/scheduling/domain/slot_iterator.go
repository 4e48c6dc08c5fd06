package domain

import "time"

// SlotIterator walks a Slot in fixed-duration steps. It is a lazy, finite,
// non-restartable sequence: a stateful struct with a Next method rather
// than a channel or callback.
type SlotIterator struct {
	step    time.Duration
	current time.Time
	end     time.Time
	done    bool
}

// NewSlotIterator builds an iterator walking s in step-sized increments.
func NewSlotIterator(s Slot, step time.Duration) *SlotIterator {
	return &SlotIterator{
		step:    step,
		current: s.Start,
		end:     s.End,
	}
}

// Next returns the next step-sized Slot and true, or (Slot{}, false) when exhausted.
// The final emitted slot is truncated if the remainder is shorter than step.
func (it *SlotIterator) Next() (Slot, bool) {
	if it.done || it.step <= 0 || !it.current.Before(it.end) {
		it.done = true
		return Slot{}, false
	}
	next := it.current.Add(it.step)
	if next.After(it.end) {
		next = it.end
	}
	slot, ok := NewSlot(it.current, next)
	it.current = next
	if !it.current.Before(it.end) {
		it.done = true
	}
	if !ok {
		return Slot{}, false
	}
	return slot, true
}

// Collect drains the iterator into a slice. Convenience for callers that
// don't need lazy evaluation.
func (it *SlotIterator) Collect() []Slot {
	var out []Slot
	for {
		s, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, s)
	}
	return out
}
