package domain

import (
	"sort"
	"time"
)

// Placer is the main scheduling loop: it repeatedly selects
// the least-flexible unscheduled activity, computes its best hour-block,
// reserves it on the Calendar, and updates every other activity's overlay
// on the next iteration.
type Placer struct {
	calendar   *Calendar
	activities []*Activity

	// latestReserved tracks, per goal id, the last hour index reserved for
	// it, consulted by best_block's after_goals filtering.
	latestReserved map[string]int
}

// NewPlacer builds a Placer over calendar and activities, in the
// deterministic creation order (activities must already be in
// post-order-DAG / within-goal emission order).
func NewPlacer(calendar *Calendar, activities []*Activity) *Placer {
	return &Placer{
		calendar:       calendar,
		activities:     activities,
		latestReserved: map[string]int{},
	}
}

// Run drives the loop to completion. Every iteration either reserves at
// least one hour, marks an activity Scheduled, Processed, or Impossible, or
// breaks — so the loop terminates in O(sum of durations + activities)
// iterations.
func (p *Placer) Run() error {
	for {
		p.recomputeOverlays()
		overlayIdx := p.overlayIndexSets()

		pick := p.selectNext()
		if pick == nil {
			break
		}

		best := p.bestBlock(pick, overlayIdx)
		if best == nil {
			pick.ReleaseClaims()
			if pick.ActivityType == BudgetActivity {
				pick.Status = Processed
				continue
			}
			pick.Status = Impossible
			p.calendar.AddImpossible(pick.GoalID, pick.Title, pick.DurationLeft)
			continue
		}

		if err := p.calendar.Reserve(best.Index, best.Length, pick.GoalID, pick.Title); err != nil {
			return err
		}
		for i := best.Index; i < best.Index+best.Length; i++ {
			pick.Claim(i)
		}
		p.latestReserved[pick.GoalID] = best.Index + best.Length - 1
		pick.DurationLeft -= best.Length
		if pick.DurationLeft == 0 {
			pick.Status = Scheduled
			pick.ReleaseClaims()
		}
	}
	return nil
}

func (p *Placer) recomputeOverlays() {
	occupied := p.calendar.OccupiedTimeline()
	for _, a := range p.activities {
		if a.Status != ReadyToSchedule {
			continue
		}
		overlay := a.CandidateWindows.Clone()
		overlay.RemoveMany(occupied.Slots())
		exclusions := p.calendar.Budgets.ExclusionsFor(a.GoalID)
		overlay.RemoveMany(exclusions.Slots())
		a.Overlay = overlay
	}
}

// overlayIndexSets converts every ReadyToSchedule activity's overlay into
// the set of Calendar hour indices it covers, for O(1) conflict lookups.
func (p *Placer) overlayIndexSets() map[*Activity]map[int]bool {
	out := make(map[*Activity]map[int]bool, len(p.activities))
	for _, a := range p.activities {
		if a.Status != ReadyToSchedule {
			continue
		}
		set := map[int]bool{}
		for _, hourSlot := range a.Overlay.IterBy(time.Hour) {
			idx, err := p.calendar.IndexOf(hourSlot.Start)
			if err != nil {
				continue
			}
			set[idx] = true
		}
		out[a] = set
	}
	return out
}

// selectNext implements the least-flex-first rule: among ReadyToSchedule
// activities, pick the one with the smallest flex, ties broken by iteration
// (insertion) order. Activities with flex <= 1 are picked immediately
// without scanning further: a non-positive flex resolves this round either
// way (the block fits exactly or the activity is marked terminal), and a
// flex-1 activity can always be scheduled now.
func (p *Placer) selectNext() *Activity {
	var picked *Activity
	bestFlex := 0
	for _, a := range p.activities {
		if a.Status != ReadyToSchedule {
			continue
		}
		flex := a.Flex()
		if flex <= 1 {
			return a
		}
		if picked == nil || flex < bestFlex {
			picked = a
			bestFlex = flex
		}
	}
	return picked
}

type blockCandidate struct {
	Index  int
	Length int
}

// bestBlock scores candidate windows within a's overlay. Budget activities
// fall back to progressively shorter blocks when the full duration doesn't
// fit anywhere. Simple activities fall back too, but only when the full
// length was available in the overlay and a budget ceiling rejected it:
// partial placement lets the capped portion land and surfaces only the
// truly unreachable remainder as impossible.
func (p *Placer) bestBlock(a *Activity, overlayIdx map[*Activity]map[int]bool) *blockCandidate {
	idxSet := overlayIdx[a]
	sorted := make([]int, 0, len(idxSet))
	for i := range idxSet {
		sorted = append(sorted, i)
	}
	sort.Ints(sorted)
	runs := contiguousRuns(sorted)

	best, budgetBlocked := p.tryLength(a, a.DurationLeft, runs, overlayIdx)
	if best != nil {
		return best
	}
	if a.ActivityType == BudgetActivity || budgetBlocked {
		for length := a.DurationLeft - 1; length >= 1; length-- {
			if best, _ := p.tryLength(a, length, runs, overlayIdx); best != nil {
				return best
			}
		}
	}
	return nil
}

// tryLength returns the lowest-conflict candidate of exactly length hours,
// ties broken by earliest start, or nil. budgetBlocked reports whether at
// least one otherwise-valid candidate was rejected only by a budget ceiling.
func (p *Placer) tryLength(a *Activity, length int, runs [][2]int, overlayIdx map[*Activity]map[int]bool) (best *blockCandidate, budgetBlocked bool) {
	if length <= 0 {
		return nil, false
	}
	bestScore := -1
	for _, run := range runs {
		runStart, runEnd := run[0], run[1]
		for start := runStart; start+length <= runEnd; start++ {
			if !p.passesAfterGoals(a, start) {
				continue
			}
			if !p.calendar.Budgets.CanReserve(a.GoalID, start, length) {
				budgetBlocked = true
				continue
			}
			score := conflictScore(a, start, length, overlayIdx)
			if best == nil || score < bestScore {
				best = &blockCandidate{Index: start, Length: length}
				bestScore = score
			}
		}
	}
	return best, budgetBlocked
}

func (p *Placer) passesAfterGoals(a *Activity, start int) bool {
	for _, pred := range a.AfterGoals {
		if latest, ok := p.latestReserved[pred]; ok && start <= latest {
			return false
		}
	}
	return true
}

func conflictScore(a *Activity, start, length int, overlayIdx map[*Activity]map[int]bool) int {
	count := 0
	for other, idxSet := range overlayIdx {
		if other == a {
			continue
		}
		for i := start; i < start+length; i++ {
			if idxSet[i] {
				count++
				break
			}
		}
	}
	return count
}

// contiguousRuns collapses a sorted slice of distinct ints into maximal
// runs of consecutive values, each returned as a half-open [start,end) pair.
func contiguousRuns(sorted []int) [][2]int {
	if len(sorted) == 0 {
		return nil
	}
	var runs [][2]int
	runStart := sorted[0]
	prev := sorted[0]
	for _, v := range sorted[1:] {
		if v == prev+1 {
			prev = v
			continue
		}
		runs = append(runs, [2]int{runStart, prev + 1})
		runStart = v
		prev = v
	}
	runs = append(runs, [2]int{runStart, prev + 1})
	return runs
}
