package rcpsp

import (
	"fmt"
	"sort"
)

// C1: resource-load tracker. Grounded on the teacher's Cumulative
// constraint (pkg/minikanren/cumulative.go), which builds a resource
// profile from compulsory parts and checks it against capacity; this
// tracker generalizes that idea into an explicit breakpoint timeline
// per resource so earliestStart can be answered by a single scan
// rather than rebuilding a profile from scratch on every query.

// resourceTracker maintains, per resource, a chronologically ordered
// list of (time, freeCapacity) breakpoints covering [0, infinity). It
// is reconstructed at the start of every schedule evaluation (C2).
type resourceTracker struct {
	cap        []int
	breakpoint [][]loadPoint // per resource k, ascending by time
}

type loadPoint struct {
	time int
	free int
}

// newResourceTracker builds a tracker with full free capacity across
// [0, infinity): breakpoints are added lazily as add/earliestStart are
// called, so no explicit horizon needs to be pre-allocated.
func newResourceTracker(cap []int) *resourceTracker {
	t := &resourceTracker{cap: cap}
	t.breakpoint = make([][]loadPoint, len(cap))
	for k, c := range cap {
		t.breakpoint[k] = []loadPoint{{time: 0, free: c}}
	}
	return t
}

// freeAt returns the free capacity of resource k at instant t (the
// breakpoint in effect at t).
func (t *resourceTracker) freeAt(k, tm int) int {
	bps := t.breakpoint[k]
	i := sort.Search(len(bps), func(i int) bool { return bps[i].time > tm }) - 1
	if i < 0 {
		i = 0
	}
	return bps[i].free
}

// earliestStart finds the earliest t >= lowerBound such that for every
// resource k and every instant in [t, t+duration), the remaining
// capacity of k is >= req[k]. Ties are broken by lowest t. The search
// scans breakpoints in time order, as spec.md §4.1 specifies.
func (t *resourceTracker) earliestStart(req []int, lowerBound, duration int) int {
	if duration == 0 {
		return lowerBound
	}
	candidates := t.candidateTimes(lowerBound)
	for _, t0 := range candidates {
		if t.fits(req, t0, duration) {
			return t0
		}
	}
	// Fallback: should be unreachable for a well-formed instance, since
	// the horizon breakpoint always has full free capacity beyond the
	// last recorded load.
	return candidates[len(candidates)-1]
}

// candidateTimes gathers every breakpoint time >= lowerBound across all
// resources, plus lowerBound itself, ascending and deduplicated. Only
// breakpoint times can be the earliest feasible start: between two
// breakpoints free capacity is constant, so if a time mid-interval
// fits, the interval's start time fits too.
func (t *resourceTracker) candidateTimes(lowerBound int) []int {
	set := map[int]bool{lowerBound: true}
	for _, bps := range t.breakpoint {
		for _, bp := range bps {
			if bp.time >= lowerBound {
				set[bp.time] = true
			}
		}
	}
	out := make([]int, 0, len(set))
	for tm := range set {
		out = append(out, tm)
	}
	sort.Ints(out)
	return out
}

// fits reports whether req can be placed at [start, start+duration)
// without exceeding any resource's capacity at any instant in range.
func (t *resourceTracker) fits(req []int, start, duration int) bool {
	for k, r := range req {
		if r == 0 {
			continue
		}
		for _, tm := range t.instantsInRange(k, start, start+duration) {
			if t.freeAt(k, tm) < r {
				return false
			}
		}
	}
	return true
}

// instantsInRange returns the breakpoint times of resource k that fall
// within [start, end), plus start itself — the only instants at which
// free capacity can change within the interval.
func (t *resourceTracker) instantsInRange(k, start, end int) []int {
	out := []int{start}
	for _, bp := range t.breakpoint[k] {
		if bp.time > start && bp.time < end {
			out = append(out, bp.time)
		}
	}
	return out
}

// add decrements the free capacity of every resource across
// [start,end) by req[k], merging adjacent identical breakpoints.
// Returns ErrInvalidLoad if this would drive any resource's free
// capacity negative — an internal-invariant violation that must never
// occur on a well-formed instance (§7).
func (t *resourceTracker) add(start, end int, req []int) error {
	if start >= end {
		return nil
	}
	for k, r := range req {
		if r == 0 {
			continue
		}
		if err := t.addOne(k, start, end, r); err != nil {
			return err
		}
	}
	return nil
}

func (t *resourceTracker) addOne(k, start, end, r int) error {
	bps := t.breakpoint[k]

	times := map[int]bool{start: true, end: true}
	for _, bp := range bps {
		times[bp.time] = true
	}
	sorted := make([]int, 0, len(times))
	for tm := range times {
		sorted = append(sorted, tm)
	}
	sort.Ints(sorted)

	next := make([]loadPoint, 0, len(sorted))
	for _, tm := range sorted {
		free := t.freeAt(k, tm)
		if tm >= start && tm < end {
			free -= r
		}
		if free < 0 {
			return fmt.Errorf("%w: resource %d would go negative at t=%d", ErrInvalidLoad, k, tm)
		}
		next = append(next, loadPoint{time: tm, free: free})
	}

	merged := next[:0:0]
	for i, p := range next {
		if i == 0 || p.free != merged[len(merged)-1].free {
			merged = append(merged, p)
		}
	}
	t.breakpoint[k] = merged
	return nil
}
