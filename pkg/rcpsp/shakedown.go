package rcpsp

// C3: shaking-down refiner. Iteratively improves a permutation by
// alternating forward/backward serial-schedule-generation evaluations
// until no further makespan reduction is found (spec.md §4.3).

// shakeDown runs the refinement loop over order (not mutated; a
// working copy is returned alongside the best makespan and its start
// times). Guarantees ms <= the initial forward makespan of order (P4).
func shakeDown(inst *Instance, order []int) ([]int, EvalResult) {
	working := append([]int(nil), order...)

	bestMs := -1
	var bestStart []int
	var bestOrder []int

	for {
		fwd := evaluate(inst, working, true)
		if bestMs >= 0 && fwd.Makespan >= bestMs {
			return bestOrder, EvalResult{StartTimeByID: bestStart, Makespan: bestMs}
		}
		bestMs = fwd.Makespan
		bestStart = fwd.StartTimeByID
		bestOrder = append([]int(nil), working...)

		finish := make([]int, inst.A)
		for _, a := range working {
			finish[a] = fwd.StartTimeByID[a] + inst.Dur[a]
		}
		insertionSortByKey(working, func(a int) int { return finish[a] })

		bwd := evaluate(inst, working, false)
		shift := bestMs - bwd.Makespan
		late := make([]int, inst.A)
		for _, a := range working {
			l := bwd.Makespan - bwd.StartTimeByID[a] - inst.Dur[a] + shift
			if l < 0 {
				l = 0
			}
			late[a] = l
		}
		insertionSortByKey(working, func(a int) int { return late[a] })
	}
}

// insertionSortByKey stably sorts xs ascending by key(x), in place,
// using insertion sort. Spec.md §4.3 requires insertion sort
// specifically (not a generic stable sort): it preserves relative
// order among equal keys across repeated forward/backward cycles,
// which materially affects the evaluator's resource decisions when
// several activities tie on finish time or latest start.
func insertionSortByKey(xs []int, key func(int) int) {
	for i := 1; i < len(xs); i++ {
		v := xs[i]
		kv := key(v)
		j := i - 1
		for j >= 0 && key(xs[j]) > kv {
			xs[j+1] = xs[j]
			j--
		}
		xs[j+1] = v
	}
}
