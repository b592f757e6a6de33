package rcpsp

import "sort"

// C5: lower-bound engines. Two exported bounds: a resource-augmented
// longest path per activity (with optional energy reasoning), and a
// concurrency-sort makespan bound built on top of it. Grounded on
// spec.md §4.5; worklist/closed-set iteration style grounded on the
// teacher's BFS-style worklist processing (pkg/minikanren/search.go).

// computeBound returns, for every activity, a lower bound on the
// earliest instant it can start under precedence and, if
// energyReasoning is set, energy-reasoning strengthening. It reads
// inst.Dur and mutates nothing; the envelope computation below calls
// computeBoundGraph directly with its own reduced duration copy.
func computeBound(inst *Instance, start int, energyReasoning bool) []int {
	return computeBoundGraph(forwardGraph{inst}, inst, start, energyReasoning)
}

// computeBoundGraph is the graph-polymorphic form used by both the
// forward bound (against inst directly) and the backward bound
// (against inst's reverseView), as spec.md §4.5's envelope requires
// "computeBound(source, true) and, on the edge-reversed instance,
// computeBound(sink, true)".
func computeBoundGraph(g boundGraph, inst *Instance, start int, energyReasoning bool) []int {
	a := inst.A
	dist := make([]int, a)
	closed := make([]bool, a)
	var branch [][]int // branch[a][x]: divergence labels of the paths ending at activity a (see mergeBranchLabels)
	if energyReasoning {
		branch = make([][]int, a)
	}

	inWorklist := make(map[int]bool)
	worklist := []int{start}
	inWorklist[start] = true

	for len(worklist) > 0 {
		idx := -1
		for i, act := range worklist {
			if allClosed(g, act, closed) {
				idx = i
				break
			}
		}
		if idx == -1 {
			// No activity in the worklist has all predecessors closed
			// yet; this cannot happen on a DAG reachable from start,
			// but guard against a malformed Instance rather than spin.
			break
		}
		act := worklist[idx]
		worklist = append(worklist[:idx], worklist[idx+1:]...)
		delete(inWorklist, act)

		preds := g.pred(act)
		best := 0
		for _, p := range preds {
			if d := dist[p] + g.dur(p); d > best {
				best = d
			}
		}
		dist[act] = best

		if energyReasoning && len(preds) >= 2 {
			dist[act] = strengthenWithEnergy(g, inst, act, preds, dist, branch)
		}
		if energyReasoning {
			branch[act] = mergeBranchLabels(g, act, a, preds, branch)
		}
		closed[act] = true

		for _, s := range g.succ(act) {
			if !closed[s] && !inWorklist[s] {
				worklist = append(worklist, s)
				inWorklist[s] = true
			}
		}
	}
	return dist
}

func allClosed(g boundGraph, act int, closed []bool) bool {
	for _, p := range g.pred(act) {
		if !closed[p] {
			return false
		}
	}
	return true
}

// boundGraph is the surface computeBound needs, satisfied by both
// forwardGraph and reverseView.
type boundGraph interface {
	pred(a int) sortedSet
	succ(a int) sortedSet
	dur(a int) int
}

func (g forwardGraph) succ(a int) sortedSet { return g.inst.Succ[a] }

// durOverrideGraph wraps a boundGraph and substitutes a caller-supplied
// duration slice for the wrapped graph's own durations, leaving
// pred/succ untouched. lowerBoundOfMakespan uses it so its running,
// concurrency-reduced dur copy (not the original Instance.Dur) feeds
// computeBoundGraph, per spec.md §4.5 step 3's "computeBound(source,
// true)" being computed against each activity's "current duration."
type durOverrideGraph struct {
	inner boundGraph
	durs  []int
}

func (g durOverrideGraph) pred(a int) sortedSet { return g.inner.pred(a) }
func (g durOverrideGraph) succ(a int) sortedSet { return g.inner.succ(a) }
func (g durOverrideGraph) dur(a int) int        { return g.durs[a] }

// mergeBranchLabels builds act's branch map by merging its
// predecessors' maps: branch[act][x] names which outgoing edge of x a
// path from x to act took. A predecessor with no tracked map (a
// source-adjacent activity) contributes no labels.
func mergeBranchLabels(g boundGraph, act, numActivities int, preds sortedSet, branch [][]int) []int {
	merged := make([]int, numActivities)
	for i := range merged {
		merged[i] = -1
	}
	for _, p := range preds {
		bp := branch[p]
		for x, edgeIdx := range bp {
			if edgeIdx < 0 {
				continue
			}
			if merged[x] == -1 {
				merged[x] = edgeIdx
			}
		}
		// The path from p to act leaves p along the edge p->act; label it
		// by that edge's index among p's outgoing edges.
		for edgeIdx, s := range g.succ(p) {
			if s == act {
				merged[p] = edgeIdx
				break
			}
		}
	}
	return merged
}

// strengthenWithEnergy implements spec.md §4.5's energy-reasoning
// strengthening: merge predecessors' branch maps, find divergence
// sources (nodes reached via different outgoing edges along different
// predecessor paths), and for each raise dist[act] using the energy
// (duration*requirement, summed over the interval strictly between the
// source and act, divided by capacity) that must be absorbed between
// that source and act. Durations are read through g, not inst.Dur
// directly, so a caller computing against a reduced working-duration
// copy (durOverrideGraph) gets a consistent energy figure.
func strengthenWithEnergy(g boundGraph, inst *Instance, act int, preds sortedSet, dist []int, branch [][]int) int {
	best := dist[act]

	divergence := findDivergenceSources(preds, branch)
	for _, s := range divergence {
		interval := intersectSets(predecessorClosureOf(g, act), successorClosureOf(g, s))
		energy := 0
		for k := 0; k < inst.R; k++ {
			sum := 0
			for _, x := range interval {
				sum += g.dur(x) * inst.Req[x][k]
			}
			if e := ceilDiv(sum, maxInt(inst.Cap[k], 1)); e > energy {
				energy = e
			}
		}
		if cand := dist[s] + g.dur(s) + energy; cand > best {
			best = cand
		}
	}
	return best
}

// successorClosureOf returns succ*(s) using whichever closure cache g
// backs (Instance's SuccStar, or the reversed PredStar via reverseView).
func successorClosureOf(g boundGraph, s int) sortedSet {
	switch v := g.(type) {
	case forwardGraph:
		return v.inst.SuccStar[s]
	case reverseView:
		return v.succStar(s)
	case durOverrideGraph:
		return successorClosureOf(v.inner, s)
	}
	return nil
}

// predecessorClosureOf returns pred*(a) in g's own direction: Instance's
// PredStar, or the reversed SuccStar via reverseView.
func predecessorClosureOf(g boundGraph, a int) sortedSet {
	switch v := g.(type) {
	case forwardGraph:
		return v.inst.PredStar[a]
	case reverseView:
		return v.predStar(a)
	case durOverrideGraph:
		return predecessorClosureOf(v.inner, a)
	}
	return nil
}

// findDivergenceSources scans the predecessors' merged branch labels
// for nodes where two predecessors disagree on the outgoing edge
// taken, per spec.md §4.5.
func findDivergenceSources(preds sortedSet, branch [][]int) []int {
	seen := make(map[int]int) // node x -> edge label seen so far
	var sources []int
	reported := make(map[int]bool)
	for _, p := range preds {
		bp := branch[p]
		for x, edgeIdx := range bp {
			if edgeIdx < 0 {
				continue
			}
			if prior, ok := seen[x]; ok {
				if prior != edgeIdx && !reported[x] {
					sources = append(sources, x)
					reported[x] = true
				}
			} else {
				seen[x] = edgeIdx
			}
		}
	}
	sort.Ints(sources)
	return sources
}

func intersectSets(a, b sortedSet) sortedSet {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// lowerBoundOfMakespan computes the concurrency-sort makespan bound of
// spec.md §4.5: sort activities by ascending (concurrency level,
// duration), then greedily "consume" each activity's duration from
// every concurrent successor-in-the-sort, tracking both an additive
// running lower bound and an envelope bound from the two-sided
// resource-augmented longest path. The bound engine mutates only a
// local copy of Dur; inst itself is untouched.
func lowerBoundOfMakespan(inst *Instance) int {
	concurrency := make([]int, inst.A)
	for i := 0; i < inst.A; i++ {
		c := 0
		for j := 0; j < inst.A; j++ {
			if i != j && !inst.Disj[i][j] {
				c++
			}
		}
		concurrency[i] = c
	}

	order := make([]int, inst.A)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		ci, cj := concurrency[order[i]], concurrency[order[j]]
		if ci != cj {
			return ci < cj
		}
		return inst.Dur[order[i]] < inst.Dur[order[j]]
	})

	dur := append([]int(nil), inst.Dur...)
	lb := 0
	envelopeMax := 0

	rv := reverseOf(inst)
	for i, a := range order {
		d := dur[a]
		if d > 0 {
			fwd := durOverrideGraph{inner: forwardGraph{inst}, durs: dur}
			bwd := durOverrideGraph{inner: rv, durs: dur}
			fwdBound := computeBoundGraph(fwd, inst, inst.source(), true)
			bwdBound := computeBoundGraph(bwd, inst, rv.source(), true)
			envelope := lb + maxInt(fwdBound[inst.sink()], bwdBound[inst.source()])
			if envelope > envelopeMax {
				envelopeMax = envelope
			}
		}

		for j := i + 1; j < len(order); j++ {
			b := order[j]
			if !inst.Disj[a][b] && dur[b] > 0 {
				dur[b] -= d
				if dur[b] < 0 {
					dur[b] = 0
				}
			}
		}
		dur[a] = 0
		lb += d
	}

	if envelopeMax > lb {
		return envelopeMax
	}
	return lb
}
