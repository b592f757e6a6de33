package rcpsp

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/gitrdm/rcpspsolver/internal/parallel"
	"github.com/gitrdm/rcpspsolver/internal/rng"
)

// C7: branching seed generator. Grows a binary tree of instance
// specialisations by adding one disjunctive edge pair at a time,
// selecting each split by minimum sum of lower bounds, and yields a
// fixed-size leaf set of seed permutations for the downstream
// metaheuristic. Concurrency is grounded directly on the teacher's
// Solver.solveOptimalParallel (pkg/minikanren/optimize_parallel.go):
// a shared incumbent guarded by a mutex, an atomic stop flag, and a
// bounded worker pool draining a one-shot batch of candidates per
// branching round. golang.org/x/sync/errgroup wraps the fan-out for
// structured error propagation the teacher's raw-goroutine version
// does not need (its workers cannot fail; ours can on a malformed
// candidate).

// Seed is one leaf of the branching tree: the activity ids of its
// shaken-down schedule sorted ascending by start time (spec.md §4.7's
// "convert start-times to a sorted activity order"), that schedule's
// makespan, and the edges branching added on top of the root
// instance. Order is a start-time ordering, not the permutation the
// serial schedule-generation scheme happened to consume to produce
// it — the two differ whenever a predecessor-delayed activity is
// processed earlier than an independent one that ends up starting
// later.
type Seed struct {
	Order      []int
	Cost       int
	AddedEdges []Edge
}

// GenerateSeeds produces n seed permutations for root, per spec.md
// §4.7. r drives every random choice (candidate shuffling and, if the
// branching fallback triggers, diversification swaps), so the same
// seed yields the same candidate order. When more than one candidate
// of a round passes pickBranch's early-accept test, which one wins
// depends on worker scheduling, so the seed set itself is not
// guaranteed to repeat across runs. pool bounds the concurrency used
// to evaluate candidate pairs within a single branching round.
// diversificationSwaps is DIVERSIFICATION_SWAPS and n is
// NUMBER_OF_SET_SOLUTIONS: the two ConfigureRCPSP fields the core reads
// itself; the other four are only forwarded to the device via
// DevicePayload.Config.
func GenerateSeeds(ctx context.Context, root *Instance, n int, r *rand.Rand, pool *parallel.Pool, diversificationSwaps int) ([]Seed, int, error) {
	if n <= 0 {
		return nil, -1, nil
	}

	open := []*Instance{root}
	var finished []*Instance

	for len(open)+len(finished) < n && len(open) > 0 {
		parent := open[0]
		open = open[1:]

		candidates := candidatePairs(parent)
		if len(candidates) == 0 {
			finished = append(finished, parent)
			continue
		}
		rng.Shuffle(r, candidates)

		child1, child2, err := pickBranch(ctx, parent, candidates, pool)
		if err != nil {
			return nil, -1, err
		}
		open = append(open, child1, child2)
	}

	leaves := append(finished, open...)
	if len(leaves) < n {
		return diversify(root, n, r, diversificationSwaps)
	}
	leaves = leaves[:n]

	seeds := make([]Seed, n)
	bestIdx := 0
	for idx, leaf := range leaves {
		initial := levelInitialOrder(leaf)
		_, result := shakeDown(leaf, initial)
		seeds[idx] = Seed{
			Order:      orderByStartTime(result.StartTimeByID),
			Cost:       result.Makespan,
			AddedEdges: leaf.AddedEdges,
		}
		if result.Makespan < seeds[bestIdx].Cost {
			bestIdx = idx
		}
	}
	return seeds, bestIdx, nil
}

// pickBranch evaluates every candidate pair of a branching round and
// returns the winning pair's two children, per spec.md §4.7 step 4:
// the first candidate whose two child lower bounds sum to at most
// 2*parentLB is accepted immediately (other workers are flagged to
// stop); otherwise the candidate with the globally smallest sum wins,
// ties broken by the lower index in candidates.
//
// Workers already past the stop check are not cancelled and still
// reach the critical section, but once a candidate has been accepted
// the accepted flag keeps them from replacing bestChild1/bestChild2.
// Which acceptable candidate is accepted first depends on worker
// scheduling.
func pickBranch(ctx context.Context, parent *Instance, candidates []Edge, pool *parallel.Pool) (*Instance, *Instance, error) {
	parentLB := lowerBoundOfMakespan(parent)

	var mu sync.Mutex
	var accepted bool
	var bestSum = -1
	var bestIdx int
	var bestChild1, bestChild2 *Instance
	var stop atomic.Bool

	g, gctx := errgroup.WithContext(ctx)
	for idx, pair := range candidates {
		idx, pair := idx, pair
		g.Go(func() error {
			if stop.Load() {
				return nil
			}
			done := make(chan struct{})
			var child1, child2 *Instance
			var lb1, lb2 int
			err := pool.Submit(gctx, func() {
				defer close(done)
				child1 = parent.branch(Edge{From: pair.From, To: pair.To})
				child2 = parent.branch(Edge{From: pair.To, To: pair.From})
				lb1 = lowerBoundOfMakespan(child1)
				lb2 = lowerBoundOfMakespan(child2)
			})
			if err != nil {
				return err
			}
			select {
			case <-done:
			case <-gctx.Done():
				return gctx.Err()
			}

			sum := lb1 + lb2

			mu.Lock()
			defer mu.Unlock()
			if sum <= 2*parentLB {
				if !accepted {
					accepted = true
					bestSum = sum
					bestChild1, bestChild2 = child1, child2
					stop.Store(true)
				}
				return nil
			}
			if accepted {
				return nil
			}
			if bestSum == -1 || sum < bestSum || (sum == bestSum && idx < bestIdx) {
				bestSum = sum
				bestIdx = idx
				bestChild1, bestChild2 = child1, child2
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return bestChild1, bestChild2, nil
}

// diversify implements spec.md §4.7's fallback path: when branching
// never reaches n leaves (no viable candidate at some point in every
// remaining open node), generate n permutations by repeatedly applying
// DIVERSIFICATION_SWAPS random precedence-safe swaps to the current
// permutation, alternating forward and shaking-down evaluation.
func diversify(root *Instance, n int, r *rand.Rand, diversificationSwaps int) ([]Seed, int, error) {
	seeds := make([]Seed, n)
	order := levelInitialOrder(root)
	bestIdx := 0

	for idx := 0; idx < n; idx++ {
		current := append([]int(nil), order...)
		for s := 0; s < diversificationSwaps; s++ {
			applyRandomSwap(root, current, r)
		}

		var result EvalResult
		if idx%2 == 0 {
			result = evaluate(root, current, true)
		} else {
			refined, evalResult := shakeDown(root, current)
			current = refined
			result = evalResult
		}
		seeds[idx] = Seed{
			Order:      orderByStartTime(result.StartTimeByID),
			Cost:       result.Makespan,
			AddedEdges: nil,
		}
		if result.Makespan < seeds[bestIdx].Cost {
			bestIdx = idx
		}
		order = current
	}
	return seeds, bestIdx, nil
}

// applyRandomSwap picks a random precedence-safe swap (i<j such that
// swapFeasible holds) and applies it to order in place. If no swap in
// a bounded number of tries is feasible, order is left unchanged.
func applyRandomSwap(inst *Instance, order []int, r *rand.Rand) {
	const maxTries = 50
	a := len(order)
	if a < 2 {
		return
	}
	for t := 0; t < maxTries; t++ {
		i := r.IntN(a)
		j := r.IntN(a)
		if i == j {
			continue
		}
		if i > j {
			i, j = j, i
		}
		if swapFeasible(inst, order, i, j) {
			order[i], order[j] = order[j], order[i]
			return
		}
	}
}
