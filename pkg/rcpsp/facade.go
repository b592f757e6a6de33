package rcpsp

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gitrdm/rcpspsolver/internal/parallel"
)

// C8: solver facade. Owns an Instance, runs preprocessing (already done
// by NewInstance via C4/C5/C6), drives C7's seed generation, hands the
// result to a Device, and reports back the best schedule found. Grounded
// on the teacher's Solver type (pkg/minikanren/solver.go): a facade that
// holds immutable problem state and exposes a handful of entry points,
// logging each phase with a run-scoped correlation id.
type Solver struct {
	inst   *Instance
	config ConfigureRCPSP
	device Device
	logger *zap.Logger
}

// NewSolver constructs a facade over inst. If logger is nil, a no-op
// logger is used (matching zap.NewNop's role in the teacher's tests).
func NewSolver(inst *Instance, config ConfigureRCPSP, device Device, logger *zap.Logger) *Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if device == nil {
		device = NullDevice{}
	}
	return &Solver{inst: inst, config: config, device: device, logger: logger}
}

// Solution is the facade's end-to-end result: the best order and
// per-activity start times found, the makespan, the critical-path
// lower bound it was measured against, wall-clock runtime, and the
// number of schedules the device reports having evaluated.
type Solution struct {
	RunID              string
	Order              []int
	StartTimeByID      []int
	Makespan           int
	CPBound            int
	RuntimeSeconds     float64
	EvaluatedSchedules int
}

// Solve runs the full C7->Device->C2/C3 pipeline: generate
// config.NumberOfSetSolutions seed permutations, hand them to the
// device alongside the instance's static data, and shake down whatever
// order the device returns before reporting it. seed drives every
// random choice C7 makes; with the same Instance, config, and seed the
// candidate order is the same, though which early-accepted branch wins
// a round can still depend on worker scheduling (see pickBranch).
func (s *Solver) Solve(ctx context.Context, seed uint64) (Solution, error) {
	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID))
	started := time.Now()

	log.Info("solve starting",
		zap.Int("activities", s.inst.A),
		zap.Int("resources", s.inst.R),
		zap.Int("cp_bound", s.inst.CPBound))

	// NumberOfBlocksPerMultiproc and the other three knobs the core does
	// not read are opaque values meant for the external device; the
	// pool below is purely this process's internal fan-out for
	// evaluating candidate branch pairs, sized independently. The core
	// reads two knobs itself: NumberOfSetSolutions as the seed count
	// and DiversificationSwaps for C7's fallback path.
	pool := parallel.New(0)
	defer pool.Shutdown()

	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	seeds, bestIdx, err := GenerateSeeds(ctx, s.inst, s.config.NumberOfSetSolutions, r, pool, s.config.DiversificationSwaps)
	if err != nil {
		log.Error("seed generation failed", zap.Error(err))
		return Solution{}, fmt.Errorf("rcpsp: generating seeds: %w", err)
	}
	log.Info("seeds generated", zap.Int("count", len(seeds)))

	if len(seeds) == 0 {
		return Solution{}, fmt.Errorf("%w: instance too small for any seed", ErrDeviceUnavailable)
	}

	payload := s.buildPayload(seeds)
	result, err := s.device.Run(ctx, payload)
	if err != nil {
		log.Error("device run failed", zap.Error(err))
		return Solution{}, fmt.Errorf("rcpsp: device run: %w", err)
	}
	log.Info("device returned",
		zap.Int("best_cost", result.BestCost),
		zap.Int("evaluated", result.Evaluated))

	order, evalResult := shakeDown(s.inst, result.BestOrder)
	if evalResult.Makespan > result.BestCost {
		// Shaking down never worsens a feasible schedule (P4); fall
		// back to the device's own order/cost if this ever trips, since
		// it signals result.BestOrder was not a valid topological order.
		order = append([]int(nil), result.BestOrder...)
		evalResult = evaluate(s.inst, order, true)
		log.Warn("shaking down did not improve device result; using raw device order",
			zap.Int("device_cost", result.BestCost),
			zap.Int("raw_makespan", evalResult.Makespan))
	}

	seedBest := seeds[bestIdx]
	if seedBest.Cost < evalResult.Makespan {
		order = append([]int(nil), seedBest.Order...)
		evalResult = evaluate(s.inst, order, true)
		log.Info("best seed outperformed device result; using seed", zap.Int("seed_cost", seedBest.Cost))
	}

	sol := Solution{
		RunID:              runID,
		Order:              order,
		StartTimeByID:      evalResult.StartTimeByID,
		Makespan:           evalResult.Makespan,
		CPBound:            s.inst.CPBound,
		RuntimeSeconds:     time.Since(started).Seconds(),
		EvaluatedSchedules: result.Evaluated,
	}
	log.Info("solve finished",
		zap.Int("makespan", sol.Makespan),
		zap.Float64("runtime_s", sol.RuntimeSeconds))
	return sol, nil
}

// buildPayload consolidates the instance's static data and the
// generated seeds into the flat form Device.Run expects, per spec.md
// §4.8's "hand across the boundary" description.
func (s *Solver) buildPayload(seeds []Seed) DevicePayload {
	orders := make([][]int, len(seeds))
	costs := make([]int, len(seeds))
	edges := make([][]Edge, len(seeds))
	for i, sd := range seeds {
		orders[i] = sd.Order
		costs[i] = sd.Cost
		edges[i] = sd.AddedEdges
	}
	return DevicePayload{
		Seeds:       orders,
		SeedCosts:   costs,
		AddedEdges:  edges,
		Dur:         s.inst.Dur,
		Cap:         s.inst.Cap,
		Req:         s.inst.Req,
		LongestPath: s.inst.RLLongestPath,
		SuccMat:     s.inst.SuccMat,
		Config:      s.config,
		// A fixed default iteration bound: the device itself is an
		// external non-goal, so the core only needs to hand across a
		// plausible budget rather than derive an optimal one.
		MaxIter:          1000 * s.inst.A,
		MaxIterSinceBest: 100 * s.inst.A,
	}
}
