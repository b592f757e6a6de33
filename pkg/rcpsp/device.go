package rcpsp

import (
	"context"
	"fmt"
)

// Device abstracts the external metaheuristic (the GPU tabu-search
// kernel of spec.md §1/§4.8), a non-goal of this repository. The
// facade hands it a consolidated payload and blocks until it returns
// an improved permutation and cost, or an error.
type Device interface {
	Run(ctx context.Context, payload DevicePayload) (DeviceResult, error)
}

// DevicePayload is the consolidated data handed across the C8/device
// boundary: flat arrays of seed permutations, per-seed cost metadata,
// added-edge lists, duration/resource arrays, precomputed longest
// paths, the successor bitmatrix, the opaque ConfigureRCPSP knobs, and
// the iteration bound the core has no other way to cap the (external,
// non-goal) metaheuristic with — per spec.md §5, "none at the core
// level — the metaheuristic is bounded by (maxIter, maxIterSinceBest)
// passed in."
type DevicePayload struct {
	Seeds      [][]int
	SeedCosts  []int
	AddedEdges [][]Edge

	Dur, Cap    []int
	Req         [][]int
	LongestPath []int
	SuccMat     [][]bool

	Config           ConfigureRCPSP
	MaxIter          int
	MaxIterSinceBest int
}

// DeviceResult is what the metaheuristic reports back: the best
// permutation it found, its cost, and how many schedule evaluations it
// performed.
type DeviceResult struct {
	BestOrder []int
	BestCost  int
	Evaluated int
}

// NullDevice is a deterministic stand-in for the GPU tabu-search
// kernel: it performs no search of its own and simply reports the best
// of the seeds it was handed. It exists so the facade (C8) and its
// tests can be exercised end-to-end without a real device, and is
// explicitly not an attempt to reimplement the kernel (a non-goal).
type NullDevice struct{}

// Run implements Device by scanning payload.Seeds for the
// lowest-cost entry.
func (NullDevice) Run(ctx context.Context, payload DevicePayload) (DeviceResult, error) {
	if len(payload.Seeds) == 0 {
		return DeviceResult{}, fmt.Errorf("%w: no seeds supplied", ErrDeviceUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return DeviceResult{}, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	bestIdx := 0
	for i, c := range payload.SeedCosts {
		if c < payload.SeedCosts[bestIdx] {
			bestIdx = i
		}
	}
	return DeviceResult{
		BestOrder: append([]int(nil), payload.Seeds[bestIdx]...),
		BestCost:  payload.SeedCosts[bestIdx],
		Evaluated: len(payload.Seeds),
	}, nil
}
