package rcpsp

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/rcpspsolver/internal/parallel"
)

func scenario4Instance(t *testing.T) *Instance {
	t.Helper()
	inst, err := NewInstance(
		[]int{0, 3, 2, 4, 0},
		[]int{1},
		[][]int{{0}, {1}, {1}, {1}, {0}},
		[][]int{{1, 2, 3}, {4}, {4}, {4}, {}},
	)
	require.NoError(t, err)
	return inst
}

func TestScenario4BranchingSeedGenerator(t *testing.T) {
	inst := scenario4Instance(t)
	r := rand.New(rand.NewPCG(1, 2))
	pool := parallel.New(2)
	defer pool.Shutdown()

	seeds, bestIdx, err := GenerateSeeds(context.Background(), inst, 4, r, pool, 20)
	require.NoError(t, err)
	require.Len(t, seeds, 4)
	require.GreaterOrEqual(t, bestIdx, 0)
	require.Less(t, bestIdx, len(seeds))

	for _, sd := range seeds {
		assert.GreaterOrEqual(t, sd.Cost, 9)
		assert.Greater(t, len(sd.AddedEdges), 0, "scenario 4 branches on every leaf; a diversify fallback would leave this nil")

		augmented := inst
		for _, e := range sd.AddedEdges {
			augmented = augmented.branch(e)
		}
		pos := make([]int, augmented.A)
		for i, a := range sd.Order {
			pos[a] = i
		}
		for u := 0; u < augmented.A; u++ {
			for _, v := range augmented.Succ[u] {
				assert.Lessf(t, pos[u], pos[v], "edge (%d,%d) out of order in seed", u, v)
			}
		}
	}
}
