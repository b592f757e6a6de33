package rcpsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tenActivityInstance builds the ten-activity, two-resource fork-join
// instance used by the shaking-down and bound-soundness scenario tests
// (spec.md §8 scenario 5): two resources with capacity 2 each, a DAG
// with enough forking/joining and partial resource contention that the
// level-based initial permutation need not already be locally optimal,
// giving C3 room to improve it.
func tenActivityInstance(t *testing.T) *Instance {
	t.Helper()
	inst, err := NewInstance(
		[]int{0, 3, 2, 4, 2, 3, 2, 3, 1, 0},
		[]int{2, 2},
		[][]int{
			{0, 0}, // 0 source
			{1, 0}, // 1
			{0, 1}, // 2
			{1, 1}, // 3
			{1, 0}, // 4
			{0, 1}, // 5
			{1, 1}, // 6
			{1, 0}, // 7
			{0, 1}, // 8
			{0, 0}, // 9 sink
		},
		[][]int{
			{1, 2},    // 0
			{3, 4},    // 1
			{4, 5},    // 2
			{6},       // 3
			{6, 7},    // 4
			{7},       // 5
			{8},       // 6
			{8},       // 7
			{9},       // 8
			{},        // 9
		},
	)
	require.NoError(t, err)
	return inst
}

func TestShakingDownMonotonicityP4(t *testing.T) {
	cases := []struct {
		name string
		inst *Instance
	}{
		{"parallel pair under contention", parallelPairInstance(t, 1)},
		{"ten activity fork join", tenActivityInstance(t)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := levelInitialOrder(tc.inst)
			before := evaluate(tc.inst, order, true)

			after, result := shakeDown(tc.inst, order)

			assert.LessOrEqual(t, result.Makespan, before.Makespan)
			assertTopological(t, tc.inst, after)
			assert.Zero(t, precedencePenalty(tc.inst, result.StartTimeByID))
			assertResourceFeasible(t, tc.inst, result.StartTimeByID)
		})
	}
}

func TestShakeDownIsIdempotentAtItsOwnFixedPoint(t *testing.T) {
	inst := tenActivityInstance(t)
	order := levelInitialOrder(inst)
	once, onceResult := shakeDown(inst, order)
	twice, twiceResult := shakeDown(inst, once)

	assert.Equal(t, onceResult.Makespan, twiceResult.Makespan)
	assert.Equal(t, once, twice)
}
