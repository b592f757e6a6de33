package rcpsp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainInstance(t *testing.T) *Instance {
	t.Helper()
	inst, err := NewInstance(
		[]int{0, 3, 0},
		[]int{1},
		[][]int{{0}, {1}, {0}},
		[][]int{{1}, {2}, {}},
	)
	require.NoError(t, err)
	return inst
}

func parallelPairInstance(t *testing.T, cap int) *Instance {
	t.Helper()
	inst, err := NewInstance(
		[]int{0, 2, 2, 0},
		[]int{cap},
		[][]int{{0}, {1}, {1}, {0}},
		[][]int{{1, 2}, {3}, {3}, {}},
	)
	require.NoError(t, err)
	return inst
}

func TestNewInstanceRejectsOverCapacityRequirement(t *testing.T) {
	_, err := NewInstance(
		[]int{1},
		[]int{1},
		[][]int{{2}},
		[][]int{{}},
	)
	assert.True(t, errors.Is(err, ErrInstanceInfeasible))
}

func TestNewInstanceDerivesPredAndClosures(t *testing.T) {
	inst := chainInstance(t)
	assert.Equal(t, sortedSet{0}, inst.Pred[1])
	assert.Equal(t, sortedSet{1}, inst.Pred[2])
	assert.Equal(t, sortedSet{1, 2}, inst.SuccStar[0])
	assert.Equal(t, sortedSet{0}, inst.PredStar[1])
	assert.Equal(t, 3, inst.CPBound)
	assert.Equal(t, 3, inst.UBMakespan)
}

func TestScenario2ParallelPairIsNonDisjunctive(t *testing.T) {
	inst := parallelPairInstance(t, 2)
	assert.False(t, inst.Disj[1][2])
}

func TestScenario3CapacityForcedSerialisationIsDisjunctive(t *testing.T) {
	inst := parallelPairInstance(t, 1)
	assert.True(t, inst.Disj[1][2])
}
