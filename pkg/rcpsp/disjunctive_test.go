package rcpsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisjunctiveConsistencyP7(t *testing.T) {
	inst := parallelPairInstance(t, 2)
	disj := buildDisjunctiveMatrix(inst)
	for i := 0; i < inst.A; i++ {
		for j := 0; j < inst.A; j++ {
			if i == j || disj[i][j] {
				continue
			}
			for k := 0; k < inst.R; k++ {
				assert.LessOrEqual(t, inst.Req[i][k]+inst.Req[j][k], inst.Cap[k])
			}
			assert.False(t, containsSorted(inst.SuccStar[i], j))
			assert.False(t, containsSorted(inst.PredStar[i], j))
		}
	}
}
