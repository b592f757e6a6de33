package rcpsp

import (
	"testing"

	"pgregory.net/rapid"
)

// genInstance draws a random small RCPSP instance: activities numbered
// 0..n-1, every edge going from a lower id to a higher id (guaranteeing
// acyclicity without a separate cycle check), 1-2 resources with small
// capacities and requirement vectors clamped to capacity.
func genInstance(t *rapid.T) *Instance {
	n := rapid.IntRange(2, 9).Draw(t, "n")
	r := rapid.IntRange(1, 2).Draw(t, "r")

	cap := make([]int, r)
	for k := range cap {
		cap[k] = rapid.IntRange(1, 3).Draw(t, "cap")
	}

	dur := make([]int, n)
	req := make([][]int, n)
	for a := 0; a < n; a++ {
		dur[a] = rapid.IntRange(0, 4).Draw(t, "dur")
		req[a] = make([]int, r)
		for k := 0; k < r; k++ {
			req[a][k] = rapid.IntRange(0, cap[k]).Draw(t, "req")
		}
	}

	succ := make([][]int, n)
	for a := range succ {
		succ[a] = []int{}
	}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			if rapid.Bool().Draw(t, "edge") {
				succ[a] = append(succ[a], b)
			}
		}
	}

	inst, err := NewInstance(dur, cap, req, succ)
	if err != nil {
		t.Fatalf("genInstance produced an infeasible instance: %v", err)
	}
	return inst
}

func TestPropertyTopologicalOrdersAreConsistentP1(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inst := genInstance(t)
		order := levelInitialOrder(inst)
		assertTopologicalRapid(t, inst, order)
	})
}

func TestPropertyEvaluateIsResourceAndPrecedenceFeasible(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inst := genInstance(t)
		order := levelInitialOrder(inst)
		result := evaluate(inst, order, true)

		if penalty := precedencePenalty(inst, result.StartTimeByID); penalty != 0 {
			t.Fatalf("precedence penalty %d, want 0", penalty)
		}
		assertResourceFeasibleRapid(t, inst, result.StartTimeByID)
	})
}

func TestPropertyClosureConsistencyP6(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inst := genInstance(t)
		i := rapid.IntRange(0, inst.A-1).Draw(t, "i")
		j := rapid.IntRange(0, inst.A-1).Draw(t, "j")
		if containsSorted(inst.SuccStar[i], j) != containsSorted(inst.PredStar[j], i) {
			t.Fatalf("closure inconsistency for (%d,%d)", i, j)
		}
	})
}

func TestPropertyDisjunctiveConsistencyP7(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inst := genInstance(t)
		for i := 0; i < inst.A; i++ {
			for j := 0; j < inst.A; j++ {
				if i == j || inst.Disj[i][j] {
					continue
				}
				for k := 0; k < inst.R; k++ {
					if inst.Req[i][k]+inst.Req[j][k] > inst.Cap[k] {
						t.Fatalf("disj[%d][%d]=false but resource %d oversubscribed", i, j, k)
					}
				}
				if containsSorted(inst.SuccStar[i], j) || containsSorted(inst.PredStar[i], j) {
					t.Fatalf("disj[%d][%d]=false but the pair is precedence-related", i, j)
				}
			}
		}
	})
}

func TestPropertySwapFeasibleImpliesTopologicalP9(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inst := genInstance(t)
		order := levelInitialOrder(inst)
		if inst.A < 2 {
			return
		}
		i := rapid.IntRange(0, inst.A-2).Draw(t, "i")
		j := rapid.IntRange(i+1, inst.A-1).Draw(t, "j")
		if !swapFeasible(inst, order, i, j) {
			return
		}
		swapped := append([]int(nil), order...)
		swapped[i], swapped[j] = swapped[j], swapped[i]
		assertTopologicalRapid(t, inst, swapped)
	})
}

func TestPropertyShakeDownNeverWorsensP4(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inst := genInstance(t)
		order := levelInitialOrder(inst)
		before := evaluate(inst, order, true)
		_, after := shakeDown(inst, order)
		if after.Makespan > before.Makespan {
			t.Fatalf("shaking down worsened makespan: %d -> %d", before.Makespan, after.Makespan)
		}
	})
}

func assertTopologicalRapid(t *rapid.T, inst *Instance, order []int) {
	t.Helper()
	pos := make([]int, inst.A)
	for i, a := range order {
		pos[a] = i
	}
	for u := 0; u < inst.A; u++ {
		for _, v := range inst.Succ[u] {
			if pos[u] >= pos[v] {
				t.Fatalf("edge (%d,%d) out of order: pos[%d]=%d, pos[%d]=%d", u, v, u, pos[u], v, pos[v])
			}
		}
	}
}

func assertResourceFeasibleRapid(t *rapid.T, inst *Instance, startTimeByID []int) {
	t.Helper()
	horizon := 0
	for a, s := range startTimeByID {
		if end := s + inst.Dur[a]; end > horizon {
			horizon = end
		}
	}
	for tm := 0; tm < horizon; tm++ {
		load := make([]int, inst.R)
		for a, s := range startTimeByID {
			if s <= tm && tm < s+inst.Dur[a] {
				for k := 0; k < inst.R; k++ {
					load[k] += inst.Req[a][k]
				}
			}
		}
		for k, l := range load {
			if l > inst.Cap[k] {
				t.Fatalf("resource %d over capacity at t=%d: %d > %d", k, tm, l, inst.Cap[k])
			}
		}
	}
}
