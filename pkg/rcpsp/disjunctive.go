package rcpsp

// C6: disjunctive-pair analyser. Grounded on the teacher's Cumulative
// constraint (pkg/minikanren/cumulative.go), which checks a capacity
// sum of demands the same way this checks a capacity sum of resource
// requirement vectors; generalized here from one resource to R.

// buildDisjunctiveMatrix computes, for every unordered activity pair,
// whether the pair can run concurrently. disj[i][j] = true means i and
// j CANNOT run concurrently: one is a transitive relative of the
// other, or for some resource k, req[i][k]+req[j][k] > cap[k].
func buildDisjunctiveMatrix(inst *Instance) [][]bool {
	disj := make([][]bool, inst.A)
	for i := range disj {
		disj[i] = make([]bool, inst.A)
	}
	for i := 0; i < inst.A; i++ {
		for j := i + 1; j < inst.A; j++ {
			d := !canRunConcurrently(inst, i, j)
			disj[i][j] = d
			disj[j][i] = d
		}
	}
	return disj
}

// canRunConcurrently implements the non-disjunctive test of spec.md
// §4.6: i<j is non-disjunctive iff j is in neither i's successor nor
// predecessor closure, and for every resource k the combined
// requirement fits within capacity.
func canRunConcurrently(inst *Instance, i, j int) bool {
	if containsSorted(inst.SuccStar[i], j) || containsSorted(inst.PredStar[i], j) {
		return false
	}
	for k := 0; k < inst.R; k++ {
		if inst.Req[i][k]+inst.Req[j][k] > inst.Cap[k] {
			return false
		}
	}
	return true
}
