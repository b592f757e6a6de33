package rcpsp

// branch produces a derived Instance that adds one precedence edge
// (from the disjunctive pair a child of GenerateSeeds considers) on
// top of inst. Only the affected rows of SuccStar, PredStar, Disj,
// Succ, Pred, and SuccMat are recomputed; every other field (Dur, Cap,
// Req, RLLongestPath, CPBound, UBMakespan — the latter three are
// defined against "the original DAG" per spec.md §3 and are not
// recomputed per branch) is shared by reference with the parent,
// following the copy-on-write discipline of the teacher's SolverState
// chain (pkg/minikanren/solver.go) rather than the source's aliased
// pointer-walking (spec.md §9).
func (inst *Instance) branch(edge Edge) *Instance {
	i, j := edge.From, edge.To

	child := &Instance{
		A:             inst.A,
		R:             inst.R,
		Dur:           inst.Dur,
		Cap:           inst.Cap,
		Req:           inst.Req,
		RLLongestPath: inst.RLLongestPath,
		CPBound:       inst.CPBound,
		UBMakespan:    inst.UBMakespan,
	}

	child.Succ = append([]sortedSet(nil), inst.Succ...)
	child.Succ[i] = sortedInsert(inst.Succ[i], j)
	child.Pred = append([]sortedSet(nil), inst.Pred...)
	child.Pred[j] = sortedInsert(inst.Pred[j], i)

	child.SuccMat = append([][]bool(nil), inst.SuccMat...)
	row := append([]bool(nil), inst.SuccMat[i]...)
	row[j] = true
	child.SuccMat[i] = row

	iPart := sortedInsert(inst.PredStar[i], i)
	jPart := sortedInsert(inst.SuccStar[j], j)

	child.SuccStar = append([]sortedSet(nil), inst.SuccStar...)
	for _, x := range iPart {
		child.SuccStar[x] = sortedUnion(inst.SuccStar[x], jPart)
	}
	child.PredStar = append([]sortedSet(nil), inst.PredStar...)
	for _, x := range jPart {
		child.PredStar[x] = sortedUnion(inst.PredStar[x], iPart)
	}

	child.Disj = append([][]bool(nil), inst.Disj...)
	affected := sortedUnion(iPart, jPart)
	for _, x := range affected {
		for _, c := range [2]int{i, j} {
			if x == c || child.Disj[x][c] {
				continue
			}
			if containsSorted(child.SuccStar[x], c) || containsSorted(child.PredStar[x], c) {
				rowX := append([]bool(nil), child.Disj[x]...)
				rowX[c] = true
				child.Disj[x] = rowX

				rowC := append([]bool(nil), child.Disj[c]...)
				rowC[x] = true
				child.Disj[c] = rowC
			}
		}
	}

	child.AddedEdges = append(append([]Edge(nil), inst.AddedEdges...), edge)
	return child
}

// alreadyOrdered reports whether i and j are already related by
// precedence (in either direction) in inst.
func alreadyOrdered(inst *Instance, i, j int) bool {
	return containsSorted(inst.SuccStar[i], j) || containsSorted(inst.PredStar[i], j)
}

// candidatePairs enumerates every unordered pair (i,j), i<j, that is
// disjunctive (cannot run concurrently) but not yet ordered by
// precedence — the branching candidates of spec.md §4.7 step 2. Pairs
// closed by edges added in earlier branching rounds are skipped.
func candidatePairs(inst *Instance) []Edge {
	var out []Edge
	for i := 0; i < inst.A; i++ {
		for j := i + 1; j < inst.A; j++ {
			if inst.Disj[i][j] && !alreadyOrdered(inst, i, j) {
				out = append(out, Edge{From: i, To: j})
			}
		}
	}
	return out
}
