package rcpsp

import (
	"fmt"
	"strings"
)

// Textual schedule reports, per spec.md §6. stdlib strings.Builder is
// the right tool: the layout is a fixed two-mode text format the spec
// pins down exactly, not a templating problem a pack library would
// help with.

// VerboseReport renders the "start\tactivities" form: a header, one
// row per distinct start time listing the activities beginning then,
// and summary lines for schedule length, precedence penalty,
// critical-path makespan, runtime, and evaluation count.
func VerboseReport(inst *Instance, startTimeByID []int, scheduleLength int, runtimeSeconds float64, evaluatedSchedules int) string {
	var b strings.Builder
	b.WriteString("start\tactivities\n")

	byStart := make(map[int][]int)
	var times []int
	for a, t := range startTimeByID {
		if _, ok := byStart[t]; !ok {
			times = append(times, t)
		}
		byStart[t] = append(byStart[t], a)
	}
	insertionSortByKey(times, func(t int) int { return t })
	for _, t := range times {
		ids := byStart[t]
		insertionSortByKey(ids, func(a int) int { return a })
		parts := make([]string, len(ids))
		for i, a := range ids {
			parts[i] = fmt.Sprintf("%d", a)
		}
		fmt.Fprintf(&b, "%d:\t%s\n", t, strings.Join(parts, " "))
	}

	penalty := precedencePenalty(inst, startTimeByID)
	fmt.Fprintf(&b, "schedule length: %d\n", scheduleLength)
	fmt.Fprintf(&b, "precedence penalty: %d\n", penalty)
	fmt.Fprintf(&b, "critical path makespan: %d\n", inst.CPBound)
	fmt.Fprintf(&b, "runtime: %.3f s\n", runtimeSeconds)
	fmt.Fprintf(&b, "evaluated schedules: %d\n", evaluatedSchedules)
	return b.String()
}

// NonVerboseReport renders the compact "<L>+<penalty> <cpBound>\t[<sec>
// s]\t<evaluatedSchedules>" form.
func NonVerboseReport(inst *Instance, startTimeByID []int, scheduleLength int, runtimeSeconds float64, evaluatedSchedules int) string {
	penalty := precedencePenalty(inst, startTimeByID)
	return fmt.Sprintf("%d+%d %d\t[%.3f s]\t%d",
		scheduleLength, penalty, inst.CPBound, runtimeSeconds, evaluatedSchedules)
}

// precedencePenalty sums, over every edge (u,v) in Succ (the original
// DAG) plus AddedEdges, max(0, end[u]-start[v]). It is zero for any
// schedule C2 emits (P3) and is reported defensively for schedules
// supplied from elsewhere (e.g. read back from a serialized file).
func precedencePenalty(inst *Instance, startTimeByID []int) int {
	penalty := 0
	add := func(u, v int) {
		end := startTimeByID[u] + inst.Dur[u]
		if slack := end - startTimeByID[v]; slack > 0 {
			penalty += slack
		}
	}
	for u := 0; u < inst.A; u++ {
		for _, v := range inst.Succ[u] {
			add(u, v)
		}
	}
	for _, e := range inst.AddedEdges {
		add(e.From, e.To)
	}
	return penalty
}
