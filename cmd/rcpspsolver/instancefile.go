package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gitrdm/rcpspsolver/pkg/rcpsp"
)

// instanceFile is the plain numeric-array representation spec.md §1
// assumes the (out-of-scope) parser hands to the core: durations,
// capacities, a requirement matrix, and a successor-list adjacency.
// JSON is used here only because this CLI is an intentionally minimal
// demo harness, not a specified wire format.
type instanceFile struct {
	Dur  []int   `json:"dur"`
	Cap  []int   `json:"cap"`
	Req  [][]int `json:"req"`
	Succ [][]int `json:"succ"`
}

func loadInstance(path string) (*rcpsp.Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading instance file %s: %w", path, err)
	}
	var f instanceFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing instance file %s: %w", path, err)
	}
	return rcpsp.NewInstance(f.Dur, f.Cap, f.Req, f.Succ)
}
