package rcpsp

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigureRCPSP holds the positive-integer knobs spec.md §6 names.
// All of them are forwarded verbatim to the Device. The core itself
// reads only NumberOfSetSolutions (the seed count) and
// DiversificationSwaps (C7's fallback path); the rest stay opaque.
//
// Grounded on pkg/minikanren/model.go's Model.Validate() pattern
// (validate before use, return a descriptive error rather than
// panicking on a bad config).
type ConfigureRCPSP struct {
	TabuListSize               int `yaml:"tabu_list_size"`
	SwapRange                  int `yaml:"swap_range"`
	MaximalValueOfReadCounter  int `yaml:"maximal_value_of_read_counter"`
	DiversificationSwaps       int `yaml:"diversification_swaps"`
	NumberOfSetSolutions       int `yaml:"number_of_set_solutions"`
	NumberOfBlocksPerMultiproc int `yaml:"number_of_blocks_per_multiprocessor"`
}

// DefaultConfigureRCPSP returns a configuration with conservative
// defaults, matching the shape (if not the exact values) of the
// teacher's DefaultSolverConfig.
func DefaultConfigureRCPSP() ConfigureRCPSP {
	return ConfigureRCPSP{
		TabuListSize:               12,
		SwapRange:                  4,
		MaximalValueOfReadCounter:  1000,
		DiversificationSwaps:       20,
		NumberOfSetSolutions:       16,
		NumberOfBlocksPerMultiproc: 4,
	}
}

// LoadConfigureRCPSP reads a YAML configuration file at path. Fields
// the file omits keep their DefaultConfigureRCPSP values; a field set
// explicitly to zero or a negative value is rejected by Validate.
func LoadConfigureRCPSP(path string) (ConfigureRCPSP, error) {
	cfg := DefaultConfigureRCPSP()
	data, err := os.ReadFile(path)
	if err != nil {
		return ConfigureRCPSP{}, fmt.Errorf("%w: reading config %s: %v", ErrIOError, path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ConfigureRCPSP{}, fmt.Errorf("%w: parsing config %s: %v", ErrIOError, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return ConfigureRCPSP{}, err
	}
	return cfg, nil
}

// Validate rejects any non-positive knob value.
func (c ConfigureRCPSP) Validate() error {
	fields := map[string]int{
		"tabu_list_size":                      c.TabuListSize,
		"swap_range":                          c.SwapRange,
		"maximal_value_of_read_counter":       c.MaximalValueOfReadCounter,
		"diversification_swaps":               c.DiversificationSwaps,
		"number_of_set_solutions":             c.NumberOfSetSolutions,
		"number_of_blocks_per_multiprocessor": c.NumberOfBlocksPerMultiproc,
	}
	for name, v := range fields {
		if v <= 0 {
			return fmt.Errorf("rcpsp: config field %s must be positive, got %d", name, v)
		}
	}
	return nil
}
