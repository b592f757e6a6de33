// Package rcpsp implements a solver for the Resource-Constrained Project
// Scheduling Problem: instance preprocessing, serial-schedule-generation
// evaluation, and best-first branching seed generation for a downstream
// metaheuristic. See DESIGN.md for the grounding of each component.
package rcpsp

import "errors"

// Sentinel error kinds. Wrap with fmt.Errorf("...: %w", ErrX) to attach
// context; callers compare with errors.Is.
var (
	// ErrInstanceInfeasible is returned by NewInstance when an activity
	// requires more of a resource than that resource's capacity (I2).
	ErrInstanceInfeasible = errors.New("rcpsp: instance infeasible")

	// ErrDeviceUnavailable is returned by the solver facade when the
	// external metaheuristic refuses to start or reports failure.
	ErrDeviceUnavailable = errors.New("rcpsp: device unavailable")

	// ErrInvalidLoad signals an internal invariant violation in the
	// resource-load tracker (C1): free capacity would go negative.
	// Must never fire on a well-formed instance; treated as a bug.
	ErrInvalidLoad = errors.New("rcpsp: invalid load")

	// ErrIOError is returned when a serialization target is unwritable
	// or unreadable.
	ErrIOError = errors.New("rcpsp: io error")
)
