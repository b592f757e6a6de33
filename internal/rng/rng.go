// Package rng provides an explicitly-seeded random source for the
// branching seed generator (C7) and its diversification fallback.
//
// Addresses spec.md §9's "Global mutable state" redesign note: the
// original source seeds a C-library RNG from process time. Every
// caller here threads its own *rand.Rand, seeded once by the caller
// (typically from the seed passed to Solver.Solve, or by a test), so
// the random choices of a run repeat given the same seed.
package rng

import "math/rand/v2"

// New returns a new pseudo-random source seeded deterministically from
// seed. Two calls with the same seed produce identical sequences.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// Shuffle permutes xs in place using r, via the Fisher-Yates algorithm
// (rand.Rand.Shuffle already does this; this wrapper exists so callers
// never reach for math/rand's global functions).
func Shuffle[T any](r *rand.Rand, xs []T) {
	r.Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
}
