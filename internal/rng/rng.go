// Package rng provides the deterministic random stream used by the battle
// engine. A Stream is a plain value: copying it forks the sequence, so a
// battle state snapshot carries its own reproducible randomness.
package rng

import "math/rand/v2"

// golden is the PCG stream selector mixed into every seed.
const golden = 0x9e3779b97f4a7c15

// Stream is a seedable PCG stream, or a constant source for tests.
type Stream struct {
	pcg      rand.PCG
	constant bool
	value    float64
}

// New returns a stream seeded with seed. Seed 0 is replaced with 1.
func New(seed uint64) Stream {
	if seed == 0 {
		seed = 1
	}
	return Stream{pcg: *rand.NewPCG(seed, seed^golden)}
}

// Constant returns a stream whose Float64 always yields v.
// Constant(0.999) forces every roll below 0.999 to fail; Constant(0) forces success.
func Constant(v float64) Stream {
	return Stream{constant: true, value: v}
}

// Float64 returns a value in [0, 1).
func (s *Stream) Float64() float64 {
	if s.constant {
		return s.value
	}
	return float64(s.pcg.Uint64()>>11) / (1 << 53)
}

// Roll reports success for probability p. p <= 0 never succeeds and
// p >= 1 always does; neither consumes a value from the stream.
func (s *Stream) Roll(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.Float64() < p
}

// IntN returns a value in [0, n). n <= 0 yields 0.
func (s *Stream) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	i := int(s.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Weighted picks an index with probability proportional to its weight.
// Non-positive weights are never picked unless all weights are non-positive,
// in which case the first index is returned.
func (s *Stream) Weighted(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	pick := s.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if pick < w {
			return i
		}
		pick -= w
	}
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return 0
}
