// Package randutil provides the seeded random source the samplers draw
// from, the way expreplay's uniformSelector wraps a single seeded
// *rand.Rand instead of reaching for the global generator.
package randutil

import "golang.org/x/exp/rand"

// Source is a seedable uniform random source shared by the uniform and
// prioritized samplers.
type Source struct {
	rng *rand.Rand
}

// New returns a Source seeded with seed. Two Sources constructed with the
// same seed draw identical sequences, making sampling reproducible.
func New(seed uint64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform random int in [0, n).
func (s *Source) Intn(n int) int {
	return s.rng.Intn(n)
}

// Float64 returns a uniform random float64 in [0, 1).
func (s *Source) Float64() float64 {
	return s.rng.Float64()
}
