// Package rng provides a seeded, splittable pseudo-random stream for
// deriving LSH hash functions.
//
// A Stream is an explicit owned value: hashers consume draws from the
// stream they are handed, so the order of construction fully determines the
// hash functions produced from a seed. Nothing here touches global or
// goroutine-local random state.
//
// The generator is splitmix64 (Vigna, 2014). It passes BigCrush, has a
// period of 2^64, and can be seeded from any 64-bit value.
package rng

import (
	"math/rand/v2"

	"github.com/princeton-ddss/lsh/pkg/alg/internal/hashutil"
)

// Stream is a deterministic splitmix64 random stream.
// A Stream is not safe for concurrent use.
type Stream struct {
	state uint64
	rnd   *rand.Rand
}

// New creates a stream seeded with seed.
func New(seed uint64) *Stream {
	s := &Stream{state: seed}
	s.rnd = rand.New(s)

	return s
}

// Uint64 advances the stream and returns the next 64 random bits.
// Stream implements [rand.Source].
func (s *Stream) Uint64() uint64 {
	s.state += hashutil.Golden

	return hashutil.Mix64(s.state)
}

// Float64 returns a uniform value in [0, 1).
func (s *Stream) Float64() float64 {
	return s.rnd.Float64()
}

// NormFloat64 returns a standard normal value (mean 0, stddev 1).
func (s *Stream) NormFloat64() float64 {
	return s.rnd.NormFloat64()
}

// Split draws one value from s and returns a new stream seeded with it.
// The child is independent of s from then on.
func (s *Stream) Split() *Stream {
	return New(s.Uint64())
}
