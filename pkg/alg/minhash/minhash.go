// Package minhash provides banded MinHash signatures for set similarity.
//
// A Hasher holds bandSize independent hash functions. For each function it
// takes the minimum hashed value over every fingerprint of a shingle set;
// the probability that two sets agree on one such minimum equals their
// Jaccard similarity. The bandSize minimums are then folded into a single
// band value, so two sets collide on a band only when they agree on every
// minimum in it.
//
// Each hash function is the splitmix64 finalizer applied to the fingerprint
// XOR a per-function seed drawn from an [rng.Stream].
package minhash

import (
	"errors"
	"math"

	"github.com/princeton-ddss/lsh/pkg/alg/internal/hashutil"
	"github.com/princeton-ddss/lsh/pkg/alg/rng"
	"github.com/princeton-ddss/lsh/pkg/alg/shingle"
)

var (
	// ErrZeroBandSize is returned when bandSize is not positive.
	ErrZeroBandSize = errors.New("minhash: bandSize must be positive")

	// ErrNilStream is returned when no random stream is provided.
	ErrNilStream = errors.New("minhash: stream must not be nil")
)

// Hasher computes one MinHash band. It is not safe for concurrent use.
type Hasher struct {
	seeds []uint64
	mins  []uint64
}

// New draws bandSize hash function seeds from stream. The stream is
// advanced by exactly bandSize draws, so the next hasher built from the
// same stream is independent of this one.
func New(bandSize int, stream *rng.Stream) (*Hasher, error) {
	if bandSize <= 0 {
		return nil, ErrZeroBandSize
	}

	if stream == nil {
		return nil, ErrNilStream
	}

	seeds := make([]uint64, bandSize)
	for i := range seeds {
		seeds[i] = stream.Uint64()
	}

	return &Hasher{
		seeds: seeds,
		mins:  make([]uint64, bandSize),
	}, nil
}

// BandSize returns the number of hash functions in the band.
func (h *Hasher) BandSize() int {
	return len(h.seeds)
}

// Minimums returns the per-function minimum over the set's fingerprints.
// For an empty set every minimum is [math.MaxUint64].
func (h *Hasher) Minimums(set *shingle.Set) []uint64 {
	mins := make([]uint64, len(h.seeds))
	h.fill(set, mins)

	return mins
}

// Hash returns the band value of set. The empty set hashes to the
// combination of bandSize [math.MaxUint64] minimums, a fixed sentinel for
// a given bandSize.
func (h *Hasher) Hash(set *shingle.Set) uint64 {
	h.fill(set, h.mins)

	return hashutil.Combine(h.mins)
}

func (h *Hasher) fill(set *shingle.Set, mins []uint64) {
	for i := range mins {
		mins[i] = math.MaxUint64
	}

	for fp := range set.All() {
		base := uint64(fp)

		for i, seed := range h.seeds {
			v := hashutil.MixHash(base, seed)
			if v < mins[i] {
				mins[i] = v
			}
		}
	}
}
