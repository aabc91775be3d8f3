// Package hashutil provides shared hash mixing constants and functions for
// the LSH hash families (MinHash, Euclidean) and the seeded random stream.
//
// Mixing uses the splitmix64 finalizer by Vigna (2014), which provides
// full-avalanche mixing across all 64 bits. Tuples of sub-hashes are folded
// into one band value with xxhash64.
package hashutil

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Splitmix64 constants from the splitmix64 finalizer by Vigna (2014).
const (
	// MixShift1 is the first right-shift in the splitmix64 finalizer.
	MixShift1 = 30

	// MixMul1 is the first multiplier in the splitmix64 finalizer.
	MixMul1 = 0xbf58476d1ce4e5b9

	// MixShift2 is the second right-shift in the splitmix64 finalizer.
	MixShift2 = 27

	// MixMul2 is the second multiplier in the splitmix64 finalizer.
	MixMul2 = 0x94d049bb133111eb

	// MixShift3 is the third right-shift in the splitmix64 finalizer.
	MixShift3 = 31

	// Golden is the golden-ratio-derived increment used to advance
	// splitmix64 state.
	Golden = 0x9e3779b97f4a7c15
)

// bytesPerUint64 is the encoded width of one tuple element.
const bytesPerUint64 = 8

// Mix64 applies the splitmix64 finalizer for full-avalanche mixing.
// This is a pure output function: it does NOT advance any state.
func Mix64(v uint64) uint64 {
	v ^= v >> MixShift1
	v *= MixMul1
	v ^= v >> MixShift2
	v *= MixMul2
	v ^= v >> MixShift3

	return v
}

// MixHash combines a base hash with a seed using XOR and the splitmix64 finalizer.
// This produces a deterministic hash variation for a given (base, seed) pair.
func MixHash(base, seed uint64) uint64 {
	return Mix64(base ^ seed)
}

// Combine folds a tuple of 64-bit values into one 64-bit hash.
// The tuple is encoded little-endian, element by element, and hashed with
// xxhash64. Order matters; the empty tuple hashes to xxhash64 of no bytes.
func Combine(values []uint64) uint64 {
	digest := xxhash.New()

	var buf [bytesPerUint64]byte

	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = digest.Write(buf[:])
	}

	return digest.Sum64()
}

// CombineInts is [Combine] for signed values, reinterpreting each as its
// two's complement bit pattern.
func CombineInts(values []int64) uint64 {
	digest := xxhash.New()

	var buf [bytesPerUint64]byte

	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = digest.Write(buf[:])
	}

	return digest.Sum64()
}
