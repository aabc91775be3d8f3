// Package safeconv provides checked integer conversions for batch
// parameters and row indexes.
package safeconv

import (
	"errors"
	"math"
)

// MaxInt is the maximum value for int type (platform-dependent).
const MaxInt = int(^uint(0) >> 1)

// MaxUint32 is the maximum value for uint32 type.
const MaxUint32 = uint32(math.MaxUint32)

// ErrOverflow is returned when a value does not fit the target type.
var ErrOverflow = errors.New("safeconv: value overflows target type")

// Uint64ToInt converts v to int, failing when v exceeds [MaxInt].
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(MaxInt) {
		return 0, ErrOverflow
	}

	return int(v), nil
}

// MustIntToUint32 converts int to uint32, panics on bounds violation.
// Use only when bounds violations are logically impossible.
func MustIntToUint32(v int) uint32 {
	if v < 0 || v > int(MaxUint32) {
		panic("safeconv: int to uint32 out of bounds")
	}

	return uint32(v)
}
