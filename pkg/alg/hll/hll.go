// Package hll estimates the number of distinct 64-bit hashes in a stream.
//
// The estimator is HyperLogLog with the LogLog-Beta bias correction of Qin
// et al. (2016), which stays accurate from empty to very large cardinalities
// without HLL++ interpolation tables. A sketch of precision p uses 2^p bytes
// and has a standard error near 1.04/sqrt(2^p).
package hll

import (
	"errors"
	"math"
	"math/bits"

	"github.com/princeton-ddss/lsh/pkg/alg/internal/hashutil"
)

const (
	// MinPrecision is the smallest allowed precision (16 registers).
	MinPrecision = 4

	// MaxPrecision is the largest allowed precision (262144 registers).
	MaxPrecision = 18

	// DefaultPrecision gives roughly 0.8% standard error in 16 KiB.
	DefaultPrecision = 14

	hashBits = 64

	alphaP4 = 0.673
	alphaP5 = 0.697
	alphaP6 = 0.709

	alphaNumerator   = 0.7213
	alphaDenominator = 1.079

	// LogLog-Beta polynomial coefficients for p = 14 and above.
	betaC0 = -0.370393911
	betaC1 = 0.070471823
	betaC2 = 0.17393686
	betaC3 = 0.16339839
	betaC4 = -0.09237745
	betaC5 = 0.03738027
	betaC6 = -0.005384159
	betaC7 = 0.00042419
)

var (
	// ErrPrecisionOutOfRange is returned when precision is not in [4, 18].
	ErrPrecisionOutOfRange = errors.New("hll: precision must be in [4, 18]")

	// ErrPrecisionMismatch is returned when merging sketches of different precisions.
	ErrPrecisionMismatch = errors.New("hll: cannot merge sketches with different precisions")
)

// Sketch is a HyperLogLog estimator. It is not safe for concurrent use.
type Sketch struct {
	registers []uint8
	precision uint8
}

// New creates a sketch with 2^precision registers.
func New(precision uint8) (*Sketch, error) {
	if precision < MinPrecision || precision > MaxPrecision {
		return nil, ErrPrecisionOutOfRange
	}

	return &Sketch{
		registers: make([]uint8, 1<<precision),
		precision: precision,
	}, nil
}

// AddHash records h. The value is remixed before it picks a register.
func (s *Sketch) AddHash(h uint64) {
	h = hashutil.Mix64(h)

	idx := h >> (hashBits - s.precision)
	remaining := hashBits - uint(s.precision)
	w := h & (uint64(1)<<remaining - 1)

	rho := uint8(remaining-uint(bits.Len64(w))) + 1
	if rho > s.registers[idx] {
		s.registers[idx] = rho
	}
}

// AddTuple records the combined hash of values, so equal tuples count once.
func (s *Sketch) AddTuple(values []uint64) {
	s.AddHash(hashutil.Combine(values))
}

// Merge folds other into s. Both sketches must share a precision.
func (s *Sketch) Merge(other *Sketch) error {
	if s.precision != other.precision {
		return ErrPrecisionMismatch
	}

	for i, v := range other.registers {
		s.registers[i] = max(s.registers[i], v)
	}

	return nil
}

// Count returns the estimated number of distinct hashes added.
func (s *Sketch) Count() uint64 {
	m := float64(len(s.registers))

	var zeros, sum float64

	for _, v := range s.registers {
		if v == 0 {
			zeros++
		}

		sum += math.Exp2(-float64(v))
	}

	if zeros == m {
		return 0
	}

	estimate := alpha(s.precision) * m * (m - zeros) / (beta(zeros) + sum)

	return uint64(math.Round(estimate))
}

func alpha(precision uint8) float64 {
	switch precision {
	case 4:
		return alphaP4
	case 5:
		return alphaP5
	case 6:
		return alphaP6
	default:
		return alphaNumerator / (1 + alphaDenominator/float64(uint(1)<<precision))
	}
}

func beta(zeros float64) float64 {
	zl := math.Log(zeros + 1)

	// Horner form of c1*zl + c2*zl^2 + ... + c7*zl^7.
	poly := betaC7
	for _, c := range []float64{betaC6, betaC5, betaC4, betaC3, betaC2, betaC1} {
		poly = poly*zl + c
	}

	return betaC0*zeros + poly*zl
}
