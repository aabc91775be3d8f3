// Package euclidean provides banded p-stable LSH signatures for Euclidean
// (L2) distance.
//
// A Hasher holds bandSize random directions with components drawn from the
// standard normal distribution (2-stable) and one offset per direction drawn
// uniformly from [0, bucketWidth). A vector v lands in bucket
// floor((v·a + b) / bucketWidth) along each direction; nearby vectors share
// buckets with probability that decreases with their distance. The bandSize
// bucket indices are folded into a single band value.
package euclidean

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/princeton-ddss/lsh/pkg/alg/internal/hashutil"
	"github.com/princeton-ddss/lsh/pkg/alg/rng"
)

var (
	// ErrZeroBandSize is returned when bandSize is not positive.
	ErrZeroBandSize = errors.New("euclidean: bandSize must be positive")

	// ErrInvalidBucketWidth is returned when bucketWidth is not a positive finite number.
	ErrInvalidBucketWidth = errors.New("euclidean: bucketWidth must be positive and finite")

	// ErrNegativeDimension is returned when the dimensionality is negative.
	ErrNegativeDimension = errors.New("euclidean: dimension must not be negative")

	// ErrNilStream is returned when no random stream is provided.
	ErrNilStream = errors.New("euclidean: stream must not be nil")

	// ErrDimensionMismatch is returned when a vector's length differs from the hasher's dimension.
	ErrDimensionMismatch = errors.New("euclidean: vector length does not match dimension")

	// ErrNonFinite is returned when a projection is NaN or infinite.
	ErrNonFinite = errors.New("euclidean: projection is not finite")
)

// Hasher computes one p-stable band. It is not safe for concurrent use.
type Hasher struct {
	bucketWidth float64
	projections [][]float64
	offsets     []float64
	buckets     []int64
}

// New draws bandSize projections of length dim from stream. For each
// projection the stream yields dim normal components and then its offset.
func New(bucketWidth float64, bandSize, dim int, stream *rng.Stream) (*Hasher, error) {
	if bandSize <= 0 {
		return nil, ErrZeroBandSize
	}

	if !(bucketWidth > 0) || math.IsInf(bucketWidth, 1) {
		return nil, ErrInvalidBucketWidth
	}

	if dim < 0 {
		return nil, ErrNegativeDimension
	}

	if stream == nil {
		return nil, ErrNilStream
	}

	projections := make([][]float64, bandSize)
	offsets := make([]float64, bandSize)

	for i := range projections {
		p := make([]float64, dim)
		for j := range p {
			p[j] = stream.NormFloat64()
		}

		projections[i] = p
		offsets[i] = stream.Float64() * bucketWidth
	}

	return &Hasher{
		bucketWidth: bucketWidth,
		projections: projections,
		offsets:     offsets,
		buckets:     make([]int64, bandSize),
	}, nil
}

// Dimension returns the expected vector length.
func (h *Hasher) Dimension() int {
	return len(h.projections[0])
}

// BandSize returns the number of projections in the band.
func (h *Hasher) BandSize() int {
	return len(h.projections)
}

// bucketIndices returns the bucket index of vec along every projection.
func (h *Hasher) bucketIndices(vec []float64) ([]int64, error) {
	out := make([]int64, len(h.projections))

	err := h.fill(vec, out)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Hash returns the band value of vec.
func (h *Hasher) Hash(vec []float64) (uint64, error) {
	err := h.fill(vec, h.buckets)
	if err != nil {
		return 0, err
	}

	return hashutil.CombineInts(h.buckets), nil
}

func (h *Hasher) fill(vec []float64, buckets []int64) error {
	if len(vec) != h.Dimension() {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), h.Dimension())
	}

	for i, p := range h.projections {
		q := math.Floor((floats.Dot(vec, p) + h.offsets[i]) / h.bucketWidth)
		if math.IsNaN(q) || math.IsInf(q, 0) || q < math.MinInt64 || q >= math.MaxInt64 {
			return ErrNonFinite
		}

		buckets[i] = int64(q)
	}

	return nil
}
