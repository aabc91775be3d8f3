package euclidean

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princeton-ddss/lsh/pkg/alg/rng"
)

// Test constants for Euclidean hasher tests.
const (
	// testSeed is the stream seed used across tests.
	testSeed = 99

	// testBandSize is the default number of projections per band.
	testBandSize = 3

	// testDim is the default vector dimensionality.
	testDim = 4

	// testBucketWidth is the default quantization width.
	testBucketWidth = 1.0

	// testTrials is the number of independent bands in collision-rate tests.
	testTrials = 1000
)

func newHasher(t *testing.T, stream *rng.Stream) *Hasher {
	t.Helper()

	h, err := New(testBucketWidth, testBandSize, testDim, stream)
	require.NoError(t, err)

	return h
}

// --- Constructor Tests ---.

func TestNew_InvalidParams(t *testing.T) {
	t.Parallel()

	stream := rng.New(testSeed)

	_, err := New(testBucketWidth, 0, testDim, stream)
	require.ErrorIs(t, err, ErrZeroBandSize)

	for _, w := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err = New(w, testBandSize, testDim, stream)
		require.ErrorIs(t, err, ErrInvalidBucketWidth, "width %v", w)
	}

	_, err = New(testBucketWidth, testBandSize, -1, stream)
	require.ErrorIs(t, err, ErrNegativeDimension)

	_, err = New(testBucketWidth, testBandSize, testDim, nil)
	require.ErrorIs(t, err, ErrNilStream)
}

func TestNew_ConsumesStream(t *testing.T) {
	t.Parallel()

	stream := rng.New(testSeed)
	first := newHasher(t, stream)
	second := newHasher(t, stream)

	assert.Equal(t, testDim, first.Dimension())
	assert.Equal(t, testBandSize, first.BandSize())
	assert.NotEqual(t, first.projections, second.projections)
}

func TestNew_OffsetsWithinBucket(t *testing.T) {
	t.Parallel()

	width := 2.5
	h, err := New(width, 64, testDim, rng.New(testSeed))
	require.NoError(t, err)

	for _, off := range h.offsets {
		assert.GreaterOrEqual(t, off, 0.0)
		assert.Less(t, off, width)
	}
}

// --- Hash Tests ---.

func TestHash_IdenticalVectorsCollide(t *testing.T) {
	t.Parallel()

	vec := []float64{0.5, -1.25, 3, 7.75}
	same := []float64{0.5, -1.25, 3, 7.75}
	stream := rng.New(testSeed)

	for range testTrials {
		h := newHasher(t, stream)

		a, err := h.Hash(vec)
		require.NoError(t, err)

		b, err := h.Hash(same)
		require.NoError(t, err)

		require.Equal(t, a, b)
	}
}

func TestHash_Deterministic(t *testing.T) {
	t.Parallel()

	vec := []float64{1, 2, 3, 4}

	a, err := newHasher(t, rng.New(testSeed)).Hash(vec)
	require.NoError(t, err)

	b, err := newHasher(t, rng.New(testSeed)).Hash(vec)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestHash_DimensionMismatch(t *testing.T) {
	t.Parallel()

	h := newHasher(t, rng.New(testSeed))

	_, err := h.Hash([]float64{1, 2, 3})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestHash_NonFinite(t *testing.T) {
	t.Parallel()

	h := newHasher(t, rng.New(testSeed))

	_, err := h.Hash([]float64{math.NaN(), 0, 0, 0})
	require.ErrorIs(t, err, ErrNonFinite)

	_, err = h.Hash([]float64{math.Inf(1), 0, 0, 0})
	require.ErrorIs(t, err, ErrNonFinite)
}

func TestHash_ZeroDimension(t *testing.T) {
	t.Parallel()

	h, err := New(testBucketWidth, testBandSize, 0, rng.New(testSeed))
	require.NoError(t, err)

	buckets, err := h.bucketIndices(nil)
	require.NoError(t, err)

	// Projection of the empty vector is 0; offsets are in [0, w), so bucket 0.
	assert.Equal(t, []int64{0, 0, 0}, buckets)
}

func TestBuckets_MatchFormula(t *testing.T) {
	t.Parallel()

	h := newHasher(t, rng.New(testSeed))
	vec := []float64{-3, 0.25, 9, 1}

	buckets, err := h.bucketIndices(vec)
	require.NoError(t, err)

	for i, p := range h.projections {
		dot := 0.0
		for j := range vec {
			dot += vec[j] * p[j]
		}

		want := int64(math.Floor((dot + h.offsets[i]) / testBucketWidth))
		assert.Equal(t, want, buckets[i])
	}
}

// --- Locality Tests ---.

func TestHash_CloserVectorsCollideMore(t *testing.T) {
	t.Parallel()

	origin := []float64{0, 0, 0, 0}
	near := []float64{0.05, 0, 0, 0}
	far := []float64{5, 5, 5, 5}

	stream := rng.New(testSeed)
	nearHits, farHits := 0, 0

	for range testTrials {
		h, err := New(testBucketWidth, 1, testDim, stream)
		require.NoError(t, err)

		o, err := h.Hash(origin)
		require.NoError(t, err)

		n, err := h.Hash(near)
		require.NoError(t, err)

		f, err := h.Hash(far)
		require.NoError(t, err)

		if o == n {
			nearHits++
		}

		if o == f {
			farHits++
		}
	}

	assert.Greater(t, nearHits, testTrials*9/10)
	assert.Less(t, farHits, testTrials/5)
}
