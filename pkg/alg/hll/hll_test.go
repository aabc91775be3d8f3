package hll_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princeton-ddss/lsh/pkg/alg/hll"
)

const (
	// accuracyMaxError is the tolerated relative error at the default precision.
	accuracyMaxError = 0.03

	// duplicateCount is how many times the same hash is added.
	duplicateCount = 1000
)

func TestNew_PrecisionRange(t *testing.T) {
	t.Parallel()

	for _, p := range []uint8{hll.MinPrecision, hll.DefaultPrecision, hll.MaxPrecision} {
		_, err := hll.New(p)
		require.NoError(t, err, "precision %d", p)
	}

	for _, p := range []uint8{hll.MinPrecision - 1, hll.MaxPrecision + 1} {
		_, err := hll.New(p)
		require.ErrorIs(t, err, hll.ErrPrecisionOutOfRange, "precision %d", p)
	}
}

func TestCount_Empty(t *testing.T) {
	t.Parallel()

	s, err := hll.New(hll.DefaultPrecision)
	require.NoError(t, err)

	assert.Zero(t, s.Count())
}

func TestCount_Duplicates(t *testing.T) {
	t.Parallel()

	s, err := hll.New(hll.DefaultPrecision)
	require.NoError(t, err)

	for range duplicateCount {
		s.AddHash(42)
	}

	assert.LessOrEqual(t, s.Count(), uint64(2))
	assert.GreaterOrEqual(t, s.Count(), uint64(1))
}

func TestCount_Accuracy(t *testing.T) {
	t.Parallel()

	for _, n := range []int{100, 10_000, 200_000} {
		s, err := hll.New(hll.DefaultPrecision)
		require.NoError(t, err)

		// Sequential values are the worst case for an unmixed register index.
		for i := range n {
			s.AddHash(uint64(i))
		}

		rel := math.Abs(float64(s.Count())-float64(n)) / float64(n)
		assert.Less(t, rel, accuracyMaxError, "n=%d estimate=%d", n, s.Count())
	}
}

func TestMerge_Overlapping(t *testing.T) {
	t.Parallel()

	a, err := hll.New(hll.DefaultPrecision)
	require.NoError(t, err)

	b, err := hll.New(hll.DefaultPrecision)
	require.NoError(t, err)

	for i := range 10_000 {
		a.AddHash(uint64(i))
		b.AddHash(uint64(i + 5_000))
	}

	require.NoError(t, a.Merge(b))

	rel := math.Abs(float64(a.Count())-15_000) / 15_000
	assert.Less(t, rel, accuracyMaxError)
}

func TestMerge_PrecisionMismatch(t *testing.T) {
	t.Parallel()

	a, err := hll.New(10)
	require.NoError(t, err)

	b, err := hll.New(12)
	require.NoError(t, err)

	require.ErrorIs(t, a.Merge(b), hll.ErrPrecisionMismatch)
}

func TestAddTuple_EqualTuplesCountOnce(t *testing.T) {
	t.Parallel()

	s, err := hll.New(hll.DefaultPrecision)
	require.NoError(t, err)

	s.AddTuple([]uint64{1, 2, 3})
	s.AddTuple([]uint64{1, 2, 3})
	s.AddTuple([]uint64{3, 2, 1})

	assert.Equal(t, uint64(2), s.Count())
}
