package rng

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test constants for stream tests.
const (
	// testSeed is an arbitrary fixed seed.
	testSeed = 42

	// testDraws is the number of draws for sequence tests.
	testDraws = 1000

	// testNormalDraws is the sample size for distribution checks.
	testNormalDraws = 20000

	// testMomentTolerance is the allowed deviation for sample mean and variance.
	testMomentTolerance = 0.05
)

// --- Determinism Tests ---.

func TestStream_SameSeedSameSequence(t *testing.T) {
	t.Parallel()

	a := New(testSeed)
	b := New(testSeed)

	for range testDraws {
		require.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestStream_DifferentSeedsDiverge(t *testing.T) {
	t.Parallel()

	a := New(1)
	b := New(2)

	assert.NotEqual(t, a.Uint64(), b.Uint64())
}

func TestStream_NoShortCycle(t *testing.T) {
	t.Parallel()

	s := New(0)
	seen := make(map[uint64]bool, testDraws)

	for range testDraws {
		v := s.Uint64()
		require.False(t, seen[v], "value repeated: %x", v)

		seen[v] = true
	}
}

func TestStream_MixedDrawsDeterministic(t *testing.T) {
	t.Parallel()

	draw := func() []float64 {
		s := New(testSeed)

		return []float64{s.NormFloat64(), s.Float64(), float64(s.Uint64() >> 11), s.NormFloat64()}
	}

	assert.Equal(t, draw(), draw())
}

// --- Distribution Tests ---.

func TestStream_Float64Range(t *testing.T) {
	t.Parallel()

	s := New(testSeed)

	for range testDraws {
		v := s.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestStream_NormFloat64Moments(t *testing.T) {
	t.Parallel()

	s := New(testSeed)

	var sum, sumSq float64

	for range testNormalDraws {
		v := s.NormFloat64()
		sum += v
		sumSq += v * v
	}

	mean := sum / testNormalDraws
	variance := sumSq/testNormalDraws - mean*mean

	assert.InDelta(t, 0.0, mean, testMomentTolerance)
	assert.InDelta(t, 1.0, variance, testMomentTolerance)
	assert.False(t, math.IsNaN(variance))
}

// --- Split Tests ---.

func TestSplit_AdvancesParent(t *testing.T) {
	t.Parallel()

	parent := New(testSeed)
	reference := New(testSeed)

	_ = parent.Split()
	_ = reference.Uint64()

	assert.Equal(t, reference.Uint64(), parent.Uint64())
}

func TestSplit_Deterministic(t *testing.T) {
	t.Parallel()

	a := New(testSeed).Split()
	b := New(testSeed).Split()

	assert.Equal(t, a.Uint64(), b.Uint64())
}

func TestSplit_ChildDiffersFromParent(t *testing.T) {
	t.Parallel()

	parent := New(testSeed)
	child := parent.Split()

	assert.NotEqual(t, parent.Uint64(), child.Uint64())
}
