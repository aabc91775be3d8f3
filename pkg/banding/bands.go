package banding

import (
	"fmt"

	"github.com/princeton-ddss/lsh/pkg/alg/euclidean"
	"github.com/princeton-ddss/lsh/pkg/alg/minhash"
	"github.com/princeton-ddss/lsh/pkg/alg/rng"
	"github.com/princeton-ddss/lsh/pkg/alg/shingle"
)

// MinHashBands returns the b.Count MinHash band values of set.
func MinHashBands(set *shingle.Set, b Bands) ([]uint64, error) {
	hashers, err := newMinHashers(b)
	if err != nil {
		return nil, err
	}

	out := make([]uint64, len(hashers))
	for i, h := range hashers {
		out[i] = h.Hash(set)
	}

	return out, nil
}

// EuclideanBands returns the b.Count p-stable band values of vec. The
// dimensionality is len(vec).
func EuclideanBands(vec []float64, bucketWidth float64, b Bands) ([]uint64, error) {
	hashers, err := newEuclideanHashers(bucketWidth, len(vec), b)
	if err != nil {
		return nil, err
	}

	out := make([]uint64, len(hashers))

	for i, h := range hashers {
		out[i], err = h.Hash(vec)
		if err != nil {
			return nil, fmt.Errorf("%w: band %d: %w", ErrUnsupportedInput, i, err)
		}
	}

	return out, nil
}

// newMinHashers replays the seeded stream once: hasher i is the one every
// row sees for band i.
func newMinHashers(b Bands) ([]*minhash.Hasher, error) {
	err := b.validate()
	if err != nil {
		return nil, err
	}

	stream := rng.New(b.Seed)
	hashers := make([]*minhash.Hasher, b.Count)

	for i := range hashers {
		hashers[i], err = minhash.New(b.Size, stream)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	}

	return hashers, nil
}

func newEuclideanHashers(bucketWidth float64, dim int, b Bands) ([]*euclidean.Hasher, error) {
	err := b.validate()
	if err != nil {
		return nil, err
	}

	err = validateBucketWidth(bucketWidth)
	if err != nil {
		return nil, err
	}

	stream := rng.New(b.Seed)
	hashers := make([]*euclidean.Hasher, b.Count)

	for i := range hashers {
		hashers[i], err = euclidean.New(bucketWidth, b.Size, dim, stream)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	}

	return hashers, nil
}
