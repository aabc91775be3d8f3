package runner

import (
	"github.com/princeton-ddss/lsh/internal/rowio"
	"github.com/princeton-ddss/lsh/pkg/banding"
	"github.com/princeton-ddss/lsh/pkg/vector"
)

// Families name the hashing scheme in logs, spans, and metrics.
const (
	FamilyMinHash   = "minhash"
	FamilyEuclidean = "euclidean"
)

// Output widths in bits.
const (
	Width32 = 32
	Width64 = 64
)

// HashFunc hashes one input batch into output rows and reports how many band
// values it wrote.
type HashFunc func(batch *rowio.Batch) ([]rowio.Row, int, error)

// MinHashParams are the batch-constant MinHash parameters.
type MinHashParams struct {
	NgramWidth uint64
	BandCount  uint64
	BandSize   uint64
	Seed       uint64
	Salt       string
	Width      int
}

// EuclideanParams are the batch-constant Euclidean parameters.
type EuclideanParams struct {
	BucketWidth float64
	BandCount   uint64
	BandSize    uint64
	Seed        uint64
	Width       int
}

// MinHash returns a HashFunc for text or shingle batches.
func MinHash(p MinHashParams) HashFunc {
	if p.Width == Width32 {
		return func(b *rowio.Batch) ([]rowio.Row, int, error) {
			return minHashRows[uint32](b, p)
		}
	}

	return func(b *rowio.Batch) ([]rowio.Row, int, error) {
		return minHashRows[uint64](b, p)
	}
}

// Euclidean returns a HashFunc for vector batches.
func Euclidean(p EuclideanParams) HashFunc {
	if p.Width == Width32 {
		return func(b *rowio.Batch) ([]rowio.Row, int, error) {
			return euclideanRows[uint32](b, p)
		}
	}

	return func(b *rowio.Batch) ([]rowio.Row, int, error) {
		return euclideanRows[uint64](b, p)
	}
}

func minHashRows[T banding.Width](b *rowio.Batch, p MinHashParams) ([]rowio.Row, int, error) {
	n := b.Len()

	batch := banding.MinHashBatch{
		Salt:       p.Salt,
		NgramWidth: vector.Repeat(p.NgramWidth, n),
		BandCount:  vector.Repeat(p.BandCount, n),
		BandSize:   vector.Repeat(p.BandSize, n),
		Seed:       vector.Repeat(p.Seed, n),
	}

	if b.Shingles != nil {
		batch.Shingles = vector.ListOf(b.Shingles)
	} else {
		batch.Text = vector.FlatOf(b.Text)
	}

	out := vector.NewList[T](n)

	written, err := banding.MinHash(batch, out)
	if err != nil {
		return nil, 0, err
	}

	return toRows(b.Start, out), written, nil
}

func euclideanRows[T banding.Width](b *rowio.Batch, p EuclideanParams) ([]rowio.Row, int, error) {
	n := b.Len()

	batch := banding.EuclideanBatch{
		Arrays:      vector.ListOf(b.Vectors),
		BucketWidth: vector.Repeat(p.BucketWidth, n),
		BandCount:   vector.Repeat(p.BandCount, n),
		BandSize:    vector.Repeat(p.BandSize, n),
		Seed:        vector.Repeat(p.Seed, n),
	}

	out := vector.NewList[T](n)

	written, err := banding.Euclidean(batch, out)
	if err != nil {
		return nil, 0, err
	}

	return toRows(b.Start, out), written, nil
}

// toRows widens out into output rows numbered from start.
func toRows[T banding.Width](start int, out *vector.List[T]) []rowio.Row {
	rows := make([]rowio.Row, out.Len())

	for i := range rows {
		rows[i].Index = start + i

		if out.IsNull(i) {
			continue
		}

		src := out.Row(i)
		bands := make([]uint64, len(src))

		for j, v := range src {
			bands[j] = uint64(v)
		}

		rows[i].Bands = bands
	}

	return rows
}
