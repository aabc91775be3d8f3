package banding

import (
	"fmt"

	"github.com/princeton-ddss/lsh/pkg/alg/shingle"
	"github.com/princeton-ddss/lsh/pkg/vector"
)

// MinHashBatch is the input of [MinHash]. Exactly one of Text and Shingles
// must be set. Parameter columns carry one value per row and must be
// constant.
type MinHashBatch struct {
	// Text holds one document per row; it is shingled into NgramWidth
	// code point windows.
	Text *vector.Flat[string]

	// Shingles holds one pre-tokenized shingle list per row. NgramWidth is
	// validated but not used.
	Shingles *vector.List[string]

	// Salt is folded into every shingle fingerprint. Empty means unsalted.
	Salt string

	NgramWidth []uint64
	BandCount  []uint64
	BandSize   []uint64
	Seed       []uint64
}

// Rows returns the number of input rows, or an error when the batch has no
// input column or more than one.
func (b MinHashBatch) Rows() (int, error) {
	switch {
	case b.Text != nil && b.Shingles != nil:
		return 0, fmt.Errorf("%w: both text and shingle lists supplied", ErrUnsupportedInput)
	case b.Text != nil:
		return b.Text.Len(), nil
	case b.Shingles != nil:
		return b.Shingles.Len(), nil
	default:
		return 0, fmt.Errorf("%w: neither text nor shingle lists supplied", ErrUnsupportedInput)
	}
}

func (b MinHashBatch) isNull(row int) bool {
	if b.Text != nil {
		return b.Text.IsNull(row)
	}

	return b.Shingles.IsNull(row)
}

func (b MinHashBatch) set(row, ngramWidth int) *shingle.Set {
	if b.Text != nil {
		return shingle.FromText(b.Text.Value(row), ngramWidth, b.Salt)
	}

	return shingle.FromShingles(b.Shingles.Row(row), b.Salt)
}

// MinHash writes bandCount MinHash band values for every non-null row of
// batch to out and returns the number of values written. Null rows get a
// null entry. On error nothing is written.
func MinHash[T Width](batch MinHashBatch, out RowWriter[T]) (int, error) {
	rows, err := batch.Rows()
	if err != nil {
		return 0, err
	}

	err = checkColumns(rows, []paramColumn{
		{ParamNgramWidth, len(batch.NgramWidth)},
		{ParamBandCount, len(batch.BandCount)},
		{ParamBandSize, len(batch.BandSize)},
		{ParamSeed, len(batch.Seed)},
	})
	if err != nil {
		return 0, err
	}

	if rows == 0 {
		out.SetLen(0)

		return 0, nil
	}

	width, err := ValidateConstant(batch.NgramWidth, ParamNgramWidth)
	if err != nil {
		return 0, err
	}

	ngramWidth, err := toInt(width, ParamNgramWidth)
	if err != nil {
		return 0, err
	}

	bands, err := bandsFrom(batch.BandCount, batch.BandSize, batch.Seed)
	if err != nil {
		return 0, err
	}

	hashers, err := newMinHashers(bands)
	if err != nil {
		return 0, err
	}

	capacity, err := outputCapacity(bands.Count, rows)
	if err != nil {
		return 0, err
	}

	hashes := out.Child(capacity)
	offset := 0

	for row := range rows {
		if batch.isNull(row) {
			out.SetNull(row)

			continue
		}

		set := batch.set(row, ngramWidth)

		for i, h := range hashers {
			hashes[offset+i] = T(h.Hash(set))
		}

		out.SetEntry(row, offset, bands.Count)
		offset += bands.Count
	}

	out.SetLen(offset)

	return offset, nil
}
