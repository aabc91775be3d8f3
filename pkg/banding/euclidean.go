package banding

import (
	"fmt"
	"math"

	"github.com/princeton-ddss/lsh/pkg/alg/euclidean"
	"github.com/princeton-ddss/lsh/pkg/vector"
)

// EuclideanBatch is the input of [Euclidean]. Every non-null array must
// have the same length. Parameter columns carry one value per row and must
// be constant.
type EuclideanBatch struct {
	Arrays *vector.List[float64]

	BucketWidth []float64
	BandCount   []uint64
	BandSize    []uint64
	Seed        []uint64
}

// Dimension returns the shared length of the non-null arrays, or
// ErrShapeMismatch naming the first row that differs. A batch of only null
// rows has dimension 0.
func (b EuclideanBatch) Dimension() (int, error) {
	dim := -1

	for row := range b.Arrays.Len() {
		if b.Arrays.IsNull(row) {
			continue
		}

		n := b.Arrays.Entry(row).Length

		switch {
		case dim < 0:
			dim = n
		case n != dim:
			return 0, fmt.Errorf("%w: all input arrays must have the same length (row %d has %d, want %d)",
				ErrShapeMismatch, row, n, dim)
		}
	}

	return max(dim, 0), nil
}

// checkFinite rejects NaN and infinite components before any row is hashed.
func (b EuclideanBatch) checkFinite() error {
	for row := range b.Arrays.Len() {
		for i, v := range b.Arrays.Row(row) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: row %d element %d is not finite", ErrUnsupportedInput, row, i)
			}
		}
	}

	return nil
}

// Euclidean writes bandCount p-stable band values for every non-null row of
// batch to out and returns the number of values written. Null rows get a
// null entry. On error nothing is written.
func Euclidean[T Width](batch EuclideanBatch, out RowWriter[T]) (int, error) {
	if batch.Arrays == nil {
		return 0, fmt.Errorf("%w: no input arrays supplied", ErrUnsupportedInput)
	}

	rows := batch.Arrays.Len()

	err := checkColumns(rows, []paramColumn{
		{ParamBucketWidth, len(batch.BucketWidth)},
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

	dim, err := batch.Dimension()
	if err != nil {
		return 0, err
	}

	err = batch.checkFinite()
	if err != nil {
		return 0, err
	}

	bucketWidth, err := constantBucketWidth(batch.BucketWidth)
	if err != nil {
		return 0, err
	}

	bands, err := bandsFrom(batch.BandCount, batch.BandSize, batch.Seed)
	if err != nil {
		return 0, err
	}

	hashers, err := newEuclideanHashers(bucketWidth, dim, bands)
	if err != nil {
		return 0, err
	}

	capacity, err := outputCapacity(bands.Count, rows)
	if err != nil {
		return 0, err
	}

	values, err := hashArrays(batch.Arrays, hashers, capacity)
	if err != nil {
		return 0, err
	}

	hashes := out.Child(capacity)
	offset := 0

	for row := range rows {
		if batch.Arrays.IsNull(row) {
			out.SetNull(row)

			continue
		}

		for i, v := range values[offset : offset+bands.Count] {
			hashes[offset+i] = T(v)
		}

		out.SetEntry(row, offset, bands.Count)
		offset += bands.Count
	}

	out.SetLen(offset)

	return offset, nil
}

// hashArrays hashes every non-null row into one contiguous buffer. A
// projection that leaves the int64 bucket range fails the whole batch.
func hashArrays(arrays *vector.List[float64], hashers []*euclidean.Hasher, capacity int) ([]uint64, error) {
	values := make([]uint64, 0, capacity)

	for row := range arrays.Len() {
		if arrays.IsNull(row) {
			continue
		}

		vec := arrays.Row(row)

		for i, h := range hashers {
			v, err := h.Hash(vec)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d band %d: %w", ErrUnsupportedInput, row, i, err)
			}

			values = append(values, v)
		}
	}

	return values, nil
}
