package banding

import (
	"fmt"
	"math"

	"github.com/princeton-ddss/lsh/pkg/safeconv"
)

// ValidateConstant returns the value shared by every row of a parameter
// column. It fails on the first row whose value differs from row 0. An
// empty column yields the zero value.
func ValidateConstant[T comparable](values []T, name string) (T, error) {
	var zero T

	if len(values) == 0 {
		return zero, nil
	}

	first := values[0]

	for i, v := range values[1:] {
		if v != first {
			return zero, varyingError(name, i+1)
		}
	}

	return first, nil
}

// constantBucketWidth checks the domain of the first bucket width before
// comparing the column bit for bit, so NaN and signed zeros report as
// invalid widths rather than as varying ones.
func constantBucketWidth(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, nil
	}

	first := values[0]

	err := validateBucketWidth(first)
	if err != nil {
		return 0, err
	}

	bits := math.Float64bits(first)

	for i, v := range values[1:] {
		if math.Float64bits(v) != bits {
			return 0, varyingError(ParamBucketWidth, i+1)
		}
	}

	return first, nil
}

func varyingError(name string, row int) error {
	return fmt.Errorf("%w: %s must be a constant value, not vary per row (row %d)", ErrConfiguration, name, row)
}

// paramColumn names a parameter column and its length.
type paramColumn struct {
	name string
	len  int
}

// checkColumns verifies that every parameter column has one value per row.
func checkColumns(rows int, cols []paramColumn) error {
	for _, col := range cols {
		if col.len != rows {
			return fmt.Errorf("%w: %s has %d values for %d rows", ErrShapeMismatch, col.name, col.len, rows)
		}
	}

	return nil
}

// toInt converts a constant parameter to int.
func toInt(v uint64, name string) (int, error) {
	n, err := safeconv.Uint64ToInt(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%d: %w", ErrConfiguration, name, v, err)
	}

	return n, nil
}

// bandsFrom validates the count, size, and seed columns of a batch.
func bandsFrom(count, size, seed []uint64) (Bands, error) {
	c, err := ValidateConstant(count, ParamBandCount)
	if err != nil {
		return Bands{}, err
	}

	s, err := ValidateConstant(size, ParamBandSize)
	if err != nil {
		return Bands{}, err
	}

	sd, err := ValidateConstant(seed, ParamSeed)
	if err != nil {
		return Bands{}, err
	}

	b := Bands{Seed: sd}

	b.Count, err = toInt(c, ParamBandCount)
	if err != nil {
		return Bands{}, err
	}

	b.Size, err = toInt(s, ParamBandSize)
	if err != nil {
		return Bands{}, err
	}

	return b, b.validate()
}

func (b Bands) validate() error {
	if b.Count < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrConfiguration, ParamBandCount)
	}

	if b.Size <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrConfiguration, ParamBandSize)
	}

	return nil
}

func validateBucketWidth(w float64) error {
	if !(w > 0) || math.IsInf(w, 1) {
		return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrConfiguration, ParamBucketWidth, w)
	}

	return nil
}

// outputCapacity is the optimistic output size: bandCount values for every
// row, assuming no nulls.
func outputCapacity(bandCount, rows int) (int, error) {
	if rows > 0 && bandCount > safeconv.MaxInt/rows {
		return 0, fmt.Errorf("%w: %s=%d over %d rows overflows the output", ErrConfiguration,
			ParamBandCount, bandCount, rows)
	}

	return bandCount * rows, nil
}
