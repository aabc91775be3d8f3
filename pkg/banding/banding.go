// Package banding implements the shared banding and seeding protocol for
// the LSH hash families and the batch drivers built on it.
//
// For every row a random stream is seeded from the batch seed, and
// bandCount hashers are built from that one stream in order, each consuming
// its own slice of it. Because the stream restarts at the same seed for
// every row, band i of any two rows is produced by the same hash functions,
// so equal band values across rows (or across batches hashed with the same
// parameters) mean candidate similarity.
//
// Batch drivers take columnar input, validate that every scalar parameter
// is constant across the batch, and write exactly bandCount values per
// non-null row through a [RowWriter]. Output is generic over the value
// width: 64-bit values are narrowed on store for 32-bit outputs.
package banding

import "errors"

// Parameter names as they appear in errors.
const (
	ParamNgramWidth  = "ngram_width"
	ParamBucketWidth = "bucket_width"
	ParamBandCount   = "band_count"
	ParamBandSize    = "band_size"
	ParamSeed        = "seed"
)

var (
	// ErrConfiguration is returned when a batch parameter varies across rows
	// or is outside its domain. The whole batch is rejected.
	ErrConfiguration = errors.New("banding: invalid configuration")

	// ErrShapeMismatch is returned when input arrays or parameter columns
	// do not line up. The whole batch is rejected before hashing.
	ErrShapeMismatch = errors.New("banding: shape mismatch")

	// ErrUnsupportedInput is returned when the input matches no supported form.
	ErrUnsupportedInput = errors.New("banding: unsupported input")
)

// Width is the set of output value types. 64-bit band values are truncated
// to the low 32 bits for uint32 outputs.
type Width interface {
	~uint32 | ~uint64
}

// RowWriter receives band values for a batch. [vector.List] implements it.
//
// The driver calls Child once with its estimate (bandCount × rows), writes
// each non-null row's values contiguously, records them with SetEntry or
// marks the row with SetNull, and finally calls SetLen with the number of
// values actually written.
type RowWriter[T Width] interface {
	Child(capacity int) []T
	SetEntry(row, offset, length int)
	SetNull(row int)
	SetLen(n int)
}

// Bands holds the banding parameters shared by both hash families.
type Bands struct {
	// Count is the number of bands per row.
	Count int

	// Size is the number of sub-hashes combined into one band value.
	Size int

	// Seed seeds the random stream that is replayed for every row.
	Seed uint64
}
