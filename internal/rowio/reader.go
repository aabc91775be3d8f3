// Package rowio reads JSON Lines input rows into hashing batches and writes
// band hashes back out as JSON Lines, YAML, or a rendered table.
package rowio

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/princeton-ddss/lsh/pkg/banding"
)

// Kind selects the row shape a [Reader] accepts.
type Kind int

const (
	// KindText rows are a JSON string or null.
	KindText Kind = iota
	// KindShingles rows are an array of strings or null.
	KindShingles
	// KindVector rows are an array of numbers or null.
	KindVector
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindShingles:
		return "shingles"
	case KindVector:
		return "vector"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// maxLineBytes bounds a single input record.
const maxLineBytes = 64 << 20

var rowSchemas = map[Kind]string{
	KindText:     `{"type": ["string", "null"]}`,
	KindShingles: `{"type": ["array", "null"], "items": {"type": "string"}}`,
	KindVector:   `{"type": ["array", "null"], "items": {"type": "number"}}`,
}

// ErrUnknownKind is returned for a [Kind] with no row schema.
var ErrUnknownKind = errors.New("rowio: unknown row kind")

// Batch is a run of consecutive input rows. Exactly one of Text, Shingles,
// and Vectors is populated, matching the reader's [Kind]. A nil element is
// a null row.
type Batch struct {
	// Seq is the zero-based batch sequence number.
	Seq int
	// Start is the zero-based index of the first row in the input.
	Start int

	Text     []*string
	Shingles [][]string
	Vectors  [][]float64
}

// Len returns the number of rows in the batch.
func (b *Batch) Len() int {
	return max(len(b.Text), len(b.Shingles), len(b.Vectors))
}

// Reader decodes JSON Lines records of one [Kind] and validates each
// against the kind's schema.
type Reader struct {
	scanner *bufio.Scanner
	schema  *gojsonschema.Schema
	kind    Kind
	line    int
	rows    int
	seq     int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader, kind Kind) (*Reader, error) {
	raw, ok := rowSchemas[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", kind, err)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)

	return &Reader{scanner: scanner, schema: schema, kind: kind}, nil
}

// Kind returns the row kind this reader accepts.
func (r *Reader) Kind() Kind {
	return r.kind
}

// Next reads up to size rows. It returns io.EOF once the input is
// exhausted and no rows remain. Blank lines are skipped.
func (r *Reader) Next(size int) (*Batch, error) {
	batch := &Batch{Seq: r.seq, Start: r.rows}

	for batch.Len() < size && r.scanner.Scan() {
		r.line++

		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}

		err := r.decode(batch, []byte(line))
		if err != nil {
			return nil, err
		}
	}

	scanErr := r.scanner.Err()
	if scanErr != nil {
		return nil, fmt.Errorf("read input line %d: %w", r.line+1, scanErr)
	}

	n := batch.Len()
	if n == 0 {
		return nil, io.EOF
	}

	r.rows += n
	r.seq++

	return batch, nil
}

func (r *Reader) decode(batch *Batch, line []byte) error {
	result, err := r.schema.Validate(gojsonschema.NewBytesLoader(line))
	if err != nil {
		return fmt.Errorf("%w: line %d: %w", banding.ErrUnsupportedInput, r.line, err)
	}

	if !result.Valid() {
		return fmt.Errorf("%w: line %d: %s", banding.ErrUnsupportedInput, r.line, describe(result.Errors()))
	}

	switch r.kind {
	case KindText:
		var v *string

		err = json.Unmarshal(line, &v)
		batch.Text = append(batch.Text, v)
	case KindShingles:
		var v []string

		err = json.Unmarshal(line, &v)
		batch.Shingles = append(batch.Shingles, v)
	case KindVector:
		var v []float64

		err = json.Unmarshal(line, &v)
		batch.Vectors = append(batch.Vectors, v)
	}

	if err != nil {
		return fmt.Errorf("decode line %d: %w", r.line, err)
	}

	return nil
}

func describe(errs []gojsonschema.ResultError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.String())
	}

	return strings.Join(parts, "; ")
}
