// Package vector provides columnar batch containers: flat columns of
// scalars and list columns whose rows are variable-length slices of one
// contiguous child buffer. Null rows are tracked in a roaring bitmap.
//
// A List doubles as a growable output: callers size the child buffer up
// front with [List.Child], write entries row by row, and trim the buffer to
// what was actually written with [List.SetLen].
package vector

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/princeton-ddss/lsh/pkg/safeconv"
)

// Entry locates one list row inside the child buffer.
type Entry struct {
	Offset int
	Length int
}

// nullMask is a lazily allocated set of null row indexes.
type nullMask struct {
	rows *roaring.Bitmap
}

func (m *nullMask) set(row int) {
	if m.rows == nil {
		m.rows = roaring.New()
	}

	m.rows.Add(safeconv.MustIntToUint32(row))
}

func (m *nullMask) clear(row int) {
	if m.rows != nil {
		m.rows.Remove(safeconv.MustIntToUint32(row))
	}
}

func (m *nullMask) has(row int) bool {
	return m.rows != nil && m.rows.Contains(safeconv.MustIntToUint32(row))
}

func (m *nullMask) count() int {
	if m.rows == nil {
		return 0
	}

	return int(m.rows.GetCardinality())
}

// Flat is a column of fixed-size values with a null mask.
type Flat[V any] struct {
	values []V
	nulls  nullMask
}

// NewFlat wraps values as a column with no nulls. The slice is not copied.
func NewFlat[V any](values []V) *Flat[V] {
	return &Flat[V]{values: values}
}

// FlatOf builds a column from pointers; nil pointers become null rows.
func FlatOf[V any](values []*V) *Flat[V] {
	col := &Flat[V]{values: make([]V, len(values))}

	for i, v := range values {
		if v == nil {
			col.nulls.set(i)

			continue
		}

		col.values[i] = *v
	}

	return col
}

// Repeat returns n copies of v, the shape of a parameter that is constant
// across a batch.
func Repeat[V any](v V, n int) []V {
	out := make([]V, n)
	for i := range out {
		out[i] = v
	}

	return out
}

// Len returns the number of rows.
func (f *Flat[V]) Len() int {
	return len(f.values)
}

// Values returns the backing values, including placeholders for null rows.
func (f *Flat[V]) Values() []V {
	return f.values
}

// Value returns the value at row. Null rows hold the zero value.
func (f *Flat[V]) Value(row int) V {
	return f.values[row]
}

// SetNull marks row as null.
func (f *Flat[V]) SetNull(row int) {
	f.nulls.set(row)
}

// IsNull reports whether row is null.
func (f *Flat[V]) IsNull(row int) bool {
	return f.nulls.has(row)
}

// NullCount returns the number of null rows.
func (f *Flat[V]) NullCount() int {
	return f.nulls.count()
}

// List is a column of variable-length rows backed by one child buffer.
type List[V any] struct {
	entries []Entry
	child   []V
	nulls   nullMask
}

// NewList returns an empty list column with rows rows. Every row starts as
// a zero-length entry at offset 0.
func NewList[V any](rows int) *List[V] {
	return &List[V]{entries: make([]Entry, rows)}
}

// ListOf builds a list column from rows; nil rows become null.
func ListOf[V any](rows [][]V) *List[V] {
	total := 0
	for _, r := range rows {
		total += len(r)
	}

	l := NewList[V](len(rows))
	child := l.Child(total)
	offset := 0

	for i, r := range rows {
		if r == nil {
			l.SetNull(i)

			continue
		}

		copy(child[offset:], r)
		l.SetEntry(i, offset, len(r))
		offset += len(r)
	}

	l.SetLen(offset)

	return l
}

// Len returns the number of rows.
func (l *List[V]) Len() int {
	return len(l.entries)
}

// Child ensures the child buffer holds at least capacity elements and
// returns it for writing. Elements already written are preserved.
func (l *List[V]) Child(capacity int) []V {
	if capacity > len(l.child) {
		grown := make([]V, capacity)
		copy(grown, l.child)
		l.child = grown
	}

	return l.child
}

// SetEntry points row at child[offset : offset+length] and clears any
// null marker on it.
func (l *List[V]) SetEntry(row, offset, length int) {
	l.entries[row] = Entry{Offset: offset, Length: length}
	l.nulls.clear(row)
}

// SetNull marks row as null with an empty entry.
func (l *List[V]) SetNull(row int) {
	l.entries[row] = Entry{}
	l.nulls.set(row)
}

// SetLen trims the child buffer to n elements, the number actually written.
func (l *List[V]) SetLen(n int) {
	l.child = l.Child(n)[:n]
}

// ChildLen returns the current child buffer length.
func (l *List[V]) ChildLen() int {
	return len(l.child)
}

// Entry returns the entry for row.
func (l *List[V]) Entry(row int) Entry {
	return l.entries[row]
}

// IsNull reports whether row is null.
func (l *List[V]) IsNull(row int) bool {
	return l.nulls.has(row)
}

// NullCount returns the number of null rows.
func (l *List[V]) NullCount() int {
	return l.nulls.count()
}

// Row returns the values of row, or nil when the row is null. The slice
// aliases the child buffer.
func (l *List[V]) Row(row int) []V {
	if l.IsNull(row) {
		return nil
	}

	e := l.entries[row]
	if e.Length == 0 {
		return []V{}
	}

	return l.child[e.Offset : e.Offset+e.Length : e.Offset+e.Length]
}

// Rows returns every row as in [List.Row].
func (l *List[V]) Rows() [][]V {
	out := make([][]V, len(l.entries))
	for i := range out {
		out[i] = l.Row(i)
	}

	return out
}
