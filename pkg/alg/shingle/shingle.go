// Package shingle builds sets of 32-bit shingle fingerprints for Jaccard
// similarity and MinHash.
//
// A shingle is either a window of ngramWidth consecutive Unicode code points
// taken from a text, or an explicit token. Each shingle is hashed with
// xxhash64 (optionally salted) and truncated to 32 bits; the fingerprints are
// kept in a roaring bitmap, so set algebra is done on compressed containers
// without materializing intersections.
package shingle

import (
	"encoding/binary"
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cespare/xxhash/v2"
)

const (
	// bytesPerRune is the encoded width of one code point in a shingle hash.
	bytesPerRune = 4

	// saltTerminator ends the salt prefix. 0xff never occurs in UTF-8, so
	// salt and shingle bytes cannot run into each other.
	saltTerminator = 0xff
)

// Set is an immutable set of shingle fingerprints.
type Set struct {
	fps *roaring.Bitmap
}

// FromText slides a window of ngramWidth code points across text and adds
// the fingerprint of every window. Text shorter than the window, and a
// non-positive ngramWidth, give an empty set. An empty salt means unsalted.
func FromText(text string, ngramWidth int, salt string) *Set {
	fps := roaring.New()

	if ngramWidth <= 0 {
		return &Set{fps: fps}
	}

	runes := []rune(text)

	for i := 0; i+ngramWidth <= len(runes); i++ {
		fps.Add(Fingerprint(runes[i:i+ngramWidth], salt))
	}

	return &Set{fps: fps}
}

// FromShingles adds the fingerprint of every token. Duplicate tokens
// collapse to one element.
func FromShingles(tokens []string, salt string) *Set {
	fps := roaring.New()

	for _, tok := range tokens {
		fps.Add(Fingerprint([]rune(tok), salt))
	}

	return &Set{fps: fps}
}

// Fingerprint hashes one shingle: the salt (if any) followed by each code
// point as 4 little-endian bytes, xxhash64, truncated to 32 bits.
func Fingerprint(chars []rune, salt string) uint32 {
	digest := xxhash.New()

	if salt != "" {
		_, _ = digest.WriteString(salt)
		_, _ = digest.Write([]byte{saltTerminator})
	}

	var buf [bytesPerRune]byte

	for _, r := range chars {
		binary.LittleEndian.PutUint32(buf[:], uint32(r))
		_, _ = digest.Write(buf[:])
	}

	return uint32(digest.Sum64())
}

// Len returns the number of distinct fingerprints.
func (s *Set) Len() int {
	return int(s.fps.GetCardinality())
}

// IsEmpty reports whether the set has no fingerprints.
func (s *Set) IsEmpty() bool {
	return s.fps.IsEmpty()
}

// Contains reports whether fp is in the set.
func (s *Set) Contains(fp uint32) bool {
	return s.fps.Contains(fp)
}

// Fingerprints returns the fingerprints in ascending order.
func (s *Set) Fingerprints() []uint32 {
	return s.fps.ToArray()
}

// All iterates the fingerprints in ascending order.
func (s *Set) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := s.fps.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// Jaccard returns |A ∩ B| / |A ∪ B|, or 0 when either set is empty.
func (s *Set) Jaccard(other *Set) float64 {
	if s.IsEmpty() || other.IsEmpty() {
		return 0
	}

	inter := s.fps.AndCardinality(other.fps)
	union := s.fps.OrCardinality(other.fps)

	return float64(inter) / float64(union)
}

// JaccardText returns the exact Jaccard similarity of the unsalted
// ngramWidth shingle sets of a and b.
func JaccardText(a, b string, ngramWidth int) float64 {
	return FromText(a, ngramWidth, "").Jaccard(FromText(b, ngramWidth, ""))
}
