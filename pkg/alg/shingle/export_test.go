package shingle

import "github.com/RoaringBitmap/roaring/v2"

// FromFingerprints builds a set from precomputed fingerprints.
func FromFingerprints(fps ...uint32) *Set {
	return &Set{fps: roaring.BitmapOf(fps...)}
}
