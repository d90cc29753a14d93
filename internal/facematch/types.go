// Package facematch holds the landmark feature model and the threshold
// comparator that decides whether a live capture shows an enrolled person.
package facematch

import (
	"errors"
	"maps"
	"slices"
)

// ErrNoFaceDetected reports a capture that produced no face slots.
// It is an outcome, never a hard failure: matching against it is simply false.
var ErrNoFaceDetected = errors.New("no face detected")

// Point is a landmark position in frame pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Landmarks maps a landmark index (fixed anatomical ordering) to its point
// for a single detected face.
type Landmarks map[int]Point

// FeatureSet maps a face slot (index of a face within one capture session)
// to the landmarks detected for it.
type FeatureSet map[int]Landmarks

// Slots returns the face slots in ascending order.
func (fs FeatureSet) Slots() []int {
	return slices.Sorted(maps.Keys(fs))
}

// Empty reports whether no face was captured.
func (fs FeatureSet) Empty() bool {
	return len(fs) == 0
}

// Clone returns a deep copy so callers can keep accumulating into the original.
func (fs FeatureSet) Clone() FeatureSet {
	out := make(FeatureSet, len(fs))
	for slot, lm := range fs {
		out[slot] = maps.Clone(lm)
	}
	return out
}

// FromPoints builds landmarks from an ordered point list; the list
// position becomes the landmark index.
func FromPoints(points []Point) Landmarks {
	lm := make(Landmarks, len(points))
	for i, p := range points {
		lm[i] = p
	}
	return lm
}
