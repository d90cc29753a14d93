package facematch

import (
	"math"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Comparator decides whether a live capture matches a stored feature set.
type Comparator struct {
	threshold float64
}

// NewComparator creates a comparator with the given distance threshold.
// Non-positive thresholds fall back to constants.DefaultDistanceThreshold.
func NewComparator(threshold float64) *Comparator {
	if threshold <= 0 {
		threshold = constants.DefaultDistanceThreshold
	}
	return &Comparator{threshold: threshold}
}

// Threshold returns the configured distance threshold.
func (c *Comparator) Threshold() float64 {
	return c.threshold
}

// Match reports whether any stored face slot is closer than the threshold to
// the live face in the same slot. An empty live set never matches.
func (c *Comparator) Match(stored, live FeatureSet) bool {
	if live.Empty() {
		return false
	}
	for slot, storedPoints := range stored {
		livePoints, ok := live[slot]
		if !ok {
			continue
		}
		if Dissimilarity(storedPoints, livePoints) < c.threshold {
			return true
		}
	}
	return false
}

// Scores returns the dissimilarity of every stored slot that also exists in live.
func (c *Comparator) Scores(stored, live FeatureSet) map[int]float64 {
	scores := make(map[int]float64)
	for slot, storedPoints := range stored {
		if livePoints, ok := live[slot]; ok {
			scores[slot] = Dissimilarity(storedPoints, livePoints)
		}
	}
	return scores
}

// Dissimilarity is the mean Euclidean distance over landmark indices present
// in both faces. With no common index it is +Inf.
func Dissimilarity(a, b Landmarks) float64 {
	distances := make([]float64, 0, len(a))
	for idx, p1 := range a {
		p2, ok := b[idx]
		if !ok {
			continue
		}
		distances = append(distances, floats.Distance([]float64{p1.X, p1.Y}, []float64{p2.X, p2.Y}, 2))
	}
	if len(distances) == 0 {
		return math.Inf(1)
	}
	return stat.Mean(distances, nil)
}
