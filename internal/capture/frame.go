package capture

import (
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// faceLandmarks is the wire form of one detected face: points in anatomical order.
type faceLandmarks struct {
	Landmarks []facematch.Point `json:"landmarks"`
}

// frameResponse is the wire form of one processed frame.
type frameResponse struct {
	Faces []faceLandmarks `json:"faces"`
}

// toFeatureSet assigns slots by detection order within the frame.
func (f frameResponse) toFeatureSet() facematch.FeatureSet {
	fs := make(facematch.FeatureSet, len(f.Faces))
	for i, face := range f.Faces {
		fs[i] = facematch.FromPoints(face.Landmarks)
	}
	return fs
}
