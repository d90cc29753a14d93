package capture

import (
	"context"
	"io"
	"sync"

	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// StaticDetector yields a pre-extracted feature set as a single frame,
// then io.EOF. Used when the client already ran landmark extraction.
type StaticDetector struct {
	mu       sync.Mutex
	features facematch.FeatureSet
	done     bool
}

// NewStaticDetector creates a detector for an already-extracted feature set.
func NewStaticDetector(fs facematch.FeatureSet) *StaticDetector {
	return &StaticDetector{features: fs}
}

// NextFrame returns the feature set once.
func (d *StaticDetector) NextFrame(ctx context.Context) (facematch.FeatureSet, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return nil, io.EOF
	}
	d.done = true
	return d.features.Clone(), nil
}
