// Package capture accumulates landmark detections from an external frame
// source into a FeatureSet within a bounded detection window.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// Detector is the capture/extraction collaborator. NextFrame blocks until the
// next frame has been processed and returns the faces found in it, keyed by
// face slot. io.EOF means the source has no more frames.
type Detector interface {
	NextFrame(ctx context.Context) (facematch.FeatureSet, error)
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(ctx context.Context) (facematch.FeatureSet, error)

// NextFrame calls f(ctx).
func (f DetectorFunc) NextFrame(ctx context.Context) (facematch.FeatureSet, error) {
	return f(ctx)
}

// Result is the outcome of one capture session.
type Result struct {
	Features facematch.FeatureSet
	Frames   int
	Elapsed  time.Duration
	// Aborted is set when the parent context was cancelled before the window elapsed.
	Aborted bool
}

// Run polls d until the window elapses, ctx is cancelled or the source is
// exhausted. Each frame's faces overwrite earlier assignments for the same
// slot. The accumulated set is returned even when the detector fails.
func Run(ctx context.Context, d Detector, window time.Duration) (Result, error) {
	if window <= 0 {
		window = constants.DefaultDetectionWindow
	}
	start := time.Now()
	windowCtx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	res := Result{Features: facematch.FeatureSet{}}
	finish := func() Result {
		res.Elapsed = time.Since(start)
		res.Aborted = ctx.Err() != nil
		return res
	}

	for {
		frame, err := d.NextFrame(windowCtx)
		if err != nil {
			if errors.Is(err, io.EOF) || windowCtx.Err() != nil {
				return finish(), nil
			}
			return finish(), fmt.Errorf("reading frame %d: %w", res.Frames+1, err)
		}

		res.Frames++
		for slot, lm := range frame {
			res.Features[slot] = lm
		}

		if windowCtx.Err() != nil {
			return finish(), nil
		}
	}
}
