package capture

import (
	"context"
	"io"

	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// WithAbort ends the source early once abort is closed. Unlike cancelling
// the context, the capture then completes normally with what it has.
func WithAbort(d Detector, abort <-chan struct{}) Detector {
	return DetectorFunc(func(ctx context.Context) (facematch.FeatureSet, error) {
		select {
		case <-abort:
			return nil, io.EOF
		default:
		}

		frameCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-abort:
				cancel()
			case <-frameCtx.Done():
			}
		}()

		frame, err := d.NextFrame(frameCtx)
		if err != nil {
			select {
			case <-abort:
				return nil, io.EOF
			default:
			}
		}
		return frame, err
	})
}
