package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// ReplayDetector replays recorded frames from a JSON file of the form
// [{"faces": [{"landmarks": [{"x": 1, "y": 2}, ...]}]}, ...].
type ReplayDetector struct {
	frames []facematch.FeatureSet
	next   int
	delay  time.Duration
}

// LoadReplay reads a recorded frame file. delay is slept before every frame
// after the first to mimic camera pacing.
func LoadReplay(path string, delay time.Duration) (*ReplayDetector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading frames file: %w", err)
	}
	return ParseReplay(data, delay)
}

// ParseReplay builds a replay detector from in-memory frame data.
func ParseReplay(data []byte, delay time.Duration) (*ReplayDetector, error) {
	var raw []frameResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing frames: %w", err)
	}
	frames := make([]facematch.FeatureSet, len(raw))
	for i, f := range raw {
		frames[i] = f.toFeatureSet()
	}
	return &ReplayDetector{frames: frames, delay: delay}, nil
}

// Frames returns the number of recorded frames.
func (d *ReplayDetector) Frames() int {
	return len(d.frames)
}

// NextFrame returns the next recorded frame or io.EOF.
func (d *ReplayDetector) NextFrame(ctx context.Context) (facematch.FeatureSet, error) {
	if d.next >= len(d.frames) {
		return nil, io.EOF
	}
	if d.next > 0 && d.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(d.delay):
		}
	}
	frame := d.frames[d.next]
	d.next++
	return frame.Clone(), nil
}

// Rewind restarts the replay so a retried workflow captures the same frames again.
func (d *ReplayDetector) Rewind() {
	d.next = 0
}
