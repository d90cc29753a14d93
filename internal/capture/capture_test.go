package capture

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// scriptedDetector returns the scripted frames in order, then err.
type scriptedDetector struct {
	frames []facematch.FeatureSet
	err    error
	calls  int
}

func (d *scriptedDetector) NextFrame(ctx context.Context) (facematch.FeatureSet, error) {
	d.calls++
	if len(d.frames) == 0 {
		return nil, d.err
	}
	f := d.frames[0]
	d.frames = d.frames[1:]
	return f, nil
}

func TestRun_LaterFramesOverwriteSlots(t *testing.T) {
	d := &scriptedDetector{
		frames: []facematch.FeatureSet{
			{0: {0: {X: 1, Y: 1}}, 1: {0: {X: 5, Y: 5}}},
			{0: {0: {X: 2, Y: 2}}},
			{},
		},
		err: io.EOF,
	}

	res, err := Run(context.Background(), d, time.Second)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Frames != 3 {
		t.Errorf("Frames = %d, want 3", res.Frames)
	}
	if got := res.Features[0][0]; got != (facematch.Point{X: 2, Y: 2}) {
		t.Errorf("slot 0 = %v, want latest frame {2 2}", got)
	}
	if got := res.Features[1][0]; got != (facematch.Point{X: 5, Y: 5}) {
		t.Errorf("slot 1 = %v, want value kept from first frame", got)
	}
	if res.Aborted {
		t.Error("exhausted source should not count as aborted")
	}
}

func TestRun_EmptySource(t *testing.T) {
	res, err := Run(context.Background(), &scriptedDetector{err: io.EOF}, time.Second)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.Features.Empty() {
		t.Errorf("expected empty feature set, got %v", res.Features)
	}
	if res.Features == nil {
		t.Error("feature set should be non-nil")
	}
}

func TestRun_WindowBoundsCapture(t *testing.T) {
	frames := 0
	d := DetectorFunc(func(ctx context.Context) (facematch.FeatureSet, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
		frames++
		return facematch.FeatureSet{0: {0: {X: float64(frames), Y: 0}}}, nil
	})

	start := time.Now()
	res, err := Run(context.Background(), d, 60*time.Millisecond)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("capture ran for %v, expected it to stop near the window", elapsed)
	}
	if res.Frames == 0 || res.Features.Empty() {
		t.Error("frames accumulated before the timeout must be kept")
	}
	if res.Aborted {
		t.Error("window expiry is not an abort")
	}
}

func TestRun_UserAbortKeepsPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	d := DetectorFunc(func(c context.Context) (facematch.FeatureSet, error) {
		calls++
		if calls == 2 {
			cancel()
			<-c.Done()
			return nil, c.Err()
		}
		return facematch.FeatureSet{0: {0: {X: 3, Y: 3}}}, nil
	})

	res, err := Run(ctx, d, time.Minute)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.Aborted {
		t.Error("expected Aborted after parent cancellation")
	}
	if res.Features.Empty() {
		t.Error("partial features must be kept on abort")
	}
}

func TestRun_DetectorFailure(t *testing.T) {
	boom := errors.New("camera unplugged")
	d := &scriptedDetector{
		frames: []facematch.FeatureSet{{0: {0: {X: 1, Y: 1}}}},
		err:    boom,
	}

	res, err := Run(context.Background(), d, time.Second)
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
	if res.Features.Empty() {
		t.Error("features accumulated before the failure should be returned")
	}
}

func TestStaticDetector(t *testing.T) {
	fs := facematch.FeatureSet{2: {0: {X: 1, Y: 1}}}
	d := NewStaticDetector(fs)

	res, err := Run(context.Background(), d, time.Second)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Frames != 1 {
		t.Errorf("Frames = %d, want 1", res.Frames)
	}
	if _, ok := res.Features[2]; !ok {
		t.Errorf("slot 2 should be preserved, got %v", res.Features)
	}

	if _, err := d.NextFrame(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("second NextFrame() error = %v, want io.EOF", err)
	}
}

func TestWithAbort_StopsWithoutError(t *testing.T) {
	abort := make(chan struct{})
	frames := 0
	d := DetectorFunc(func(ctx context.Context) (facematch.FeatureSet, error) {
		frames++
		if frames == 2 {
			close(abort)
		}
		return facematch.FeatureSet{frames: {0: {X: 1, Y: 1}}}, nil
	})

	res, err := Run(context.Background(), WithAbort(d, abort), time.Minute)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Frames != 2 {
		t.Errorf("Frames = %d, want 2", res.Frames)
	}
	if len(res.Features) != 2 {
		t.Errorf("expected frames captured before abort to be kept, got %d slots", len(res.Features))
	}
	if res.Aborted {
		t.Error("user abort must not be reported as context cancellation")
	}
}

func TestWithAbort_InterruptsBlockedFrame(t *testing.T) {
	abort := make(chan struct{})
	d := DetectorFunc(func(ctx context.Context) (facematch.FeatureSet, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(abort)
	}()

	start := time.Now()
	_, err := Run(context.Background(), WithAbort(d, abort), time.Minute)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("abort did not interrupt the blocked frame")
	}
}
