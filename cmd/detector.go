package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/kozaktomas/face-attendance/internal/capture"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// addCaptureFlags registers the flags selecting the capture source.
func addCaptureFlags(cmd *cobra.Command) {
	cmd.Flags().String("frames", "", "Replay recorded landmark frames from a JSON file instead of the landmark service")
	cmd.Flags().Duration("window", 0, "Capture window (overrides CAPTURE_DETECTION_WINDOW)")
}

// applyCaptureFlags copies capture flag overrides into cfg.
func applyCaptureFlags(cmd *cobra.Command, cfg *config.Config) {
	if w := mustGetDuration(cmd, "window"); w > 0 {
		cfg.Capture.DetectionWindow = w
	}
}

// captureSource opens capture sources for CLI workflows. Each opened source
// replaces and closes the previous one.
type captureSource struct {
	cfg     *config.Config
	replay  *capture.ReplayDetector
	current *interactiveCapture
}

func newCaptureSource(cmd *cobra.Command, cfg *config.Config) (*captureSource, error) {
	src := &captureSource{cfg: cfg}
	if path := mustGetString(cmd, "frames"); path != "" {
		replay, err := capture.LoadReplay(path, cfg.Capture.PollInterval)
		if err != nil {
			return nil, err
		}
		src.replay = replay
	}
	return src, nil
}

// Open returns a fresh source. A replay file is rewound for every attempt.
func (s *captureSource) Open() (capture.Detector, error) {
	s.Close()

	var d capture.Detector
	if s.replay != nil {
		s.replay.Rewind()
		d = s.replay
	} else {
		d = capture.NewHTTPDetector(s.cfg.Landmark.URL, s.cfg.Capture.PollInterval, s.cfg.Landmark.Timeout)
	}
	s.current = newInteractiveCapture(d)
	return s.current, nil
}

// Close releases the last opened source.
func (s *captureSource) Close() {
	if s.current != nil {
		s.current.Close()
		s.current = nil
	}
}

// interactiveCapture shows a frame spinner and stops the capture early on
// the first Ctrl+C, keeping the frames captured so far.
type interactiveCapture struct {
	inner   capture.Detector
	abort   chan struct{}
	sigChan chan os.Signal
	bar     *progressbar.ProgressBar
	started sync.Once
	closed  sync.Once
}

func newInteractiveCapture(d capture.Detector) *interactiveCapture {
	abort := make(chan struct{})
	return &interactiveCapture{
		inner:   capture.WithAbort(d, abort),
		abort:   abort,
		sigChan: make(chan os.Signal, 1),
	}
}

func (c *interactiveCapture) start() {
	c.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Capturing face (Ctrl+C to stop)"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("frames"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
	signal.Notify(c.sigChan, os.Interrupt)
	go func() {
		if _, ok := <-c.sigChan; ok {
			close(c.abort)
		}
	}()
}

// NextFrame reads the next frame and advances the spinner.
func (c *interactiveCapture) NextFrame(ctx context.Context) (facematch.FeatureSet, error) {
	c.started.Do(c.start)
	frame, err := c.inner.NextFrame(ctx)
	if err != nil {
		return nil, err
	}
	_ = c.bar.Add(1)
	return frame, nil
}

// Close stops listening for Ctrl+C and clears the spinner.
func (c *interactiveCapture) Close() {
	c.closed.Do(func() {
		signal.Stop(c.sigChan)
		close(c.sigChan)
		if c.bar != nil {
			_ = c.bar.Finish()
			fmt.Fprintln(os.Stderr, "Face detection completed.")
		}
	})
}
