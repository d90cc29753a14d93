package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/capture"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/database/mock"
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

const replayFrames = `[
  {"faces": [{"landmarks": [{"x": 10, "y": 10}, {"x": 20, "y": 20}]}]},
  {"faces": [{"landmarks": [{"x": 11, "y": 10}, {"x": 21, "y": 20}]}]}
]`

func newLineReader(input string) (*lineReader, *bytes.Buffer) {
	var out bytes.Buffer
	return &lineReader{in: bufio.NewReader(strings.NewReader(input)), out: &out}, &out
}

func TestLineReader_Ask(t *testing.T) {
	r, out := newLineReader("  7 \nlast")

	got, err := r.ask("ID: ")
	if err != nil || got != "7" {
		t.Errorf("ask() = %q, %v; want \"7\", nil", got, err)
	}
	if out.String() != "ID: " {
		t.Errorf("prompt = %q", out.String())
	}

	// Final line without newline is still returned.
	got, err = r.ask("Name: ")
	if err != nil || got != "last" {
		t.Errorf("ask() = %q, %v; want \"last\", nil", got, err)
	}

	if _, err := r.ask("More: "); !errors.Is(err, io.EOF) {
		t.Errorf("ask() error = %v, want io.EOF", err)
	}
}

func TestEnrollmentPrompter_RepeatsEmptyID(t *testing.T) {
	r, _ := newLineReader("\n\n42\nJane\nF\n")

	e, err := enrollmentPrompter(r).NextEnrollment(context.Background(), nil)
	if err != nil {
		t.Fatalf("NextEnrollment() error = %v", err)
	}
	want := attendance.Enrollment{PersonID: "42", Name: "Jane", Gender: "F"}
	if e != want {
		t.Errorf("NextEnrollment() = %+v, want %+v", e, want)
	}
}

func TestEnrollmentPrompter_RepeatsTooLongID(t *testing.T) {
	r, out := newLineReader(strings.Repeat("9", 65) + "\n42\nJane\nF\n")

	e, err := enrollmentPrompter(r).NextEnrollment(context.Background(), nil)
	if err != nil {
		t.Fatalf("NextEnrollment() error = %v", err)
	}
	if e.PersonID != "42" {
		t.Errorf("PersonID = %q, want \"42\"", e.PersonID)
	}
	if !strings.Contains(out.String(), "Person ID is too long") {
		t.Errorf("expected a too-long notice, got %q", out.String())
	}
}

func TestMenuEnrollmentRetriesWithReplay(t *testing.T) {
	replay, err := capture.ParseReplay([]byte(replayFrames), 0)
	if err != nil {
		t.Fatalf("ParseReplay() error = %v", err)
	}
	cfg := &config.Config{Capture: config.CaptureConfig{DetectionWindow: time.Second}}
	src := &captureSource{cfg: cfg, replay: replay}
	defer src.Close()

	store := mock.NewMockFeatureStore()
	store.AddIdentity(database.Identity{PersonID: "1", Name: "Taken"})
	svc := attendance.NewService(store, mock.NewMockAttendanceLedger(), facematch.NewComparator(50), attendance.Options{
		DetectionWindow: time.Second,
	})

	r, _ := newLineReader("1\nJane\nF\n2\nJane\nF\n")
	out, err := svc.EnrollUntilAccepted(context.Background(), enrollmentPrompter(r), src.Open)
	if err != nil {
		t.Fatalf("EnrollUntilAccepted() error = %v", err)
	}
	if !out.Succeeded() || out.PersonID != "2" {
		t.Fatalf("outcome = %s for %s, want succeeded for 2", out.State, out.PersonID)
	}
	if out.Frames != 2 {
		t.Errorf("Frames = %d, want the rewound replay to yield 2 frames", out.Frames)
	}

	fs, err := store.Lookup(context.Background(), "2")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got := fs[0][0]; got != (facematch.Point{X: 11, Y: 10}) {
		t.Errorf("stored slot 0 point 0 = %v, want the last frame", got)
	}
}
