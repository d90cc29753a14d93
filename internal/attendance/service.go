package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-attendance/internal/capture"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"go.uber.org/zap"
)

var (
	// ErrEmptyPersonID is returned when a workflow is started without a person ID.
	ErrEmptyPersonID = errors.New("person ID is required")
	// ErrPersonIDTooLong is returned for IDs the identity table cannot hold.
	ErrPersonIDTooLong = fmt.Errorf("person ID exceeds %d characters", constants.MaxPersonIDLength)
)

// NormalizePersonID trims id and checks it fits the identity table.
func NormalizePersonID(id string) (string, error) {
	id = strings.TrimSpace(id)
	switch {
	case id == "":
		return "", ErrEmptyPersonID
	case utf8.RuneCountInString(id) > constants.MaxPersonIDLength:
		return "", ErrPersonIDTooLong
	}
	return id, nil
}

// Enrollment holds the caller-supplied identity attributes.
type Enrollment struct {
	PersonID string
	Name     string
	Gender   string
}

// Options configures a Service.
type Options struct {
	DetectionWindow time.Duration // Capture window, defaults to 10s
	Logger          *zap.Logger   // Defaults to a no-op logger
	OnState         func(State)   // Optional callback on every transition
	NewWorkflowID   func() string // Defaults to random UUIDs
}

// Service runs enrollment and verification workflows. It is safe for
// concurrent use; enrollments of the same person ID are serialized.
type Service struct {
	store      database.FeatureStore
	ledger     database.AttendanceLedger
	comparator *facematch.Comparator
	window     time.Duration
	log        *zap.Logger
	onState    func(State)
	newID      func() string
	enrollLock *keyedMutex
}

// NewService creates a workflow service on top of the given store and ledger.
func NewService(store database.FeatureStore, ledger database.AttendanceLedger, comparator *facematch.Comparator, opts Options) *Service {
	if comparator == nil {
		comparator = facematch.NewComparator(constants.DefaultDistanceThreshold)
	}
	if opts.DetectionWindow <= 0 {
		opts.DetectionWindow = constants.DefaultDetectionWindow
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.NewWorkflowID == nil {
		opts.NewWorkflowID = func() string { return uuid.NewString() }
	}
	return &Service{
		store:      store,
		ledger:     ledger,
		comparator: comparator,
		window:     opts.DetectionWindow,
		log:        opts.Logger,
		onState:    opts.OnState,
		newID:      opts.NewWorkflowID,
		enrollLock: newKeyedMutex(),
	}
}

// workflow tracks one run and logs its transitions.
type workflow struct {
	outcome *Outcome
	log     *zap.Logger
	onState func(State)
}

func (s *Service) start(kind, personID string) *workflow {
	id := s.newID()
	w := &workflow{
		outcome: &Outcome{WorkflowID: id, PersonID: personID},
		log:     s.log.With(zap.String("workflow", id), zap.String("kind", kind), zap.String("person_id", personID)),
		onState: s.onState,
	}
	w.enter(StateIdle)
	return w
}

func (w *workflow) enter(st State) {
	w.outcome.enter(st)
	w.log.Debug("state transition", zap.String("state", string(st)))
	if w.onState != nil {
		w.onState(st)
	}
}

func (w *workflow) finish(st State, reason Reason) *Outcome {
	w.outcome.Reason = reason
	w.enter(st)
	w.log.Info("workflow finished",
		zap.String("state", string(st)),
		zap.String("reason", string(reason)),
		zap.Int("faces", w.outcome.Faces))
	return w.outcome
}

func (w *workflow) fail(err error) (*Outcome, error) {
	w.log.Error("workflow failed", zap.String("state", string(w.outcome.State)), zap.Error(err))
	return w.outcome, err
}

// capture runs the detection window and records its size on the outcome.
func (s *Service) capture(ctx context.Context, w *workflow, d capture.Detector) (facematch.FeatureSet, error) {
	w.enter(StateCapturing)
	res, err := capture.Run(ctx, d, s.window)
	w.outcome.Faces = len(res.Features)
	w.outcome.Frames = res.Frames
	w.log.Debug("capture finished",
		zap.Int("frames", res.Frames),
		zap.Int("faces", len(res.Features)),
		zap.Duration("elapsed", res.Elapsed),
		zap.Bool("aborted", res.Aborted))
	if err != nil {
		if res.Frames == 0 {
			return nil, fmt.Errorf("capturing faces: %w", err)
		}
		// A source that fails mid-window ends the capture with what it delivered.
		w.log.Warn("capture source failed, using frames read so far",
			zap.Int("frames", res.Frames), zap.Error(err))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return res.Features, nil
}

// Enroll captures a feature set and registers it under e.PersonID. A taken
// ID ends in StateRejected with ReasonDuplicateID and a nil error.
func (s *Service) Enroll(ctx context.Context, d capture.Detector, e Enrollment) (*Outcome, error) {
	id, err := NormalizePersonID(e.PersonID)
	if err != nil {
		return nil, err
	}
	e.PersonID = id

	unlock := s.enrollLock.Lock(e.PersonID)
	defer unlock()

	w := s.start("enroll", e.PersonID)

	features, err := s.capture(ctx, w, d)
	if err != nil {
		return w.fail(err)
	}
	if features.Empty() {
		w.log.Warn("registering identity without any detected face", zap.Error(facematch.ErrNoFaceDetected))
	}

	w.enter(StateRegistering)
	err = s.store.Register(ctx, database.Identity{
		PersonID: e.PersonID,
		Name:     e.Name,
		Gender:   e.Gender,
		Features: features,
	})
	switch {
	case errors.Is(err, database.ErrAlreadyExists):
		return w.finish(StateRejected, ReasonDuplicateID), nil
	case err != nil:
		return w.fail(fmt.Errorf("registering %s: %w", e.PersonID, err))
	}
	return w.finish(StateSucceeded, ReasonRegistered), nil
}

// Prompter supplies enrollment attributes for each attempt. previous is nil on
// the first attempt and the rejected outcome afterwards. Returning an error
// ends the loop.
type Prompter interface {
	NextEnrollment(ctx context.Context, previous *Outcome) (Enrollment, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, previous *Outcome) (Enrollment, error)

// NextEnrollment calls f(ctx, previous).
func (f PrompterFunc) NextEnrollment(ctx context.Context, previous *Outcome) (Enrollment, error) {
	return f(ctx, previous)
}

// DetectorFactory opens the capture source for one attempt.
type DetectorFactory func() (capture.Detector, error)

// EnrollUntilAccepted repeats Enroll with freshly prompted attributes and a
// new capture until an attempt is not rejected as a duplicate.
func (s *Service) EnrollUntilAccepted(ctx context.Context, prompt Prompter, open DetectorFactory) (*Outcome, error) {
	var previous *Outcome
	for {
		e, err := prompt.NextEnrollment(ctx, previous)
		if err != nil {
			return previous, err
		}
		d, err := open()
		if err != nil {
			return previous, fmt.Errorf("opening capture source: %w", err)
		}

		out, err := s.Enroll(ctx, d, e)
		if err != nil {
			return out, err
		}
		if out.Reason != ReasonDuplicateID {
			return out, nil
		}
		previous = out
	}
}

// Verify looks up personID, captures a live feature set and compares them.
// On a match the attendance record is written before the workflow counts as
// succeeded; a failed ledger write returns an error wrapping
// database.ErrPersistence with the outcome left in StateVerifying.
func (s *Service) Verify(ctx context.Context, d capture.Detector, personID string) (*Outcome, error) {
	personID, err := NormalizePersonID(personID)
	if err != nil {
		return nil, err
	}

	w := s.start("verify", personID)

	stored, err := s.store.Lookup(ctx, personID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return w.finish(StateRejected, ReasonPersonNotFound), nil
	case err != nil:
		return w.fail(fmt.Errorf("looking up %s: %w", personID, err))
	}

	live, err := s.capture(ctx, w, d)
	if err != nil {
		return w.fail(err)
	}

	w.enter(StateVerifying)
	if live.Empty() {
		return w.finish(StateRejected, ReasonNoFaceDetected), nil
	}
	if !s.comparator.Match(stored, live) {
		if ce := w.log.Check(zap.DebugLevel, "no face slot matched"); ce != nil {
			ce.Write(zap.Any("scores", s.comparator.Scores(stored, live)))
		}
		return w.finish(StateRejected, ReasonFaceNotRecognized), nil
	}

	rec, err := s.ledger.Record(ctx, personID)
	if err != nil {
		return w.fail(fmt.Errorf("marking attendance for %s: %w", personID, err))
	}
	w.outcome.Record = &rec
	return w.finish(StateSucceeded, ReasonAttendanceMarked), nil
}
