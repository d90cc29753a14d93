// Package attendance sequences the enrollment and verification workflows:
// capture a live feature set, then register it or match it against the
// stored identity and append to the attendance ledger.
package attendance

import (
	"github.com/kozaktomas/face-attendance/internal/database"
)

// State is a workflow state.
type State string

const (
	StateIdle        State = "idle"
	StateCapturing   State = "capturing"
	StateRegistering State = "registering"
	StateVerifying   State = "verifying"
	StateSucceeded   State = "succeeded"
	StateRejected    State = "rejected"
)

// Terminal reports whether the workflow ends in this state.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateRejected
}

// Reason explains a terminal state.
type Reason string

const (
	ReasonRegistered        Reason = "registered"
	ReasonDuplicateID       Reason = "duplicate_id"
	ReasonAttendanceMarked  Reason = "attendance_marked"
	ReasonFaceNotRecognized Reason = "face_not_recognized"
	ReasonNoFaceDetected    Reason = "no_face_detected"
	ReasonPersonNotFound    Reason = "person_not_found"
)

// Outcome is the result of one workflow run.
type Outcome struct {
	WorkflowID string
	State      State
	Reason     Reason
	PersonID   string
	// Faces is the number of face slots in the live capture.
	Faces  int
	Frames int
	// Record is set when attendance was marked.
	Record *database.AttendanceRecord
	// Trail lists every state entered, starting with StateIdle.
	Trail []State
}

// Succeeded reports whether the workflow reached StateSucceeded.
func (o *Outcome) Succeeded() bool {
	return o != nil && o.State == StateSucceeded
}

// Message returns the user-facing text for the outcome.
func (o *Outcome) Message() string {
	switch o.Reason {
	case ReasonRegistered:
		return "Person registered successfully!"
	case ReasonDuplicateID:
		return "Person ID already exists. Please enter a unique ID."
	case ReasonAttendanceMarked:
		return "Attendance marked"
	case ReasonFaceNotRecognized, ReasonNoFaceDetected:
		return "Face not recognized"
	case ReasonPersonNotFound:
		return "Person ID not found"
	}
	return string(o.State)
}

func (o *Outcome) enter(s State) {
	o.State = s
	o.Trail = append(o.Trail, s)
}
