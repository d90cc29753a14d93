package database

import (
	"time"

	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// Identity is an enrolled person. It is immutable once registered.
type Identity struct {
	PersonID string
	Name     string
	Gender   string
	Features facematch.FeatureSet // nil when loaded by listing queries
}

// AttendanceRecord is one successful verification. PersonID is a weak
// reference: the identity is not required to still exist.
type AttendanceRecord struct {
	PersonID string
	Time     time.Time
}
