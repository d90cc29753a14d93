package database

import (
	"context"

	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// IdentityReader provides read-only access to enrolled identities
type IdentityReader interface {
	// Lookup returns the stored feature set, or ErrNotFound
	Lookup(ctx context.Context, personID string) (facematch.FeatureSet, error)
	// GetIdentity returns the identity including features, or ErrNotFound
	GetIdentity(ctx context.Context, personID string) (*Identity, error)
	// ListIdentities returns all identities ordered by person ID, without features
	ListIdentities(ctx context.Context) ([]Identity, error)
}

// FeatureStore persists identities and enforces person ID uniqueness
type FeatureStore interface {
	IdentityReader

	// Register stores a new identity. A taken person ID yields ErrAlreadyExists
	// and leaves the stored identity untouched.
	Register(ctx context.Context, identity Identity) error
}

// AttendanceReader provides read-only access to the attendance ledger
type AttendanceReader interface {
	// History returns the newest records for a person, at most limit
	History(ctx context.Context, personID string, limit int) ([]AttendanceRecord, error)
	// CountForPerson returns the number of records for a person
	CountForPerson(ctx context.Context, personID string) (int, error)
}

// AttendanceLedger is an append-only log of successful verifications
type AttendanceLedger interface {
	AttendanceReader

	// Record appends a record stamped with the current instant. It does not
	// check that the person exists and never deduplicates.
	Record(ctx context.Context, personID string) (AttendanceRecord, error)
}
