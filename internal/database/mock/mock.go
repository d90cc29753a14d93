// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// MockFeatureStore is a mock implementation of database.FeatureStore
type MockFeatureStore struct {
	mu         sync.RWMutex
	identities map[string]database.Identity

	// Error injection
	RegisterError    error
	LookupError      error
	GetIdentityError error
	ListError        error
}

// NewMockFeatureStore creates a new mock feature store
func NewMockFeatureStore() *MockFeatureStore {
	return &MockFeatureStore{
		identities: make(map[string]database.Identity),
	}
}

// AddIdentity stores an identity, replacing any existing one
func (m *MockFeatureStore) AddIdentity(id database.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id.Features = id.Features.Clone()
	m.identities[id.PersonID] = id
}

// Register stores a new identity unless the person ID is taken
func (m *MockFeatureStore) Register(ctx context.Context, identity database.Identity) error {
	if m.RegisterError != nil {
		return m.RegisterError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.identities[identity.PersonID]; ok {
		return fmt.Errorf("register person %s: %w", identity.PersonID, database.ErrAlreadyExists)
	}
	identity.Features = identity.Features.Clone()
	m.identities[identity.PersonID] = identity
	return nil
}

// Lookup returns the stored feature set
func (m *MockFeatureStore) Lookup(ctx context.Context, personID string) (facematch.FeatureSet, error) {
	if m.LookupError != nil {
		return nil, m.LookupError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.identities[personID]
	if !ok {
		return nil, fmt.Errorf("lookup person %s: %w", personID, database.ErrNotFound)
	}
	return id.Features.Clone(), nil
}

// GetIdentity returns the identity including features
func (m *MockFeatureStore) GetIdentity(ctx context.Context, personID string) (*database.Identity, error) {
	if m.GetIdentityError != nil {
		return nil, m.GetIdentityError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.identities[personID]
	if !ok {
		return nil, fmt.Errorf("get person %s: %w", personID, database.ErrNotFound)
	}
	id.Features = id.Features.Clone()
	return &id, nil
}

// ListIdentities returns all identities ordered by person ID, without features
func (m *MockFeatureStore) ListIdentities(ctx context.Context) ([]database.Identity, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]database.Identity, 0, len(m.identities))
	for _, id := range m.identities {
		id.Features = nil
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b database.Identity) int {
		return strings.Compare(a.PersonID, b.PersonID)
	})
	return out, nil
}

// Count returns the number of stored identities
func (m *MockFeatureStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.identities)
}

// MockAttendanceLedger is a mock implementation of database.AttendanceLedger
type MockAttendanceLedger struct {
	mu      sync.RWMutex
	records []database.AttendanceRecord

	// Clock stamps new records; time.Now when nil
	Clock func() time.Time

	// Error injection
	RecordError  error
	HistoryError error
	CountError   error
}

// NewMockAttendanceLedger creates a new mock attendance ledger
func NewMockAttendanceLedger() *MockAttendanceLedger {
	return &MockAttendanceLedger{}
}

// Record appends a record stamped with the clock
func (m *MockAttendanceLedger) Record(ctx context.Context, personID string) (database.AttendanceRecord, error) {
	if m.RecordError != nil {
		return database.AttendanceRecord{}, m.RecordError
	}
	now := time.Now
	if m.Clock != nil {
		now = m.Clock
	}
	rec := database.AttendanceRecord{PersonID: personID, Time: now().UTC().Truncate(time.Microsecond)}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return rec, nil
}

// History returns the newest records for a person
func (m *MockAttendanceLedger) History(ctx context.Context, personID string, limit int) ([]database.AttendanceRecord, error) {
	if m.HistoryError != nil {
		return nil, m.HistoryError
	}
	if limit <= 0 || limit > constants.MaxHistoryLimit {
		limit = constants.DefaultHistoryLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []database.AttendanceRecord
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		if m.records[i].PersonID == personID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

// CountForPerson returns the number of records for a person
func (m *MockAttendanceLedger) CountForPerson(ctx context.Context, personID string) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.records {
		if r.PersonID == personID {
			n++
		}
	}
	return n, nil
}

// Records returns a copy of every record in append order
func (m *MockAttendanceLedger) Records() []database.AttendanceRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.records)
}

// Verify interface compliance
var _ database.FeatureStore = (*MockFeatureStore)(nil)
var _ database.AttendanceLedger = (*MockAttendanceLedger)(nil)
