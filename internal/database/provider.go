package database

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/kozaktomas/face-attendance/internal/config"
)

// Backend is an opened storage backend sharing one long-lived connection pool
// between the feature store and the attendance ledger.
type Backend interface {
	FeatureStore() FeatureStore
	AttendanceLedger() AttendanceLedger
	// Migrate brings the schema up to date and returns the applied migration names
	Migrate(ctx context.Context) ([]string, error)
	Close() error
}

// Opener opens a backend for the given configuration.
type Opener func(cfg *config.DatabaseConfig) (Backend, error)

var (
	openersMu sync.RWMutex
	openers   = make(map[string]Opener)
)

// RegisterDriver registers a backend opener under a driver name.
// This is called from the init functions of the backend packages to avoid import cycles.
func RegisterDriver(name string, open Opener) {
	openersMu.Lock()
	defer openersMu.Unlock()
	if open == nil {
		panic("database: RegisterDriver opener is nil")
	}
	openers[name] = open
}

// Drivers returns the registered driver names, sorted.
func Drivers() []string {
	openersMu.RLock()
	defer openersMu.RUnlock()
	return slices.Sorted(maps.Keys(openers))
}

// Open opens the backend selected by cfg.Driver.
func Open(cfg *config.DatabaseConfig) (Backend, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required")
	}
	openersMu.RLock()
	open, ok := openers[cfg.Driver]
	openersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown database driver %q (registered: %v)", cfg.Driver, Drivers())
	}
	b, err := open(cfg)
	if err != nil {
		return nil, PersistenceError("opening "+cfg.Driver+" backend", err)
	}
	return b, nil
}
