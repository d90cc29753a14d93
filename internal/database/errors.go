package database

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyExists is returned by Register when the person ID is taken.
	ErrAlreadyExists = errors.New("person ID already exists")

	// ErrNotFound is returned when no identity has the requested person ID.
	ErrNotFound = errors.New("person ID not found")

	// ErrPersistence marks failures of the durable store itself
	// (unreachable, corrupt data). It is never retried automatically.
	ErrPersistence = errors.New("persistence failure")
)

// PersistenceError wraps a driver error so callers can match ErrPersistence
// while keeping the original cause in the chain.
func PersistenceError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
