package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// errDuplicateEntry is the MySQL/MariaDB error number for a unique key violation.
const errDuplicateEntry = 1062

// IdentityRepository is the MariaDB feature store.
type IdentityRepository struct {
	pool *Pool
}

// NewIdentityRepository creates a new MariaDB identity repository
func NewIdentityRepository(pool *Pool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

// Register inserts a new identity; the primary key rejects a taken person ID.
func (r *IdentityRepository) Register(ctx context.Context, identity database.Identity) error {
	features, err := facematch.Encode(identity.Features)
	if err != nil {
		return fmt.Errorf("register person %s: %w", identity.PersonID, err)
	}

	_, err = r.pool.db.ExecContext(ctx,
		`INSERT INTO person_info (person_id, name, gender, facial_features) VALUES (?, ?, ?, ?)`,
		identity.PersonID, identity.Name, identity.Gender, features)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == errDuplicateEntry {
			return fmt.Errorf("register person %s: %w", identity.PersonID, database.ErrAlreadyExists)
		}
		return database.PersistenceError("register person "+identity.PersonID, err)
	}
	return nil
}

// Lookup returns the stored feature set for a person
func (r *IdentityRepository) Lookup(ctx context.Context, personID string) (facematch.FeatureSet, error) {
	var text string
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT facial_features FROM person_info WHERE person_id = ?`, personID).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup person %s: %w", personID, database.ErrNotFound)
	}
	if err != nil {
		return nil, database.PersistenceError("lookup person "+personID, err)
	}

	fs, err := facematch.Decode(text)
	if err != nil {
		return nil, database.PersistenceError("decode features of "+personID, err)
	}
	return fs, nil
}

// GetIdentity returns the full identity for a person
func (r *IdentityRepository) GetIdentity(ctx context.Context, personID string) (*database.Identity, error) {
	var id database.Identity
	var text string
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT person_id, name, gender, facial_features FROM person_info WHERE person_id = ?`,
		personID).Scan(&id.PersonID, &id.Name, &id.Gender, &text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get person %s: %w", personID, database.ErrNotFound)
	}
	if err != nil {
		return nil, database.PersistenceError("get person "+personID, err)
	}

	if id.Features, err = facematch.Decode(text); err != nil {
		return nil, database.PersistenceError("decode features of "+personID, err)
	}
	return &id, nil
}

// ListIdentities returns every enrolled person ordered by person ID
func (r *IdentityRepository) ListIdentities(ctx context.Context) ([]database.Identity, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT person_id, name, gender FROM person_info ORDER BY person_id`)
	if err != nil {
		return nil, database.PersistenceError("list persons", err)
	}
	defer rows.Close()

	var identities []database.Identity
	for rows.Next() {
		var id database.Identity
		if err := rows.Scan(&id.PersonID, &id.Name, &id.Gender); err != nil {
			return nil, database.PersistenceError("scan person", err)
		}
		identities = append(identities, id)
	}
	if err := rows.Err(); err != nil {
		return nil, database.PersistenceError("iterate persons", err)
	}
	return identities, nil
}
