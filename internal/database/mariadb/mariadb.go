// Package mariadb implements the identity store and attendance ledger on
// MariaDB or MySQL.
package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/database"
)

// DriverName is the name this backend registers under.
const DriverName = "mysql"

func init() {
	database.RegisterDriver(DriverName, func(cfg *config.DatabaseConfig) (database.Backend, error) {
		pool, err := NewPool(cfg)
		if err != nil {
			return nil, err
		}
		return NewBackend(pool), nil
	})
}

// Pool manages a MariaDB connection pool.
type Pool struct {
	db *sql.DB
}

// NewPool creates a new MariaDB connection pool.
func NewPool(cfg *config.DatabaseConfig) (*Pool, error) {
	dsn, err := normalizeDSN(cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MariaDB: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MariaDB: %w", err)
	}

	return &Pool{db: db}, nil
}

// normalizeDSN forces time parsing in UTC so DATETIME columns scan into time.Time.
func normalizeDSN(dsn string) (string, error) {
	if dsn == "" {
		return "", errors.New("MariaDB DSN is required")
	}
	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MariaDB DSN: %w", err)
	}
	parsed.ParseTime = true
	parsed.Loc = time.UTC
	return parsed.FormatDSN(), nil
}

// NewPoolFromDB wraps an already opened handle, e.g. a sqlmock connection.
func NewPoolFromDB(db *sql.DB) *Pool {
	return &Pool{db: db}
}

// Close closes the connection pool.
func (p *Pool) Close() error {
	if p.db != nil {
		if err := p.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}

// personIDColumn compares IDs byte for byte, matching the postgres backend.
// The utf8mb4 default collation folds case and trailing spaces.
const personIDColumn = "person_id VARCHAR(64) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL"

// schema is applied in order by Migrate. Every statement is idempotent.
var schema = []struct {
	name string
	stmt string
}{
	{"person_info", `
		CREATE TABLE IF NOT EXISTS person_info (
			` + personIDColumn + ` PRIMARY KEY,
			name VARCHAR(255) NOT NULL DEFAULT '',
			gender VARCHAR(32) NOT NULL DEFAULT '',
			facial_features MEDIUMTEXT NOT NULL,
			created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"attendance", `
		CREATE TABLE IF NOT EXISTS attendance (
			` + personIDColumn + `,
			time DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
			PRIMARY KEY (person_id, time),
			KEY idx_attendance_time (time)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

// Migrate creates missing tables and returns the names of the statements run.
func (p *Pool) Migrate(ctx context.Context) ([]string, error) {
	var done []string
	for _, s := range schema {
		if _, err := p.db.ExecContext(ctx, s.stmt); err != nil {
			return done, fmt.Errorf("create table %s: %w", s.name, err)
		}
		done = append(done, s.name)
	}
	return done, nil
}

// Backend bundles the repositories sharing one pool.
type Backend struct {
	pool       *Pool
	identities *IdentityRepository
	attendance *AttendanceRepository
}

// NewBackend creates the MariaDB repositories on top of pool.
func NewBackend(pool *Pool) *Backend {
	return &Backend{
		pool:       pool,
		identities: NewIdentityRepository(pool),
		attendance: NewAttendanceRepository(pool),
	}
}

// FeatureStore returns the identity repository.
func (b *Backend) FeatureStore() database.FeatureStore { return b.identities }

// AttendanceLedger returns the attendance repository.
func (b *Backend) AttendanceLedger() database.AttendanceLedger { return b.attendance }

// Migrate creates missing tables.
func (b *Backend) Migrate(ctx context.Context) ([]string, error) { return b.pool.Migrate(ctx) }

// Close closes the pool.
func (b *Backend) Close() error { return b.pool.Close() }
