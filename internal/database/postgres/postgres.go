package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/database"
	_ "github.com/lib/pq"
)

// DriverName is the name this backend registers under.
const DriverName = "postgres"

func init() {
	database.RegisterDriver(DriverName, func(cfg *config.DatabaseConfig) (database.Backend, error) {
		pool, err := NewPool(cfg)
		if err != nil {
			return nil, err
		}
		return NewBackend(pool), nil
	})
}

// Pool manages a PostgreSQL connection pool.
type Pool struct {
	db *sql.DB
}

// NewPool creates a new PostgreSQL connection pool.
func NewPool(cfg *config.DatabaseConfig) (*Pool, error) {
	if cfg.URL == "" {
		return nil, errors.New("database URL is required")
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool.
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	// Verify connection.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Pool{db: db}, nil
}

// NewPoolFromDB wraps an already opened handle, e.g. a sqlmock connection.
func NewPoolFromDB(db *sql.DB) *Pool {
	return &Pool{db: db}
}

// DB returns the underlying sql.DB for direct access.
func (p *Pool) DB() *sql.DB {
	return p.db
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

// QueryRow executes a query that returns a single row.
func (p *Pool) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return p.db.QueryRowContext(ctx, query, args...)
}

// Query executes a query that returns rows.
func (p *Pool) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	return rows, nil
}

// Exec executes a query that doesn't return rows.
func (p *Pool) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	result, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing statement: %w", err)
	}
	return result, nil
}

// Backend bundles the repositories sharing one pool.
type Backend struct {
	pool       *Pool
	identities *IdentityRepository
	attendance *AttendanceRepository
}

// NewBackend creates the PostgreSQL repositories on top of pool.
func NewBackend(pool *Pool) *Backend {
	return &Backend{
		pool:       pool,
		identities: NewIdentityRepository(pool),
		attendance: NewAttendanceRepository(pool),
	}
}

// FeatureStore returns the identity repository.
func (b *Backend) FeatureStore() database.FeatureStore {
	return b.identities
}

// AttendanceLedger returns the attendance repository.
func (b *Backend) AttendanceLedger() database.AttendanceLedger {
	return b.attendance
}

// Migrate applies pending migrations.
func (b *Backend) Migrate(ctx context.Context) ([]string, error) {
	return b.pool.Migrate(ctx)
}

// Close closes the pool.
func (b *Backend) Close() error {
	return b.pool.Close()
}
