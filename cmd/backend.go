package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/database"
	_ "github.com/kozaktomas/face-attendance/internal/database/mariadb"
	_ "github.com/kozaktomas/face-attendance/internal/database/postgres"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"go.uber.org/zap"
)

// openBackend connects to the configured storage backend and brings its schema
// up to date.
func openBackend(ctx context.Context, cfg *config.Config, log *zap.Logger) (database.Backend, error) {
	backend, err := connectBackend(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(ctx, backend, log); err != nil {
		backend.Close()
		return nil, err
	}
	return backend, nil
}

// ensureSchema runs the backend migrations.
func ensureSchema(ctx context.Context, backend database.Backend, log *zap.Logger) error {
	applied, err := backend.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	if len(applied) > 0 {
		log.Debug("schema migrated", zap.Strings("applied", applied))
	}
	return nil
}

// connectBackend connects to the configured storage backend without touching
// the schema.
func connectBackend(cfg *config.Config, log *zap.Logger) (database.Backend, error) {
	if cfg.Database.URL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required")
	}
	log.Debug("connecting to database", zap.String("driver", cfg.Database.Driver))
	backend, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", cfg.Database.Driver, err)
	}
	return backend, nil
}

// newService wires the workflow service to the backend.
func newService(cfg *config.Config, backend database.Backend, log *zap.Logger, onState func(attendance.State)) *attendance.Service {
	return attendance.NewService(
		backend.FeatureStore(),
		backend.AttendanceLedger(),
		facematch.NewComparator(cfg.Matching.DistanceThreshold),
		attendance.Options{
			DetectionWindow: cfg.Capture.DetectionWindow,
			Logger:          log,
			OnState:         onState,
		},
	)
}
