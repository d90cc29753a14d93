package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck // stderr sync errors are not actionable

	backend, err := connectBackend(cfg, log)
	if err != nil {
		return err
	}
	defer backend.Close()

	applied, err := backend.Migrate(cmd.Context())
	for _, name := range applied {
		fmt.Printf("Applied %s\n", name)
	}
	if err != nil {
		return fmt.Errorf("migrating %s database: %w", cfg.Database.Driver, err)
	}
	if len(applied) == 0 {
		fmt.Println("Schema is up to date")
	}
	return nil
}
