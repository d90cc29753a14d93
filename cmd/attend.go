package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var attendCmd = &cobra.Command{
	Use:   "attend",
	Short: "Mark attendance for a registered person",
	Long: `Look up the person ID, capture a live face and mark attendance when it
matches the stored face.

Examples:
  face-attendance attend --id 7
  face-attendance attend --id 7 --frames capture.json`,
	RunE: runAttend,
}

func init() {
	rootCmd.AddCommand(attendCmd)

	attendCmd.Flags().String("id", "", "Person ID (required)")
	addCaptureFlags(attendCmd)
	_ = attendCmd.MarkFlagRequired("id")
}

func runAttend(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	applyCaptureFlags(cmd, cfg)

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck // stderr sync errors are not actionable

	backend, err := openBackend(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer backend.Close()

	src, err := newCaptureSource(cmd, cfg)
	if err != nil {
		return err
	}
	defer src.Close()
	d, err := src.Open()
	if err != nil {
		return err
	}

	svc := newService(cfg, backend, log, nil)
	out, err := svc.Verify(cmd.Context(), d, mustGetString(cmd, "id"))
	src.Close()
	if err != nil {
		return fmt.Errorf("marking attendance failed: %w", err)
	}

	printOutcome(out)
	return nil
}
