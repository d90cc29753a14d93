package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <person-id>",
	Short: "Show attendance records of a person, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Int("limit", constants.DefaultHistoryLimit, "Maximum number of records")
	historyCmd.Flags().Bool("json", false, "Output as JSON")
}

// RecordOutput is the CLI representation of an attendance record
type RecordOutput struct {
	PersonID string    `json:"person_id"`
	Time     time.Time `json:"time"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
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

	records, err := backend.AttendanceLedger().History(cmd.Context(), args[0], mustGetInt(cmd, "limit"))
	if err != nil {
		return fmt.Errorf("loading attendance history: %w", err)
	}

	if mustGetBool(cmd, "json") {
		out := make([]RecordOutput, len(records))
		for i, r := range records {
			out[i] = RecordOutput{PersonID: r.PersonID, Time: r.Time}
		}
		return outputJSON(out)
	}

	if len(records) == 0 {
		fmt.Printf("No attendance recorded for person %s\n", args[0])
		return nil
	}
	fmt.Printf("Attendance for person %s (%d records):\n", args[0], len(records))
	for _, r := range records {
		fmt.Printf("  %s\n", r.Time.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

// outputJSON writes data as indented JSON to stdout.
func outputJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
