package cmd

import (
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new person",
	Long: `Capture the face of a new person and store it under a unique person ID.

The capture runs for the detection window (10s by default) or until Ctrl+C;
whatever was detected by then is stored. A person ID that is already taken
is rejected and nothing is changed.

Examples:
  face-attendance register --id 7 --name "Jane Doe" --gender F
  face-attendance register --id 7 --name "Jane Doe" --frames capture.json`,
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().String("id", "", "Person ID (required, must be unique)")
	registerCmd.Flags().String("name", "", "Person name")
	registerCmd.Flags().String("gender", "", "Person gender")
	addCaptureFlags(registerCmd)
	_ = registerCmd.MarkFlagRequired("id")
}

func runRegister(cmd *cobra.Command, args []string) error {
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
	out, err := svc.Enroll(cmd.Context(), d, attendance.Enrollment{
		PersonID: mustGetString(cmd, "id"),
		Name:     mustGetString(cmd, "name"),
		Gender:   mustGetString(cmd, "gender"),
	})
	src.Close()
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	printOutcome(out)
	return nil
}

// printOutcome prints the user-facing result of a workflow.
func printOutcome(out *attendance.Outcome) {
	fmt.Println(out.Message())
	switch out.Reason {
	case attendance.ReasonRegistered:
		fmt.Printf("  Person ID: %s\n  Faces captured: %d\n", out.PersonID, out.Faces)
	case attendance.ReasonAttendanceMarked:
		fmt.Printf("Attendance marked for person_id: %s at %s\n", out.PersonID, out.Record.Time.Local().Format("2006-01-02 15:04:05"))
	case attendance.ReasonNoFaceDetected:
		fmt.Println("  No face was detected during the capture window.")
	}
}
