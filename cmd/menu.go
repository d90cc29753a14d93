package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive menu for registration and attendance",
	Long: `Start the interactive menu.

  1. Register a new person: asks for ID, name and gender, then captures the
     face. A taken ID asks again, with a new capture per attempt.
  2. Mark attendance: asks for the person ID, then captures and compares.`,
	RunE: runMenu,
}

func init() {
	rootCmd.AddCommand(menuCmd)
	addCaptureFlags(menuCmd)
}

// lineReader prompts on out and reads trimmed lines from in.
type lineReader struct {
	in  *bufio.Reader
	out io.Writer
}

func (r *lineReader) ask(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	line, err := r.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// enrollmentPrompter asks for the identity attributes of every attempt.
func enrollmentPrompter(r *lineReader) attendance.Prompter {
	return attendance.PrompterFunc(func(ctx context.Context, previous *attendance.Outcome) (attendance.Enrollment, error) {
		var e attendance.Enrollment
		for e.PersonID == "" {
			raw, err := r.ask("Enter your person ID: ")
			if err != nil {
				return e, err
			}
			id, err := attendance.NormalizePersonID(raw)
			if errors.Is(err, attendance.ErrPersonIDTooLong) {
				fmt.Fprintln(r.out, "Person ID is too long. Please enter a shorter ID.")
			}
			e.PersonID = id
		}
		var err error
		if e.Name, err = r.ask("Enter your name: "); err != nil {
			return e, err
		}
		if e.Gender, err = r.ask("Enter your gender: "); err != nil {
			return e, err
		}
		return e, nil
	})
}

func runMenu(cmd *cobra.Command, args []string) error {
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

	svc := newService(cfg, backend, log, nil)
	r := &lineReader{in: bufio.NewReader(os.Stdin), out: os.Stdout}
	ctx := cmd.Context()

	fmt.Println("Welcome")
	fmt.Println("Choose your choice: ")
	fmt.Println("1. Register a new person")
	fmt.Println("2. Mark attendance")
	choice, err := r.ask("Enter your choice: ")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		out, err := svc.EnrollUntilAccepted(ctx, retryPrompter(enrollmentPrompter(r)), src.Open)
		src.Close()
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		printOutcome(out)
	case "2":
		personID, err := r.ask("Enter your person ID: ")
		if err != nil {
			return err
		}
		d, err := src.Open()
		if err != nil {
			return err
		}
		out, err := svc.Verify(ctx, d, personID)
		src.Close()
		if err != nil {
			return fmt.Errorf("marking attendance failed: %w", err)
		}
		printOutcome(out)
	default:
		fmt.Println("Invalid choice")
	}
	return nil
}

// retryPrompter prints the rejection of the previous attempt
// before asking again.
func retryPrompter(p attendance.Prompter) attendance.Prompter {
	return attendance.PrompterFunc(func(ctx context.Context, previous *attendance.Outcome) (attendance.Enrollment, error) {
		if previous != nil {
			fmt.Println(previous.Message())
		}
		return p.NextEnrollment(ctx, previous)
	})
}
