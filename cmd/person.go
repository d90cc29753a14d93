package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/spf13/cobra"
)

var personCmd = &cobra.Command{
	Use:   "person",
	Short: "Inspect registered persons",
}

var personListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered persons",
	Long: `List registered persons ordered by person ID.

Examples:
  face-attendance person list
  face-attendance person list --name novak`,
	Args: cobra.NoArgs,
	RunE: runPersonList,
}

var personShowCmd = &cobra.Command{
	Use:   "show <person-id>",
	Short: "Show a registered person and their attendance count",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonShow,
}

func init() {
	rootCmd.AddCommand(personCmd)
	personCmd.AddCommand(personListCmd)
	personCmd.AddCommand(personShowCmd)

	personListCmd.Flags().String("name", "", "Only persons whose name contains this text (case and accent insensitive)")
	personListCmd.Flags().Bool("json", false, "Output as JSON")
	personShowCmd.Flags().Bool("json", false, "Output as JSON")
}

// PersonOutput is the CLI representation of a person
type PersonOutput struct {
	PersonID    string `json:"person_id"`
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Faces       int    `json:"faces,omitempty"`
	Attendances int    `json:"attendances,omitempty"`
}

func runPersonList(cmd *cobra.Command, args []string) error {
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

	identities, err := backend.FeatureStore().ListIdentities(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing persons: %w", err)
	}

	query := mustGetString(cmd, "name")
	result := make([]PersonOutput, 0, len(identities))
	for _, id := range identities {
		if query != "" && !facematch.NameContains(id.Name, query) {
			continue
		}
		result = append(result, PersonOutput{PersonID: id.PersonID, Name: id.Name, Gender: id.Gender})
	}

	if mustGetBool(cmd, "json") {
		return outputJSON(result)
	}

	if len(result) == 0 {
		fmt.Println("No persons found")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tGENDER")
	fmt.Fprintln(w, "--\t----\t------")
	for _, p := range result {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.PersonID, p.Name, p.Gender)
	}
	return w.Flush()
}

func runPersonShow(cmd *cobra.Command, args []string) error {
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

	ctx := cmd.Context()
	id, err := backend.FeatureStore().GetIdentity(ctx, args[0])
	if errors.Is(err, database.ErrNotFound) {
		fmt.Println("Person ID not found")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading person: %w", err)
	}

	count, err := backend.AttendanceLedger().CountForPerson(ctx, id.PersonID)
	if err != nil {
		return fmt.Errorf("counting attendance: %w", err)
	}

	out := PersonOutput{
		PersonID:    id.PersonID,
		Name:        id.Name,
		Gender:      id.Gender,
		Faces:       len(id.Features),
		Attendances: count,
	}
	if mustGetBool(cmd, "json") {
		return outputJSON(out)
	}

	fmt.Printf("Person ID:   %s\n", out.PersonID)
	fmt.Printf("Name:        %s\n", out.Name)
	fmt.Printf("Gender:      %s\n", out.Gender)
	fmt.Printf("Faces:       %d\n", out.Faces)
	fmt.Printf("Attendances: %d\n", out.Attendances)
	return nil
}
