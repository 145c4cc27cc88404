package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kirillkom/strive-toolkit-cli/internal/bootstrap"
	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
)

func newUploadCommand(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload reference data to the backend",
	}
	cmd.AddCommand(
		newUploadKindCommand(state, domain.UploadCourses, "courses <file.csv|file.xlsx>",
			"Upload the course catalog spreadsheet"),
		newUploadKindCommand(state, domain.UploadHolidays, "holidays <file.csv|file.xlsx>",
			"Upload the state holiday calendar spreadsheet"),
		newUploadKindCommand(state, domain.UploadGuidelines, "guidelines <file.txt>",
			"Upload the assessment guidelines text"),
	)
	return cmd
}

func newUploadKindCommand(state *cliState, kind domain.UploadKind, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.buildApp(bootstrap.Options{}); err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer file.Close()

			summary, err := state.app.Tracker.Upload(cmd.Context(), kind, filepath.Base(args[0]), file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch kind {
			case domain.UploadCourses:
				fmt.Fprintf(out, "uploaded: %d course(s) loaded\n", summary.CoursesLoaded)
			case domain.UploadHolidays:
				fmt.Fprintf(out, "uploaded: holidays for %d state(s) loaded\n", summary.StatesLoaded)
			case domain.UploadGuidelines:
				fmt.Fprintf(out, "uploaded: %d characters of guidelines loaded\n", summary.GuidelinesLength)
			}

			ready := state.app.Tracker.Readiness()
			fmt.Fprintf(out, "ready: courses=%s holidays=%s guidelines=%s\n",
				yesNo(ready.Courses), yesNo(ready.Holidays), yesNo(ready.Guidelines))
			return nil
		},
	}
}
