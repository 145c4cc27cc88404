package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kirillkom/strive-toolkit-cli/internal/bootstrap"
)

func newDocumentsCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "documents",
		Short: "List the source documents available for generation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := state.buildApp(bootstrap.Options{}); err != nil {
				return err
			}
			list, err := state.app.Tracker.ListDocuments(cmd.Context())
			if err != nil {
				return err
			}
			for _, doc := range list.Documents {
				fmt.Fprintln(cmd.OutOrStdout(), doc)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d document(s)\n", list.TotalCount)
			return nil
		},
	}
}

func newStatusCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show backend health and dataset readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := state.buildApp(bootstrap.Options{}); err != nil {
				return err
			}
			health, err := state.app.Status.Health(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "backend:    %s (%s)\n", health.Status, health.Service)
			fmt.Fprintf(out, "courses:    %d loaded\n", health.CoursesLoaded)
			fmt.Fprintf(out, "holidays:   %d state(s)\n", health.StatesWithHoliday)
			fmt.Fprintf(out, "guidelines: %s\n", yesNo(health.GuidelinesLoaded))
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
