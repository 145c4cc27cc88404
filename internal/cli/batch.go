package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kirillkom/strive-toolkit-cli/internal/bootstrap"
	"github.com/kirillkom/strive-toolkit-cli/internal/core/usecase"
)

func newBatchEmailCommand(state *cliState) *cobra.Command {
	var reportPath string

	cmd := &cobra.Command{
		Use:   "batch-email <results.csv|results.xlsx>",
		Short: "Send personalized learning emails from assessment results",
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

			summary, err := state.app.Batch.Process(cmd.Context(), filepath.Base(args[0]), file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "students:      %d\n", summary.TotalStudents)
			fmt.Fprintf(out, "average score: %.1f\n", summary.AverageScore)
			fmt.Fprintf(out, "emails sent:   %d\n", summary.EmailsSent)
			for _, weak := range summary.WeakQuestions {
				fmt.Fprintf(out, "weak question: %s (%.0f%% correct)\n", weak.Question, weak.SuccessRate)
			}

			if reportPath != "" {
				report, err := os.Create(reportPath)
				if err != nil {
					return fmt.Errorf("create report %s: %w", reportPath, err)
				}
				defer report.Close()
				if err := usecase.WriteEmailReportCSV(report, summary.EmailResults); err != nil {
					return err
				}
				fmt.Fprintf(out, "report:        %s\n", reportPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "write the per-student delivery report to this CSV file")
	return cmd
}
