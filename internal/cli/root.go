// Package cli is the command surface of the toolkit client. Every command
// builds the app from config, runs one use case, and prints a plain-text
// result to stdout; diagnostics go to the structured logger on stderr.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/kirillkom/strive-toolkit-cli/internal/bootstrap"
	"github.com/kirillkom/strive-toolkit-cli/internal/config"
)

type cliState struct {
	cfg config.Config
	app *bootstrap.App
}

// buildApp assembles the app once per invocation, applying command-line
// overrides on top of the loaded config.
func (s *cliState) buildApp(opts bootstrap.Options) error {
	app, err := bootstrap.New(s.cfg, opts)
	if err != nil {
		return err
	}
	s.app = app

	if addr := s.cfg.MetricsAddr; addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", app.Metrics.Handler())
			if err := http.ListenAndServe(addr, mux); err != nil {
				app.Logger.Warn("metrics listener stopped", "addr", addr, "error", err)
			}
		}()
	}
	return nil
}

func Execute(ctx context.Context) error {
	state := &cliState{}

	root := &cobra.Command{
		Use:           "toolkit",
		Short:         "Command-line client for the trainer toolkit backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cfg := config.Load()
			if v, _ := cmd.Flags().GetString("backend"); v != "" {
				cfg.BackendURL = v
			}
			if v, _ := cmd.Flags().GetString("download-dir"); v != "" {
				cfg.DownloadDir = v
			}
			if v, _ := cmd.Flags().GetString("log-level"); v != "" {
				cfg.LogLevel = v
			}
			state.cfg = cfg
		},
	}

	root.PersistentFlags().String("backend", "", "backend base URL (overrides TOOLKIT_BACKEND_URL)")
	root.PersistentFlags().String("download-dir", "", "directory for downloaded documents")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newDocumentsCommand(state),
		newStatusCommand(state),
		newLocateCommand(state),
		newUploadCommand(state),
		newGenerateCommand(state),
		newBatchEmailCommand(state),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}
