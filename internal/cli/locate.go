package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kirillkom/strive-toolkit-cli/internal/bootstrap"
	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
	"github.com/kirillkom/strive-toolkit-cli/internal/infrastructure/geo"
)

func newLocateCommand(state *cliState) *cobra.Command {
	var lat, lon float64

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Resolve the suggested language and region",
		Long: "Resolve the personalization defaults. The backend is asked for an\n" +
			"IP-based location first; explicit --lat/--lon (or the configured\n" +
			"coordinates file) refine it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := bootstrap.Options{}
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
					return &domain.ValidationError{Message: "--lat and --lon must be given together"}
				}
				opts.Sensor = geo.StaticSource{Coords: domain.Coordinates{Lat: lat, Lon: lon}}
			}
			if err := state.buildApp(opts); err != nil {
				return err
			}

			suggestion := state.app.Resolver.Resolve(cmd.Context())
			out := cmd.OutOrStdout()
			if suggestion.Detected {
				fmt.Fprintf(out, "location:  %s, %s, %s (via %s)\n",
					suggestion.City, suggestion.State, suggestion.Country, suggestion.Provenance)
			} else {
				fmt.Fprintf(out, "location:  not detected, defaulting to %s\n", suggestion.Country)
			}
			fmt.Fprintf(out, "language:  %s\n", suggestion.SuggestedLanguage)
			if suggestion.PermissionDenied {
				fmt.Fprintln(out, "note:      coordinate access was denied; showing the coarser result")
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude for coordinate refinement")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude for coordinate refinement")
	return cmd
}
