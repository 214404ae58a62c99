package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"weather-lookup/dispatch"
	"weather-lookup/lookup"
	"weather-lookup/models"
	"weather-lookup/tui"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

func newCityCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "city <name...>",
		Short:   "Current weather for a city",
		Example: "  weather city San Francisco",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return errors.New("city name must not be blank")
			}
			return runOnce(cmd, "Fetching weather for "+name, func(ctx context.Context, ctrl *lookup.Controller) {
				ctrl.SearchSubmitted(ctx, name)
			})
		},
	}
}

func newCoordsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "coords <lat> <lon>",
		Short: "Current weather at a latitude and longitude",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coords, err := parseCoordinates(args[0], args[1])
			if err != nil {
				return err
			}
			return runOnce(cmd, "Fetching weather at "+coords.String(), func(ctx context.Context, ctrl *lookup.Controller) {
				ctrl.LocationUpdated(ctx, coords)
			})
		},
	}
}

func newHereCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "here",
		Short: "Current weather at your location",
		Long: `Resolves your position with the configured location source
(location.source = ip or static) and fetches the weather there.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, "Locating", func(ctx context.Context, ctrl *lookup.Controller) {
				ctrl.LocationRequested(ctx)
			})
		},
	}
}

func parseCoordinates(latArg, lonArg string) (models.Coordinates, error) {
	lat, err := strconv.ParseFloat(latArg, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("invalid latitude %q", latArg)
	}
	lon, err := strconv.ParseFloat(lonArg, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("invalid longitude %q", lonArg)
	}
	coords := models.Coordinates{Latitude: lat, Longitude: lon}
	return coords, coords.Validate()
}

// runOnce makes this goroutine the dispatcher for a single request: start
// issues it, the observer prints the outcome and closes the queue.
func runOnce(cmd *cobra.Command, message string, start func(context.Context, *lookup.Controller)) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	s.Start()
	defer s.Stop()

	queue := dispatch.NewQueue(16)
	var outcome error
	observe := func(screen lookup.Screen, err error) {
		s.Stop()
		outcome = err
		if err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderCard(screen))
		}
		queue.Close()
	}

	ctrl := lookup.NewController(a.fetcher, a.locator, queue, a.controllerOptions(lookup.WithObserver(observe))...)
	start(ctx, ctrl)

	if err := queue.Run(ctx); err != nil && !errors.Is(err, dispatch.ErrClosed) {
		return err
	}
	return outcome
}
