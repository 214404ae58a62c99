package cmd

import (
	"context"
	"fmt"

	"weather-lookup/dispatch"
	"weather-lookup/lookup"
	"weather-lookup/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newScreenCommand() *cobra.Command {
	var locate bool

	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Interactive weather screen",
		Long: `Opens a terminal screen with a search field and a weather card.

Type a city and press enter to search; ctrl+l looks up your location.
Logs go to stderr, so redirect it (2>weather.log) to keep the screen clean.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			queue := dispatch.NewQueue(64)
			defer queue.Close()

			outcomes := &tui.Outcomes{}
			ctrl := lookup.NewController(a.fetcher, a.locator, queue, a.controllerOptions(lookup.WithObserver(outcomes.Observe))...)

			m := tui.NewModel(ctx, ctrl, queue, outcomes, locate)
			if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
				return fmt.Errorf("weather screen: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&locate, "locate", true, "show the weather at your location on start")

	return cmd
}
