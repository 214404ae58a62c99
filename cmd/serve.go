package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weather-lookup/api"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve current weather over HTTP",
		Long: `Starts a JSON API:

  GET /api/weather/city/{name}
  GET /api/weather/coordinates?lat=..&lon=..
  GET /api/health`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			server := api.NewServer(a.provider, a.cfg.Server.Port, a.logger)

			errCh := make(chan error, 1)
			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			shutdownChan := make(chan os.Signal, 1)
			signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(shutdownChan)

			select {
			case err := <-errCh:
				return err
			case sig := <-shutdownChan:
				a.logger.Info("shutting down", zap.Stringer("signal", sig))
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				a.logger.Error("server shutdown failed", zap.Error(err))
				return err
			}
			a.logger.Info("shutdown complete")
			return nil
		},
	}

	cmd.Flags().Int("port", 8080, "port to listen on")

	return cmd
}
