package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	httpapi "task-service.com/task-service/internal/http"
	"task-service.com/task-service/internal/logging"
	"task-service.com/task-service/internal/metrics"
	"task-service.com/task-service/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the HTTP API for the configured service profile (api-service, backend or web-app)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		tokens, err := a.tokenManager(ctx)
		if err != nil {
			return err
		}

		prometheus.MustRegister(metrics.NewPoolCollector(a.pool.Stats))

		handler := httpapi.NewHandler(
			cfg.Profile,
			services.NewTaskService(a.repo),
			services.NewStatsService(a.repo),
			a.diagnostics(tokens),
		)
		e := httpapi.NewServer(handler, httpapi.ServerOptions{
			ShowErrorDetails:   cfg.ShowErrorDetails(),
			RateLimitPerMinute: cfg.RateLimit,
		})

		if cfg.RawQueryAllowed() {
			logging.Warn().Msg("diagnostic raw query route is enabled")
		}

		serveErr := make(chan error, 1)
		go func() {
			logging.Info().
				Str("addr", cfg.AppURL).
				Str("profile", cfg.Profile.Name).
				Str("environment", cfg.Environment).
				Msg("HTTP server listening")
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
			close(serveErr)
		}()

		select {
		case <-ctx.Done():
		case err := <-serveErr:
			if err != nil {
				return err
			}
		}

		// Stop accepting connections and drain in-flight requests before the
		// deferred close releases the pool.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("HTTP server shutdown did not complete")
		}

		logging.Info().Msg("HTTP server stopped, closing database pool")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
