package main

import (
	"context"
	"emailcleaner/internal/api"
	"emailcleaner/internal/api/handler/v1handler"
	"emailcleaner/internal/config"
	"emailcleaner/pkg/logger"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// setupServer creates the HTTP API server and starts it in a separate goroutine.
// It returns a function that gracefully shuts the server down.
func setupServer(ctx context.Context, cfg *config.Config, deps api.Deps) func() {
	srv, err := api.NewServer(deps, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create HTTP server", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting HTTP server...", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "could not start HTTP server", zap.Error(err))
		}
	}()

	return func() {
		logger.Info(ctx, "shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.GracefulShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "could not gracefully shutdown HTTP server", zap.Error(err))
		}
	}
}

// serveCommand constructs the 'serve' subcommand that runs the HTTP API until an
// interrupt or termination signal is received.
func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the HTTP API",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rec, shutdownMetrics := getMetrics(ctx)
			defer shutdownMetrics()

			shutdownServer := setupServer(ctx, cfg, api.Deps{
				Deps: v1handler.Deps{
					Cleaner: getCleaner(ctx, cfg),
					Metrics: rec,
				},
			})

			<-ctx.Done()
			shutdownServer()
		},
	}

	return cmd
}
