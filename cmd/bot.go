package main

import (
	"context"
	"emailcleaner/internal/api"
	"emailcleaner/internal/bot"
	"emailcleaner/internal/config"
	"emailcleaner/internal/worker"
	"emailcleaner/pkg/logger"
	"emailcleaner/pkg/telegram/botapi"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// pollGrace is added to the long polling timeout to get the HTTP client timeout.
const pollGrace = 10 * time.Second

// healthAddr accepts a bare port, as hosting platforms set it in $PORT.
func healthAddr(addr string) string {
	if addr != "" && !strings.Contains(addr, ":") {
		return ":" + addr
	}

	return addr
}

// setupHealthServer serves the liveness and metrics endpoints of the bot process.
// It returns a function that shuts the server down.
func setupHealthServer(ctx context.Context, cfg *config.Config) func() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", api.HealthHandler)
	mux.HandleFunc("GET /{$}", api.HealthHandler)
	if cfg.HTTP.MetricsPath != "" {
		mux.Handle("GET "+cfg.HTTP.MetricsPath, promhttp.Handler())
	}

	srv := &http.Server{
		Addr:              healthAddr(cfg.Bot.HealthAddr),
		Handler:           mux,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	go func() {
		logger.Info(ctx, "starting health server...", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "health server failed", zap.Error(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.GracefulShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn(ctx, "could not shutdown health server", zap.Error(err))
		}
	}
}

// botCommand constructs the 'bot' subcommand that long polls the Telegram Bot API
// and replies to every message with the cleaned list.
func botCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Starts the Telegram bot",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := botapi.New(&http.Client{Timeout: cfg.Bot.PollTimeout + pollGrace}, botapi.NewOptions(cfg))
			if err != nil {
				logger.Fatal(ctx, "could not create bot API client", zap.Error(err))
			}

			rec, shutdownMetrics := getMetrics(ctx)
			defer shutdownMetrics()

			shutdownHealth := setupHealthServer(ctx, cfg)
			defer shutdownHealth()

			b := bot.New(bot.Deps{
				Client:  client,
				Cleaner: getCleaner(ctx, cfg),
				Metrics: rec,
			}, bot.NewOptions(cfg))

			// in-flight updates are finished after a shutdown signal.
			pool := worker.New(context.WithoutCancel(ctx), worker.NewOptions(cfg))

			logger.Info(ctx, "bot is polling for updates...")
			if err := b.Run(ctx, pool); err != nil {
				logger.Error(ctx, "bot stopped", zap.Error(err))
			}
		},
	}

	return cmd
}
