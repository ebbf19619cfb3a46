// Package main provides the CLI entrypoint for the email cleaner.
// It wires subcommands (clean, serve, bot, domains, migrate, jwt), loads
// configuration, and initializes logging.
package main

import (
	"context"
	"emailcleaner/internal/cleaner"
	"emailcleaner/internal/config"
	"emailcleaner/pkg/logger"
	"emailcleaner/pkg/metrics"
	"emailcleaner/pkg/storage"
	"emailcleaner/pkg/storage/postgres"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultConfigPath = "config.yml"

// getPostgres creates a PostgreSQL client using configuration values and returns it
// along with a cleanup function to close the connection pool.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, func()) {
	pgsql, err := postgres.New(ctx, postgres.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create postgres storage", zap.Error(err))
	}

	return pgsql, func() {
		logger.Info(ctx, "closing postgres client...")
		if err = pgsql.Close(); err != nil {
			logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
		}
	}
}

// getReferenceTable assembles the reference table from the built-in defaults, the
// configured reference file and, when the database is enabled, the stored data.
func getReferenceTable(ctx context.Context, cfg *config.Config) *cleaner.ReferenceTable {
	var store storage.DomainStorage
	if cfg.Database.Enabled {
		pgsql, closeStrg := getPostgres(ctx, cfg)
		defer closeStrg()
		store = pgsql
	}

	table, err := cleaner.BuildReferenceTable(ctx, cleaner.NewReferenceOptions(cfg), store)
	if err != nil {
		logger.Fatal(ctx, "could not build reference table", zap.Error(err))
	}

	return table
}

// getCleaner builds the cleaning pipeline from the configuration.
func getCleaner(ctx context.Context, cfg *config.Config) cleaner.Cleaner {
	table := getReferenceTable(ctx, cfg)

	policy, err := cleaner.NewPolicy(cfg)
	if err != nil {
		logger.Fatal(ctx, "invalid cleaner policy", zap.Error(err))
	}

	c, err := cleaner.New(table, policy)
	if err != nil {
		logger.Fatal(ctx, "could not create cleaner", zap.Error(err))
	}

	logger.Debug(ctx, "cleaner ready", zap.Int("domains", table.Len()), zap.Stringer("policy", policy))

	return c
}

// getMetrics creates the cleaning instruments exported through the default
// Prometheus registry, along with a cleanup function.
func getMetrics(ctx context.Context) (*metrics.Recorder, func()) {
	mp, err := metrics.NewMeterProvider(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal(ctx, "could not create meter provider", zap.Error(err))
	}

	rec, err := metrics.New(mp)
	if err != nil {
		logger.Fatal(ctx, "could not create metrics", zap.Error(err))
	}

	return rec, func() {
		if err := mp.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn(ctx, "could not shutdown meter provider", zap.Error(err))
		}
	}
}

// loadConfig reads the config file. A missing default config file is not an
// error: the configuration then comes from the environment alone.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	return config.Load(path)
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:   "emailcleaner",
		Short: "Cleans, repairs and deduplicates email address lists",
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", defaultConfigPath, "Config File Path")

	configPath := flag.String("c", defaultConfigPath, "The config file path")
	flag.Parse()

	explicit := false
	flag.Visit(func(f *flag.Flag) { explicit = explicit || f.Name == "c" })

	cfg, err := loadConfig(*configPath, explicit)
	if err != nil {
		log.Fatal("could not load config file: ", err)
	}

	logger.Setup(cfg.Environment, cfg.LogLevel)

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		cleanCommand(cfg),
		serveCommand(cfg),
		botCommand(cfg),
		domainsCommand(cfg),
		migrateCommand(cfg),
		JWTCommand(cfg),
	)

	err = rootCmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
