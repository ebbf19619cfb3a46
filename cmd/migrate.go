package main

import (
	"context"
	"database/sql"
	root "emailcleaner"
	"emailcleaner/internal/config"
	"emailcleaner/pkg/logger"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const migrationsDir = "migrations"

// migrateCommand constructs the 'migrate' subcommand that manages the schema of
// the reference data tables with goose. Without an argument it migrates up to the
// latest version; "down" reverts the last migration and "status" prints the state.
func migrateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Migrates the reference data database",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()
			db := strg.DB.(*sql.DB)

			goose.SetBaseFS(root.Migrations)
			if err := goose.SetDialect("postgres"); err != nil {
				logger.Fatal(ctx, "could not set goose dialect to postgres", zap.Error(err))
			}

			var err error
			switch action {
			case "down":
				err = goose.DownContext(ctx, db, migrationsDir)
			case "status":
				err = goose.StatusContext(ctx, db, migrationsDir)
			default:
				err = goose.UpContext(ctx, db, migrationsDir)
			}
			if err != nil {
				logger.Fatal(ctx, "could not migrate pgsql", zap.String("action", action), zap.Error(err))
			}

			version, err := goose.GetDBVersionContext(ctx, db)
			if err != nil {
				logger.Fatal(ctx, "could not read schema version", zap.Error(err))
			}
			logger.Info(ctx, "database schema", zap.String("action", action), zap.Int64("version", version))
		},
	}

	return cmd
}
