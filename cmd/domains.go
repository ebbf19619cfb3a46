package main

import (
	"context"
	"emailcleaner/internal/cleaner"
	"emailcleaner/internal/config"
	"emailcleaner/pkg/logger"
	"emailcleaner/pkg/storage"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// domainsCommand constructs the 'domains' command group that inspects the effective
// reference table and manages the reference data stored in the database.
func domainsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domains",
		Short: "Inspects and manages the reference domains",
	}

	cmd.AddCommand(
		domainsListCommand(cfg),
		domainsCorrectCommand(cfg),
		domainsImportCommand(cfg),
		domainsDeleteCommand(cfg),
	)

	return cmd
}

func domainsListCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Prints the known domains, or the typo corrections with --typos",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			showTypos, _ := cmd.Flags().GetBool("typos")

			table := getReferenceTable(ctx, cfg)
			out := cmd.OutOrStdout()

			if !showTypos {
				for _, d := range table.Domains() {
					fmt.Fprintln(out, d)
				}

				return
			}

			typos := table.Typos()
			keys := make([]string, 0, len(typos))
			for k := range typos {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "%s -> %s\n", k, typos[k])
			}
		},
	}

	cmd.Flags().Bool("typos", false, "Print typo corrections instead of domains")

	return cmd
}

func domainsCorrectCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "correct <domain>...",
		Short: "Prints the correction of each given domain",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			c := getCleaner(context.Background(), cfg)

			for _, d := range args {
				corrected, changed := c.CorrectDomain(d)
				if changed {
					fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", d, corrected)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (unchanged)\n", d)
				}
			}
		},
	}

	return cmd
}

func domainsImportCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.yml>",
		Short: "Stores the domains and typos of a reference file in the database",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			ref, err := cleaner.LoadReferenceFile(args[0])
			if err != nil {
				logger.Fatal(ctx, "could not load reference file", zap.Error(err))
			}
			ref = ref.Canonical()
			// the built-in table stands in for the stored domains typo targets may point at.
			if _, err := cleaner.DefaultReferenceTable().Extend(ref.Domains, ref.Typos); err != nil {
				logger.Fatal(ctx, "invalid reference file", zap.Error(err))
			}

			pgsql, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			var domains, typos int64
			err = pgsql.WithTx(ctx, func(tx storage.AllStorage) error {
				var err error
				if domains, err = tx.StoreDomains(ctx, ref.Domains...); err != nil {
					return err
				}
				typos, err = tx.StoreTypos(ctx, ref.Typos)

				return err
			})
			if err != nil {
				logger.Fatal(ctx, "could not import reference file", zap.Error(err))
			}

			logger.Info(ctx, "imported reference file",
				zap.String("path", args[0]), zap.Int64("domains", domains), zap.Int64("typos", typos))
		},
	}

	return cmd
}

func domainsDeleteCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <domain>",
		Short: "Removes a stored domain together with the typos pointing at it",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			pgsql, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			deleted, err := pgsql.DeleteDomain(ctx, args[0])
			if err != nil {
				logger.Fatal(ctx, "could not delete domain", zap.Error(err))
			}
			if !deleted {
				logger.Warn(ctx, "domain is not stored", zap.String("domain", args[0]))

				return
			}
			logger.Info(ctx, "deleted domain", zap.String("domain", args[0]))
		},
	}

	return cmd
}
