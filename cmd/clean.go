package main

import (
	"context"
	"emailcleaner/internal/config"
	"emailcleaner/internal/worker"
	"emailcleaner/pkg/domain"
	"emailcleaner/pkg/export"
	"emailcleaner/pkg/ingest"
	"emailcleaner/pkg/logger"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const stdinArg = "-"

// readInputs extracts candidate tokens from the given files, concurrently and in
// argument order. Without files, or for "-", pasted text is read from stdin.
func readInputs(ctx context.Context, cfg *config.Config, stdin io.Reader, paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{stdinArg}
	}

	parts := make([][]string, len(paths))
	pool := worker.New(ctx, worker.NewOptions(cfg))
	for i, path := range paths {
		pool.Go(path, func(ctx context.Context) error {
			if path == stdinArg {
				text, err := io.ReadAll(stdin)
				if err != nil {
					return fmt.Errorf("could not read stdin: %w", err)
				}
				parts[i] = ingest.PastedText(string(text))

				return nil
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			parts[i], err = ingest.File(filepath.Base(path), f, 0)
			if err != nil {
				return fmt.Errorf("could not read %s: %w", path, err)
			}
			logger.Debug(ctx, "read input file", zap.String("path", path), zap.Int("tokens", len(parts[i])))

			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		return nil, err
	}

	var tokens []string
	for _, part := range parts {
		tokens = append(tokens, part...)
	}

	return tokens, nil
}

// writeResult exports the cleaned list to the output file, or to out when no file is given.
func writeResult(out io.Writer, output string, format export.Format, res *domain.Result) error {
	if output == "" {
		if format == export.FormatXLSX {
			return fmt.Errorf("%s output requires --output", format)
		}

		return export.Write(out, format, res)
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := export.Write(f, format, res); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}

// printSummary reports the run on the terminal. Colors are disabled automatically
// when w is not a terminal or NO_COLOR is set.
func printSummary(w io.Writer, res *domain.Result, verbose bool) {
	if res.Empty() {
		color.New(color.FgRed, color.Bold).Fprintln(w, "No valid emails found")
	} else {
		color.New(color.FgGreen, color.Bold).Fprintf(w, "Cleaned %d emails\n", len(res.Cleaned))
	}
	fmt.Fprintln(w, export.Summary(res.Summary))

	if !verbose {
		return
	}

	corrected := color.New(color.FgCyan)
	for _, c := range res.Corrections {
		corrected.Fprintf(w, "  ~ %s -> %s\n", c.Original, c.Corrected)
	}

	removed := color.New(color.FgYellow)
	for _, r := range res.Removed {
		removed.Fprintf(w, "  x %s (%s)\n", r.Original, r.Reason)
	}
}

// cleanCommand constructs the 'clean' subcommand that cleans email lists from
// files (.txt, .csv, .xlsx, .pdf) or standard input and writes the result.
func cleanCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [files...]",
		Short: "Cleans email lists from files or standard input",
		Args:  cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			formatName, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			verbose, _ := cmd.Flags().GetBool("show-removed")

			format, err := export.ParseFormat(formatName)
			if err != nil {
				logger.Fatal(ctx, "invalid output format", zap.String("format", formatName), zap.Error(err))
			}

			tokens, err := readInputs(ctx, cfg, cmd.InOrStdin(), args)
			if err != nil {
				logger.Fatal(ctx, "could not read input", zap.Error(err))
			}

			c := getCleaner(ctx, cfg)

			start := time.Now()
			res := c.Clean(ctx, tokens)
			logger.Debug(ctx, "cleaned input",
				zap.Int("tokens", len(tokens)), zap.Duration("elapsed", time.Since(start)))

			if !res.Empty() {
				if err := writeResult(cmd.OutOrStdout(), output, format, res); err != nil {
					logger.Fatal(ctx, "could not write result", zap.Error(err))
				}
			}

			printSummary(cmd.ErrOrStderr(), res, verbose)
			if output != "" && !res.Empty() {
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved to %s\n", output)
			}
		},
	}

	cmd.Flags().StringP("format", "f", string(export.FormatText), "Output format (txt, csv, xlsx)")
	cmd.Flags().StringP("output", "o", "", "Output file; standard output when empty")
	cmd.Flags().Bool("show-removed", false, "List corrections and removed candidates")

	return cmd
}
