package cleaner

import (
	"context"
	"emailcleaner/internal/config"
	"emailcleaner/pkg/logger"
	"emailcleaner/pkg/serrors"
	"emailcleaner/pkg/storage"
	"fmt"
	"maps"

	"go.uber.org/zap"
)

// ReferenceOptions select the sources a reference table is assembled from.
type ReferenceOptions struct {
	// SkipDefaults leaves the built-in domains and typos out.
	SkipDefaults bool
	// File is an optional YAML reference file.
	File string
}

// NewReferenceOptions constructs ReferenceOptions from the application config.
func NewReferenceOptions(cfg *config.Config) ReferenceOptions {
	return ReferenceOptions{
		SkipDefaults: cfg.Cleaner.SkipDefaultDomains,
		File:         cfg.Cleaner.DomainsFile,
	}
}

// BuildReferenceTable merges the built-in defaults, the reference file and the
// stored reference data, in that order; later sources override typo entries of
// earlier ones. store may be nil. Any failure is a configuration error.
func BuildReferenceTable(
	ctx context.Context,
	opts ReferenceOptions,
	store storage.DomainStorage,
) (*ReferenceTable, error) {
	var domains []string
	typos := map[string]string{}

	if !opts.SkipDefaults {
		domains = append(domains, defaultDomains...)
		maps.Copy(typos, defaultTypos)
	}

	if opts.File != "" {
		ref, err := LoadReferenceFile(opts.File)
		if err != nil {
			return nil, err
		}
		domains = append(domains, ref.Domains...)
		maps.Copy(typos, ref.Typos)
		logger.Debug(ctx, "loaded reference file",
			zap.String("path", opts.File), zap.Int("domains", len(ref.Domains)), zap.Int("typos", len(ref.Typos)))
	}

	if store != nil {
		stored, err := store.KnownDomains(ctx)
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrConfiguration, err, "could not load stored reference domains")
		}
		storedTypos, err := store.TypoCorrections(ctx)
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrConfiguration, err, "could not load stored domain typos")
		}
		domains = append(domains, stored...)
		maps.Copy(typos, storedTypos)
		logger.Debug(ctx, "loaded stored reference data",
			zap.Int("domains", len(stored)), zap.Int("typos", len(storedTypos)))
	}

	table, err := NewReferenceTable(domains, typos)
	if err != nil {
		return nil, fmt.Errorf("could not build reference table: %w", err)
	}

	return table, nil
}
