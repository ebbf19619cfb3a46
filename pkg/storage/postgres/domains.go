package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

const (
	domainsTable = "reference_domains"
	typosTable   = "domain_typos"
)

// KnownDomains returns all reference domains ordered ascending.
func (p *PgSQL) KnownDomains(ctx context.Context) ([]string, error) {
	var domains []string
	if err := p.Builder.From(domainsTable).
		Select("domain").
		Order(goqu.I("domain").Asc()).
		Executor().ScanValsContext(ctx, &domains); err != nil {
		return nil, fmt.Errorf("could not fetch reference domains from pg: %w", err)
	}

	return domains, nil
}

// TypoCorrections returns all stored typo corrections.
func (p *PgSQL) TypoCorrections(ctx context.Context) (map[string]string, error) {
	var rows []PgTypo
	if err := p.Builder.From(typosTable).
		Order(goqu.I("typo").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch domain typos from pg: %w", err)
	}

	typos := make(map[string]string, len(rows))
	for _, row := range rows {
		typos[row.Typo] = row.Domain
	}

	return typos, nil
}

// StoreDomains inserts domains, ignoring the ones already present.
func (p *PgSQL) StoreDomains(ctx context.Context, domains ...string) (int64, error) {
	if len(domains) == 0 {
		return 0, nil
	}

	res, err := p.Builder.Insert(domainsTable).
		Rows(domainsToPg(domains)).
		OnConflict(goqu.DoNothing()).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not store reference domains into pg: %w", err)
	}

	return rowsAffected(res)
}

// StoreTypos upserts typo corrections; an existing typo is re-pointed to the new domain.
func (p *PgSQL) StoreTypos(ctx context.Context, typos map[string]string) (int64, error) {
	if len(typos) == 0 {
		return 0, nil
	}

	res, err := p.Builder.Insert(typosTable).
		Rows(typosToPg(typos)).
		OnConflict(goqu.DoUpdate("typo", goqu.Record{
			"domain":     goqu.L("EXCLUDED.domain"),
			"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		})).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not store domain typos into pg: %w", err)
	}

	return rowsAffected(res)
}

// DeleteDomain removes a reference domain and every typo that corrects to it.
func (p *PgSQL) DeleteDomain(ctx context.Context, domain string) (bool, error) {
	if _, err := p.Builder.Delete(typosTable).
		Where(goqu.I("domain").Eq(domain)).
		Executor().ExecContext(ctx); err != nil {
		return false, fmt.Errorf("could not delete domain typos in pg: %w", err)
	}

	res, err := p.Builder.Delete(domainsTable).
		Where(goqu.I("domain").Eq(domain)).
		Executor().ExecContext(ctx)
	if err != nil {
		return false, fmt.Errorf("could not delete reference domain in pg: %w", err)
	}

	n, err := rowsAffected(res)

	return n > 0, err
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not read affected rows: %w", err)
	}

	return n, nil
}
