package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPgSQL_Domains(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	domains, err := pg.KnownDomains(ctx)
	require.NoError(t, err)
	require.Empty(t, domains)

	n, err := pg.StoreDomains(ctx, "web.de", "company.com", "web.de")
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	// existing domains are skipped
	n, err = pg.StoreDomains(ctx, "company.com", "partner.co.uk")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	n, err = pg.StoreDomains(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	domains, err = pg.KnownDomains(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"company.com", "partner.co.uk", "web.de"}, domains)
}

func TestPgSQL_Typos(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	n, err := pg.StoreTypos(ctx, map[string]string{"compnay.com": "company.com", "wbe.de": "web.de"})
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	// upsert re-points an existing typo
	_, err = pg.StoreTypos(ctx, map[string]string{"wbe.de": "webmail.de"})
	require.NoError(t, err)

	typos, err := pg.TypoCorrections(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"compnay.com": "company.com", "wbe.de": "webmail.de"}, typos)

	n, err = pg.StoreTypos(ctx, nil)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestPgSQL_DeleteDomain(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := pg.StoreDomains(ctx, "company.com", "web.de")
	require.NoError(t, err)
	_, err = pg.StoreTypos(ctx, map[string]string{"compnay.com": "company.com", "wbe.de": "web.de"})
	require.NoError(t, err)

	deleted, err := pg.DeleteDomain(ctx, "company.com")
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = pg.DeleteDomain(ctx, "company.com")
	require.NoError(t, err)
	require.False(t, deleted)

	domains, err := pg.KnownDomains(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"web.de"}, domains)

	typos, err := pg.TypoCorrections(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"wbe.de": "web.de"}, typos)
}
