package cleaner_test

import (
	"context"
	"emailcleaner/internal/cleaner"
	"emailcleaner/pkg/serrors"
	mockstorage "emailcleaner/pkg/storage/mock"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBuildReferenceTableDefaultsOnly(t *testing.T) {
	table, err := cleaner.BuildReferenceTable(context.Background(), cleaner.ReferenceOptions{}, nil)
	require.NoError(t, err)
	require.Equal(t, cleaner.DefaultReferenceTable().Domains(), table.Domains())
}

func TestBuildReferenceTableAllSources(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mockstorage.NewMockStorage(ctrl)

	path := filepath.Join(t.TempDir(), "domains.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
domains: [company.de]
typos:
  compnay.de: company.de
  gmial.com: googlemail.com
`), 0o600))

	store.EXPECT().KnownDomains(gomock.Any()).Return([]string{"partner.co.uk"}, nil)
	store.EXPECT().TypoCorrections(gomock.Any()).Return(map[string]string{"compnay.de": "partner.co.uk"}, nil)

	table, err := cleaner.BuildReferenceTable(context.Background(), cleaner.ReferenceOptions{File: path}, store)
	require.NoError(t, err)

	require.True(t, table.Known("gmail.com"))
	require.True(t, table.Known("company.de"))
	require.True(t, table.Known("partner.co.uk"))

	// the file overrides defaults, the database overrides the file
	target, _ := table.Typo("gmial.com")
	require.Equal(t, "googlemail.com", target)
	target, _ = table.Typo("compnay.de")
	require.Equal(t, "partner.co.uk", target)
}

func TestBuildReferenceTableSkipDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mockstorage.NewMockStorage(ctrl)

	store.EXPECT().KnownDomains(gomock.Any()).Return([]string{"company.de"}, nil)
	store.EXPECT().TypoCorrections(gomock.Any()).Return(map[string]string{}, nil)

	table, err := cleaner.BuildReferenceTable(context.Background(), cleaner.ReferenceOptions{SkipDefaults: true}, store)
	require.NoError(t, err)
	require.Equal(t, []string{"company.de"}, table.Domains())
}

func TestBuildReferenceTableErrors(t *testing.T) {
	ctx := context.Background()

	// nothing left once the defaults are skipped
	_, err := cleaner.BuildReferenceTable(ctx, cleaner.ReferenceOptions{SkipDefaults: true}, nil)
	require.ErrorIs(t, err, serrors.ErrConfiguration)

	_, err = cleaner.BuildReferenceTable(ctx, cleaner.ReferenceOptions{File: "/does/not/exist.yml"}, nil)
	require.ErrorIs(t, err, serrors.ErrConfiguration)

	ctrl := gomock.NewController(t)
	store := mockstorage.NewMockStorage(ctrl)
	dbErr := errors.New("connection refused")
	store.EXPECT().KnownDomains(gomock.Any()).Return(nil, dbErr)

	_, err = cleaner.BuildReferenceTable(ctx, cleaner.ReferenceOptions{}, store)
	require.ErrorIs(t, err, serrors.ErrConfiguration)
	require.ErrorIs(t, err, dbErr)
}
