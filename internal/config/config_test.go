package config_test

import (
	"emailcleaner/internal/config"
	"emailcleaner/pkg/serrors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load(writeConfig(t, "environment: production\n"))
	require.NoError(t, err)

	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, int64(10<<20), cfg.HTTP.MaxBodyBytes)
	require.Equal(t, "https://api.telegram.org", cfg.Bot.APIURL)
	require.Equal(t, 30*time.Second, cfg.Bot.PollTimeout)
	require.Equal(t, 50, cfg.Bot.InlineLimit)
	require.False(t, cfg.Cleaner.SkipDefaultDomains)
	require.Zero(t, cfg.Cleaner.Threshold)
}

func TestLoadCleanerSection(t *testing.T) {
	t.Chdir(t.TempDir())

	path := writeConfig(t, `
cleaner:
  threshold: 0.8
  defaultTld: de
  stages: [typo_map, fuzzy]
  tldRepairs:
    com: "con|cmo"
  domainsFile: domains.yml
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.InDelta(t, 0.8, cfg.Cleaner.Threshold, 1e-9)
	require.Equal(t, "de", cfg.Cleaner.DefaultTLD)
	require.Equal(t, []string{"typo_map", "fuzzy"}, cfg.Cleaner.Stages)
	require.Equal(t, map[string]string{"com": "con|cmo"}, cfg.Cleaner.TLDRepairs)
	require.Equal(t, "domains.yml", cfg.Cleaner.DomainsFile)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("HTTP_ADDR", ":9090")

	cfg, err := config.Load(writeConfig(t, "http:\n  addr: \":7070\"\n"))
	require.NoError(t, err)
	require.Equal(t, "123:abc", cfg.Bot.Token)
	require.Equal(t, ":9090", cfg.HTTP.Addr)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=warn\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("LOG_LEVEL") })

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	cfg.Cleaner.Threshold = 1.5
	cfg.JWT.Enabled = true
	err = cfg.Validate()
	require.ErrorIs(t, err, serrors.ErrConfiguration)
	require.ErrorContains(t, err, "cleaner.threshold")
	require.ErrorContains(t, err, "jwt.publicKey")
}
