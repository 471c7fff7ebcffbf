package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"RAIDLOG_DIR", "RAIDLOG_CATALOG", "RAIDLOG_BACKEND", "RAIDLOG_LOG_LEVEL"} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(Overrides{DataDir: dir})
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "file", cfg.Backend)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.CatalogDir)
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`
catalog_dir: /from/file
backend: sqlite
log_level: info
`), 0644))

	// File beats defaults.
	cfg, err := Load(Overrides{DataDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "/from/file", cfg.CatalogDir)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, "info", cfg.LogLevel)

	// Env beats file.
	t.Setenv("RAIDLOG_CATALOG", "/from/env")
	t.Setenv("RAIDLOG_LOG_LEVEL", "debug")
	cfg, err = Load(Overrides{DataDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.CatalogDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "sqlite", cfg.Backend)

	// Overrides beat env.
	cfg, err = Load(Overrides{DataDir: dir, Backend: "file", CatalogDir: "/from/flag"})
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.CatalogDir)
	assert.Equal(t, "file", cfg.Backend)
}

func TestLoadDataDirFromEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("RAIDLOG_DIR", dir)

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := Load(Overrides{DataDir: dir, Backend: "postgres"})
	assert.ErrorContains(t, err, "invalid backend")

	_, err = Load(Overrides{DataDir: dir, LogLevel: "chatty"})
	assert.ErrorContains(t, err, "invalid log level")
}

func TestLoadBadConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("backend: [unterminated"), 0644))

	_, err := Load(Overrides{DataDir: dir})
	assert.ErrorContains(t, err, FileName)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("Debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel(" warn ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}
