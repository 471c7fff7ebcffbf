// Package config resolves where raidlog keeps its state and which catalog it
// reads, from defaults, an optional config.yaml, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// FileName is the optional config file inside the data directory.
const FileName = "config.yaml"

// Config holds the resolved settings.
type Config struct {
	DataDir    string `yaml:"data_dir"`
	CatalogDir string `yaml:"catalog_dir"` // empty means the embedded catalog
	Backend    string `yaml:"backend"`     // file or sqlite
	LogLevel   string `yaml:"log_level"`
}

// Env is the environment view of Config.
type Env struct {
	DataDir    string `env:"RAIDLOG_DIR"`
	CatalogDir string `env:"RAIDLOG_CATALOG"`
	Backend    string `env:"RAIDLOG_BACKEND"`
	LogLevel   string `env:"RAIDLOG_LOG_LEVEL"`
}

// Overrides are explicit settings, typically from command-line flags.
// Empty fields leave the resolved value alone.
type Overrides struct {
	DataDir    string
	CatalogDir string
	Backend    string
	LogLevel   string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DataDir:  DefaultDataDir(),
		Backend:  "file",
		LogLevel: "warn",
	}
}

// Load resolves the configuration. Later sources win: defaults, then
// <data dir>/config.yaml, then RAIDLOG_* environment variables, then o.
func Load(o Overrides) (Config, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg := Default()
	// The data directory decides where config.yaml lives, so resolve it first.
	cfg.DataDir = firstNonEmpty(o.DataDir, e.DataDir, cfg.DataDir)

	if err := cfg.readFile(filepath.Join(cfg.DataDir, FileName)); err != nil {
		return Config{}, err
	}

	cfg.apply(Config{CatalogDir: e.CatalogDir, Backend: e.Backend, LogLevel: e.LogLevel})
	cfg.apply(Config(o))
	cfg.DataDir = firstNonEmpty(o.DataDir, e.DataDir, cfg.DataDir)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	var fromFile Config
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	c.apply(fromFile)
	return nil
}

func (c *Config) apply(o Config) {
	c.DataDir = firstNonEmpty(o.DataDir, c.DataDir)
	c.CatalogDir = firstNonEmpty(o.CatalogDir, c.CatalogDir)
	c.Backend = firstNonEmpty(o.Backend, c.Backend)
	c.LogLevel = firstNonEmpty(o.LogLevel, c.LogLevel)
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("invalid backend %q (use file or sqlite)", c.Backend)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
