// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

// Package config loads Lorekeep configuration from files, flags, and
// the environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/lorekeep/lorekeep/internal/xdg"
)

// Config holds the full Lorekeep configuration.
type Config struct {
	Database      DatabaseConfig      `koanf:"database"`
	Log           LogConfig           `koanf:"log"`
	Observability ObservabilityConfig `koanf:"observability"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	// Format is "json" or "text".
	Format string `koanf:"format"`
}

// ObservabilityConfig holds metrics and health endpoint settings.
type ObservabilityConfig struct {
	Addr string `koanf:"addr"`
}

// Default returns the configuration used when no file or flags are given.
func Default() Config {
	return Config{
		Log:           LogConfig{Format: "json"},
		Observability: ObservabilityConfig{Addr: "127.0.0.1:9100"},
	}
}

// DefaultPath returns the XDG location probed when no --config flag is
// given. A missing file there is not an error.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigDir(), "config.yaml")
}

// Load builds the configuration. Precedence, lowest to highest:
// defaults, the DATABASE_URL environment variable, the YAML config file
// at path (or the XDG default location if path is empty), then
// command-line flags.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()

	k := koanf.New(".")

	if path == "" {
		if candidate := DefaultPath(); fileExists(candidate) {
			path = candidate
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_INVALID").Wrap(err)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}

	return cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Validate checks settings required by commands that touch the database.
func (c Config) Validate() error {
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (set database.url, --database.url, or DATABASE_URL)")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log format must be %q or %q, got %q", "json", "text", c.Log.Format)
	}
	return nil
}
