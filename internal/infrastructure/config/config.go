// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for legends configuration.
	DefaultConfigDir = ".legends"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDBFile is the default database file name.
	DefaultDBFile = "legends.db"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	SQLite SQLiteConfig `yaml:"sqlite,omitempty"`
	Import ImportConfig `yaml:"import,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	Path string `yaml:"path,omitempty"`
}

// ImportConfig holds tuning knobs for the import pipeline.
type ImportConfig struct {
	// BatchSize is the number of rows committed per insert batch.
	BatchSize int `yaml:"batch_size,omitempty"`
	// MaxPending caps how many records may wait on unresolved references.
	MaxPending int `yaml:"max_pending,omitempty"`
	// ProgressEvery logs import progress every N records; 0 disables.
	ProgressEvery int `yaml:"progress_every,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		SQLite: SQLiteConfig{
			Path: filepath.Join(DefaultConfigDir, DefaultDBFile),
		},
		Import: ImportConfig{
			BatchSize:     1000,
			MaxPending:    100000,
			ProgressEvery: 100000,
		},
	}
}

// Load loads configuration from the .legends directory in the given path.
// A missing config file is not an error; defaults apply.
func Load(basePath string) (*Config, error) {
	cfg := Default()

	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("LEGENDS_DB"); path != "" {
		c.SQLite.Path = path
	}
}

// ConfigDir returns the path to the .legends config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}
