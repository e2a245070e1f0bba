// Package config loads the CLI configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all csvana CLI configuration.
type Config struct {
	// Database configures the SQLite store.
	Database DatabaseConfig `yaml:"database"`

	// Ingest configures chunked reading and sampling.
	Ingest IngestConfig `yaml:"ingest"`

	// Kaggle configures dataset acquisition.
	Kaggle KaggleConfig `yaml:"kaggle"`
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	// Path is the database file path, or ":memory:".
	Path string `yaml:"path"`
}

// IngestConfig configures chunked reading and sampling.
type IngestConfig struct {
	ChunkSize  int `yaml:"chunk_size"`
	SampleSize int `yaml:"sample_size"`
}

// KaggleConfig configures dataset acquisition. Username and Key fall back
// to the KAGGLE_USERNAME and KAGGLE_KEY environment variables when empty.
type KaggleConfig struct {
	Username string `yaml:"username"`
	Key      string `yaml:"key"`
	DataDir  string `yaml:"data_dir"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "data.db"},
		Ingest: IngestConfig{
			ChunkSize:  10000,
			SampleSize: 10000,
		},
		Kaggle: KaggleConfig{DataDir: "datasets"},
	}
}

// Load reads the configuration from path. A missing file yields the
// defaults; a present but unparseable file is an error. Values absent from
// the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // User-chosen config path.
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Ingest.ChunkSize <= 0 {
		cfg.Ingest.ChunkSize = Default().Ingest.ChunkSize
	}
	if cfg.Ingest.SampleSize <= 0 {
		cfg.Ingest.SampleSize = Default().Ingest.SampleSize
	}
	return cfg, nil
}
