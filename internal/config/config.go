// Package config loads heapql's on-disk configuration.
//
// What: A small YAML document (data directory, page size override, buffer
// pool size) with environment-variable and default fallbacks.
// How: gopkg.in/yaml.v3 unmarshals heapql.yaml, the same library the
// teacher (tinySQL) already pulls in for its REPL's "-format yaml" output
// mode — reused here for its other natural job, config files, rather than
// reaching for a second YAML dependency.
// Why: A config file plus one environment override is the smallest
// mechanism that satisfies spec.md §6's "HEAPQL_DATA_DIR environment
// variable overrides the default data directory" requirement while
// leaving room for the page-size/buffer-pool knobs a real deployment of
// this engine would want.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DataDirEnvVar is the environment variable that overrides Config.DataDir,
// taking precedence over both the config file value and the default.
const DataDirEnvVar = "HEAPQL_DATA_DIR"

const defaultDataDir = "./data"

// Config holds heapql's runtime configuration.
type Config struct {
	// DataDir is the directory DiskManager creates its base_<file_id>.db
	// files under.
	DataDir string `yaml:"data_dir"`

	// PageSizeOverride is parsed from page_size but not compared with
	// pager.PageSize or otherwise used; heapql's on-disk format is fixed
	// at 8192 bytes whatever this value is.
	PageSizeOverride int `yaml:"page_size,omitempty"`

	// BufferPoolSize is reserved for a future buffer pool; heapql
	// currently reads/writes pages directly through DiskManager with no
	// caching layer, so this value is accepted but unused.
	BufferPoolSize int `yaml:"buffer_pool_size,omitempty"`
}

// Default returns the configuration used when no config file is present.
func Default() Config {
	return Config{DataDir: defaultDataDir}
}

// Load reads and parses a YAML config file at path, then applies the
// HEAPQL_DATA_DIR environment override if set. A missing file is not an
// error: Load falls back to Default() and still applies the environment
// override.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if dir := os.Getenv(DataDirEnvVar); dir != "" {
		cfg.DataDir = dir
	}
	return cfg, nil
}
