package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileFallsBackToDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != defaultDataDir {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, defaultDataDir)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heapql.yaml")
	content := "data_dir: /var/lib/heapql\npage_size: 8192\nbuffer_pool_size: 64\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/var/lib/heapql" || cfg.PageSizeOverride != 8192 || cfg.BufferPoolSize != 64 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestEnvironmentOverridesFileAndDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heapql.yaml")
	os.WriteFile(path, []byte("data_dir: /from/file\n"), 0o644)

	t.Setenv(DataDirEnvVar, "/from/env")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/from/env" {
		t.Fatalf("DataDir = %q, want /from/env", cfg.DataDir)
	}
}
