package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Setenv("NHLM_CONFIG", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://api-web.nhle.com" {
		t.Errorf("api base: %q", cfg.APIBaseURL)
	}
	if cfg.TimeoutSeconds != 15 || cfg.LogLevel != "info" {
		t.Errorf("defaults: %+v", cfg)
	}
	if cfg.DBPath == "" {
		t.Error("db path empty")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("NHLM_CONFIG", "")
	t.Setenv("NHLM_DB_PATH", "/tmp/override.db")
	t.Setenv("NHLM_LOG_LEVEL", "debug")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/override.db" {
		t.Errorf("db path: %q", cfg.DBPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level: %q", cfg.LogLevel)
	}
}

func TestFileThenEnvLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "db_path: /data/from-file.db\ntimeout_seconds: 30\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NHLM_CONFIG", path)
	t.Setenv("NHLM_TIMEOUT_SECONDS", "45")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/data/from-file.db" {
		t.Errorf("file value lost: %q", cfg.DBPath)
	}
	// Environment wins over the file.
	if cfg.TimeoutSeconds != 45 {
		t.Errorf("timeout: %d", cfg.TimeoutSeconds)
	}
}

func TestRejectsBadTimeout(t *testing.T) {
	t.Setenv("NHLM_CONFIG", "")
	t.Setenv("NHLM_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatal("zero timeout accepted")
	}
}
