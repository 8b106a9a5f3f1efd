// Package config layers tool settings from defaults, an optional YAML file,
// and NHLM_-prefixed environment variables.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the full tool configuration.
type Config struct {
	APIBaseURL     string `koanf:"api_base_url"`
	ReportsBaseURL string `koanf:"reports_base_url"`
	DBPath         string `koanf:"db_path"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`
	LogLevel       string `koanf:"log_level"`
	PatchFile      string `koanf:"patch_file"`
}

// Default returns the baseline configuration.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		APIBaseURL:     "https://api-web.nhle.com",
		ReportsBaseURL: "https://www.nhl.com/scores/htmlreports",
		DBPath:         filepath.Join(home, ".nhlmetrics", "metrics.db"),
		TimeoutSeconds: 15,
		LogLevel:       "info",
	}
}

// Load builds the Config by layering, low to high: defaults, the YAML file
// named by NHLM_CONFIG, then NHLM_* environment variables
// (NHLM_DB_PATH -> db_path, and so on).
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("NHLM_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	envProvider := env.Provider("NHLM_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "nhlm_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}
	if cfg.APIBaseURL == "" || cfg.ReportsBaseURL == "" {
		return nil, errors.New("base URLs must not be empty")
	}
	if cfg.TimeoutSeconds <= 0 {
		return nil, errors.New("timeout_seconds must be positive")
	}
	return &cfg, nil
}
