package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "8000" {
		t.Errorf("Server.Port = %q, want 8000", cfg.Server.Port)
	}
	if cfg.Datasets.Seed != 42 || cfg.Datasets.StockDays != 365 || cfg.Datasets.Employees != 100 {
		t.Errorf("unexpected dataset defaults: %+v", cfg.Datasets)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATAAPP_DATASETS_SEED", "7")
	t.Setenv("DATAAPP_LOG_FORMAT", "json")
	t.Setenv("PORT", "9100")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Datasets.Seed != 7 {
		t.Errorf("Seed = %d, want 7", cfg.Datasets.Seed)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
	if cfg.Server.Port != "9100" {
		t.Errorf("Server.Port = %q, want 9100", cfg.Server.Port)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataapp.toml")
	content := `
[server]
port = "8123"
shutdown_timeout = "3s"

[datasets]
employees = 250
eager = true

[cache]
view_size = 0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8123" {
		t.Errorf("Server.Port = %q, want 8123", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 3s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Datasets.Employees != 250 || !cfg.Datasets.Eager {
		t.Errorf("Datasets = %+v", cfg.Datasets)
	}
	if cfg.Datasets.Seed != 42 {
		t.Errorf("unset seed should keep default, got %d", cfg.Datasets.Seed)
	}
	if cfg.Cache.ViewSize != 0 {
		t.Errorf("ViewSize = %d, want 0", cfg.Cache.ViewSize)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }, "server.port"},
		{"short stock series", func(c *Config) { c.Datasets.StockDays = 6 }, "datasets.stock_days"},
		{"negative employees", func(c *Config) { c.Datasets.Employees = -1 }, "datasets.employees"},
		{"negative cache", func(c *Config) { c.Cache.ViewSize = -5 }, "cache.view_size"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}
