package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	// Check history defaults
	if cfg.History.Backend != "file" {
		t.Errorf("History.Backend = %s, want file", cfg.History.Backend)
	}
	if cfg.History.MaxPoints != 1000 {
		t.Errorf("History.MaxPoints = %d, want 1000", cfg.History.MaxPoints)
	}

	// Check trend defaults
	if cfg.Trend.WindowDays != 30 {
		t.Errorf("Trend.WindowDays = %d, want 30", cfg.Trend.WindowDays)
	}
	if cfg.Trend.StabilityPct != 1.0 {
		t.Errorf("Trend.StabilityPct = %f, want 1.0", cfg.Trend.StabilityPct)
	}

	// Check regression defaults
	if cfg.Regression.BaselineDays != 7 {
		t.Errorf("Regression.BaselineDays = %d, want 7", cfg.Regression.BaselineDays)
	}
	if cfg.Regression.RecentDays != 2 {
		t.Errorf("Regression.RecentDays = %d, want 2", cfg.Regression.RecentDays)
	}

	// Check output defaults
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if !cfg.Output.Color {
		t.Error("Output.Color should be true by default")
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "verdict.toml")

	content := `
[history]
backend = "badger"
path = "/tmp/verdict-history"
max_points = 500

[trend]
window_days = 14

[output]
format = "json"
color = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.History.Backend != "badger" {
		t.Errorf("History.Backend = %s, want badger", cfg.History.Backend)
	}
	if cfg.History.MaxPoints != 500 {
		t.Errorf("History.MaxPoints = %d, want 500", cfg.History.MaxPoints)
	}
	if cfg.Trend.WindowDays != 14 {
		t.Errorf("Trend.WindowDays = %d, want 14", cfg.Trend.WindowDays)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}

	// Unset values keep their defaults
	if cfg.Regression.BaselineDays != 7 {
		t.Errorf("Regression.BaselineDays = %d, want default 7", cfg.Regression.BaselineDays)
	}
	if cfg.Trend.StabilityPct != 1.0 {
		t.Errorf("Trend.StabilityPct = %f, want default 1.0", cfg.Trend.StabilityPct)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "verdict.yaml")

	content := `
history:
  backend: memory
regression:
  recent_days: 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.History.Backend != "memory" {
		t.Errorf("History.Backend = %s, want memory", cfg.History.Backend)
	}
	if cfg.Regression.RecentDays != 3 {
		t.Errorf("Regression.RecentDays = %d, want 3", cfg.Regression.RecentDays)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/verdict.toml")
	if err == nil {
		t.Fatal("Load() should fail for a missing file")
	}
}
