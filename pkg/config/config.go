package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for verdict.
type Config struct {
	// History store settings
	History HistoryConfig `koanf:"history"`

	// Trend analysis settings
	Trend TrendConfig `koanf:"trend"`

	// Regression detection settings
	Regression RegressionConfig `koanf:"regression"`

	// Benchmark settings
	Benchmark BenchmarkConfig `koanf:"benchmark"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// HistoryConfig controls snapshot persistence.
type HistoryConfig struct {
	Backend   string `koanf:"backend"` // memory, file, badger
	Path      string `koanf:"path"`
	MaxPoints int    `koanf:"max_points"`
}

// TrendConfig controls trend fitting.
type TrendConfig struct {
	WindowDays   int     `koanf:"window_days"`
	StabilityPct float64 `koanf:"stability_pct"`
}

// RegressionConfig controls baseline/recent window sizing.
type RegressionConfig struct {
	BaselineDays int `koanf:"baseline_days"`
	RecentDays   int `koanf:"recent_days"`
}

// BenchmarkConfig controls benchmark scoring.
type BenchmarkConfig struct {
	ConfigPath   string `koanf:"config_path"`
	DefaultName  string `koanf:"default_name"`
	RegistryPath string `koanf:"registry_path"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		History: HistoryConfig{
			Backend:   "file",
			Path:      ".verdict/history.json",
			MaxPoints: 1000,
		},
		Trend: TrendConfig{
			WindowDays:   30,
			StabilityPct: 1.0,
		},
		Regression: RegressionConfig{
			BaselineDays: 7,
			RecentDays:   2,
		},
		Benchmark: BenchmarkConfig{
			ConfigPath:   ".verdict/benchmark.json",
			DefaultName:  "default",
			RegistryPath: ".verdict/benchmarks",
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		// Try to detect from content or default to TOML
		parser = toml.Parser()
	}

	// Load the config file
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	// Unmarshal into config struct
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	// Standard config file names to search for
	configNames := []string{
		"verdict.toml",
		"verdict.yaml",
		"verdict.yml",
		"verdict.json",
		".verdict.toml",
		".verdict.yaml",
		".verdict.yml",
		".verdict.json",
	}

	// Search in current directory and .verdict directory
	searchDirs := []string{".", ".verdict"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}
