package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/KlikkAI/verdict/internal/output"
	"github.com/KlikkAI/verdict/pkg/analyzer/benchmark"
	"github.com/KlikkAI/verdict/pkg/config"
	"github.com/KlikkAI/verdict/pkg/history"
)

// outputFlags returns the flags shared by every reporting command.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   "text",
			Usage:   "Output format: text, json, markdown, toon",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to file",
		},
	}
}

// validateDays validates a day-count flag and returns an error if invalid.
func validateDays(days int) error {
	if days <= 0 {
		return fmt.Errorf("day window must be a positive integer (got %d)", days)
	}
	return nil
}

func getFormat(c *cli.Context) string {
	return c.String("format")
}

func getOutputFile(c *cli.Context) string {
	return c.String("output")
}

func newFormatter(c *cli.Context) (*output.Formatter, error) {
	return output.NewFormatter(output.ParseFormat(getFormat(c)), getOutputFile(c), true)
}

func loadConfig(c *cli.Context) *config.Config {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err == nil {
			return cfg
		}
	}
	return config.LoadOrDefault()
}

// openStore builds the history store from config. Callers own Close.
func openStore(cfg *config.Config) (*history.Store, error) {
	var backend history.Backend
	switch cfg.History.Backend {
	case "memory":
		backend = history.NewMemoryBackend()
	case "badger":
		b, err := history.NewBadgerBackend(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open badger history at %s: %w", cfg.History.Path, err)
		}
		backend = b
	default:
		if dir := filepath.Dir(cfg.History.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create history directory %s: %w", dir, err)
			}
		}
		backend = history.NewFileBackend(cfg.History.Path)
	}

	return history.New(
		history.WithBackend(backend),
		history.WithMaxPoints(cfg.History.MaxPoints),
	)
}

// openRegistry builds the benchmark registry from config. Callers own Close.
func openRegistry(cfg *config.Config) (benchmark.Registry, error) {
	reg, err := benchmark.NewBadgerRegistry(cfg.Benchmark.RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open benchmark registry at %s: %w", cfg.Benchmark.RegistryPath, err)
	}
	return reg, nil
}
