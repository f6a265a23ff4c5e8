package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/KlikkAI/verdict/internal/output"
	"github.com/KlikkAI/verdict/pkg/analyzer/benchmark"
)

func benchmarkCmd() *cli.Command {
	return &cli.Command{
		Name:    "benchmark",
		Aliases: []string{"bm"},
		Usage:   "Score snapshots against benchmark configs",
		Subcommands: []*cli.Command{
			benchmarkScoreCmd(),
			benchmarkCompareCmd(),
			benchmarkListCmd(),
		},
	}
}

func benchmarkScoreCmd() *cli.Command {
	flags := append(outputFlags(),
		&cli.StringFlag{
			Name:  "benchmark-config",
			Usage: "Benchmark config JSON to register before scoring",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "Benchmark config name to score against",
		},
	)
	return &cli.Command{
		Name:   "score",
		Usage:  "Score the most recent snapshot against a benchmark config",
		Flags:  flags,
		Action: runBenchmarkScoreCmd,
	}
}

func runBenchmarkScoreCmd(c *cli.Context) error {
	cfg := loadConfig(c)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	snapshots := store.All()
	if len(snapshots) == 0 {
		return errors.New("no snapshots recorded; run a validation first")
	}
	latest := snapshots[len(snapshots)-1]

	registry, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	defer registry.Close()

	name := cfg.Benchmark.DefaultName
	if c.IsSet("name") {
		name = c.String("name")
	}

	// Register the config when provided, or seed the default on first use.
	if path := c.String("benchmark-config"); path != "" {
		bc, err := benchmark.LoadConfigFile(path)
		if err != nil {
			return fmt.Errorf("failed to load benchmark config: %w", err)
		}
		if err := registry.SaveConfig(bc); err != nil {
			return err
		}
		name = bc.Name
	} else if _, err := registry.Config(name); err != nil {
		var nf *benchmark.NotFoundError
		if !errors.As(err, &nf) || name != cfg.Benchmark.DefaultName {
			return err
		}
		if err := registry.SaveConfig(benchmark.DefaultConfig()); err != nil {
			return err
		}
	}

	engine := benchmark.NewEngine(registry)
	result, err := engine.Score(latest, name)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(renderBenchmark(result))
}

func benchmarkCompareCmd() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "Compare two benchmark results by ID",
		ArgsUsage: "<baseline-id> <current-id>",
		Flags:     outputFlags(),
		Action:    runBenchmarkCompareCmd,
	}
}

func runBenchmarkCompareCmd(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return errors.New("expected a baseline result ID and a current result ID")
	}

	cfg := loadConfig(c)
	registry, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	defer registry.Close()

	engine := benchmark.NewEngine(registry)
	cmp, err := engine.Compare(c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(renderComparison(cmp))
}

func benchmarkListCmd() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "List registered benchmark configs and their results",
		Flags:  outputFlags(),
		Action: runBenchmarkListCmd,
	}
}

func runBenchmarkListCmd(c *cli.Context) error {
	cfg := loadConfig(c)
	registry, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	defer registry.Close()

	configs, err := registry.Configs()
	if err != nil {
		return err
	}
	if len(configs) == 0 {
		color.Yellow("No benchmark configs registered")
		return nil
	}

	var rows [][]string
	for _, bc := range configs {
		results, err := registry.ResultsForConfig(bc.Name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to list results for %s: %v\n", bc.Name, err)
		}
		rows = append(rows, []string{
			bc.Name,
			bc.Version,
			fmt.Sprintf("%d metrics", len(bc.Metrics)),
			fmt.Sprintf("%d results", len(results)),
		})
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(output.NewTable(
		"Benchmark Configs",
		[]string{"Name", "Version", "Metrics", "Results"},
		rows,
		nil,
		configs,
	))
}
