package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/KlikkAI/verdict/internal/vcs"
	"github.com/KlikkAI/verdict/pkg/analyzer/regression"
	"github.com/KlikkAI/verdict/pkg/analyzer/trend"
	"github.com/KlikkAI/verdict/pkg/checker"
	"github.com/KlikkAI/verdict/pkg/history"
	"github.com/KlikkAI/verdict/pkg/metrics"
	"github.com/KlikkAI/verdict/pkg/pipeline"
	"github.com/KlikkAI/verdict/pkg/report"
)

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Run validation and compose a full report with trends, regressions, and statistics",
		ArgsUsage: "<measurements.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "json",
				Usage:   "Report format: json, yaml",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write report to file",
			},
		},
		Action: runReportCmd,
	}
}

func runReportCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one measurements bundle, got %d arguments", c.Args().Len())
	}

	bundle, err := checker.LoadBundle(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to load measurements bundle: %w", err)
	}

	cfg := loadConfig(c)
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	git := vcs.DescribeOrEmpty(".")
	meta := metrics.Meta{
		Commit:      git.Commit,
		Branch:      git.Branch,
		Version:     version,
		Environment: "local",
		TriggeredBy: "report",
	}

	controller := pipeline.New(pipeline.WithStore(store))
	result, err := controller.Run(c.Context, bundle, meta)
	if err != nil {
		return fmt.Errorf("validation run failed: %w", err)
	}

	snapshots := store.All()
	trends := trend.New(
		trend.WithWindow(cfg.Trend.WindowDays),
		trend.WithStabilityPct(cfg.Trend.StabilityPct),
	).Analyze(snapshots)
	regs := regression.New(
		regression.WithBaselineDays(cfg.Regression.BaselineDays),
		regression.WithRecentDays(cfg.Regression.RecentDays),
	).Detect(snapshots)

	var stats []history.Stats
	for _, m := range metrics.All() {
		if s := store.Statistics(m, cfg.Trend.WindowDays); s.Count > 0 {
			stats = append(stats, s)
		}
	}

	doc := report.NewBuilder().
		WithValidation(result).
		WithTrends(trends).
		WithRegressions(regs).
		WithStatistics(stats).
		Build()

	w := os.Stdout
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}

	switch strings.ToLower(c.String("format")) {
	case "yaml", "yml":
		return doc.WriteYAML(w)
	default:
		return doc.WriteJSON(w)
	}
}
