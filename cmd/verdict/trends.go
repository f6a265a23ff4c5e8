package main

import (
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/KlikkAI/verdict/pkg/analyzer/trend"
)

func trendsCmd() *cli.Command {
	flags := append(outputFlags(),
		&cli.IntFlag{
			Name:    "days",
			Aliases: []string{"d"},
			Value:   30,
			Usage:   "Analysis window in days",
		},
	)
	return &cli.Command{
		Name:    "trends",
		Aliases: []string{"tr"},
		Usage:   "Fit per-metric trends over recorded history",
		Flags:   flags,
		Action:  runTrendsCmd,
	}
}

func runTrendsCmd(c *cli.Context) error {
	cfg := loadConfig(c)

	days := cfg.Trend.WindowDays
	if c.IsSet("days") {
		days = c.Int("days")
	}
	if err := validateDays(days); err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	analyzer := trend.New(
		trend.WithWindow(days),
		trend.WithStabilityPct(cfg.Trend.StabilityPct),
	)
	trends := analyzer.Analyze(store.All())
	if len(trends) == 0 {
		color.Yellow("Not enough history in the window to fit trends")
		return nil
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(renderTrends(trends))
}
