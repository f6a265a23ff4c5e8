package main

import (
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/KlikkAI/verdict/pkg/analyzer/regression"
)

func regressionsCmd() *cli.Command {
	flags := append(outputFlags(),
		&cli.IntFlag{
			Name:  "baseline-days",
			Value: 7,
			Usage: "Baseline window in days",
		},
		&cli.IntFlag{
			Name:  "recent-days",
			Value: 2,
			Usage: "Recent window in days",
		},
	)
	return &cli.Command{
		Name:    "regressions",
		Aliases: []string{"rg"},
		Usage:   "Detect metric regressions against a baseline window",
		Flags:   flags,
		Action:  runRegressionsCmd,
	}
}

func runRegressionsCmd(c *cli.Context) error {
	cfg := loadConfig(c)

	baselineDays := cfg.Regression.BaselineDays
	if c.IsSet("baseline-days") {
		baselineDays = c.Int("baseline-days")
	}
	recentDays := cfg.Regression.RecentDays
	if c.IsSet("recent-days") {
		recentDays = c.Int("recent-days")
	}
	if err := validateDays(baselineDays); err != nil {
		return err
	}
	if err := validateDays(recentDays); err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	detector := regression.New(
		regression.WithBaselineDays(baselineDays),
		regression.WithRecentDays(recentDays),
	)
	regs := detector.Detect(store.All())
	if len(regs) == 0 {
		color.Green("No regressions detected")
		return nil
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(renderRegressions(regs))
}
