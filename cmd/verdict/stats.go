package main

import (
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/KlikkAI/verdict/pkg/history"
	"github.com/KlikkAI/verdict/pkg/metrics"
)

func statsCmd() *cli.Command {
	flags := append(outputFlags(),
		&cli.IntFlag{
			Name:    "days",
			Aliases: []string{"d"},
			Value:   30,
			Usage:   "Statistics window in days (0 for full history)",
		},
		&cli.StringFlag{
			Name:    "metric",
			Aliases: []string{"m"},
			Usage:   "Limit to a single metric key (e.g. buildTime)",
		},
	)
	return &cli.Command{
		Name:   "stats",
		Usage:  "Show per-metric window statistics",
		Flags:  flags,
		Action: runStatsCmd,
	}
}

func runStatsCmd(c *cli.Context) error {
	cfg := loadConfig(c)
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	days := c.Int("days")

	selected := metrics.All()
	if key := c.String("metric"); key != "" {
		m, err := metrics.Parse(key)
		if err != nil {
			return err
		}
		selected = []metrics.Metric{m}
	}

	var stats []history.Stats
	for _, m := range selected {
		s := store.Statistics(m, days)
		if s.Count > 0 {
			stats = append(stats, s)
		}
	}
	if len(stats) == 0 {
		color.Yellow("No snapshots in the window")
		return nil
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(renderStats(stats))
}
