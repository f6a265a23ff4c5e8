package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/KlikkAI/verdict/pkg/analyzer/recommend"
	"github.com/KlikkAI/verdict/pkg/checker"
)

func recommendCmd() *cli.Command {
	return &cli.Command{
		Name:      "recommend",
		Aliases:   []string{"rec"},
		Usage:     "Derive recommendations from a measurements bundle",
		ArgsUsage: "<measurements.json>",
		Flags:     outputFlags(),
		Action:    runRecommendCmd,
	}
}

func runRecommendCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one measurements bundle, got %d arguments", c.Args().Len())
	}

	bundle, err := checker.LoadBundle(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to load measurements bundle: %w", err)
	}

	recs := recommend.New().Generate(bundle.Normalize())
	if len(recs) == 0 {
		color.Green("No recommendations; everything within thresholds")
		return nil
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(renderRecommendations(recs))
}
