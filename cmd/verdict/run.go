package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/KlikkAI/verdict/internal/progress"
	"github.com/KlikkAI/verdict/internal/vcs"
	"github.com/KlikkAI/verdict/pkg/checker"
	"github.com/KlikkAI/verdict/pkg/metrics"
	"github.com/KlikkAI/verdict/pkg/pipeline"
)

func runCmd() *cli.Command {
	flags := append(outputFlags(),
		&cli.StringFlag{
			Name:  "environment",
			Value: "local",
			Usage: "Environment label recorded with the snapshot",
		},
		&cli.StringFlag{
			Name:  "triggered-by",
			Value: "manual",
			Usage: "Trigger label recorded with the snapshot",
		},
	)
	return &cli.Command{
		Name:      "run",
		Usage:     "Run the validation pipeline over a measurements bundle",
		ArgsUsage: "<measurements.json>",
		Flags:     flags,
		Action:    runRunCmd,
	}
}

func runRunCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one measurements bundle, got %d arguments", c.Args().Len())
	}
	bundlePath := c.Args().First()

	bundle, err := checker.LoadBundle(bundlePath)
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
		Environment: c.String("environment"),
		TriggeredBy: c.String("triggered-by"),
	}

	controller := pipeline.New(
		pipeline.WithStore(store),
		pipeline.WithObserver(progress.NewRunObserver(c.Bool("verbose"))),
	)

	result, err := controller.Run(c.Context, bundle, meta)
	if err != nil {
		return fmt.Errorf("validation run failed: %w", err)
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(renderValidation(result))
}
