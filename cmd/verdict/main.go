package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func main() {
	app := &cli.App{
		Name:    "verdict",
		Usage:   "Monorepo validation and metrics analytics",
		Version: version,
		Description: `Verdict runs phased validation over checker measurements, tracks metric
history, and derives trends, regressions, benchmark scores, and
recommendations from it.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"VERDICT_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		},
		Commands: []*cli.Command{
			runCmd(),
			trendsCmd(),
			regressionsCmd(),
			statsCmd(),
			exportCmd(),
			benchmarkCmd(),
			recommendCmd(),
			reportCmd(),
			initCmd(),
			clearCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
