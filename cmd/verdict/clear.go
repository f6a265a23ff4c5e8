package main

import (
	"errors"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func clearCmd() *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Delete all recorded history",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "yes",
				Usage: "Skip confirmation",
			},
		},
		Action: runClearCmd,
	}
}

func runClearCmd(c *cli.Context) error {
	if !c.Bool("yes") {
		return errors.New("refusing to clear history without --yes")
	}

	cfg := loadConfig(c)
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	n := store.Len()
	if err := store.Clear(); err != nil {
		return err
	}
	color.Green("Cleared %d snapshots", n)
	return nil
}
