package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export recorded history as CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write CSV to file instead of stdout",
			},
		},
		Action: runExportCmd,
	}
}

func runExportCmd(c *cli.Context) error {
	cfg := loadConfig(c)
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	w := os.Stdout
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}

	if err := store.ExportCSV(w); err != nil {
		return err
	}
	if path := c.String("output"); path != "" {
		color.Green("Exported %d snapshots to %s", store.Len(), path)
	}
	return nil
}
