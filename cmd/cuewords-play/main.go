package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "cuewords-play",
		Usage: "step through bilingual subtitles and look up words from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to configuration file",
				EnvVars: []string{"CUEWORDS_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "server",
				Usage:   "cuewords server URL; subtitles and lookups go through it",
				EnvVars: []string{"CUEWORDS_SERVER"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "debug, info, warn or error",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			seasonsCommand(),
			showCommand(),
			lookupCommand(),
			playCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
