package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/podx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	app := newApp(NewRunner(RunnerOpts{Logger: logger}))

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}

// newApp builds the root command. Without a subcommand it opens the TUI.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "podx",
		Usage:   "Discover, subscribe to and queue podcasts",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level (debug, info, warn, error)",
			},
		},
		Before:   r.Init,
		After:    r.Close,
		Action:   r.TUI,
		Commands: r.register(),
	}
}
