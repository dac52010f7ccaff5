// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the database and configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the latest migration (it is re-applied the next time the database is opened)",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write the default configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing configuration file",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// searchCommand searches the podcast directory.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the podcast directory for shows",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Search,
	}
}

// showsCommand lists subscribed shows.
func showsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "shows",
		Aliases: []string{"library"},
		Usage:   "List subscribed shows",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "match",
				Aliases: []string{"m"},
				Usage:   "Fuzzy match show titles",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Shows,
	}
}

// episodesCommand lists or exports stored episodes.
func episodesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "episodes",
		Usage: "List or export stored episodes",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "show",
				Usage: "Only episodes of this show ID",
			},
			&cli.BoolFlag{
				Name:  "queue",
				Usage: "Only queued episodes, in queue order",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: txt, json, csv or markdown",
				Value:   "txt",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to this file (a directory for markdown) instead of stdout",
			},
		},
		Action: r.Episodes,
	}
}

// subscribeCommand subscribes to or unsubscribes from a show.
func subscribeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "subscribe",
		Usage: "Subscribe to a show by its directory ID",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "remove",
				Aliases: []string{"r"},
				Usage:   "Unsubscribe instead",
			},
		},
		Action: r.Subscribe,
	}
}

// queueCommand adds an episode to or removes it from the queue.
func queueCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "queue",
		Usage: "Add a stored episode to the queue",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "episode-id",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "remove",
				Aliases: []string{"r"},
				Usage:   "Remove from the queue instead",
			},
		},
		Action: r.Queue,
	}
}

// openCommand opens an episode's web link.
func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "open",
		Usage: "Open a stored episode's page (or media) in the browser",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "episode-id",
			},
		},
		Action: r.Open,
	}
}

// refreshCommand fetches new episodes for every subscribed show.
func refreshCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "refresh",
		Usage: "Fetch new episodes for subscribed shows",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Concurrent directory requests (default from config)",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Directory requests per second (default from config)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the refresh summary as JSON",
			},
		},
		Action: r.Refresh,
	}
}

// cacheCommand manages the directory response cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the directory response cache",
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Drop every cached response",
				Action: r.CacheClear,
			},
			{
				Name:   "prune",
				Usage:  "Drop expired responses",
				Action: r.CachePrune,
			},
		},
	}
}

// apiCommand handles direct directory API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the Podcast Index API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Signed GET against the API, prints the response",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "param",
						Aliases: []string{"p"},
						Usage:   "Query parameter as key=value (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive podcast browser (default)",
		Action:  r.TUI,
	}
}
