// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles configuration and database initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and initialize the database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// importCommand resolves a CSV of favorites in one batch.
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import a CSV of favorites and resolve every row",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "file",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Persist resolved songs to the database",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output results as JSON",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Abort the batch after this duration (0 waits forever)",
			},
		},
		Action: r.Import,
	}
}

// resolveCommand resolves a single row given on the command line.
func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Resolve one song by video id or by title and author",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "id",
				Usage: "Video id to look up directly",
			},
			&cli.StringFlag{
				Name:    "title",
				Aliases: []string{"t"},
				Usage:   "Song title to search for",
			},
			&cli.StringFlag{
				Name:    "author",
				Aliases: []string{"a"},
				Usage:   "Author or channel name to search for",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Abort the lookup after this duration (0 waits forever)",
			},
		},
		Action: r.Resolve,
	}
}

// proxyCommand inspects and changes the worker's URL rewrite scheme.
func proxyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "proxy",
		Usage: "Inspect or change the active proxy rewrite scheme",
		Commands: []*cli.Command{
			{
				Name:   "get",
				Usage:  "Show the worker's active scheme",
				Action: r.ProxyGet,
			},
			{
				Name:  "set",
				Usage: "Activate a configured scheme by name, or a raw pattern",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "pattern",
						Usage: "Raw rewrite pattern with <%...%> placeholders",
					},
					&cli.BoolFlag{
						Name:  "encode",
						Usage: "Percent-encode substituted components (with --pattern)",
						Value: true,
					},
				},
				Action: r.ProxySet,
			},
			{
				Name:   "list",
				Usage:  "List the configured candidate schemes",
				Action: r.ProxyList,
			},
		},
	}
}

// exportCommand writes persisted songs in a chosen format.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export persisted songs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: csv, json or markdown",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "batch",
				Aliases: []string{"b"},
				Usage:   "Export only this batch id",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout)",
			},
		},
		Action: r.Export,
	}
}

// tuiCommand launches the interactive batch review screen.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Import a CSV and review the batch interactively",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "file",
			},
		},
		Action: r.TUI,
	}
}
