// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// convertCommand runs a one-shot playlist conversion from the terminal
func convertCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "convert",
		Aliases: []string{"conv"},
		Usage:   "Convert a playlist URL to another platform's catalog",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "url",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   "Target platform name",
				Value:   "youtube_music",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Save the result as a shareable session",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the playback link in a browser",
			},
		},
		Action: r.Convert,
	}
}

// platformsCommand lists registered platforms
func platformsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "platforms",
		Aliases: []string{"plat"},
		Usage:   "List supported platforms",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "sources",
				Usage: "Only platforms that can be converted from",
			},
			&cli.BoolFlag{
				Name:  "targets",
				Usage: "Only platforms that can be converted to",
			},
		},
		Action: r.Platforms,
	}
}

// sessionCommand handles saved session operations
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "session",
		Aliases: []string{"sess"},
		Usage:   "Inspect and manage saved conversion sessions",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Print a saved session by code",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "code",
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
				Action: r.SessionGet,
			},
			{
				Name:  "ttl",
				Usage: "Show remaining session lifetime",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "code",
					},
				},
				Action: r.SessionTTL,
			},
			{
				Name:  "delete",
				Usage: "Delete a saved session",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "code",
					},
				},
				Action: r.SessionDelete,
			},
			{
				Name:  "export",
				Usage: "Export a saved session as CSV or Markdown",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "code",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv or markdown",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.SessionExport,
			},
		},
	}
}

// serveCommand starts the HTTP API server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the conversion API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand initializes configuration and the session database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a config file and initialize the session database",
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
