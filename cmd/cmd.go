// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes the config file and the offline cache index.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize config file and offline cache index",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// catalogCommand handles local collection listings
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Browse the local collection",
		Commands: []*cli.Command{
			{
				Name:  "artists",
				Usage: "List artists in the collection",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: plain, csv, markdown",
						Value: "plain",
					},
				},
				Action: r.CatalogArtists,
			},
			{
				Name:  "songs",
				Usage: "List songs of one artist",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "artist",
						Aliases:  []string{"a"},
						Usage:    "Artist ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CatalogSongs,
			},
		},
	}
}

// searchCommand queries the external catalog
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the external catalog",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "artist",
				Usage: "Artist name to scope the search",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: plain, csv, markdown",
				Value: "plain",
			},
		},
		Action: r.SearchCatalog,
	}
}

// addCommand imports a search result into an artist's collection
func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a song from the external catalog to an artist's collection",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "artist",
				Aliases:  []string{"a"},
				Usage:    "Artist ID to import into",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "name",
				Usage:    "Song name",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "url",
				Usage:    "Source URL of the song",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "source",
				Usage:    "Source catalog the song comes from",
				Required: true,
			},
		},
		Action: r.AddSong,
	}
}

// playCommand streams one song through the external player
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play a song (blocks until playback ends or interrupt)",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "id",
				Usage:    "Song ID",
				Required: true,
			},
		},
		Action: r.PlaySong,
	}
}

// fetchCommand downloads a song file
func fetchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Download a song file to disk",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "id",
				Usage:    "Song ID",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path",
			},
		},
		Action: r.FetchSong,
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive catalog browser",
		Flags:  []cli.Flag{configFlag()},
		Action: r.TUI,
	}
}
