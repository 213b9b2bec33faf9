// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// browseCommand lists the catalog's songs.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"ls"},
		Usage:   "Browse the song catalog in discovery order",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "genre",
				Usage: "Filter by genre",
			},
			&cli.BoolFlag{
				Name:  "latest",
				Usage: "Order by newest upload instead of discovery ranking",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Browse,
	}
}

// artistCommand handles musician roster operations
func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artist",
		Usage: "Musician roster operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List the label's musicians",
				Flags:  jsonFlags(),
				Action: r.ArtistList,
			},
			{
				Name:  "show",
				Usage: "Show a musician's profile, songs, and donations",
				Flags: append(jsonFlags(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Musician ID or artist name",
						Required: true,
					},
				),
				Action: r.ArtistShow,
			},
			{
				Name:  "update",
				Usage: "Update the signed-in musician's profile",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "New artist name"},
					&cli.StringFlag{Name: "bio", Usage: "New biography"},
					&cli.StringFlag{Name: "photo", Usage: "New profile photo URI"},
					&cli.StringFlag{Name: "email", Usage: "Musician account email", Required: true},
				},
				Action: r.ArtistUpdate,
			},
		},
	}
}

// songCommand handles song lifecycle and playback
func songCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "song",
		Usage: "Song lifecycle and playback",
		Commands: []*cli.Command{
			{
				Name:  "upload",
				Usage: "Upload a song as the given musician",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Musician account email", Required: true},
					&cli.StringFlag{Name: "title", Usage: "Song title", Required: true},
					&cli.StringFlag{Name: "genre", Usage: "Song genre"},
					&cli.StringFlag{Name: "description", Usage: "Song description"},
					&cli.StringFlag{Name: "cover", Usage: "Cover art URI"},
					&cli.StringFlag{Name: "audio", Usage: "Audio source URI", Required: true},
				},
				Action: r.SongUpload,
			},
			{
				Name:  "delete",
				Usage: "Delete a song owned by the given musician",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Musician account email", Required: true},
					&cli.StringFlag{Name: "id", Usage: "Song ID", Required: true},
				},
				Action: r.SongDelete,
			},
			{
				Name:  "play",
				Usage: "Play a song for a few seconds and report the session state",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Song ID", Required: true},
					&cli.IntFlag{Name: "seconds", Usage: "How long to listen", Value: 2},
				},
				Action: r.SongPlay,
			},
		},
	}
}

// accountCommand handles identity operations
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Sign in, register, and manage likes",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in by email",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Account email", Required: true},
					&cli.StringFlag{
						Name:  "as",
						Usage: "Account kind: listener or musician",
						Value: "listener",
					},
				},
				Action: r.AccountLogin,
			},
			{
				Name:  "register-listener",
				Usage: "Create a listener account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "username", Usage: "Display username", Required: true},
				},
				Action: r.AccountRegisterListener,
			},
			{
				Name:  "register-musician",
				Usage: "Create a musician account with a drafted biography",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Artist name", Required: true},
					&cli.StringSliceFlag{Name: "genre", Usage: "Genre (repeatable)", Required: true},
				},
				Action: r.AccountRegisterMusician,
			},
			{
				Name:  "like",
				Usage: "Toggle a like on a song as the given listener",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Listener account email", Required: true},
					&cli.StringFlag{Name: "song", Usage: "Song ID", Required: true},
				},
				Action: r.AccountLike,
			},
			{
				Name:  "follow",
				Usage: "Toggle following an artist as the given listener",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Listener account email", Required: true},
					&cli.StringFlag{Name: "artist", Usage: "Musician ID", Required: true},
				},
				Action: r.AccountFollow,
			},
		},
	}
}

// donateCommand records donations
func donateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "donate",
		Usage: "Send a donation to a musician or the label",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "to",
				Usage: "Recipient musician ID, or 'label'",
				Value: "label",
			},
			&cli.FloatFlag{Name: "amount", Usage: "Donation amount", Required: true},
			&cli.StringFlag{Name: "message", Usage: "Optional message"},
			&cli.StringFlag{Name: "from", Usage: "Donor account email (omit for anonymous)"},
			&cli.StringFlag{
				Name:  "as",
				Usage: "Donor account kind: listener or musician",
				Value: "listener",
			},
		},
		Action: r.Donate,
	}
}

// exportCommand writes catalog exports to disk
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export artist data to disk",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown, txt",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
			&cli.StringSliceFlag{
				Name:  "artist",
				Usage: "Musician ID to export (repeatable; all artists when omitted)",
			},
			&cli.IntFlag{Name: "workers", Usage: "Concurrent export workers"},
			&cli.BoolFlag{Name: "photos", Usage: "Download profile photos for markdown exports"},
		},
		Action: r.Export,
	}
}

// setupCommand initializes configuration and the database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and verify the database",
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

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive catalog browser",
		Action: r.TUI,
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
	}
}
