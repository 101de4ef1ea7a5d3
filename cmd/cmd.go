// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, uploadCommand, dashboardCommand, libraryCommand, tracksCommand,
		favoriteCommand, playlistCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}
}

func prettyFlag() cli.Flag {
	return &cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output", Value: true}
}

// setupCommand prepares the configuration file and database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file from the built-in template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Create the database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "status",
				Usage:  "Show applied migrations",
				Action: r.SetupStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// authCommand manages the signed-in session
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in, inspect or clear the current session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with the configured identity provider",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "user-id",
						Usage: "Create a local session for this user id instead of using OAuth",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name for a local session",
					},
					&cli.StringFlag{
						Name:  "email",
						Usage: "Email for a local session",
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the signed-in user",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Remove the stored session",
				Action: r.AuthLogout,
			},
		},
	}
}

// uploadCommand uploads a track with its cover art
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "upload",
		Usage: "Upload an audio file and optional cover image as a new track",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "audio", Aliases: []string{"a"}, Usage: "Path to the audio file"},
			&cli.StringFlag{Name: "image", Aliases: []string{"i"}, Usage: "Path to the cover image"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Track title (defaults to the audio tags)"},
			&cli.StringFlag{Name: "artist", Usage: "Track artist (defaults to the audio tags)"},
			&cli.StringFlag{Name: "genre", Usage: "Track genre"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Track description"},
			&cli.StringFlag{Name: "duration", Usage: "Duration in seconds"},
			&cli.BoolFlag{Name: "interactive", Usage: "Fill in the track details with a form"},
			jsonFlag(),
		},
		Action: r.Upload,
	}
}

// dashboardCommand prints a dashboard snapshot
func dashboardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "dashboard",
		Usage:  "Load tracks, profile, favorites and playlists",
		Flags:  []cli.Flag{jsonFlag(), prettyFlag()},
		Action: r.Dashboard,
	}
}

// libraryCommand prints the library view
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "library",
		Usage:  "Show the latest uploads and your favorites",
		Flags:  []cli.Flag{jsonFlag(), prettyFlag()},
		Action: r.Library,
	}
}

// tracksCommand exports the track list
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "List all tracks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json, csv, markdown, txt",
				Value:   "txt",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
			&cli.StringFlag{
				Name:  "uploader",
				Usage: "Only tracks uploaded by this user id",
			},
		},
		Action: r.Tracks,
	}
}

// favoriteCommand toggles favorites
func favoriteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorite",
		Aliases: []string{"fav"},
		Usage:   "Manage favorites",
		Commands: []*cli.Command{
			{
				Name:      "toggle",
				Usage:     "Add a track to favorites, or remove it if already there",
				Arguments: []cli.Argument{&cli.StringArg{Name: "track-id"}},
				Action:    r.FavoriteToggle,
			},
		},
	}
}

// playlistCommand manages playlists
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Manage playlists",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create an empty playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Playlist description"},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:   "list",
				Usage:  "List your playlists",
				Flags:  []cli.Flag{jsonFlag(), prettyFlag()},
				Action: r.PlaylistList,
			},
			{
				Name:  "add",
				Usage: "Append a track to a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist-id"},
					&cli.StringArg{Name: "track-id"},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:  "rename",
				Usage: "Rename a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist-id"},
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "New playlist description"},
				},
				Action: r.PlaylistRename,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "playlist-id"}},
				Action:    r.PlaylistDelete,
			},
		},
	}
}

// serveCommand runs the media server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve locally stored media over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address (defaults to server.host:server.port)"},
		},
		Action: r.Serve,
	}
}

// tuiCommand launches the terminal dashboard
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the dashboard is running",
				Value: "./tmp/sangeet-tui.log",
			},
		},
		Action: r.TUI,
	}
}
