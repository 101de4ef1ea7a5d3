package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/sangeet/internal/shared"
	"github.com/desertthunder/sangeet/internal/tasks"
)

func (r *Runner) libraryCoordinator() (*tasks.LibraryCoordinator, error) {
	store, err := r.Store()
	if err != nil {
		return nil, err
	}
	return tasks.NewLibraryCoordinator(store, nil, r.notifier, shared.WithLogger(r.logger, "component", "library")), nil
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := strings.TrimSpace(cmd.StringArg(name))
	if v == "" {
		return "", fmt.Errorf("%w: <%s>", shared.ErrMissingArgument, name)
	}
	return v, nil
}

// trackLabel names a track as "Artist - Title", falling back to its id when it cannot be read.
func (r *Runner) trackLabel(ctx context.Context, trackID string) string {
	store, err := r.Store()
	if err != nil {
		return trackID
	}
	track, err := store.ReadTrack(ctx, trackID)
	if err != nil {
		r.logger.Debug("track lookup failed", "track", trackID, "error", err)
		return trackID
	}
	return fmt.Sprintf("%s - %s", track.Artist, track.Title)
}

// FavoriteToggle flips a track's favorite membership for the signed-in user.
func (r *Runner) FavoriteToggle(ctx context.Context, cmd *cli.Command) error {
	trackID, err := requireArg(cmd, "track-id")
	if err != nil {
		return err
	}
	userID, err := r.CurrentUser(ctx)
	if err != nil {
		return err
	}
	library, err := r.libraryCoordinator()
	if err != nil {
		return err
	}

	result := <-library.ToggleFavoriteAsync(ctx, userID, trackID, nil)
	if result.Err != nil {
		return result.Err
	}

	label := r.trackLabel(ctx, trackID)
	if result.Value.Favorited {
		r.writePlain("♥ Added %s to favorites\n", label)
	} else {
		r.writePlain("Removed %s from favorites\n", label)
	}
	return r.writePlain("%d favorites\n", len(result.Value.Favorites))
}

// PlaylistCreate creates an empty playlist owned by the signed-in user.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.CurrentUser(ctx)
	if err != nil {
		return err
	}
	library, err := r.libraryCoordinator()
	if err != nil {
		return err
	}

	playlist, err := library.CreatePlaylist(ctx, userID, cmd.StringArg("name"), cmd.String("description"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Created playlist %s [%s]\n", playlist.Name, playlist.ID)
}

// PlaylistList prints the signed-in user's playlists.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.CurrentUser(ctx)
	if err != nil {
		return err
	}
	store, err := r.Store()
	if err != nil {
		return err
	}

	playlists, err := store.ReadPlaylists(ctx, userID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   %s\n", p.Description)
		}
		r.writePlain("   ID: %s • %d tracks\n", p.ID, p.TrackCount())
	}
	return nil
}

// PlaylistAdd appends a track to a playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	playlistID, err := requireArg(cmd, "playlist-id")
	if err != nil {
		return err
	}
	trackID, err := requireArg(cmd, "track-id")
	if err != nil {
		return err
	}
	library, err := r.libraryCoordinator()
	if err != nil {
		return err
	}

	result := <-library.AttachToPlaylistAsync(ctx, playlistID, trackID, nil)
	if result.Err != nil {
		return result.Err
	}
	return r.writePlain("✓ Added %s to playlist %s\n", r.trackLabel(ctx, trackID), playlistID)
}

// PlaylistRename changes the name and, with --description, the description of one of the user's playlists.
func (r *Runner) PlaylistRename(ctx context.Context, cmd *cli.Command) error {
	playlistID, err := requireArg(cmd, "playlist-id")
	if err != nil {
		return err
	}
	name, err := requireArg(cmd, "name")
	if err != nil {
		return err
	}
	userID, err := r.CurrentUser(ctx)
	if err != nil {
		return err
	}
	library, err := r.libraryCoordinator()
	if err != nil {
		return err
	}

	playlist, err := library.RenamePlaylist(ctx, userID, playlistID, name, cmd.String("description"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Renamed playlist %s to %s\n", playlist.ID, playlist.Name)
}

// PlaylistDelete removes one of the user's playlists.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	playlistID, err := requireArg(cmd, "playlist-id")
	if err != nil {
		return err
	}
	userID, err := r.CurrentUser(ctx)
	if err != nil {
		return err
	}
	library, err := r.libraryCoordinator()
	if err != nil {
		return err
	}

	if err := library.DeletePlaylist(ctx, userID, playlistID); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted playlist %s\n", playlistID)
}
