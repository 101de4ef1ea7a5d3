package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/sangeet/internal/formatter"
	"github.com/desertthunder/sangeet/internal/models"
	"github.com/desertthunder/sangeet/internal/tasks"
)

// Tracks exports every track in the chosen format, to stdout or --output.
//
// When a session exists, the signed-in user's favorites are marked.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	store, err := r.Store()
	if err != nil {
		return err
	}

	tracks, err := store.ReadAllTracks(ctx)
	if err != nil {
		return err
	}
	if uploader := cmd.String("uploader"); uploader != "" {
		tracks = filterByUploader(tracks, uploader)
	}

	list := formatter.TrackList{Title: "Tracks", Tracks: tracks}
	if userID, err := r.CurrentUser(ctx); err == nil {
		if favorites, err := store.ReadFavorites(ctx, userID); err == nil {
			list.Favorites = tasks.FavoriteSet(favorites)
		} else {
			r.logger.Warn("failed to load favorites", "error", err)
		}
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteFile(path, list, format); err != nil {
			return err
		}
		r.logger.Info("tracks exported", "path", path, "format", format, "count", len(tracks))
		return r.writePlain("✓ Exported %d tracks to %s\n", len(tracks), path)
	}

	if err := formatter.Write(r.output, list, format); err != nil {
		return fmt.Errorf("failed to write tracks: %w", err)
	}
	return nil
}

func filterByUploader(tracks []models.Track, uploader string) []models.Track {
	out := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.UploadedBy == uploader {
			out = append(out, t)
		}
	}
	return out
}
