package main

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/sangeet/internal/formatter"
	"github.com/desertthunder/sangeet/internal/models"
	"github.com/desertthunder/sangeet/internal/shared"
	"github.com/desertthunder/sangeet/internal/tasks"
)

func (r *Runner) dashboardCoordinator() (*tasks.DashboardCoordinator, error) {
	store, err := r.Store()
	if err != nil {
		return nil, err
	}
	cfg := r.Config().Dashboard
	return tasks.NewDashboardCoordinator(store, r.notifier, shared.WithLogger(r.logger, "component", "dashboard"), tasks.DashboardOptions{
		RecentLimit:      cfg.RecentLimit,
		RecommendedLimit: cfg.RecommendedLimit,
	}), nil
}

// Dashboard loads the four dashboard reads and prints the snapshot.
//
// Partial failures still print whatever loaded; the error flag and message are part of the output.
func (r *Runner) Dashboard(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.CurrentUser(ctx)
	if err != nil {
		return err
	}

	dashboard, err := r.dashboardCoordinator()
	if err != nil {
		return err
	}

	result := <-dashboard.RefreshAsync(ctx, userID, nil)
	snapshot := result.Value
	if errors.Is(result.Err, shared.ErrValidation) {
		return result.Err
	}

	if cmd.Bool("json") {
		return r.writeJSON(snapshot, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Dashboard")
	if snapshot.Profile != nil {
		r.writePlain("Signed in as %s\n", snapshot.Profile.Name)
	}
	if snapshot.HasError {
		r.writePlain("⚠ %s\n", snapshot.ErrorMessage)
	}

	favorites := tasks.FavoriteSet(snapshot.Favorites)
	r.writeTrackSection("Recently Played", snapshot.Recent, favorites)
	r.writeTrackSection("Recommended", snapshot.Recommended, favorites)
	r.writeTrackSection("Favorites", snapshot.Favorites, favorites)

	r.writePlainln("Playlists (%d)", len(snapshot.Playlists))
	for i, p := range snapshot.Playlists {
		r.writePlain("%d. %s (%d tracks) [%s]\n", i+1, p.Name, p.TrackCount(), p.ID)
	}
	return nil
}

func (r *Runner) writeTrackSection(title string, tracks []models.Track, favorites map[string]bool) {
	r.writePlainln("%s (%d)", title, len(tracks))
	if len(tracks) == 0 {
		r.writePlain("  nothing here yet\n")
		return
	}
	for i, t := range tracks {
		mark := ""
		if favorites[t.ID] {
			mark = "♥ "
		}
		r.writePlain("%d. %s%s - %s (%s) [%s]\n", i+1, mark, t.Artist, t.Title, shared.FormatDuration(t.Duration), t.ID)
	}
}

// Library prints the most recent uploads, newest first, alongside the favorites list.
func (r *Runner) Library(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.CurrentUser(ctx)
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
	favorites, err := store.ReadFavorites(ctx, userID)
	if err != nil {
		return err
	}
	recent := tasks.LibraryRecent(tracks)

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"recent": recent, "favorites": favorites}, cmd.Bool("pretty"))
	}

	set := tasks.FavoriteSet(favorites)
	r.writePlainHeader("Library")
	r.writeTrackSection("Latest uploads", recent, set)
	r.writeTrackSection("Favorites", favorites, set)
	if len(recent) > 0 {
		r.writePlain("\nLast upload %s\n", formatter.Ago(recent[0].UploadedAt))
	}
	return nil
}
