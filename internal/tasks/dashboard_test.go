package tasks_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/sangeet/internal/models"
	"github.com/desertthunder/sangeet/internal/shared"
	"github.com/desertthunder/sangeet/internal/tasks"
	tu "github.com/desertthunder/sangeet/internal/testing"
)

func seededStore(n int) *tu.FakeStore {
	store := tu.NewFakeStore()
	for i := range n {
		store.AddTracks(models.Track{ID: string(rune('a' + i)), Title: "T", Artist: "A"})
	}
	store.AddUser(models.User{ID: "u1", Name: "Asha"})
	store.AddPlaylist(models.Playlist{ID: "p1", Owner: "u1", Name: "Mix"})
	return store
}

func TestDashboardRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("AllReadsSucceed", func(t *testing.T) {
		store := seededStore(3)
		if _, err := store.ToggleFavorite(ctx, "u1", "b"); err != nil {
			t.Fatal(err)
		}
		d := tasks.NewDashboardCoordinator(store, nil, quietLogger(), tasks.DashboardOptions{})

		if err := d.Refresh(ctx, "u1", nil); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}

		if len(d.Tracks.Get()) != 3 {
			t.Errorf("expected 3 tracks, got %d", len(d.Tracks.Get()))
		}
		if p := d.Profile.Get(); p == nil || p.Name != "Asha" {
			t.Errorf("unexpected profile %+v", p)
		}
		if favs := d.Favorites.Get(); len(favs) != 1 || favs[0].ID != "b" {
			t.Errorf("unexpected favorites %+v", favs)
		}
		if len(d.Playlists.Get()) != 1 {
			t.Errorf("expected 1 playlist, got %d", len(d.Playlists.Get()))
		}
		if d.HasError.Get() || d.Loading.Get() {
			t.Error("expected no error and loading finished")
		}
	})

	t.Run("FavoritesFailureLeavesOthers", func(t *testing.T) {
		store := seededStore(2)
		store.Fail("ReadFavorites", errBackend)
		notes := &tu.RecordingNotifier{}
		d := tasks.NewDashboardCoordinator(store, notes, quietLogger(), tasks.DashboardOptions{})

		err := d.Refresh(ctx, "u1", nil)
		if !errors.Is(err, shared.ErrRead) || !errors.Is(err, errBackend) {
			t.Fatalf("expected wrapped ErrRead, got %v", err)
		}

		if !d.HasError.Get() {
			t.Error("expected error flag to be set")
		}
		if d.ErrorMessage.Get() == "" {
			t.Error("expected error message")
		}
		if len(d.Tracks.Get()) != 2 || d.Profile.Get() == nil || len(d.Playlists.Get()) != 1 {
			t.Error("expected the other three slots to be updated")
		}
		if len(d.Favorites.Get()) != 0 {
			t.Error("expected favorites slot untouched")
		}

		msgs := notes.Messages(tasks.LevelError)
		if len(msgs) != 1 || !strings.HasPrefix(msgs[0], "Error refreshing: ") {
			t.Errorf("unexpected notifications %v", msgs)
		}

		for _, m := range []string{"ReadAllTracks", "ReadUser", "ReadFavorites", "ReadPlaylists"} {
			if store.Calls(m) != 1 {
				t.Errorf("expected one %s call, got %d", m, store.Calls(m))
			}
		}
	})

	t.Run("RetryClearsError", func(t *testing.T) {
		store := seededStore(1)
		store.Fail("ReadPlaylists", errBackend)
		d := tasks.NewDashboardCoordinator(store, nil, quietLogger(), tasks.DashboardOptions{})

		if err := d.Refresh(ctx, "u1", nil); err == nil {
			t.Fatal("expected error on first refresh")
		}

		store.Fail("ReadPlaylists", nil)
		if err := d.Refresh(ctx, "u1", nil); err != nil {
			t.Fatalf("retry error = %v", err)
		}
		if d.HasError.Get() || d.ErrorMessage.Get() != "" {
			t.Error("expected error flag cleared after successful retry")
		}
		if store.Calls("ReadAllTracks") != 2 {
			t.Error("expected retry to re-issue every read")
		}
	})

	t.Run("AllReadsFail", func(t *testing.T) {
		store := seededStore(1)
		for _, m := range []string{"ReadAllTracks", "ReadUser", "ReadFavorites", "ReadPlaylists"} {
			store.Fail(m, errBackend)
		}
		notes := &tu.RecordingNotifier{}
		d := tasks.NewDashboardCoordinator(store, notes, quietLogger(), tasks.DashboardOptions{})

		err := d.Refresh(ctx, "u1", nil)
		var joined interface{ Unwrap() []error }
		if !errors.As(err, &joined) || len(joined.Unwrap()) != 4 {
			t.Fatalf("expected four joined errors, got %v", err)
		}
		if len(notes.Messages(tasks.LevelError)) != 4 {
			t.Errorf("expected four notifications, got %d", len(notes.Messages(tasks.LevelError)))
		}
	})

	t.Run("MissingUser", func(t *testing.T) {
		store := seededStore(1)
		d := tasks.NewDashboardCoordinator(store, nil, quietLogger(), tasks.DashboardOptions{})

		if err := d.Refresh(ctx, "", nil); !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
		if store.TotalCalls() != 0 || !d.HasError.Get() {
			t.Error("expected no reads and the error flag set")
		}
	})

	t.Run("SubscribersSeeUpdates", func(t *testing.T) {
		store := seededStore(2)
		d := tasks.NewDashboardCoordinator(store, nil, quietLogger(), tasks.DashboardOptions{})

		var (
			mu      sync.Mutex
			loading []bool
			tracks  int
		)
		d.Loading.Subscribe(func(v bool) {
			mu.Lock()
			loading = append(loading, v)
			mu.Unlock()
		})
		unsubscribe := d.Tracks.Subscribe(func(v []models.Track) {
			mu.Lock()
			tracks = len(v)
			mu.Unlock()
		})
		defer unsubscribe()

		if err := d.Refresh(ctx, "u1", nil); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}

		mu.Lock()
		defer mu.Unlock()
		if tracks != 2 {
			t.Errorf("expected subscriber to see 2 tracks, got %d", tracks)
		}
		if len(loading) != 2 || !loading[0] || loading[1] {
			t.Errorf("expected loading true then false, got %v", loading)
		}
	})

	t.Run("ProgressCoversEveryRead", func(t *testing.T) {
		d := tasks.NewDashboardCoordinator(seededStore(1), nil, quietLogger(), tasks.DashboardOptions{})
		progress := make(chan tasks.ProgressUpdate, 16)

		if err := d.Refresh(ctx, "u1", progress); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		close(progress)

		seen := map[string]int{}
		for u := range progress {
			seen[u.Phase.String()]++
		}
		for _, phase := range []string{"fetch_tracks", "fetch_profile", "fetch_favorites", "fetch_playlists"} {
			if seen[phase] != 2 {
				t.Errorf("expected start and done updates for %s, got %d", phase, seen[phase])
			}
		}
	})

	t.Run("AsyncSnapshot", func(t *testing.T) {
		store := seededStore(20)
		d := tasks.NewDashboardCoordinator(store, nil, quietLogger(), tasks.DashboardOptions{RecentLimit: 4, RecommendedLimit: 3})

		res := <-d.RefreshAsync(ctx, "u1", nil)
		if res.Err != nil {
			t.Fatalf("RefreshAsync() error = %v", res.Err)
		}

		snap := res.Value
		if len(snap.Tracks) != 20 || len(snap.Recent) != 4 || len(snap.Recommended) != 3 {
			t.Errorf("unexpected snapshot sizes %d %d %d", len(snap.Tracks), len(snap.Recent), len(snap.Recommended))
		}
		if snap.Recent[3].ID != snap.Tracks[19].ID || snap.Recommended[0].ID != snap.Tracks[0].ID {
			t.Error("unexpected derived view contents")
		}
	})

	t.Run("DefaultLimits", func(t *testing.T) {
		d := tasks.NewDashboardCoordinator(seededStore(20), nil, quietLogger(), tasks.DashboardOptions{})
		if err := d.Refresh(ctx, "u1", nil); err != nil {
			t.Fatal(err)
		}
		if len(d.RecentlyPlayed()) != tasks.DefaultRecentLimit || len(d.Recommended()) != tasks.DefaultRecommendedLimit {
			t.Errorf("unexpected default view sizes %d %d", len(d.RecentlyPlayed()), len(d.Recommended()))
		}
	})

	t.Run("SnapshotIsDetached", func(t *testing.T) {
		store := seededStore(2)
		if _, err := store.ToggleFavorite(ctx, "u1", "a"); err != nil {
			t.Fatal(err)
		}
		if err := store.AppendToPlaylist(ctx, "p1", "b"); err != nil {
			t.Fatal(err)
		}
		d := tasks.NewDashboardCoordinator(store, nil, quietLogger(), tasks.DashboardOptions{})
		if err := d.Refresh(ctx, "u1", nil); err != nil {
			t.Fatal(err)
		}

		snap := d.Snapshot()
		snap.Tracks[0].Title = "changed"
		snap.Favorites[0].Title = "changed"
		snap.Playlists[0].Name = "changed"
		snap.Playlists[0].TrackIDs[0] = "changed"
		snap.Profile.Name = "changed"

		tests := []struct {
			name string
			got  string
			want string
		}{
			{"track", d.Tracks.Get()[0].Title, "T"},
			{"favorite", d.Favorites.Get()[0].Title, "T"},
			{"playlist name", d.Playlists.Get()[0].Name, "Mix"},
			{"playlist track", d.Playlists.Get()[0].TrackIDs[0], "b"},
			{"profile", d.Profile.Get().Name, "Asha"},
		}
		for _, tt := range tests {
			if tt.got != tt.want {
				t.Errorf("%s: slot changed through snapshot, got %q want %q", tt.name, tt.got, tt.want)
			}
		}
	})
}
