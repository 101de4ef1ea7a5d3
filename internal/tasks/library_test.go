package tasks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/sangeet/internal/models"
	"github.com/desertthunder/sangeet/internal/shared"
	"github.com/desertthunder/sangeet/internal/state"
	"github.com/desertthunder/sangeet/internal/tasks"
	tu "github.com/desertthunder/sangeet/internal/testing"
)

func TestToggleFavorite(t *testing.T) {
	ctx := context.Background()

	t.Run("TwiceRestoresMembership", func(t *testing.T) {
		store := seededStore(2)
		favorites := state.NewSlot([]models.Track{})
		c := tasks.NewLibraryCoordinator(store, favorites, nil, quietLogger())

		first, err := c.ToggleFavorite(ctx, "u1", "a", nil)
		if err != nil {
			t.Fatalf("first toggle error = %v", err)
		}
		if !first.Favorited || len(favorites.Get()) != 1 {
			t.Errorf("expected track favorited and slot reloaded, got %+v", first)
		}

		second, err := c.ToggleFavorite(ctx, "u1", "a", nil)
		if err != nil {
			t.Fatalf("second toggle error = %v", err)
		}
		if second.Favorited || len(favorites.Get()) != 0 {
			t.Errorf("expected membership restored, got %+v", second)
		}
		if store.Calls("ReadFavorites") != 2 {
			t.Errorf("expected a reload after each toggle, got %d", store.Calls("ReadFavorites"))
		}
	})

	t.Run("SharesDashboardSlot", func(t *testing.T) {
		store := seededStore(2)
		d := tasks.NewDashboardCoordinator(store, nil, quietLogger(), tasks.DashboardOptions{})
		c := tasks.NewLibraryCoordinator(store, d.Favorites, nil, quietLogger())

		if _, err := c.ToggleFavorite(ctx, "u1", "b", nil); err != nil {
			t.Fatal(err)
		}
		if favs := d.Snapshot().Favorites; len(favs) != 1 || favs[0].ID != "b" {
			t.Errorf("expected dashboard favorites to follow toggle, got %+v", favs)
		}
	})

	t.Run("ToggleFailureKeepsSlot", func(t *testing.T) {
		store := seededStore(1)
		store.Fail("ToggleFavorite", errBackend)
		favorites := state.NewSlot([]models.Track{{ID: "kept"}})
		notes := &tu.RecordingNotifier{}
		c := tasks.NewLibraryCoordinator(store, favorites, notes, quietLogger())

		if _, err := c.ToggleFavorite(ctx, "u1", "a", nil); !errors.Is(err, shared.ErrWrite) {
			t.Fatalf("expected ErrWrite, got %v", err)
		}
		if favs := favorites.Get(); len(favs) != 1 || favs[0].ID != "kept" {
			t.Error("expected slot untouched after failed toggle")
		}
		if store.Calls("ReadFavorites") != 0 {
			t.Error("expected no reload after failed toggle")
		}
		if len(notes.Messages(tasks.LevelError)) != 1 {
			t.Error("expected an error notification")
		}
	})

	t.Run("ReloadFailure", func(t *testing.T) {
		store := seededStore(1)
		store.Fail("ReadFavorites", errBackend)
		c := tasks.NewLibraryCoordinator(store, nil, nil, quietLogger())

		if _, err := c.ToggleFavorite(ctx, "u1", "a", nil); !errors.Is(err, shared.ErrRead) {
			t.Fatalf("expected ErrRead, got %v", err)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		store := seededStore(1)
		c := tasks.NewLibraryCoordinator(store, nil, nil, quietLogger())

		if _, err := c.ToggleFavorite(ctx, "u1", "", nil); !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
		if store.TotalCalls() != 0 {
			t.Error("expected no store calls")
		}
	})

	t.Run("UnknownTrack", func(t *testing.T) {
		store := seededStore(1)
		favorites := state.NewSlot([]models.Track{{ID: "kept"}})
		notes := &tu.RecordingNotifier{}
		c := tasks.NewLibraryCoordinator(store, favorites, notes, quietLogger())

		_, err := c.ToggleFavorite(ctx, "u1", "no-such-track", nil)
		if !errors.Is(err, shared.ErrWrite) || !errors.Is(err, shared.ErrNotFound) {
			t.Fatalf("expected ErrWrite wrapping ErrNotFound, got %v", err)
		}
		if favs := favorites.Get(); len(favs) != 1 || favs[0].ID != "kept" {
			t.Error("expected slot untouched for an unknown track")
		}
		if len(notes.Messages(tasks.LevelInfo)) != 0 || len(notes.Messages(tasks.LevelError)) != 1 {
			t.Errorf("expected only an error notification, got %+v", notes.Notifications())
		}
	})

	t.Run("Async", func(t *testing.T) {
		c := tasks.NewLibraryCoordinator(seededStore(1), nil, nil, quietLogger())
		res := <-c.ToggleFavoriteAsync(ctx, "u1", "a", nil)
		if res.Err != nil || !res.Value.Favorited {
			t.Errorf("unexpected result %+v", res)
		}
	})
}

func TestAttachToPlaylist(t *testing.T) {
	ctx := context.Background()

	t.Run("AppendsInOrderWithDuplicates", func(t *testing.T) {
		store := seededStore(2)
		notes := &tu.RecordingNotifier{}
		c := tasks.NewLibraryCoordinator(store, nil, notes, quietLogger())

		for _, id := range []string{"a", "b", "a"} {
			if err := c.AttachToPlaylist(ctx, "p1", id, nil); err != nil {
				t.Fatalf("attach %s error = %v", id, err)
			}
		}

		p, _ := store.Playlist("p1")
		want := []string{"a", "b", "a"}
		if len(p.TrackIDs) != len(want) {
			t.Fatalf("expected %v, got %v", want, p.TrackIDs)
		}
		for i := range want {
			if p.TrackIDs[i] != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], p.TrackIDs[i])
			}
		}

		msgs := notes.Messages(tasks.LevelInfo)
		if len(msgs) != 3 || msgs[0] != "Added to playlist" {
			t.Errorf("unexpected notifications %v", msgs)
		}
	})

	t.Run("UnknownPlaylist", func(t *testing.T) {
		c := tasks.NewLibraryCoordinator(seededStore(1), nil, nil, quietLogger())

		err := c.AttachToPlaylist(ctx, "missing", "a", nil)
		if !errors.Is(err, shared.ErrWrite) || !errors.Is(err, shared.ErrNotFound) {
			t.Fatalf("expected ErrWrite wrapping ErrNotFound, got %v", err)
		}
	})

	t.Run("UnknownTrack", func(t *testing.T) {
		store := seededStore(1)
		c := tasks.NewLibraryCoordinator(store, nil, nil, quietLogger())

		err := c.AttachToPlaylist(ctx, "p1", "no-such-track", nil)
		if !errors.Is(err, shared.ErrWrite) || !errors.Is(err, shared.ErrNotFound) {
			t.Fatalf("expected ErrWrite wrapping ErrNotFound, got %v", err)
		}
		if p, _ := store.Playlist("p1"); len(p.TrackIDs) != 0 {
			t.Errorf("expected no dangling track ids, got %v", p.TrackIDs)
		}
	})

	t.Run("ReportsProgress", func(t *testing.T) {
		c := tasks.NewLibraryCoordinator(seededStore(1), nil, nil, quietLogger())
		progress := make(chan tasks.ProgressUpdate, 4)

		if err := c.AttachToPlaylist(ctx, "p1", "a", progress); err != nil {
			t.Fatalf("AttachToPlaylist() error = %v", err)
		}
		close(progress)

		var phases []tasks.Phase
		for u := range progress {
			phases = append(phases, u.Phase)
		}
		if len(phases) != 1 || phases[0] != tasks.AttachTrack {
			t.Errorf("expected a single attach_track update, got %v", phases)
		}
	})

	t.Run("Async", func(t *testing.T) {
		c := tasks.NewLibraryCoordinator(seededStore(1), nil, nil, quietLogger())
		if res := <-c.AttachToPlaylistAsync(ctx, "p1", "a", nil); res.Err != nil {
			t.Errorf("unexpected error %v", res.Err)
		}
	})
}

func TestCreatePlaylist(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		owner   string
		input   string
		wantErr bool
	}{
		{"valid", "u1", "  Road trip ", false},
		{"blank name", "u1", "   ", true},
		{"missing owner", "", "Mix", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tu.NewFakeStore()
			c := tasks.NewLibraryCoordinator(store, nil, nil, quietLogger())

			p, err := c.CreatePlaylist(ctx, tt.owner, tt.input, "")
			if tt.wantErr {
				if !errors.Is(err, shared.ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				if store.TotalCalls() != 0 {
					t.Error("expected no store calls")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreatePlaylist() error = %v", err)
			}
			if p.ID == "" || p.Name != "Road trip" || len(p.TrackIDs) != 0 {
				t.Errorf("unexpected playlist %+v", p)
			}
			if _, ok := store.Playlist(p.ID); !ok {
				t.Error("expected playlist to be stored")
			}
		})
	}
}

func TestRenamePlaylist(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		user     string
		playlist string
		input    string
		wantErr  error
	}{
		{"valid", "u1", "p1", " Road trip ", nil},
		{"blank name", "u1", "p1", "  ", shared.ErrValidation},
		{"not owner", "u2", "p1", "Mine now", shared.ErrValidation},
		{"unknown playlist", "u1", "missing", "x", shared.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seededStore(1)
			if err := store.AppendToPlaylist(ctx, "p1", "a"); err != nil {
				t.Fatal(err)
			}
			c := tasks.NewLibraryCoordinator(store, nil, nil, quietLogger())

			p, err := c.RenamePlaylist(ctx, tt.user, tt.playlist, tt.input, "long drives")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if store.Calls("UpdatePlaylist") != 0 {
					t.Error("expected no update call")
				}
				return
			}
			if err != nil {
				t.Fatalf("RenamePlaylist() error = %v", err)
			}
			if p.Name != "Road trip" {
				t.Errorf("expected trimmed name, got %q", p.Name)
			}

			stored, _ := store.Playlist("p1")
			if stored.Name != "Road trip" || stored.Description != "long drives" {
				t.Errorf("unexpected stored playlist %+v", stored)
			}
			if len(stored.TrackIDs) != 1 || stored.TrackIDs[0] != "a" {
				t.Errorf("expected track list kept, got %v", stored.TrackIDs)
			}
		})
	}
}

func TestDeletePlaylist(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		user     string
		playlist string
		fail     error
		wantErr  error
	}{
		{"owner", "u1", "p1", nil, nil},
		{"not owner", "u2", "p1", nil, shared.ErrValidation},
		{"unknown playlist", "u1", "missing", nil, shared.ErrRead},
		{"store failure", "u1", "p1", errBackend, shared.ErrWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seededStore(1)
			store.Fail("DeletePlaylist", tt.fail)
			notes := &tu.RecordingNotifier{}
			c := tasks.NewLibraryCoordinator(store, nil, notes, quietLogger())

			err := c.DeletePlaylist(ctx, tt.user, tt.playlist)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if _, ok := store.Playlist("p1"); !ok {
					t.Error("expected playlist kept after failed delete")
				}
				if len(notes.Messages(tasks.LevelError)) != 1 {
					t.Error("expected an error notification")
				}
				return
			}
			if err != nil {
				t.Fatalf("DeletePlaylist() error = %v", err)
			}
			if _, ok := store.Playlist("p1"); ok {
				t.Error("expected playlist removed")
			}
			if msgs := notes.Messages(tasks.LevelInfo); len(msgs) != 1 || msgs[0] != `Playlist "Mix" deleted` {
				t.Errorf("unexpected notifications %v", msgs)
			}
		})
	}
}

func TestSaveProfile(t *testing.T) {
	ctx := context.Background()
	store := tu.NewFakeStore()
	c := tasks.NewLibraryCoordinator(store, nil, nil, quietLogger())

	if _, err := c.SaveProfile(ctx, "u1", " ", ""); !errors.Is(err, shared.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	u, err := c.SaveProfile(ctx, "u1", "Asha", "a@example.com")
	if err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	got, err := store.ReadUser(ctx, "u1")
	if err != nil || got.Name != u.Name {
		t.Errorf("expected stored profile, got %+v, %v", got, err)
	}

	store.Fail("SaveUser", errBackend)
	if _, err := c.SaveProfile(ctx, "u1", "Asha", ""); !errors.Is(err, shared.ErrWrite) {
		t.Errorf("expected ErrWrite, got %v", err)
	}
}
