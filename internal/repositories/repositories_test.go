package repositories

import (
	"context"
	"database/sql"
	"testing"

	"github.com/desertthunder/sangeet/internal/models"
	"github.com/desertthunder/sangeet/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(shared.MemoryDatabase)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// softDelete marks a row in table as deleted the way an administrator would, outside the repositories.
func softDelete(t *testing.T, db *sql.DB, table, id string) {
	t.Helper()
	if _, err := db.Exec("UPDATE "+table+" SET deleted_at = CURRENT_TIMESTAMP WHERE id = ?", id); err != nil {
		t.Fatalf("failed to soft-delete %s %s: %v", table, id, err)
	}
}

// seedTracks creates one track per id, uploaded by "u9".
func seedTracks(t *testing.T, db *sql.DB, ids ...string) {
	t.Helper()
	repo := NewTrackRepository(db)
	for _, id := range ids {
		track := newTrack(id, "u9")
		track.ID = id
		if err := repo.Create(context.Background(), track); err != nil {
			t.Fatalf("failed to create track %s: %v", id, err)
		}
	}
}

func newTrack(title, uploader string) *models.Track {
	return &models.Track{
		Title:      title,
		Artist:     "Artist",
		Duration:   180,
		AudioURL:   "http://cdn/audio/" + title + ".mp3",
		UploadedBy: uploader,
	}
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(ctx, db, "tracks")
		if err != nil {
			t.Fatalf("NextSequence() error = %v", err)
		}
		if got != want {
			t.Errorf("NextSequence() = %d, want %d", got, want)
		}
	}
}

func TestTrackRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		repo := NewTrackRepository(setupTestDB(t))
		track := newTrack("song", "u1")

		if err := repo.Create(ctx, track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}
		if track.ID == "" {
			t.Error("track ID should be set after creation")
		}
		if track.UploadedAt.IsZero() {
			t.Error("track upload time should be set after creation")
		}
	})

	t.Run("CreateKeepsProvidedID", func(t *testing.T) {
		repo := NewTrackRepository(setupTestDB(t))
		track := newTrack("song", "u1")
		track.ID = "fixed-id"

		if err := repo.Create(ctx, track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		got, err := repo.Get(ctx, "fixed-id")
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}
		if got.Title != "song" || got.Duration != 180 || got.UploadedBy != "u1" {
			t.Errorf("unexpected track: %+v", got)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewTrackRepository(setupTestDB(t))
		for _, title := range []string{"a", "b", "c"} {
			if err := repo.Create(ctx, newTrack(title, "u1")); err != nil {
				t.Fatalf("failed to create track: %v", err)
			}
		}
		if err := repo.Create(ctx, newTrack("d", "u2")); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		all, err := repo.List(ctx, nil)
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(all) != 4 {
			t.Fatalf("expected 4 tracks, got %d", len(all))
		}
		for i, want := range []string{"a", "b", "c", "d"} {
			if all[i].Title != want {
				t.Errorf("track %d: expected %s, got %s", i, want, all[i].Title)
			}
		}

		mine, err := repo.List(ctx, map[string]any{"uploaded_by": "u2"})
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(mine) != 1 || mine[0].Title != "d" {
			t.Errorf("unexpected filtered tracks: %+v", mine)
		}
	})

	t.Run("DeletedTracksExcluded", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewTrackRepository(db)
		track := newTrack("song", "u1")
		if err := repo.Create(ctx, track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		softDelete(t, db, "tracks", track.ID)

		if _, err := repo.Get(ctx, track.ID); !IsNotFound(err) {
			t.Errorf("expected not found after delete, got %v", err)
		}

		tracks, err := repo.List(ctx, nil)
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(tracks) != 0 {
			t.Errorf("expected deleted track to be excluded, got %d", len(tracks))
		}
	})
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		user := &models.User{ID: "u1", Name: "Asha", Email: "asha@example.com"}

		if err := repo.Create(ctx, user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		got, err := repo.Get(ctx, "u1")
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if got.Name != "Asha" || got.Email != "asha@example.com" {
			t.Errorf("unexpected user: %+v", got)
		}
	})

	t.Run("Save", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		if err := repo.Save(ctx, &models.User{ID: "u1", Name: "First"}); err != nil {
			t.Fatalf("failed to save new user: %v", err)
		}
		if err := repo.Save(ctx, &models.User{ID: "u1", Name: "Second"}); err != nil {
			t.Fatalf("failed to save existing user: %v", err)
		}

		got, err := repo.Get(ctx, "u1")
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if got.Name != "Second" {
			t.Errorf("expected updated name, got %s", got.Name)
		}
	})

	t.Run("SaveAfterSoftDelete", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)
		if err := repo.Save(ctx, &models.User{ID: "u2", Name: "Before"}); err != nil {
			t.Fatalf("failed to save user: %v", err)
		}

		softDelete(t, db, "users", "u2")
		if _, err := repo.Get(ctx, "u2"); !IsNotFound(err) {
			t.Fatalf("expected not found after delete, got %v", err)
		}

		if err := repo.Save(ctx, &models.User{ID: "u2", Name: "After", Email: "after@example.com"}); err != nil {
			t.Fatalf("failed to save deleted user: %v", err)
		}
		got, err := repo.Get(ctx, "u2")
		if err != nil {
			t.Fatalf("failed to get revived user: %v", err)
		}
		if got.Name != "After" || got.Email != "after@example.com" {
			t.Errorf("unexpected revived user: %+v", got)
		}
	})

	t.Run("CreateDuplicate", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		if err := repo.Create(ctx, &models.User{ID: "u1", Name: "Asha"}); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
		if err := repo.Create(ctx, &models.User{ID: "u1", Name: "Other"}); err == nil {
			t.Error("expected error creating a live duplicate")
		}

		got, err := repo.Get(ctx, "u1")
		if err != nil || got.Name != "Asha" {
			t.Errorf("expected original user untouched, got %+v, %v", got, err)
		}
	})
}

func TestFavoriteRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Toggle", func(t *testing.T) {
		db := setupTestDB(t)
		seedTracks(t, db, "t1")
		repo := NewFavoriteRepository(db)

		for i, want := range []bool{true, false, true} {
			got, err := repo.Toggle(ctx, "u1", "t1")
			if err != nil {
				t.Fatalf("toggle %d failed: %v", i, err)
			}
			if got != want {
				t.Errorf("toggle %d: expected favorited=%v, got %v", i, want, got)
			}

			listed, err := repo.ListTracks(ctx, "u1")
			if err != nil {
				t.Fatalf("failed to list favorites: %v", err)
			}
			if (len(listed) == 1) != want {
				t.Errorf("toggle %d: expected listed=%v, got %d favorites", i, want, len(listed))
			}
		}
	})

	t.Run("UnknownTrack", func(t *testing.T) {
		db := setupTestDB(t)
		seedTracks(t, db, "gone")
		softDelete(t, db, "tracks", "gone")
		repo := NewFavoriteRepository(db)

		for _, id := range []string{"no-such-track", "gone"} {
			if _, err := repo.Toggle(ctx, "u1", id); !IsNotFound(err) {
				t.Errorf("%s: expected not found, got %v", id, err)
			}
		}

		var n int
		if err := db.QueryRow(`SELECT COUNT(*) FROM favorites`).Scan(&n); err != nil {
			t.Fatalf("failed to count favorites: %v", err)
		}
		if n != 0 {
			t.Errorf("expected no favorite rows, got %d", n)
		}
	})

	t.Run("UnfavoriteDeletedTrack", func(t *testing.T) {
		db := setupTestDB(t)
		seedTracks(t, db, "t1")
		repo := NewFavoriteRepository(db)

		if _, err := repo.Toggle(ctx, "u1", "t1"); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
		softDelete(t, db, "tracks", "t1")

		on, err := repo.Toggle(ctx, "u1", "t1")
		if err != nil {
			t.Fatalf("toggle after delete failed: %v", err)
		}
		if on {
			t.Error("expected toggle to remove the favorite")
		}
	})

	t.Run("ListTracks", func(t *testing.T) {
		db := setupTestDB(t)
		seedTracks(t, db, "a", "b", "c")
		favs := NewFavoriteRepository(db)

		for _, fav := range []struct{ user, track string }{{"u1", "b"}, {"u1", "c"}, {"u2", "a"}} {
			if _, err := favs.Toggle(ctx, fav.user, fav.track); err != nil {
				t.Fatalf("toggle failed: %v", err)
			}
		}
		softDelete(t, db, "tracks", "c")

		got, err := favs.ListTracks(ctx, "u1")
		if err != nil {
			t.Fatalf("failed to list favorites: %v", err)
		}
		if len(got) != 1 || got[0].ID != "b" {
			t.Errorf("expected only track b, got %+v", got)
		}
	})
}

func TestPlaylistRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		repo := NewPlaylistRepository(setupTestDB(t))
		p := &models.Playlist{Owner: "u1", Name: "Road trip"}

		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}
		if p.ID == "" {
			t.Fatal("playlist ID should be set after creation")
		}

		got, err := repo.Get(ctx, p.ID)
		if err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}
		if got.Name != "Road trip" || got.Owner != "u1" || len(got.TrackIDs) != 0 {
			t.Errorf("unexpected playlist: %+v", got)
		}
	})

	t.Run("AppendTrackKeepsOrderAndDuplicates", func(t *testing.T) {
		db := setupTestDB(t)
		seedTracks(t, db, "t1", "t2")
		repo := NewPlaylistRepository(db)
		p := &models.Playlist{Owner: "u1", Name: "Mix"}
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		for _, id := range []string{"t1", "t2", "t1"} {
			if err := repo.AppendTrack(ctx, p.ID, id); err != nil {
				t.Fatalf("append %s failed: %v", id, err)
			}
		}

		got, err := repo.Get(ctx, p.ID)
		if err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}

		want := []string{"t1", "t2", "t1"}
		if len(got.TrackIDs) != len(want) {
			t.Fatalf("expected %d tracks, got %v", len(want), got.TrackIDs)
		}
		for i := range want {
			if got.TrackIDs[i] != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], got.TrackIDs[i])
			}
		}
	})

	t.Run("AppendUnknownTrack", func(t *testing.T) {
		db := setupTestDB(t)
		seedTracks(t, db, "gone")
		softDelete(t, db, "tracks", "gone")
		repo := NewPlaylistRepository(db)
		p := &models.Playlist{Owner: "u1", Name: "Mix"}
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		for _, id := range []string{"no-such-track", "gone"} {
			if err := repo.AppendTrack(ctx, p.ID, id); !IsNotFound(err) {
				t.Errorf("%s: expected not found, got %v", id, err)
			}
		}

		got, err := repo.Get(ctx, p.ID)
		if err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}
		if len(got.TrackIDs) != 0 {
			t.Errorf("expected no dangling track ids, got %v", got.TrackIDs)
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		seedTracks(t, db, "t-One", "t-Other", "t-Two")
		repo := NewPlaylistRepository(db)
		for _, p := range []*models.Playlist{
			{Owner: "u1", Name: "One"},
			{Owner: "u2", Name: "Other"},
			{Owner: "u1", Name: "Two"},
		} {
			if err := repo.Create(ctx, p); err != nil {
				t.Fatalf("failed to create playlist: %v", err)
			}
			if err := repo.AppendTrack(ctx, p.ID, "t-"+p.Name); err != nil {
				t.Fatalf("append failed: %v", err)
			}
		}

		got, err := repo.List(ctx, map[string]any{"user_id": "u1"})
		if err != nil {
			t.Fatalf("failed to list playlists: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 playlists, got %d", len(got))
		}
		if got[0].Name != "One" || got[1].Name != "Two" {
			t.Errorf("unexpected order: %s, %s", got[0].Name, got[1].Name)
		}
		if len(got[1].TrackIDs) != 1 || got[1].TrackIDs[0] != "t-Two" {
			t.Errorf("unexpected track ids: %v", got[1].TrackIDs)
		}
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		repo := NewPlaylistRepository(setupTestDB(t))
		p := &models.Playlist{Owner: "u1", Name: "Old"}
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		p.Name = "New"
		if err := repo.Update(ctx, p); err != nil {
			t.Fatalf("failed to update playlist: %v", err)
		}
		got, err := repo.Get(ctx, p.ID)
		if err != nil || got.Name != "New" {
			t.Fatalf("expected renamed playlist, got %+v, %v", got, err)
		}

		if err := repo.Delete(ctx, p.ID); err != nil {
			t.Fatalf("failed to delete playlist: %v", err)
		}
		if _, err := repo.Get(ctx, p.ID); !IsNotFound(err) {
			t.Errorf("expected not found after delete, got %v", err)
		}
	})
}
