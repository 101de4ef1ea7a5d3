package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/sangeet/internal/models"
)

// FavoriteRepository persists [models.Favorite] membership rows.
//
// A favorite either exists or it does not; there are no soft deletes here.
type FavoriteRepository struct {
	db *sql.DB
}

// NewFavoriteRepository creates a new [FavoriteRepository] with the given database connection
func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Toggle flips the favorite relation inside a single transaction and returns
// whether the track is favorited afterwards.
//
// Only live tracks can be favorited. An existing favorite can always be removed.
func (r *FavoriteRepository) Toggle(ctx context.Context, userID, trackID string) (bool, error) {
	fav := models.Favorite{UserID: userID, TrackID: trackID}
	if err := fav.Validate(); err != nil {
		return false, fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = ? AND track_id = ?`, userID, trackID)
	if err != nil {
		return false, fmt.Errorf("failed to delete favorite: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	favorited := removed == 0
	if favorited {
		if err := requireTrack(ctx, tx, trackID); err != nil {
			return false, err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO favorites (user_id, track_id, created_at) VALUES (?, ?, ?)`,
			userID, trackID, time.Now().UTC(),
		)
		if err != nil {
			return false, fmt.Errorf("failed to insert favorite: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit favorite toggle: %w", err)
	}
	return favorited, nil
}

// ListTracks returns the tracks favorited by userID, most recently favorited first.
//
// Favorites pointing at deleted or unknown tracks are skipped.
func (r *FavoriteRepository) ListTracks(ctx context.Context, userID string) ([]models.Track, error) {
	query := `
		SELECT t.id, t.title, t.artist, t.genre, t.description, t.duration, t.audio_url, t.image_url, t.uploaded_by, t.uploaded_at
		FROM favorites f
		JOIN tracks t ON t.id = f.track_id
		WHERE f.user_id = ? AND t.deleted_at IS NULL
		ORDER BY f.created_at DESC, t.sequence DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	tracks := []models.Track{}
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, *track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return tracks, nil
}
