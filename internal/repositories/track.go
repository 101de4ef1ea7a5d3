package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/sangeet/internal/models"
	"github.com/desertthunder/sangeet/internal/shared"
)

const trackColumns = `id, title, artist, genre, description, duration, audio_url, image_url, uploaded_by, uploaded_at`

// TrackRepository persists uploaded [models.Track] records.
//
// Tracks are immutable once written; there is no Update.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Create inserts a new track. An empty ID is replaced with a generated one.
func (r *TrackRepository) Create(ctx context.Context, track *models.Track) error {
	if track.ID == "" {
		track.ID = shared.GenerateID()
	}
	if track.UploadedAt.IsZero() {
		track.UploadedAt = time.Now().UTC()
	}

	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "tracks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	query := `
		INSERT INTO tracks (id, sequence, title, artist, genre, description, duration, audio_url, image_url, uploaded_by, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		track.ID,
		sequence,
		track.Title,
		track.Artist,
		track.Genre,
		track.Description,
		track.Duration,
		track.AudioURL,
		track.ImageURL,
		track.UploadedBy,
		track.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return nil
}

// Get retrieves a track by ID, excluding soft-deleted tracks
func (r *TrackRepository) Get(ctx context.Context, id string) (*models.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE id = ? AND deleted_at IS NULL`

	track, err := scanTrack(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("track", id)
	}
	if err != nil {
		return nil, err
	}
	return track, nil
}

// List retrieves all tracks matching the given criteria in upload order, excluding soft-deleted tracks.
//
// Supported criteria: "uploaded_by" (string), "genre" (string).
func (r *TrackRepository) List(ctx context.Context, criteria map[string]any) ([]models.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE deleted_at IS NULL`

	args := []any{}

	if uploader, ok := criteria["uploaded_by"].(string); ok && uploader != "" {
		query += " AND uploaded_by = ?"
		args = append(args, uploader)
	}

	if genre, ok := criteria["genre"].(string); ok && genre != "" {
		query += " AND genre = ?"
		args = append(args, genre)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
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

// rowScanner is satisfied by both [sql.Row] and [sql.Rows].
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTrack scans the [trackColumns] of a row into a [models.Track].
//
// [sql.ErrNoRows] is returned unwrapped so callers can map it.
func scanTrack(row rowScanner) (*models.Track, error) {
	var t models.Track

	err := row.Scan(&t.ID, &t.Title, &t.Artist, &t.Genre, &t.Description, &t.Duration, &t.AudioURL, &t.ImageURL, &t.UploadedBy, &t.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	return &t, nil
}
