// package repositories provides persistence layer implementations for all model types.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/sangeet/internal/shared"
)

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers are NOT exposed in CLI output but used internally for ordering.
func NextSequence(ctx context.Context, db *sql.DB, table string) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	_, err = tx.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable))
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	err = tx.QueryRowContext(ctx, fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

// notFound wraps [shared.ErrNotFound] for the given entity kind and id.
func notFound(kind, id string) error {
	return fmt.Errorf("%s %w: %s", kind, shared.ErrNotFound, id)
}

// checkAffected returns a not-found error when an update or delete touched no rows.
func checkAffected(result sql.Result, kind, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound(kind, id)
	}
	return nil
}

// IsNotFound reports whether err is a repository not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}

// requireTrack returns a not-found error unless trackID names a live track.
//
// It runs on tx so the check and the write that depends on it share a connection.
func requireTrack(ctx context.Context, tx *sql.Tx, trackID string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM tracks WHERE id = ? AND deleted_at IS NULL`, trackID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("track", trackID)
	}
	if err != nil {
		return fmt.Errorf("failed to query track: %w", err)
	}
	return nil
}
