// Package repositories implements SQLite persistence for all domain entities.
//
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [UserRepository] : User profile persistence keyed by identity provider id
//   - [TrackRepository] : Uploaded track records
//   - [FavoriteRepository] : User/track favorite membership with toggle semantics
//   - [PlaylistRepository] : Playlists and their ordered track lists
//
// Sequence numbers provide stable, insertion-ordered listing independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
