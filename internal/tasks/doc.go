// Package tasks coordinates the client workflows over the backend capability set with progress and notifications.
//
// # Coordinators
//
//  1. [UploadCoordinator] : Audio + optional cover image → persisted track
//     - Validates title, artist, audio and uploader before touching any backend
//     - Uploads audio first; its failure is fatal and nothing is persisted
//     - Uploads the cover next; its failure is a warning and the track keeps an empty image URL
//     - Writes the track record with a fresh id and the current time
//
//  2. [DashboardCoordinator] : Four independent reads published into observable slots
//     - All tracks, profile, favorites and playlists load concurrently
//     - Each failure raises the error flag and a notification without cancelling the others
//     - [RecentlyPlayed] and [Recommended] derive positional views from the track list
//
//  3. [LibraryCoordinator] : Favorite toggle, playlist attach, playlist creation and profile save
//     - Toggling re-reads the favorites list into the shared favorites slot
//
// # Progress Reporting
//
// Operations accept an optional progress channel. Updates are sent with select/default so a slow or absent reader
// never blocks the workflow. Each [ProgressUpdate] names its [Phase].
//
// # Results and Notifications
//
// Blocking methods return (value, error). The *Async variants return a channel that yields exactly one [Result]
// and is then closed. User-facing outcomes are also reported through a [Notifier], which the CLI backs with the
// logger and the TUI with its status line.
//
// # Errors
//
// Returned errors wrap [shared.ErrValidation], [shared.ErrUpload], [shared.ErrWrite] or [shared.ErrRead].
package tasks
