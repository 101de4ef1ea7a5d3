// Package services defines the backend capability set the coordinators depend on and implements it.
//
// # Capabilities
//
//   - [Identity] : resolves the signed-in user's identifier
//   - [Store] : reads and writes tracks, profiles, favorites and playlists
//   - [ObjectStorage] : stores binary assets and returns their public URL
//
// Coordinators receive the user identifier explicitly; only the CLI resolves it through [Identity].
//
// # Implementations
//
// [DataStore] adapts the SQLite repositories to [Store].
//
// [LocalStorage] writes assets below a directory that the media server exposes, while [HTTPStorage] posts them as
// multipart forms to a remote upload endpoint, rate limited with [rate.Limiter].
//
// [SessionIdentity] reads the session file written by "sangeet auth login". [OAuthLogin] builds the OAuth2 config for
// that login and turns the returned token into a [Session] using the id_token claims.
//
// # Error Handling
//
// Adapters return errors wrapping shared sentinels:
//   - [shared.ErrNotAuthenticated] : no session on disk
//   - [shared.ErrNotFound] : missing store record
//   - [shared.ErrServiceUnavailable] : remote endpoint failed
//   - [shared.ErrInvalidArgument] : empty or unreadable asset
package services
