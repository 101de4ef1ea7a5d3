// Package models defines the domain entities of the sangeet music client.
//
// The package contains the records owned by the external store:
//   - [Track] : An uploaded music item with its metadata and asset URLs
//   - [User] : A user profile (identifier and display name)
//   - [Favorite] : Membership of a track in a user's favorites
//   - [Playlist] : A user-owned, ordered list of track identifiers
//
// All entities implement [Model], which provides identity and validation.
// Validation is performed by the persistence layer before every write.
package models
