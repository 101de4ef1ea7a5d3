// package services defines the capability interfaces backing the coordinators
package services

import (
	"context"
	"fmt"
	"io"

	"github.com/desertthunder/sangeet/internal/models"
	"github.com/desertthunder/sangeet/internal/shared"
)

// AssetKind names the category of a stored object. It is also the first path segment of its URL.
type AssetKind string

const (
	AssetAudio AssetKind = "audio"
	AssetImage AssetKind = "image"
)

// ParseAssetKind converts s to an [AssetKind], rejecting unknown kinds.
func ParseAssetKind(s string) (AssetKind, error) {
	switch k := AssetKind(s); k {
	case AssetAudio, AssetImage:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown asset kind %q", shared.ErrInvalidArgument, s)
	}
}

// Identity resolves the currently signed-in user.
type Identity interface {
	// CurrentUserID returns the user identifier or an error wrapping [shared.ErrNotAuthenticated].
	CurrentUserID(ctx context.Context) (string, error)
}

// Reader groups the store reads issued by the dashboard.
type Reader interface {
	ReadAllTracks(ctx context.Context) ([]models.Track, error)
	ReadTrack(ctx context.Context, trackID string) (*models.Track, error)
	ReadUser(ctx context.Context, userID string) (*models.User, error)
	ReadFavorites(ctx context.Context, userID string) ([]models.Track, error)
	ReadPlaylists(ctx context.Context, userID string) ([]models.Playlist, error)
	ReadPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)
}

// Writer groups the store mutations.
type Writer interface {
	WriteTrack(ctx context.Context, track *models.Track) error
	// ToggleFavorite flips membership and reports whether the track is now a favorite.
	ToggleFavorite(ctx context.Context, userID, trackID string) (bool, error)
	AppendToPlaylist(ctx context.Context, playlistID, trackID string) error
	CreatePlaylist(ctx context.Context, playlist *models.Playlist) error
	// UpdatePlaylist changes name and description only. The track list is left alone.
	UpdatePlaylist(ctx context.Context, playlist *models.Playlist) error
	DeletePlaylist(ctx context.Context, playlistID string) error
	SaveUser(ctx context.Context, user *models.User) error
}

// Store is the document store the coordinators read from and write to.
type Store interface {
	Reader
	Writer
}

// ObjectStorage stores binary assets.
type ObjectStorage interface {
	// UploadAsset consumes r and returns the URL the stored object is reachable at.
	UploadAsset(ctx context.Context, r io.Reader, kind AssetKind) (string, error)
}
