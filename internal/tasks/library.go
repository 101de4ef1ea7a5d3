package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/sangeet/internal/models"
	"github.com/desertthunder/sangeet/internal/services"
	"github.com/desertthunder/sangeet/internal/shared"
	"github.com/desertthunder/sangeet/internal/state"
)

// ToggleResult reports the favorite state after a toggle and the reloaded favorites list.
type ToggleResult struct {
	Favorited bool
	Favorites []models.Track
}

// LibraryCoordinator performs the single-item library mutations.
type LibraryCoordinator struct {
	store     services.Store
	favorites *state.Slot[[]models.Track]
	notifier  Notifier
	logger    *log.Logger
}

// NewLibraryCoordinator creates a [LibraryCoordinator] publishing reloaded favorites into favorites.
//
// Pass the dashboard's Favorites slot to keep both views in sync. A nil slot gets a private one.
func NewLibraryCoordinator(store services.Store, favorites *state.Slot[[]models.Track], notifier Notifier, logger *log.Logger) *LibraryCoordinator {
	if favorites == nil {
		favorites = state.NewSlot([]models.Track{})
	}
	return &LibraryCoordinator{
		store:     store,
		favorites: favorites,
		notifier:  orNop(notifier),
		logger:    orDefaultLogger(logger),
	}
}

// Favorites returns the slot the reloaded favorites list is published to.
func (c *LibraryCoordinator) Favorites() *state.Slot[[]models.Track] { return c.favorites }

// ToggleFavorite flips the favorite membership of trackID for userID and then reloads the favorites list.
//
// The slot only changes after the store confirms both the toggle and the reload.
func (c *LibraryCoordinator) ToggleFavorite(ctx context.Context, userID, trackID string, progress chan<- ProgressUpdate) (*ToggleResult, error) {
	if userID == "" || trackID == "" {
		err := fmt.Errorf("%w: user id and track id are required", shared.ErrValidation)
		c.notifier.Notify(failed(err.Error()))
		return nil, err
	}

	sendProgress(progress, toggleFavoriteUpdate(trackID))
	favorited, err := c.store.ToggleFavorite(ctx, userID, trackID)
	if err != nil {
		err = fmt.Errorf("%w: toggle favorite: %w", shared.ErrWrite, err)
		c.logger.Error("favorite toggle failed", "track", trackID, "error", err)
		c.notifier.Notify(failed(err.Error()))
		return nil, err
	}

	sendProgress(progress, reloadFavoritesUpdate())
	favorites, err := c.store.ReadFavorites(ctx, userID)
	if err != nil {
		err = fmt.Errorf("%w: favorites: %w", shared.ErrRead, err)
		c.logger.Error("favorites reload failed", "error", err)
		c.notifier.Notify(failed(err.Error()))
		return nil, err
	}
	c.favorites.Set(favorites)

	if favorited {
		c.notifier.Notify(info("Added to favorites"))
	} else {
		c.notifier.Notify(info("Removed from favorites"))
	}
	c.logger.Debug("favorite toggled", "track", trackID, "favorited", favorited)

	return &ToggleResult{Favorited: favorited, Favorites: favorites}, nil
}

// ToggleFavoriteAsync runs [LibraryCoordinator.ToggleFavorite] in the background.
func (c *LibraryCoordinator) ToggleFavoriteAsync(ctx context.Context, userID, trackID string, progress chan<- ProgressUpdate) <-chan Result[*ToggleResult] {
	return async(func() (*ToggleResult, error) {
		return c.ToggleFavorite(ctx, userID, trackID, progress)
	})
}

// AttachToPlaylist appends trackID to the end of the playlist. A track already present is appended again.
//
// Unknown playlists and unknown tracks both fail with [shared.ErrWrite] wrapping [shared.ErrNotFound].
func (c *LibraryCoordinator) AttachToPlaylist(ctx context.Context, playlistID, trackID string, progress chan<- ProgressUpdate) error {
	if playlistID == "" || trackID == "" {
		err := fmt.Errorf("%w: playlist id and track id are required", shared.ErrValidation)
		c.notifier.Notify(failed(err.Error()))
		return err
	}

	sendProgress(progress, attachTrackUpdate(trackID, playlistID))
	if err := c.store.AppendToPlaylist(ctx, playlistID, trackID); err != nil {
		err = fmt.Errorf("%w: add to playlist: %w", shared.ErrWrite, err)
		c.logger.Error("playlist attach failed", "playlist", playlistID, "track", trackID, "error", err)
		c.notifier.Notify(failed(err.Error()))
		return err
	}

	c.logger.Info("track added to playlist", "playlist", playlistID, "track", trackID)
	c.notifier.Notify(info("Added to playlist"))
	return nil
}

// AttachToPlaylistAsync runs [LibraryCoordinator.AttachToPlaylist] in the background.
func (c *LibraryCoordinator) AttachToPlaylistAsync(ctx context.Context, playlistID, trackID string, progress chan<- ProgressUpdate) <-chan Result[struct{}] {
	return async(func() (struct{}, error) {
		return struct{}{}, c.AttachToPlaylist(ctx, playlistID, trackID, progress)
	})
}

// CreatePlaylist creates an empty playlist owned by ownerID.
func (c *LibraryCoordinator) CreatePlaylist(ctx context.Context, ownerID, name, description string) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	if ownerID == "" || name == "" {
		err := fmt.Errorf("%w: playlist owner and name are required", shared.ErrValidation)
		c.notifier.Notify(failed(err.Error()))
		return nil, err
	}

	playlist := &models.Playlist{
		ID:          shared.GenerateID(),
		Owner:       ownerID,
		Name:        name,
		Description: strings.TrimSpace(description),
		TrackIDs:    []string{},
	}

	if err := c.store.CreatePlaylist(ctx, playlist); err != nil {
		err = fmt.Errorf("%w: create playlist: %w", shared.ErrWrite, err)
		c.logger.Error("playlist creation failed", "name", name, "error", err)
		c.notifier.Notify(failed(err.Error()))
		return nil, err
	}

	c.notifier.Notify(info(fmt.Sprintf("Playlist %q created", name)))
	return playlist, nil
}

// ownedPlaylist loads playlistID and checks that userID owns it.
func (c *LibraryCoordinator) ownedPlaylist(ctx context.Context, userID, playlistID string) (*models.Playlist, error) {
	playlist, err := c.store.ReadPlaylist(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("%w: playlist: %w", shared.ErrRead, err)
	}
	if playlist.Owner != userID {
		return nil, fmt.Errorf("%w: playlist %s belongs to another user", shared.ErrValidation, playlistID)
	}
	return playlist, nil
}

// RenamePlaylist changes the name and description of a playlist owned by userID. The track list is kept.
func (c *LibraryCoordinator) RenamePlaylist(ctx context.Context, userID, playlistID, name, description string) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	if userID == "" || playlistID == "" || name == "" {
		err := fmt.Errorf("%w: playlist id and name are required", shared.ErrValidation)
		c.notifier.Notify(failed(err.Error()))
		return nil, err
	}

	playlist, err := c.ownedPlaylist(ctx, userID, playlistID)
	if err != nil {
		c.notifier.Notify(failed(err.Error()))
		return nil, err
	}

	old := playlist.Name
	playlist.Name = name
	playlist.Description = strings.TrimSpace(description)
	if err := c.store.UpdatePlaylist(ctx, playlist); err != nil {
		err = fmt.Errorf("%w: rename playlist: %w", shared.ErrWrite, err)
		c.logger.Error("playlist rename failed", "playlist", playlistID, "error", err)
		c.notifier.Notify(failed(err.Error()))
		return nil, err
	}

	c.logger.Info("playlist renamed", "playlist", playlistID, "from", old, "to", name)
	c.notifier.Notify(info(fmt.Sprintf("Playlist renamed to %q", name)))
	return playlist, nil
}

// DeletePlaylist removes a playlist owned by userID. The tracks themselves are untouched.
func (c *LibraryCoordinator) DeletePlaylist(ctx context.Context, userID, playlistID string) error {
	if userID == "" || playlistID == "" {
		err := fmt.Errorf("%w: playlist id is required", shared.ErrValidation)
		c.notifier.Notify(failed(err.Error()))
		return err
	}

	playlist, err := c.ownedPlaylist(ctx, userID, playlistID)
	if err != nil {
		c.notifier.Notify(failed(err.Error()))
		return err
	}

	if err := c.store.DeletePlaylist(ctx, playlistID); err != nil {
		err = fmt.Errorf("%w: delete playlist: %w", shared.ErrWrite, err)
		c.logger.Error("playlist deletion failed", "playlist", playlistID, "error", err)
		c.notifier.Notify(failed(err.Error()))
		return err
	}

	c.logger.Info("playlist deleted", "playlist", playlistID)
	c.notifier.Notify(info(fmt.Sprintf("Playlist %q deleted", playlist.Name)))
	return nil
}

// SaveProfile creates the profile for userID or renames it if it already exists.
func (c *LibraryCoordinator) SaveProfile(ctx context.Context, userID, name, email string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if userID == "" || name == "" {
		return nil, fmt.Errorf("%w: user id and name are required", shared.ErrValidation)
	}

	user := &models.User{ID: userID, Name: name, Email: strings.TrimSpace(email)}
	if err := c.store.SaveUser(ctx, user); err != nil {
		err = fmt.Errorf("%w: save profile: %w", shared.ErrWrite, err)
		c.logger.Error("profile save failed", "user", userID, "error", err)
		return nil, err
	}

	c.logger.Info("profile saved", "user", userID)
	return user, nil
}
