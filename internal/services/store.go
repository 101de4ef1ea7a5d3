package services

import (
	"context"
	"database/sql"

	"github.com/desertthunder/sangeet/internal/models"
	"github.com/desertthunder/sangeet/internal/repositories"
)

// DataStore implements [Store] on top of the SQLite repositories.
type DataStore struct {
	tracks    *repositories.TrackRepository
	users     *repositories.UserRepository
	favorites *repositories.FavoriteRepository
	playlists *repositories.PlaylistRepository
}

var _ Store = (*DataStore)(nil)

// NewDataStore creates a [DataStore] sharing the given database connection.
func NewDataStore(db *sql.DB) *DataStore {
	return &DataStore{
		tracks:    repositories.NewTrackRepository(db),
		users:     repositories.NewUserRepository(db),
		favorites: repositories.NewFavoriteRepository(db),
		playlists: repositories.NewPlaylistRepository(db),
	}
}

func (s *DataStore) ReadAllTracks(ctx context.Context) ([]models.Track, error) {
	return s.tracks.List(ctx, nil)
}

func (s *DataStore) ReadTrack(ctx context.Context, trackID string) (*models.Track, error) {
	return s.tracks.Get(ctx, trackID)
}

func (s *DataStore) ReadUser(ctx context.Context, userID string) (*models.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *DataStore) ReadFavorites(ctx context.Context, userID string) ([]models.Track, error) {
	return s.favorites.ListTracks(ctx, userID)
}

func (s *DataStore) ReadPlaylists(ctx context.Context, userID string) ([]models.Playlist, error) {
	return s.playlists.List(ctx, map[string]any{"user_id": userID})
}

func (s *DataStore) ReadPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	return s.playlists.Get(ctx, playlistID)
}

func (s *DataStore) WriteTrack(ctx context.Context, track *models.Track) error {
	return s.tracks.Create(ctx, track)
}

func (s *DataStore) ToggleFavorite(ctx context.Context, userID, trackID string) (bool, error) {
	return s.favorites.Toggle(ctx, userID, trackID)
}

func (s *DataStore) AppendToPlaylist(ctx context.Context, playlistID, trackID string) error {
	return s.playlists.AppendTrack(ctx, playlistID, trackID)
}

func (s *DataStore) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	return s.playlists.Create(ctx, playlist)
}

func (s *DataStore) UpdatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	return s.playlists.Update(ctx, playlist)
}

func (s *DataStore) DeletePlaylist(ctx context.Context, playlistID string) error {
	return s.playlists.Delete(ctx, playlistID)
}

func (s *DataStore) SaveUser(ctx context.Context, user *models.User) error {
	return s.users.Save(ctx, user)
}
