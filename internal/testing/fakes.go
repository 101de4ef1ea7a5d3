package testing

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/desertthunder/sangeet/internal/models"
	"github.com/desertthunder/sangeet/internal/services"
	"github.com/desertthunder/sangeet/internal/shared"
	"github.com/desertthunder/sangeet/internal/tasks"
)

// FakeStore is an in-memory [services.Store] that records calls and can be told to fail per method.
//
// Method names used by [FakeStore.Fail] and [FakeStore.Calls] match the interface method names.
type FakeStore struct {
	mu        sync.Mutex
	tracks    []models.Track
	users     map[string]models.User
	favorites map[string][]string
	playlists []models.Playlist
	errs      map[string]error
	calls     map[string]int
	nextID    int
}

var _ services.Store = (*FakeStore)(nil)

func NewFakeStore() *FakeStore {
	return &FakeStore{
		users:     map[string]models.User{},
		favorites: map[string][]string{},
		errs:      map[string]error{},
		calls:     map[string]int{},
	}
}

// Fail makes every later call to method return err. A nil err clears the failure.
func (s *FakeStore) Fail(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.errs, method)
		return
	}
	s.errs[method] = err
}

// Calls returns how many times method was invoked.
func (s *FakeStore) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (s *FakeStore) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// AddTracks seeds tracks without counting as calls.
func (s *FakeStore) AddTracks(tracks ...models.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks = append(s.tracks, tracks...)
}

// AddUser seeds a profile without counting as a call.
func (s *FakeStore) AddUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// AddPlaylist seeds a playlist without counting as a call.
func (s *FakeStore) AddPlaylist(p models.Playlist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists = append(s.playlists, p)
}

// Playlist returns a copy of the stored playlist with the given id.
func (s *FakeStore) Playlist(id string) (models.Playlist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.playlists {
		if p.ID == id {
			p.TrackIDs = append([]string{}, p.TrackIDs...)
			return p, true
		}
	}
	return models.Playlist{}, false
}

// Tracks returns a copy of the stored tracks.
func (s *FakeStore) Tracks() []models.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Track{}, s.tracks...)
}

// begin records a call and returns the configured failure. Callers hold s.mu.
func (s *FakeStore) begin(method string) error {
	s.calls[method]++
	return s.errs[method]
}

func (s *FakeStore) ReadAllTracks(ctx context.Context) ([]models.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("ReadAllTracks"); err != nil {
		return nil, err
	}
	return append([]models.Track{}, s.tracks...), nil
}

// hasTrack reports whether trackID was written or seeded. Callers hold s.mu.
func (s *FakeStore) hasTrack(trackID string) bool {
	return slices.ContainsFunc(s.tracks, func(t models.Track) bool { return t.ID == trackID })
}

func trackNotFound(trackID string) error {
	return fmt.Errorf("track %w: %s", shared.ErrNotFound, trackID)
}

func playlistNotFound(playlistID string) error {
	return fmt.Errorf("playlist %w: %s", shared.ErrNotFound, playlistID)
}

func (s *FakeStore) ReadTrack(ctx context.Context, trackID string) (*models.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("ReadTrack"); err != nil {
		return nil, err
	}
	for _, t := range s.tracks {
		if t.ID == trackID {
			return &t, nil
		}
	}
	return nil, trackNotFound(trackID)
}

func (s *FakeStore) ReadUser(ctx context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("ReadUser"); err != nil {
		return nil, err
	}
	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %w: %s", shared.ErrNotFound, userID)
	}
	return &u, nil
}

func (s *FakeStore) ReadFavorites(ctx context.Context, userID string) ([]models.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("ReadFavorites"); err != nil {
		return nil, err
	}
	out := []models.Track{}
	for _, id := range s.favorites[userID] {
		track := models.Track{ID: id}
		for _, t := range s.tracks {
			if t.ID == id {
				track = t
				break
			}
		}
		out = append(out, track)
	}
	return out, nil
}

func (s *FakeStore) ReadPlaylists(ctx context.Context, userID string) ([]models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("ReadPlaylists"); err != nil {
		return nil, err
	}
	out := []models.Playlist{}
	for _, p := range s.playlists {
		if p.Owner == userID {
			p.TrackIDs = append([]string{}, p.TrackIDs...)
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *FakeStore) ReadPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("ReadPlaylist"); err != nil {
		return nil, err
	}
	for _, p := range s.playlists {
		if p.ID == playlistID {
			p.TrackIDs = append([]string{}, p.TrackIDs...)
			return &p, nil
		}
	}
	return nil, playlistNotFound(playlistID)
}

func (s *FakeStore) WriteTrack(ctx context.Context, track *models.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("WriteTrack"); err != nil {
		return err
	}
	s.tracks = append(s.tracks, *track)
	return nil
}

func (s *FakeStore) ToggleFavorite(ctx context.Context, userID, trackID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("ToggleFavorite"); err != nil {
		return false, err
	}
	ids := s.favorites[userID]
	for i, id := range ids {
		if id == trackID {
			s.favorites[userID] = append(ids[:i:i], ids[i+1:]...)
			return false, nil
		}
	}
	if !s.hasTrack(trackID) {
		return false, trackNotFound(trackID)
	}
	s.favorites[userID] = append(ids, trackID)
	return true, nil
}

func (s *FakeStore) AppendToPlaylist(ctx context.Context, playlistID, trackID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("AppendToPlaylist"); err != nil {
		return err
	}
	for i := range s.playlists {
		if s.playlists[i].ID == playlistID {
			if !s.hasTrack(trackID) {
				return trackNotFound(trackID)
			}
			s.playlists[i].TrackIDs = append(s.playlists[i].TrackIDs, trackID)
			return nil
		}
	}
	return playlistNotFound(playlistID)
}

func (s *FakeStore) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("CreatePlaylist"); err != nil {
		return err
	}
	if playlist.ID == "" {
		s.nextID++
		playlist.ID = fmt.Sprintf("playlist-%d", s.nextID)
	}
	p := *playlist
	p.TrackIDs = append([]string{}, playlist.TrackIDs...)
	s.playlists = append(s.playlists, p)
	return nil
}

func (s *FakeStore) UpdatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("UpdatePlaylist"); err != nil {
		return err
	}
	for i := range s.playlists {
		if s.playlists[i].ID == playlist.ID {
			s.playlists[i].Name = playlist.Name
			s.playlists[i].Description = playlist.Description
			return nil
		}
	}
	return playlistNotFound(playlist.ID)
}

func (s *FakeStore) DeletePlaylist(ctx context.Context, playlistID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("DeletePlaylist"); err != nil {
		return err
	}
	for i := range s.playlists {
		if s.playlists[i].ID == playlistID {
			s.playlists = slices.Delete(s.playlists, i, i+1)
			return nil
		}
	}
	return playlistNotFound(playlistID)
}

func (s *FakeStore) SaveUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("SaveUser"); err != nil {
		return err
	}
	s.users[user.ID] = *user
	return nil
}

// FakeStorage is an [services.ObjectStorage] returning predictable URLs.
type FakeStorage struct {
	mu      sync.Mutex
	BaseURL string
	errs    map[services.AssetKind]error
	uploads []services.AssetKind
}

var _ services.ObjectStorage = (*FakeStorage)(nil)

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{BaseURL: "https://cdn.test", errs: map[services.AssetKind]error{}}
}

// Fail makes uploads of kind return err.
func (s *FakeStorage) Fail(kind services.AssetKind, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[kind] = err
}

// Uploads returns the kinds uploaded so far, in order.
func (s *FakeStorage) Uploads() []services.AssetKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]services.AssetKind{}, s.uploads...)
}

func (s *FakeStorage) UploadAsset(ctx context.Context, r io.Reader, kind services.AssetKind) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, kind)
	if err := s.errs[kind]; err != nil {
		return "", err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%d", s.BaseURL, kind, len(s.uploads)), nil
}

// FakeIdentity is a fixed [services.Identity].
type FakeIdentity struct {
	UserID string
	Err    error
}

func (f FakeIdentity) CurrentUserID(ctx context.Context) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	if f.UserID == "" {
		return "", shared.ErrNotAuthenticated
	}
	return f.UserID, nil
}

// RecordingNotifier keeps every notification it receives.
type RecordingNotifier struct {
	mu    sync.Mutex
	notes []tasks.Notification
}

func (r *RecordingNotifier) Notify(n tasks.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

// Notifications returns a copy of the recorded notifications.
func (r *RecordingNotifier) Notifications() []tasks.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tasks.Notification{}, r.notes...)
}

// Messages returns the recorded messages at the given level.
func (r *RecordingNotifier) Messages(level tasks.Level) []string {
	var out []string
	for _, n := range r.Notifications() {
		if n.Level == level {
			out = append(out, n.Message)
		}
	}
	return out
}
