package tasks

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/sangeet/internal/models"
	"github.com/desertthunder/sangeet/internal/services"
	"github.com/desertthunder/sangeet/internal/shared"
	"github.com/desertthunder/sangeet/internal/state"
)

// Snapshot is a point-in-time copy of the dashboard state.
type Snapshot struct {
	Tracks       []models.Track    `json:"tracks"`
	Profile      *models.User      `json:"profile,omitempty"`
	Favorites    []models.Track    `json:"favorites"`
	Playlists    []models.Playlist `json:"playlists"`
	Recent       []models.Track    `json:"recently_played"`
	Recommended  []models.Track    `json:"recommended"`
	HasError     bool              `json:"has_error"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

// DashboardOptions sizes the derived views.
type DashboardOptions struct {
	RecentLimit      int
	RecommendedLimit int
}

type fetchOp struct {
	name    string
	phase   Phase
	message string
}

var (
	fetchTracksOp    = fetchOp{name: "tracks", phase: FetchTracks, message: "Fetching tracks..."}
	fetchProfileOp   = fetchOp{name: "profile", phase: FetchProfile, message: "Fetching profile..."}
	fetchFavoritesOp = fetchOp{name: "favorites", phase: FetchFavorites, message: "Fetching favorites..."}
	fetchPlaylistsOp = fetchOp{name: "playlists", phase: FetchPlaylists, message: "Fetching playlists..."}
)

const dashboardReads = 4

// DashboardCoordinator loads the dashboard data and publishes it into observable slots.
//
// The slots are exported so views can subscribe to them directly.
type DashboardCoordinator struct {
	store    services.Reader
	notifier Notifier
	logger   *log.Logger
	opts     DashboardOptions

	Tracks       *state.Slot[[]models.Track]
	Profile      *state.Slot[*models.User]
	Favorites    *state.Slot[[]models.Track]
	Playlists    *state.Slot[[]models.Playlist]
	HasError     *state.Slot[bool]
	ErrorMessage *state.Slot[string]
	Loading      *state.Slot[bool]

	refreshMu sync.Mutex
}

// NewDashboardCoordinator creates a [DashboardCoordinator] with empty slots.
//
// Non-positive limits fall back to [DefaultRecentLimit] and [DefaultRecommendedLimit].
func NewDashboardCoordinator(store services.Reader, notifier Notifier, logger *log.Logger, opts DashboardOptions) *DashboardCoordinator {
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	if opts.RecommendedLimit <= 0 {
		opts.RecommendedLimit = DefaultRecommendedLimit
	}

	return &DashboardCoordinator{
		store:        store,
		notifier:     orNop(notifier),
		logger:       orDefaultLogger(logger),
		opts:         opts,
		Tracks:       state.NewSlot([]models.Track{}),
		Profile:      state.NewSlot[*models.User](nil),
		Favorites:    state.NewSlot([]models.Track{}),
		Playlists:    state.NewSlot([]models.Playlist{}),
		HasError:     state.NewSlot(false),
		ErrorMessage: state.NewSlot(""),
		Loading:      state.NewSlot(false),
	}
}

// Refresh issues the four dashboard reads concurrently and waits for all of them.
//
// Every successful read is published to its slot as soon as it arrives. Failed reads leave their slot untouched,
// raise the error flag and send a notification; their errors are joined into the returned error.
func (d *DashboardCoordinator) Refresh(ctx context.Context, userID string, progress chan<- ProgressUpdate) error {
	d.refreshMu.Lock()
	defer d.refreshMu.Unlock()

	d.HasError.Set(false)
	d.ErrorMessage.Set("")

	if userID == "" {
		err := fmt.Errorf("%w: user id is required", shared.ErrValidation)
		d.fail(err)
		return err
	}

	d.Loading.Set(true)
	defer d.Loading.Set(false)

	var (
		wg   sync.WaitGroup
		errs errorList
	)

	onError := func(op fetchOp) func(error) {
		return func(err error) {
			wrapped := fmt.Errorf("%w: %s: %w", shared.ErrRead, op.name, err)
			errs.add(wrapped)
			d.logger.Error("dashboard read failed", "read", op.name, "error", err)
			d.fail(err)
		}
	}

	fetchInto(ctx, &wg, progress, fetchTracksOp, 1, d.Tracks, d.store.ReadAllTracks, onError(fetchTracksOp))
	fetchInto(ctx, &wg, progress, fetchProfileOp, 2, d.Profile, func(ctx context.Context) (*models.User, error) {
		return d.store.ReadUser(ctx, userID)
	}, onError(fetchProfileOp))
	fetchInto(ctx, &wg, progress, fetchFavoritesOp, 3, d.Favorites, func(ctx context.Context) ([]models.Track, error) {
		return d.store.ReadFavorites(ctx, userID)
	}, onError(fetchFavoritesOp))
	fetchInto(ctx, &wg, progress, fetchPlaylistsOp, 4, d.Playlists, func(ctx context.Context) ([]models.Playlist, error) {
		return d.store.ReadPlaylists(ctx, userID)
	}, onError(fetchPlaylistsOp))

	wg.Wait()

	failures := errs.list()
	d.logger.Debug("dashboard refreshed", "user", userID, "failures", len(failures))
	return joinErrors(failures)
}

// RefreshAsync runs [DashboardCoordinator.Refresh] in the background and yields the resulting [Snapshot].
//
// The snapshot is delivered even when some reads failed; Err then holds the joined read errors.
func (d *DashboardCoordinator) RefreshAsync(ctx context.Context, userID string, progress chan<- ProgressUpdate) <-chan Result[Snapshot] {
	return async(func() (Snapshot, error) {
		err := d.Refresh(ctx, userID, progress)
		return d.Snapshot(), err
	})
}

// Snapshot copies the current slot values and derives the recent and recommended views.
//
// The snapshot owns its slices and profile; mutating it never reaches the slots.
func (d *DashboardCoordinator) Snapshot() Snapshot {
	tracks := slices.Clone(d.Tracks.Get())
	var profile *models.User
	if p := d.Profile.Get(); p != nil {
		copied := *p
		profile = &copied
	}
	playlists := slices.Clone(d.Playlists.Get())
	for i := range playlists {
		playlists[i].TrackIDs = slices.Clone(playlists[i].TrackIDs)
	}
	return Snapshot{
		Tracks:       tracks,
		Profile:      profile,
		Favorites:    slices.Clone(d.Favorites.Get()),
		Playlists:    playlists,
		Recent:       RecentlyPlayed(tracks, d.opts.RecentLimit),
		Recommended:  Recommended(tracks, d.opts.RecommendedLimit),
		HasError:     d.HasError.Get(),
		ErrorMessage: d.ErrorMessage.Get(),
	}
}

// RecentlyPlayed derives the recent view from the current track slot.
func (d *DashboardCoordinator) RecentlyPlayed() []models.Track {
	return RecentlyPlayed(d.Tracks.Get(), d.opts.RecentLimit)
}

// Recommended derives the recommended view from the current track slot.
func (d *DashboardCoordinator) Recommended() []models.Track {
	return Recommended(d.Tracks.Get(), d.opts.RecommendedLimit)
}

func (d *DashboardCoordinator) fail(err error) {
	d.notifier.Notify(failed(fmt.Sprintf("Error refreshing: %v", err)))
	d.ErrorMessage.Set(err.Error())
	d.HasError.Set(true)
}

// fetchInto runs read in its own goroutine and publishes a successful result to slot.
func fetchInto[T any](
	ctx context.Context,
	wg *sync.WaitGroup,
	progress chan<- ProgressUpdate,
	op fetchOp,
	step int,
	slot *state.Slot[T],
	read func(context.Context) (T, error),
	onError func(error),
) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		sendProgress(progress, fetchUpdate(op, step, dashboardReads))
		v, err := read(ctx)
		if err != nil {
			onError(err)
			return
		}
		slot.Set(v)
		sendProgress(progress, fetchDoneUpdate(op, step, dashboardReads, v))
	}()
}
