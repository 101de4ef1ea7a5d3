package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/sangeet/internal/models"
	"github.com/desertthunder/sangeet/internal/tasks"
)

// Section is a tab of the dashboard.
type Section int

const (
	TracksSection Section = iota
	FavoritesSection
	RecentSection
	RecommendedSection
	PlaylistsSection
	sectionCount
)

func (s Section) String() string {
	switch s {
	case TracksSection:
		return "Tracks"
	case FavoritesSection:
		return "Favorites"
	case RecentSection:
		return "Recently Played"
	case RecommendedSection:
		return "Recommended"
	case PlaylistsSection:
		return "Playlists"
	default:
		return ""
	}
}

// Options wires a [Model] to its coordinators.
//
// Library should publish its reloaded favorites into Dashboard.Favorites so toggles show up without a refresh.
type Options struct {
	UserID    string
	Dashboard *tasks.DashboardCoordinator
	Library   *tasks.LibraryCoordinator
	Bus       *Bus
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	userID    string
	dashboard *tasks.DashboardCoordinator
	library   *tasks.LibraryCoordinator
	bus       *Bus

	section   Section
	picking   bool
	pickTrack string

	snapshot  tasks.Snapshot
	favorites map[string]bool
	loading   bool
	toast     *tasks.Notification

	width   int
	height  int
	entries list.Model
	picker  list.Model
	help    help.Model
	keys    keyMap

	unsubscribe []func()
}

// NewModel creates a dashboard model subscribed to the coordinator's slots.
//
// Call [Model.Close] when the program exits to drop the subscriptions.
func NewModel(ctx context.Context, opts Options) *Model {
	bus := opts.Bus
	if bus == nil {
		bus = NewBus(16)
	}

	m := &Model{
		ctx:       ctx,
		userID:    opts.UserID,
		dashboard: opts.Dashboard,
		library:   opts.Library,
		bus:       bus,
		favorites: map[string]bool{},
		entries:   list.New(nil, list.NewDefaultDelegate(), 0, 0),
		picker:    list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:      help.New(),
		keys:      newKeyMap(),
	}
	m.entries.SetShowTitle(false)
	m.entries.SetShowHelp(false)
	m.picker.Title = "Add to playlist"
	m.picker.SetShowHelp(false)

	d := opts.Dashboard
	m.unsubscribe = []func(){
		watch(bus, d.Tracks),
		watch(bus, d.Profile),
		watch(bus, d.Favorites),
		watch(bus, d.Playlists),
		watch(bus, d.HasError),
		watch(bus, d.Loading),
	}
	m.sync()
	return m
}

// Close removes the slot subscriptions.
func (m *Model) Close() {
	for _, unsub := range m.unsubscribe {
		unsub()
	}
	m.unsubscribe = nil
}

// Section returns the active section.
func (m *Model) Section() Section { return m.section }

// Init starts the first refresh and begins listening on the bus.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.bus.wait(m.ctx))
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.entries.SetSize(msg.Width-4, msg.Height-8)
		m.picker.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if m.picking {
			return m.handlePickerKeys(msg)
		}
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgStateChanged:
		m.sync()
		return m, m.bus.wait(m.ctx)
	case MsgNotification:
		n := msg.data.(tasks.Notification)
		m.toast = &n
		return m, m.bus.wait(m.ctx)
	case MsgRefreshDone, MsgToggleDone, MsgAttachDone:
		// Outcomes arrive through the notifier.
		m.sync()
	}
	return m, nil
}

// View renders the dashboard.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.picking {
		b.WriteString(m.picker.View())
		b.WriteString("\n\n")
		b.WriteString(m.help.ShortHelpView(m.keys.pickHelp()))
		return b.String()
	}

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	if len(m.entries.Items()) == 0 {
		b.WriteString(styles.muted.Render(fmt.Sprintf("No %s yet", strings.ToLower(m.section.String()))))
	} else {
		b.WriteString(m.entries.View())
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.entries.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.next):
		m.section = (m.section + 1) % sectionCount
		m.entries.ResetSelected()
		m.sync()
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.refresh()
	case key.Matches(msg, m.keys.favorite):
		if track, ok := m.selectedTrack(); ok {
			return m, m.toggleFavorite(track.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.add):
		if track, ok := m.selectedTrack(); ok {
			m.picking = true
			m.pickTrack = track.ID
			m.picker.SetItems(playlistItems(m.snapshot.Playlists))
			m.picker.ResetSelected()
		}
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handlePickerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.picking = false
		m.pickTrack = ""
		return m, nil
	case key.Matches(msg, m.keys.enter):
		selected, ok := m.picker.SelectedItem().(playlistItem)
		if !ok {
			return m, nil
		}
		trackID := m.pickTrack
		m.picking = false
		m.pickTrack = ""
		return m, m.attach(selected.playlist.ID, trackID)
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.picking {
		m.picker, cmd = m.picker.Update(msg)
	} else {
		m.entries, cmd = m.entries.Update(msg)
	}
	return m, cmd
}

// sync re-reads the coordinator state and rebuilds the visible list.
func (m *Model) sync() {
	m.snapshot = m.dashboard.Snapshot()
	m.loading = m.dashboard.Loading.Get()
	m.favorites = tasks.FavoriteSet(m.snapshot.Favorites)

	switch m.section {
	case TracksSection:
		m.entries.SetItems(trackItems(m.snapshot.Tracks, m.favorites))
	case FavoritesSection:
		m.entries.SetItems(trackItems(m.snapshot.Favorites, m.favorites))
	case RecentSection:
		m.entries.SetItems(trackItems(m.snapshot.Recent, m.favorites))
	case RecommendedSection:
		m.entries.SetItems(trackItems(m.snapshot.Recommended, m.favorites))
	case PlaylistsSection:
		m.entries.SetItems(playlistItems(m.snapshot.Playlists))
	}
}

func (m *Model) selectedTrack() (models.Track, bool) {
	item, ok := m.entries.SelectedItem().(trackItem)
	if !ok {
		return models.Track{}, false
	}
	return item.track, true
}

func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg(m.dashboard.Refresh(m.ctx, m.userID, nil))
	}
}

func (m *Model) toggleFavorite(trackID string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.library.ToggleFavorite(m.ctx, m.userID, trackID, nil)
		return toggleDoneMsg(result, err)
	}
}

func (m *Model) attach(playlistID, trackID string) tea.Cmd {
	return func() tea.Msg {
		return attachDoneMsg(m.library.AttachToPlaylist(m.ctx, playlistID, trackID, nil))
	}
}

func (m *Model) renderHeader() string {
	name := "sangeet"
	if p := m.snapshot.Profile; p != nil && p.Name != "" {
		name = fmt.Sprintf("sangeet • %s", p.Name)
	}
	return styles.title.Render(name)
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, sectionCount)
	for s := Section(0); s < sectionCount; s++ {
		label := s.String()
		if s == m.section {
			tabs = append(tabs, styles.active.Render(label))
		} else {
			tabs = append(tabs, styles.tab.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (m *Model) renderStatus() string {
	switch {
	case m.loading:
		return styles.muted.Render("Loading...")
	case m.snapshot.HasError:
		return styles.err.Render("Error: " + m.snapshot.ErrorMessage)
	case m.toast != nil:
		return styles.Toast(*m.toast)
	default:
		return styles.muted.Render(fmt.Sprintf("%d tracks • %d favorites", len(m.snapshot.Tracks), len(m.snapshot.Favorites)))
	}
}
