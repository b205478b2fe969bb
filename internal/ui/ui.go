package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sableaudio/mixtape/internal/models"
	"github.com/sableaudio/mixtape/internal/player"
	"github.com/sableaudio/mixtape/internal/playlist"
	"github.com/sableaudio/mixtape/internal/search"
	"github.com/sableaudio/mixtape/internal/services"
	"github.com/sableaudio/mixtape/internal/session"
	"github.com/sableaudio/mixtape/internal/store"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	PlaylistView
	SaveView
)

// Deps carries the application services the TUI drives.
type Deps struct {
	Session  *session.Manager
	Searcher *search.Client
	Playlist *playlist.Manager
	Player   *player.Player
	API      *services.SpotifyService
	History  *store.HistoryRepository
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	session  *session.Manager
	searcher *search.Client
	builder  *playlist.Manager
	player   *player.Player
	api      *services.SpotifyService
	history  *store.HistoryRepository

	width  int
	height int

	input        textinput.Model
	results      list.Model
	playlistList list.Model

	renaming    bool
	renameInput textinput.Model

	saving    bool
	saved     *models.RemotePlaylist
	err       error
	playerErr error

	help help.Model
	keys keyMap

	debouncer    *search.Debouncer
	queries      chan string
	playerEvents chan struct{}
}

type queryQueuedMsg string

type searchResultsMsg search.Result

type savedMsg struct {
	created *models.RemotePlaylist
	err     error
}

type statusTickMsg time.Time

type playerDoneMsg struct {
	err error
}

type playerStateMsg struct{}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	input := textinput.New()
	input.Placeholder = "Search for tracks..."
	input.Focus()

	renameInput := textinput.New()
	renameInput.Placeholder = "Playlist name"

	results := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	results.Title = "Results"
	results.SetShowHelp(false)
	results.SetFilteringEnabled(false)

	playlistList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	playlistList.SetShowHelp(false)
	playlistList.SetFilteringEnabled(false)

	m := &Model{
		ctx:          ctx,
		view:         SearchView,
		session:      deps.Session,
		searcher:     deps.Searcher,
		builder:      deps.Playlist,
		player:       deps.Player,
		api:          deps.API,
		history:      deps.History,
		input:        input,
		renameInput:  renameInput,
		results:      results,
		playlistList: playlistList,
		help:         help.New(),
		keys:         newKeyMap(),
		debouncer:    search.NewDebouncer(search.DebounceInterval),
		queries:      make(chan string, 8),
		playerEvents: make(chan struct{}, 1),
	}
	m.refreshPlaylist()

	if m.player != nil {
		// Runs with the player's lock held; the send must not block.
		m.player.OnChange(func() {
			select {
			case m.playerEvents <- struct{}{}:
			default:
			}
		})
	}
	return m
}

// Init starts the debounce pump, the player event pump, and the status ticker.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForQuery(), m.waitForPlayerState(), m.tick())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		m.results.SetSize(msg.Width-4, msg.Height-10)
		m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case PlaylistView:
			return m.handlePlaylistKeys(msg)
		case SaveView:
			return m.handleSaveKeys(msg)
		}

	case queryQueuedMsg:
		return m, tea.Batch(m.runSearch(string(msg)), m.waitForQuery())

	case searchResultsMsg:
		// A newer query may have been issued while this one was in
		// flight; its response wins regardless of arrival order.
		if !m.searcher.Accept(search.Result(msg)) {
			return m, nil
		}
		m.results.SetItems(trackItems(msg.Tracks))
		return m, nil

	case savedMsg:
		m.saving = false
		m.saved = msg.created
		m.err = msg.err
		m.view = SaveView
		return m, nil

	case playerDoneMsg:
		m.playerErr = msg.err
		return m, nil

	case playerStateMsg:
		// Rendering picks up the new player state; just re-arm the pump.
		return m, m.waitForPlayerState()

	case statusTickMsg:
		return m, m.tick()
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderSearch()
	case PlaylistView:
		return m.renderPlaylist()
	case SaveView:
		return m.renderSave()
	default:
		return ""
	}
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.view = PlaylistView
		m.refreshPlaylist()
		return m, nil
	case "up", "down", "ctrl+k", "ctrl+j":
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	case "enter":
		if selected, ok := m.results.SelectedItem().(trackItem); ok {
			m.builder.Add(selected.track)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	query := m.input.Value()
	m.debouncer.Trigger(func() { m.queries <- query })
	return m, cmd
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.renaming {
		switch msg.String() {
		case "esc":
			m.renaming = false
			return m, nil
		case "enter":
			m.builder.Rename(m.renameInput.Value())
			m.renaming = false
			m.refreshPlaylist()
			return m, nil
		}

		var cmd tea.Cmd
		m.renameInput, cmd = m.renameInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.pane), key.Matches(msg, m.keys.back):
		m.view = SearchView
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if selected, ok := m.playlistList.SelectedItem().(trackItem); ok {
			m.builder.Remove(selected.track.ID)
			m.refreshPlaylist()
		}
		return m, nil
	case key.Matches(msg, m.keys.shuffle):
		m.builder.Shuffle()
		m.refreshPlaylist()
		return m, nil
	case key.Matches(msg, m.keys.rename):
		m.renaming = true
		m.renameInput.SetValue(m.builder.Name())
		m.renameInput.Focus()
		return m, nil
	case key.Matches(msg, m.keys.save):
		if m.saving {
			return m, nil
		}
		m.saving = true
		return m, m.saveCmd()
	case key.Matches(msg, m.keys.enter):
		if selected, ok := m.playlistList.SelectedItem().(trackItem); ok {
			return m, m.playerCmd(func(ctx context.Context) error {
				return m.player.PlayTrack(ctx, selected.track)
			})
		}
		return m, nil
	case key.Matches(msg, m.keys.toggle):
		return m, m.playerCmd(m.player.TogglePlayPause)
	case key.Matches(msg, m.keys.next):
		return m, m.stepCmd(1)
	case key.Matches(msg, m.keys.prev):
		return m, m.stepCmd(-1)
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

// stepCmd moves playback through the working playlist relative to the track
// currently loaded. Tracks playing from outside the draft fall back to the
// device's own next/previous.
func (m *Model) stepCmd(delta int) tea.Cmd {
	return m.playerCmd(func(ctx context.Context) error {
		if current := m.player.CurrentTrack(); current != nil {
			if i := m.builder.IndexOf(current.ID); i >= 0 {
				tracks := m.builder.Tracks()
				if j := i + delta; j >= 0 && j < len(tracks) {
					return m.player.PlayTrack(ctx, tracks[j])
				}
				return nil
			}
		}
		if delta > 0 {
			return m.player.Next(ctx)
		}
		return m.player.Previous(ctx)
	})
}

func (m *Model) handleSaveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.saved = nil
		m.err = nil
		m.view = SearchView
		return m, nil
	}
	return m, nil
}

func (m *Model) refreshPlaylist() {
	m.playlistList.Title = fmt.Sprintf("%s (%d tracks)", m.builder.Name(), m.builder.Len())
	m.playlistList.SetItems(trackItems(m.builder.Tracks()))
}

func (m *Model) waitForQuery() tea.Cmd {
	return func() tea.Msg {
		query, ok := <-m.queries
		if !ok {
			return nil
		}
		return queryQueuedMsg(query)
	}
}

func (m *Model) runSearch(query string) tea.Cmd {
	return func() tea.Msg {
		return searchResultsMsg(m.searcher.Search(m.ctx, m.session.Session(), query))
	}
}

func (m *Model) saveCmd() tea.Cmd {
	return func() tea.Msg {
		var created *models.RemotePlaylist
		err := m.session.WithRetry(m.ctx, func(ctx context.Context) error {
			var err error
			created, err = m.builder.Save(ctx, m.session.Session(), m.api)
			return err
		})

		if err == nil && m.history != nil {
			_, _ = m.history.Record(created.ID, created.Name, created.TrackCount)
		}
		return savedMsg{created: created, err: err}
	}
}

func (m *Model) playerCmd(op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return playerDoneMsg{err: op(m.ctx)}
	}
}

func (m *Model) waitForPlayerState() tea.Cmd {
	return func() tea.Msg {
		<-m.playerEvents
		return playerStateMsg{}
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Build a Playlist")
	helpKeys := []key.Binding{m.keys.enter, m.keys.pane, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n%s", title, m.input.View(), m.results.View(), m.statusBar(), helpView)
}

func (m *Model) renderPlaylist() string {
	if m.renaming {
		title := styles.title.Render("Rename Playlist")
		return fmt.Sprintf("%s\n%s\n", title, m.renameInput.View())
	}

	body := m.playlistList.View()
	if m.saving {
		body = fmt.Sprintf("%s\n\n%s", body, styles.warn.Render("Saving playlist..."))
	}

	helpKeys := []key.Binding{m.keys.remove, m.keys.shuffle, m.keys.rename, m.keys.save, m.keys.toggle, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s\n%s", body, m.statusBar(), helpView)
}

func (m *Model) renderSave() string {
	if m.err != nil {
		body := styles.err.Render(fmt.Sprintf("Save failed: %v", m.err))
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})
		return fmt.Sprintf("%s\n\n%s", body, helpView)
	}

	title := styles.ok.Render("✓ Playlist Saved")
	info := fmt.Sprintf("\n%s (%d tracks)\n", m.saved.Name, m.saved.TrackCount)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})
	return fmt.Sprintf("%s%s\n%s", title, info, helpView)
}

func (m *Model) statusBar() string {
	if m.playerErr != nil {
		return styles.err.Render(fmt.Sprintf("✗ %v", m.playerErr))
	}
	if m.player == nil {
		return ""
	}

	switch m.player.State() {
	case player.StatePlaying:
		if track := m.player.CurrentTrack(); track != nil {
			return styles.ok.Render(fmt.Sprintf("▶ %s • %s", track.Name, track.ArtistLine()))
		}
		return styles.ok.Render("▶ playing")
	case player.StatePaused:
		if track := m.player.CurrentTrack(); track != nil {
			return styles.warn.Render(fmt.Sprintf("⏸ %s • %s", track.Name, track.ArtistLine()))
		}
		return styles.warn.Render("⏸ paused")
	case player.StateReady:
		return styles.help.Render("device ready")
	case player.StateConnecting:
		return styles.help.Render("connecting to playback device...")
	default:
		return styles.help.Render("playback unavailable")
	}
}
