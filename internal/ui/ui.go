package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/redcliffe/strum/internal/models"
	"github.com/redcliffe/strum/internal/notify"
	"github.com/redcliffe/strum/internal/player"
	"github.com/redcliffe/strum/internal/services"
	"github.com/redcliffe/strum/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ArtistListView ViewState = iota
	SongListView
	SearchView
)

// ModelOpts contains the dependencies for creating a Model.
type ModelOpts struct {
	Catalog    services.Service
	Engine     *tasks.Engine
	Controller *player.Controller
	Notifier   *notify.Service
	Enqueue    func(songID int) // Offline cache hook, may be nil
}

// Model represents the TUI application state.
type Model struct {
	ctx           context.Context
	view          ViewState
	catalog       services.Service
	engine        *tasks.Engine
	controller    *player.Controller
	notifier      *notify.Service
	enqueue       func(int)
	width         int
	height        int
	artistList    list.Model
	artists       []models.Artist
	songList      list.Model
	currentArtist *models.Artist
	searchInput   textinput.Model
	surface       searchSurface
	err           error
	help          help.Model
	keys          keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	input := textinput.New()
	input.Placeholder = "Search the catalog..."
	input.CharLimit = 120

	return &Model{
		ctx:         ctx,
		view:        ArtistListView,
		catalog:     opts.Catalog,
		engine:      opts.Engine,
		controller:  opts.Controller,
		notifier:    opts.Notifier,
		enqueue:     opts.Enqueue,
		searchInput: input,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// StateChanged builds the message that forces a redraw after asynchronous
// state owned outside the event loop changed.
func StateChanged() tea.Msg { return stateChangedMsg{} }

// Reload builds the message that refetches the current song listing.
func Reload() tea.Msg { return reloadMsg{} }

// Init initializes the TUI by fetching the artist listing.
func (m *Model) Init() tea.Cmd {
	return m.fetchArtists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.artistList.Width() == 0 {
			m.artistList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.songList.Width() == 0 {
			m.songList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ArtistListView:
			return m.handleArtistListKeys(msg)
		case SongListView:
			return m.handleSongListKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		}

	case artistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.artists = msg.artists
		items := make([]list.Item, len(msg.artists))
		for i, a := range msg.artists {
			items[i] = artistItem{artist: a}
		}
		m.artistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.artistList.Title = "Artists"
		m.artistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case songsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = ArtistListView
			return m, nil
		}
		items := make([]list.Item, len(msg.songs))
		for i, s := range msg.songs {
			items[i] = newSongItem(s)
		}
		m.songList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		if m.currentArtist != nil {
			m.songList.Title = fmt.Sprintf("Songs by %s", m.currentArtist.Name)
		} else {
			m.songList.Title = "Songs"
		}
		m.songList.SetSize(m.width-4, m.height-8)
		if m.view == ArtistListView {
			m.view = SongListView
		}
		return m, nil

	case searchFinishedMsg:
		m.surface.resolve(msg, m.width, m.height)
		return m, nil

	case downloadFinishedMsg:
		if msg.outcome.CloseSurface {
			m.surface.close()
			m.searchInput.Reset()
			m.view = SongListView
		}
		return m, nil

	case reloadMsg:
		if m.currentArtist != nil {
			return m, m.fetchSongs(*m.currentArtist)
		}
		return m, m.fetchArtists()

	case stateChangedMsg:
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	overlay := renderNotifications(m.notifier.Stack())

	var body string
	switch m.view {
	case ArtistListView:
		body = m.renderArtistList()
	case SongListView:
		body = m.renderSongList()
	case SearchView:
		body = m.renderSearch()
	}

	if overlay == "" {
		return body
	}
	return fmt.Sprintf("%s\n%s", overlay, body)
}

func (m *Model) handleArtistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.controller.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.dismiss):
		m.dismissNewest()
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.artistList.SelectedItem().(artistItem); ok {
			m.currentArtist = &item.artist
			return m, m.fetchSongs(item.artist)
		}
	}

	var cmd tea.Cmd
	m.artistList, cmd = m.artistList.Update(msg)
	return m, cmd
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.controller.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ArtistListView
		return m, nil
	case key.Matches(msg, m.keys.dismiss):
		m.dismissNewest()
		return m, nil
	case key.Matches(msg, m.keys.search):
		m.surface.close()
		m.searchInput.Reset()
		m.searchInput.Focus()
		m.view = SearchView
		return m, textinput.Blink
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.songList.SelectedItem().(songItem); ok {
			m.controller.Play(item.song.ID, item.control)
			if m.enqueue != nil {
				m.enqueue(item.song.ID)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.controller.Stop()
		return m, tea.Quit
	case "esc":
		m.surface.close()
		m.searchInput.Reset()
		m.view = SongListView
		return m, nil
	case "x":
		if !m.searchInput.Focused() {
			m.dismissNewest()
			return m, nil
		}
	case "/":
		if !m.searchInput.Focused() {
			m.searchInput.Focus()
			return m, textinput.Blink
		}
	case "enter":
		if m.searchInput.Focused() {
			m.searchInput.Blur()
			return m, m.startSearch(m.searchInput.Value())
		}
		if result, ok := m.surface.selected(); ok {
			return m, m.startDownload(result)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.searchInput.Focused() {
		m.searchInput, cmd = m.searchInput.Update(msg)
	} else if m.surface.state == surfaceResults {
		m.surface.results, cmd = m.surface.results.Update(msg)
	}
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ArtistListView:
		m.artistList, cmd = m.artistList.Update(msg)
	case SongListView:
		m.songList, cmd = m.songList.Update(msg)
	}
	return m, cmd
}

// dismissNewest removes the most recently pushed notification.
func (m *Model) dismissNewest() {
	stack := m.notifier.Stack()
	if len(stack) > 0 {
		m.notifier.Dismiss(stack[len(stack)-1].ID)
	}
}

func (m *Model) fetchArtists() tea.Cmd {
	return func() tea.Msg {
		artists, err := m.catalog.ListArtists(m.ctx)
		return artistsFetchedMsg{artists: artists, err: err}
	}
}

func (m *Model) fetchSongs(artist models.Artist) tea.Cmd {
	return func() tea.Msg {
		songs, err := m.catalog.ListSongs(m.ctx, artist.ID)
		return songsFetchedMsg{artistID: artist.ID, songs: songs, err: err}
	}
}

// startSearch opens the results surface synchronously in the loading state
// and issues one search request under the surface's new token.
func (m *Model) startSearch(query string) tea.Cmd {
	token := m.surface.open(query)

	artistName := ""
	if m.currentArtist != nil {
		artistName = m.currentArtist.Name
	}

	return func() tea.Msg {
		results, err := m.engine.Search(m.ctx, query, artistName)
		return searchFinishedMsg{token: token, results: results, err: err}
	}
}

func (m *Model) startDownload(result models.SearchResult) tea.Cmd {
	artistID := 0
	if m.currentArtist != nil {
		artistID = m.currentArtist.ID
	}

	return func() tea.Msg {
		outcome := m.engine.Download(m.ctx, artistID, result)
		return downloadFinishedMsg{outcome: outcome}
	}
}

func (m *Model) renderArtistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.artistList.View(), helpView)
}

func (m *Model) renderSongList() string {
	playKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play/stop"))
	helpKeys := []key.Binding{playKey, m.keys.search, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.songList.View(), helpView)
}

func (m *Model) renderSearch() string {
	title := "Search catalog"
	if m.currentArtist != nil {
		title = fmt.Sprintf("Search catalog for %s", m.currentArtist.Name)
	}

	addKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add to collection"))
	helpKeys := []key.Binding{addKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf(
		"%s\n%s\n\n%s\n\n%s",
		styles.title.Render(title),
		m.searchInput.View(),
		m.surface.view(),
		helpView,
	)
}
