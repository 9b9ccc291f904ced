package ui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/snake-duel/internal/client/connection"
	"github.com/yourusername/snake-duel/internal/protocol"
)

// ViewState represents the current view in the TUI
type ViewState int

const (
	ViewLoading ViewState = iota
	ViewEntry
	ViewLobby
	ViewGame
)

func (v ViewState) String() string {
	switch v {
	case ViewEntry:
		return "entry"
	case ViewLobby:
		return "lobby"
	case ViewGame:
		return "game"
	default:
		return "loading"
	}
}

// entry screen input fields
const (
	fieldName = iota
	fieldRoom
)

var errConnectionClosed = errors.New("connection closed")

// Board is the grid geometry the client draws; it must match the server's
type Board struct {
	SizeX int
	SizeY int
	Scale int
}

// cellWidth is how many terminal columns one grid cell takes
func (b Board) cellWidth() int {
	w := b.Scale / 10
	if w < 1 {
		return 1
	}
	if w > 3 {
		return 3
	}
	return w
}

// Options configures a new Model
type Options struct {
	ServerURL string
	Codec     protocol.Codec
	Board     Board

	// Prefilled entry fields
	Name string
	Room string
}

// Model is the main Bubble Tea model
type Model struct {
	viewState ViewState
	connMgr   *connection.Manager   // Single connection manager, reused throughout session
	eventChan chan connection.Event // Channel for connection events

	board  Board
	width  int
	height int
	err    error

	// Entry screen
	nameInput string
	roomInput string
	focus     int

	// Loading screen
	loadingDots      int
	serverURL        string
	reconnectAttempt int  // Current reconnection attempt
	maxReconnects    int  // Maximum reconnection attempts
	waitingToRetry   bool // True when waiting for retry delay
}

// NewModel creates a new Bubble Tea model with a connection manager
func NewModel(opts Options) Model {
	connMgr := connection.NewManager(opts.ServerURL, opts.Codec)

	eventChan := make(chan connection.Event, 64)
	connMgr.OnEvent(func(event connection.Event) {
		eventChan <- event
	})

	return Model{
		viewState:     ViewLoading,
		connMgr:       connMgr,
		eventChan:     eventChan,
		board:         opts.Board,
		width:         80,
		height:        24,
		nameInput:     opts.Name,
		roomInput:     opts.Room,
		serverURL:     opts.ServerURL,
		maxReconnects: 5,
	}
}

// NewModelWithView creates a model starting at a specific view (for testing)
func NewModelWithView(view ViewState) Model {
	m := NewModel(Options{
		ServerURL: "ws://localhost:5000/ws",
		Board:     Board{SizeX: 40, SizeY: 30, Scale: 20},
	})
	m.viewState = view
	return m
}

// ViewState returns the screen currently shown
func (m Model) ViewState() ViewState {
	return m.viewState
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	if m.viewState == ViewLoading && m.connMgr != nil {
		return tea.Batch(
			connectCmd(m.connMgr),
			tickCmd(),
			listenForEventsCmd(m.eventChan),
		)
	}
	return listenForEventsCmd(m.eventChan)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.viewState {
		case ViewLoading:
			return m.updateLoading(msg)
		case ViewEntry:
			return m.updateEntry(msg)
		case ViewLobby:
			return m.updateLobby(msg)
		case ViewGame:
			return m.updateGame(msg)
		}

	case connectionSuccessMsg:
		m.reconnectAttempt = 0
		m.waitingToRetry = false
		m.err = nil
		m.viewState = ViewEntry
		return m, nil

	case connectionErrorMsg:
		m.err = msg.err
		m.reconnectAttempt++

		if m.reconnectAttempt < m.maxReconnects {
			m.waitingToRetry = true
			return m, retryConnectCmd(m.reconnectAttempt)
		}

		// out of retries; stay on the loading screen with the error
		m.waitingToRetry = false
		return m, nil

	case retryMsg:
		if m.viewState == ViewLoading && m.reconnectAttempt < m.maxReconnects {
			m.waitingToRetry = false
			return m, connectCmd(m.connMgr)
		}
		return m, nil

	case connectionEventMsg:
		return m.handleConnectionEvent(msg.event)

	case tickMsg:
		if m.viewState == ViewLoading {
			m.loadingDots = (m.loadingDots + 1) % 4
			return m, tickCmd()
		}
		return m, nil
	}

	return m, nil
}

// View renders the current view
func (m Model) View() string {
	switch m.viewState {
	case ViewLoading:
		return m.viewLoading()
	case ViewEntry:
		return m.viewEntry()
	case ViewLobby:
		return m.viewLobby()
	case ViewGame:
		return m.viewGame()
	}
	return ""
}

// Disconnect safely disconnects the connection manager
func (m *Model) Disconnect() {
	if m.connMgr != nil {
		m.connMgr.Disconnect()
	}
}

// Add new event handlers below when you add new event types in connection/events.go
func (m Model) handleConnectionEvent(event connection.Event) (tea.Model, tea.Cmd) {
	switch e := event.(type) {

	case connection.DisconnectedEvent:
		// a failed dial also lands here; connectionErrorMsg drives the retries
		if m.viewState != ViewLoading {
			m.viewState = ViewLoading
			m.err = e.Error
			if m.err == nil {
				m.err = errConnectionClosed
			}
			return m, tea.Batch(tickCmd(), listenForEventsCmd(m.eventChan))
		}

	case connection.RoomJoinedEvent:
		m.err = nil
		m.viewState = ViewLobby

	case connection.GameStateEvent:
		if e.Active {
			m.viewState = ViewGame
		} else if m.connMgr.State().Room() != "" {
			m.viewState = ViewLobby
		}

	case connection.GameOverEvent:
		// the board stays up under the result overlay until the player picks
		m.viewState = ViewGame
	}

	return m, listenForEventsCmd(m.eventChan)
}
