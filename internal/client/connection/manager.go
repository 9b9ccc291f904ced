package connection

import (
	"bytes"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yourusername/snake-duel/internal/logging"
	"github.com/yourusername/snake-duel/internal/protocol"
)

var log = logging.Logger(logging.Client)

// Manager manages the WebSocket connection to the server
type Manager struct {
	serverURL     string
	codec         protocol.Codec
	conn          *websocket.Conn
	state         *State
	eventCallback func(Event)
	connected     bool
	mu            sync.RWMutex
	done          chan struct{}
}

// NewManager creates a new connection manager speaking codec. A nil codec
// means JSON.
func NewManager(serverURL string, codec protocol.Codec) *Manager {
	if codec == nil {
		codec = protocol.JSON
	}
	return &Manager{
		serverURL: serverURL,
		codec:     codec,
		state:     NewState(),
		connected: false,
		done:      make(chan struct{}),
	}
}

// OnEvent sets the callback for events
func (m *Manager) OnEvent(callback func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventCallback = callback
}

// dialURL adds the codec query parameter the server selects framing by
func (m *Manager) dialURL() (string, error) {
	u, err := url.Parse(m.serverURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("codec", m.codec.Name())
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Connect establishes a WebSocket connection to the server
func (m *Manager) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	target, err := m.dialURL()
	if err != nil {
		return err
	}
	conn, _, err := dialer.Dial(target, nil)
	if err != nil {
		m.sendEvent(DisconnectedEvent{Error: err})
		return err
	}

	m.mu.Lock()
	m.conn = conn
	m.connected = true
	// a fresh done channel per connection lets a later Connect retry
	m.done = make(chan struct{})
	m.mu.Unlock()

	go m.readPump(conn)

	log.Infof("Connected to %s (%s)", m.serverURL, m.codec.Name())
	m.sendEvent(ConnectedEvent{})
	return nil
}

// Disconnect closes the WebSocket connection
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return
	}

	m.connected = false

	if m.done != nil {
		select {
		case <-m.done:
		default:
			close(m.done)
		}
	}

	if m.conn != nil {
		m.conn.Close()
	}
}

// IsConnected returns whether the manager is connected
func (m *Manager) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

//// FROM CLIENT -> SERVER MESSAGES ////

// JoinRoom asks to join room under userName
func (m *Manager) JoinRoom(room, userName string) error {
	return m.sendMessage(protocol.MsgRoomRequest, protocol.RoomRequestPayload{
		Room:     room,
		Username: userName,
	})
}

// SendDirection asks for a new heading; the server refuses reversals
func (m *Manager) SendDirection(x, y int) error {
	return m.sendMessage(protocol.MsgDirectionChange, protocol.Velocity{X: x, Y: y})
}

// StartGame asks the room to start (or restart) a game
func (m *Manager) StartGame() error {
	m.state.ClearWinner()
	return m.sendMessage(protocol.MsgGameStart, nil)
}

// ReturnToRoom asks the room to drop the finished game and show the lobby
func (m *Manager) ReturnToRoom() error {
	m.state.ClearWinner()
	return m.sendMessage(protocol.MsgRoomReturn, nil)
}

// LeaveRoom leaves the current room. The server sends no confirmation, so the
// cached room is cleared right away.
func (m *Manager) LeaveRoom() error {
	m.state.setRoom("")
	return m.sendMessage(protocol.MsgRoomLeave, nil)
}

////////////////////////////////////////////

// GetState returns the current game state
func (m *Manager) GetState() *protocol.GameState {
	return m.state.GetState()
}

// State returns the client-side cache of server events
func (m *Manager) State() *State {
	return m.state
}

// sendMessage sends a message to the server
func (m *Manager) sendMessage(msgType protocol.MessageType, payload interface{}) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.connected || m.conn == nil {
		return websocket.ErrCloseSent
	}

	msg, err := m.codec.Encode(msgType, payload)
	if err != nil {
		return err
	}

	frameType := websocket.TextMessage
	if m.codec.Binary() {
		frameType = websocket.BinaryMessage
	}

	m.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return m.conn.WriteMessage(frameType, msg)
}

// readPump reads messages from the WebSocket connection
func (m *Manager) readPump(conn *websocket.Conn) {
	var readErr error
	defer func() {
		m.mu.Lock()
		m.connected = false
		conn.Close()
		m.mu.Unlock()
		m.sendEvent(DisconnectedEvent{Error: readErr})
	}()

	m.mu.RLock()
	done := m.done
	m.mu.RUnlock()

	for {
		select {
		case <-done:
			return
		default:
			_, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Warnf("WebSocket error: %v", err)
					readErr = err
				}
				return
			}

			m.handleFrame(message)
		}
	}
}

// handleFrame splits a text frame the server batched with newlines
func (m *Manager) handleFrame(data []byte) {
	if m.codec.Binary() {
		m.handleMessage(data)
		return
	}
	for _, part := range bytes.Split(data, []byte{'\n'}) {
		if len(part) > 0 {
			m.handleMessage(part)
		}
	}
}

// handleMessage processes incoming messages
func (m *Manager) handleMessage(data []byte) {
	msg, err := m.codec.Decode(data)
	if err != nil {
		log.Warnf("Error decoding message: %v", err)
		return
	}

	switch msg.Type {
	case protocol.MsgRoomJoined:
		var room string
		if err := msg.DecodePayload(&room); err != nil {
			log.Warnf("Error unmarshaling room joined: %v", err)
			return
		}
		m.state.setRoom(room)
		m.sendEvent(RoomJoinedEvent{Room: room})
		log.Infof("Joined room %s", room)

	case protocol.MsgRoomUpdate:
		var members []protocol.Member
		if err := msg.DecodePayload(&members); err != nil {
			log.Warnf("Error unmarshaling room update: %v", err)
			return
		}
		m.state.setMembers(members)
		m.sendEvent(RoomUpdateEvent{Members: members})

	case protocol.MsgState:
		var payload protocol.GameState
		if err := msg.DecodePayload(&payload); err != nil {
			log.Warnf("Error unmarshaling game state: %v", err)
			return
		}
		m.state.UpdateState(&payload)
		m.sendEvent(GameStateEvent{Active: payload.Active, Tick: payload.Tick})

	case protocol.MsgGameOver:
		var winner int
		if err := msg.DecodePayload(&winner); err != nil {
			log.Warnf("Error unmarshaling game over: %v", err)
			return
		}
		m.state.setWinner(winner)
		m.sendEvent(GameOverEvent{Winner: winner})
		log.Infof("Game over, player %d won", winner)

	default:
		log.Debugf("Unhandled message type: %s", msg.Type)
	}
}

// sendEvent sends an event to the callback if set
func (m *Manager) sendEvent(event Event) {
	m.mu.RLock()
	callback := m.eventCallback
	m.mu.RUnlock()

	if callback != nil {
		callback(event)
	}
}
