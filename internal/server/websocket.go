package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/yourusername/snake-duel/internal/config"
	"github.com/yourusername/snake-duel/internal/game"
	"github.com/yourusername/snake-duel/internal/logging"
	"github.com/yourusername/snake-duel/internal/protocol"
)

var srvrLog = logging.Logger(logging.Server)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second    //time allowed to read the next pong message from client
	pingPeriod     = (pongWait * 9) / 10 //send pings to client with this period. must be less than pongWait
	maxMessageSize = 512
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{ //upgrade HTTP connections to WebSocket connections
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one WebSocket connection. Its room and slot are guarded by the
// registry's lock.
type Client struct {
	ID string

	conn  *websocket.Conn
	codec protocol.Codec
	names *NameBook

	room *Room
	slot game.Slot

	mu     sync.Mutex // guards send and closed
	send   chan []byte
	closed bool
}

func newClient(conn *websocket.Conn, codec protocol.Codec, names *NameBook) *Client {
	return &Client{
		ID:    uuid.New().String(),
		conn:  conn,
		codec: codec,
		names: names,
		send:  make(chan []byte, sendBuffer),
	}
}

// Name returns the client's display name
func (c *Client) Name() string {
	return c.names.Get(c.ID)
}

// enqueue queues a frame without blocking. A client whose buffer is full is
// too slow to keep up with the tick rate and gets disconnected.
func (c *Client) enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		if c.conn != nil {
			c.conn.Close()
		}
		return false
	}
}

// close stops the write pump; later enqueues are dropped
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Server serves the game over WebSocket plus a small HTTP status surface
type Server struct {
	cfg      *config.Config
	registry *Registry
	http     *http.Server
}

// NewServer creates a server for cfg
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg:      cfg,
		registry: NewRegistry(cfg, NewGateway(srvrLog)),
	}
	s.http = &http.Server{
		Addr:    cfg.Addr,
		Handler: s.Routes(),
	}
	return s
}

// Registry returns the server's session registry
func (s *Server) Registry() *Registry {
	return s.registry
}

// Routes returns the HTTP handler: /ws upgrades to the game protocol, /rooms
// lists rooms and /healthz reports liveness
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWebSocket)
	mux.HandleFunc("/rooms", s.handleRooms)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// ListenAndServe blocks serving HTTP until Shutdown is called
func (s *Server) ListenAndServe() error {
	srvrLog.Infof("Starting server on %s (%dx%d grid, %d ticks/s)",
		s.cfg.Addr, s.cfg.SizeX, s.cfg.SizeY, s.cfg.FrameRate)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and stops every tick driver
func (s *Server) Shutdown(ctx context.Context) error {
	s.registry.Close()
	return s.http.Shutdown(ctx)
}

// HandleWebSocket handles WebSocket connections. The codec query parameter
// selects "json" (default) or "msgpack" frames.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	codec, ok := protocol.CodecByName(r.URL.Query().Get("codec"))
	if !ok {
		http.Error(w, "unknown codec", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		srvrLog.Warnf("Upgrade error: %v", err)
		return
	}

	client := newClient(conn, codec, s.registry.Names())
	s.registry.Connect(client)

	go client.writePump()
	go client.readPump(s)
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.registry.Rooms()); err != nil {
		srvrLog.Warnf("Write room list: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"clients": s.registry.ClientCount(),
		"named":   s.registry.Names().Len(),
	})
}

// readPump pumps messages from the WebSocket connection to the registry
func (c *Client) readPump(s *Server) {
	defer func() {
		s.registry.Disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				srvrLog.Warnf("WebSocket error: %v", err)
			}
			break
		}

		c.handleMessage(s, message)
	}
}

// writePump pumps queued frames to the WebSocket connection. JSON frames
// queued together share one text message separated by newlines; binary
// frames are written one per message.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	frameType := websocket.TextMessage
	if c.codec.Binary() {
		frameType = websocket.BinaryMessage
	}

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(frameType)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			if frameType == websocket.TextMessage {
				n := len(c.send)
				for i := 0; i < n; i++ {
					w.Write([]byte{'\n'})
					w.Write(<-c.send)
				}
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage handles incoming messages from the client. Malformed
// messages are logged and dropped.
func (c *Client) handleMessage(s *Server, data []byte) {
	msg, err := c.codec.Decode(data)
	if err != nil {
		srvrLog.Debugf("Client %s: error decoding message: %v", c.ID, err)
		return
	}

	switch msg.Type {
	case protocol.MsgRoomRequest:
		var payload protocol.RoomRequestPayload
		if err := msg.DecodePayload(&payload); err != nil {
			srvrLog.Debugf("Client %s: error unmarshaling room request: %v", c.ID, err)
			return
		}
		s.registry.RequestJoin(c, payload.Room, payload.Username)

	case protocol.MsgDirectionChange:
		var payload protocol.Velocity
		if err := msg.DecodePayload(&payload); err != nil {
			srvrLog.Debugf("Client %s: error unmarshaling direction: %v", c.ID, err)
			return
		}
		s.registry.Steer(c, game.Velocity{X: payload.X, Y: payload.Y})

	case protocol.MsgGameStart:
		s.registry.Start(c)

	case protocol.MsgRoomReturn:
		s.registry.Return(c)

	case protocol.MsgRoomLeave:
		s.registry.Leave(c)

	default:
		srvrLog.Debugf("Client %s: unknown message type %q", c.ID, msg.Type)
	}
}
