package server

import (
	"sort"
	"sync"

	"github.com/yourusername/snake-duel/internal/config"
	"github.com/yourusername/snake-duel/internal/game"
	"github.com/yourusername/snake-duel/internal/protocol"
)

// Registry owns every connected client and room. It maps connections to
// rooms and slots, admits room requests and destroys rooms once empty.
type Registry struct {
	rooms   map[string]*Room
	clients map[string]*Client
	names   *NameBook

	grid    game.Grid
	opts    roomOptions
	newRand func() game.Rand
	gw      *Gateway

	mu sync.RWMutex
}

// NewRegistry creates a registry whose rooms use cfg's grid, frame rate and
// abandon policy
func NewRegistry(cfg *config.Config, gw *Gateway) *Registry {
	return &Registry{
		rooms:   make(map[string]*Room),
		clients: make(map[string]*Client),
		names:   NewNameBook(),
		grid:    game.Grid{SizeX: cfg.SizeX, SizeY: cfg.SizeY},
		opts: roomOptions{
			tickRate:      cfg.TickInterval(),
			stopOnAbandon: cfg.StopOnAbandon,
		},
		newRand: game.NewTimeRand,
		gw:      gw,
	}
}

// Names returns the display-name directory
func (reg *Registry) Names() *NameBook {
	return reg.names
}

// Connect registers a new client
func (reg *Registry) Connect(c *Client) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.clients[c.ID] = c
	srvrLog.Debugf("Client %s connected (%s)", c.ID, c.codec.Name())
}

// RequestJoin places c in the named room under name. A new room seats c as
// player 1; a room with one member seats c in the vacant slot. Requests with
// an empty room or name, for a full room, or for the room c already sits in
// are ignored. It reports whether c was seated.
func (reg *Registry) RequestJoin(c *Client, roomName, name string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if roomName == "" || name == "" {
		srvrLog.Debugf("Client %s: room request missing room or name", c.ID)
		return false
	}
	// the name sticks even when the room turns out to be full
	reg.names.Set(c.ID, name)
	if c.room != nil && c.room.Name == roomName {
		return false
	}

	slot := game.Player1
	room, exists := reg.rooms[roomName]
	if exists {
		var ok bool
		if slot, ok = room.freeSlot(); !ok {
			srvrLog.Debugf("Client %s: room %s is full", c.ID, roomName)
			return false
		}
	}

	reg.leaveLocked(c)

	if !exists {
		g, err := game.New(reg.grid, reg.newRand())
		if err != nil {
			srvrLog.Errorf("Create room %s: %v", roomName, err)
			return false
		}
		room = newRoom(roomName, g, reg.opts, reg.gw)
		reg.rooms[roomName] = room
		srvrLog.Infof("Created room %s", roomName)
	}

	c.room = room
	c.slot = slot
	room.join(c, slot)
	return true
}

// Leave removes c from its room, if any
func (reg *Registry) Leave(c *Client) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.leaveLocked(c)
}

func (reg *Registry) leaveLocked(c *Client) {
	room := c.room
	if room == nil {
		return
	}
	c.room = nil
	c.slot = 0

	if room.leave(c) == 0 {
		delete(reg.rooms, room.Name)
		srvrLog.Infof("Destroyed empty room %s", room.Name)
	}
}

// Disconnect removes every trace of c and closes its outbound queue
func (reg *Registry) Disconnect(c *Client) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.leaveLocked(c)
	reg.names.Delete(c.ID)
	delete(reg.clients, c.ID)
	c.close()
	srvrLog.Debugf("Client %s disconnected", c.ID)
}

// Start asks c's room to begin a game
func (reg *Registry) Start(c *Client) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	if c.room == nil {
		return false
	}
	return c.room.Start()
}

// Return asks c's room to stop and reset its game
func (reg *Registry) Return(c *Client) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	if c.room == nil {
		return
	}
	c.room.Return()
}

// Steer applies a direction change to c's snake
func (reg *Registry) Steer(c *Client, v game.Velocity) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	if c.room == nil {
		return false
	}
	return c.room.Steer(c.slot, v)
}

// Room returns a room by name
func (reg *Registry) Room(name string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[name]
	return room, ok
}

// Membership returns c's room name and slot, or "" and 0
func (reg *Registry) Membership(c *Client) (string, game.Slot) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	if c.room == nil {
		return "", 0
	}
	return c.room.Name, c.slot
}

// Rooms lists every room, sorted by name
func (reg *Registry) Rooms() []protocol.RoomInfo {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	infos := make([]protocol.RoomInfo, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		infos = append(infos, room.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// ClientCount returns the number of connected clients
func (reg *Registry) ClientCount() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.clients)
}

// Close stops every room's tick driver
func (reg *Registry) Close() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, room := range reg.rooms {
		room.stop()
	}
}
