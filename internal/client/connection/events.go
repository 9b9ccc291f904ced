package connection

import "github.com/yourusername/snake-duel/internal/protocol"

// Event represents events from the connection manager
type Event interface {
	isEvent()
}

// ConnectedEvent is sent when connection is established
type ConnectedEvent struct{}

func (ConnectedEvent) isEvent() {}

// DisconnectedEvent is sent when connection is lost
type DisconnectedEvent struct {
	Error error
}

func (DisconnectedEvent) isEvent() {}

// RoomJoinedEvent confirms a room request
type RoomJoinedEvent struct {
	Room string
}

func (RoomJoinedEvent) isEvent() {}

// RoomUpdateEvent carries the room's members in slot order
type RoomUpdateEvent struct {
	Members []protocol.Member
}

func (RoomUpdateEvent) isEvent() {}

// GameStateEvent is sent for every state snapshot; the snapshot itself is in State
type GameStateEvent struct {
	Active bool
	Tick   uint64
}

func (GameStateEvent) isEvent() {}

// GameOverEvent names the winning slot, 1 or 2
type GameOverEvent struct {
	Winner int
}

func (GameOverEvent) isEvent() {}
