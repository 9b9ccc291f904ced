package server

import (
	"github.com/decred/slog"
	"github.com/yourusername/snake-duel/internal/game"
	"github.com/yourusername/snake-duel/internal/protocol"
)

// Gateway is the only place events are encoded and queued for connections.
// Broadcasts encode a payload once per codec in use among the recipients.
type Gateway struct {
	log slog.Logger
}

// NewGateway returns a gateway that logs failures to log
func NewGateway(log slog.Logger) *Gateway {
	return &Gateway{log: log}
}

// RoomJoined confirms a successful room request to the requester
func (g *Gateway) RoomJoined(c *Client, room string) {
	g.broadcast([]*Client{c}, protocol.MsgRoomJoined, room)
}

// RoomUpdate sends the room's membership list to every member
func (g *Gateway) RoomUpdate(members []*Client, list []protocol.Member) {
	g.broadcast(members, protocol.MsgRoomUpdate, list)
}

// State sends a game snapshot to every member
func (g *Gateway) State(members []*Client, snap game.Snapshot) {
	g.broadcast(members, protocol.MsgState, StateFromSnapshot(snap))
}

// GameOver announces the winning slot to every member
func (g *Gateway) GameOver(members []*Client, winner game.Slot) {
	g.broadcast(members, protocol.MsgGameOver, int(winner))
}

func (g *Gateway) broadcast(members []*Client, msgType protocol.MessageType, payload interface{}) {
	frames := make(map[string][]byte, 2)

	for _, c := range members {
		if c == nil {
			continue
		}
		name := c.codec.Name()
		frame, ok := frames[name]
		if !ok {
			var err error
			frame, err = c.codec.Encode(msgType, payload)
			if err != nil {
				g.log.Errorf("Encode %s (%s): %v", msgType, name, err)
				continue
			}
			frames[name] = frame
		}
		if !c.enqueue(frame) {
			g.log.Warnf("Dropped %s for client %s", msgType, c.ID)
		}
	}
}

// StateFromSnapshot converts a simulation snapshot to its wire form. Snakes
// are never nil so an inactive state still carries two arrays, and Food is
// nil unless a game is running with food on the board.
func StateFromSnapshot(snap game.Snapshot) protocol.GameState {
	state := protocol.GameState{
		Player1: playerFromSnapshot(snap.Player1),
		Player2: playerFromSnapshot(snap.Player2),
		Active:  snap.Active,
		Tick:    snap.Tick,
	}
	if snap.Active && snap.Food != game.NoFood {
		state.Food = &protocol.Cell{X: snap.Food.X, Y: snap.Food.Y}
	}
	return state
}

func playerFromSnapshot(p game.PlayerState) protocol.PlayerState {
	snake := make([]protocol.Cell, len(p.Snake))
	for i, c := range p.Snake {
		snake[i] = protocol.Cell{X: c.X, Y: c.Y}
	}
	return protocol.PlayerState{
		Velocity: protocol.Velocity{X: p.Velocity.X, Y: p.Velocity.Y},
		Snake:    snake,
	}
}
