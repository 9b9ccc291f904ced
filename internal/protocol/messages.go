package protocol //handles communication protocol between client and server
// Event names and payloads exchanged over the WebSocket

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Client -> Server
	MsgRoomRequest     MessageType = "room-request"
	MsgDirectionChange MessageType = "direction-change"
	MsgGameStart       MessageType = "game-start"
	MsgRoomReturn      MessageType = "room-return" // reset to the lobby without restarting
	MsgRoomLeave       MessageType = "room-leave"

	// Server -> Client
	MsgRoomJoined MessageType = "room-joined" // payload: room name
	MsgRoomUpdate MessageType = "room-update" // payload: []Member in slot order
	MsgState      MessageType = "state"
	MsgGameOver   MessageType = "game-over" // payload: winning slot, 1 or 2
)

// RoomRequestPayload is sent when a player wants to join a room
type RoomRequestPayload struct {
	Room     string `json:"room"`
	Username string `json:"username"`
}

// Cell is a grid coordinate
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Velocity is the direction-change payload and a player's current direction
type Velocity struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PlayerState is one snake and its direction. Snake is tail first, head last.
type PlayerState struct {
	Velocity Velocity `json:"velocity"`
	Snake    []Cell   `json:"snake"`
}

// GameState is the canonical snapshot broadcast to both players
type GameState struct {
	Player1 PlayerState `json:"player1"`
	Player2 PlayerState `json:"player2"`
	Food    *Cell       `json:"food"` // nil when no game runs or the board is full
	Active  bool        `json:"active"`
	Tick    uint64      `json:"tick"`
}

// Member is one entry of a room-update
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoomInfo describes a room for the HTTP listing
type RoomInfo struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
	Playing bool   `json:"playing"`
}
