package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yourusername/snake-duel/internal/config"
	"github.com/yourusername/snake-duel/internal/game"
	"github.com/yourusername/snake-duel/internal/protocol"
)

// peer is a test client speaking the wire protocol over a real connection
type peer struct {
	t       *testing.T
	conn    *websocket.Conn
	codec   protocol.Codec
	pending [][]byte
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	cfg := config.Default()
	cfg.FrameRate = 20
	s := NewServer(cfg)
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(func() {
		ts.Close()
		s.Registry().Close()
	})
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server, codec protocol.Codec) *peer {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?codec=" + codec.Name()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &peer{t: t, conn: conn, codec: codec}
}

func (p *peer) send(msgType protocol.MessageType, payload interface{}) {
	p.t.Helper()

	data, err := p.codec.Encode(msgType, payload)
	if err != nil {
		p.t.Fatalf("encode %s: %v", msgType, err)
	}
	frameType := websocket.TextMessage
	if p.codec.Binary() {
		frameType = websocket.BinaryMessage
	}
	if err := p.conn.WriteMessage(frameType, data); err != nil {
		p.t.Fatalf("write %s: %v", msgType, err)
	}
}

// read returns the next message, or nil if none arrives within wait
func (p *peer) read(wait time.Duration) *protocol.Message {
	p.t.Helper()

	for len(p.pending) == 0 {
		p.conn.SetReadDeadline(time.Now().Add(wait))
		frameType, data, err := p.conn.ReadMessage()
		if err != nil {
			return nil
		}
		if frameType == websocket.BinaryMessage {
			p.pending = append(p.pending, data)
			continue
		}
		p.pending = append(p.pending, bytes.Split(data, []byte{'\n'})...)
	}

	frame := p.pending[0]
	p.pending = p.pending[1:]
	msg, err := p.codec.Decode(frame)
	if err != nil {
		p.t.Fatalf("decode: %v", err)
	}
	return msg
}

func (p *peer) expect(msgType protocol.MessageType) *protocol.Message {
	p.t.Helper()

	msg := p.read(2 * time.Second)
	if msg == nil {
		p.t.Fatalf("timed out waiting for %s", msgType)
	}
	if msg.Type != msgType {
		p.t.Fatalf("got %s, want %s", msg.Type, msgType)
	}
	return msg
}

// until skips messages of other types, such as ticks streaming in
func (p *peer) until(msgType protocol.MessageType) *protocol.Message {
	p.t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		msg := p.read(time.Until(deadline))
		if msg == nil {
			break
		}
		if msg.Type == msgType {
			return msg
		}
	}
	p.t.Fatalf("timed out waiting for %s", msgType)
	return nil
}

// untilState reads state frames until one satisfies ok, failing on game-over
func (p *peer) untilState(ok func(protocol.GameState) bool) protocol.GameState {
	p.t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		msg := p.read(time.Until(deadline))
		if msg == nil {
			break
		}
		if msg.Type == protocol.MsgGameOver {
			p.t.Fatal("game ended before the expected state")
		}
		if msg.Type != protocol.MsgState {
			continue
		}
		var gs protocol.GameState
		if err := msg.DecodePayload(&gs); err != nil {
			p.t.Fatal(err)
		}
		if ok(gs) {
			return gs
		}
	}
	p.t.Fatal("timed out waiting for state")
	return protocol.GameState{}
}

func joinPair(t *testing.T, ts *httptest.Server, aliceCodec, bobCodec protocol.Codec) (*peer, *peer) {
	t.Helper()

	alice := dial(t, ts, aliceCodec)
	alice.send(protocol.MsgRoomRequest, protocol.RoomRequestPayload{Room: "abc", Username: "Alice"})
	alice.expect(protocol.MsgRoomJoined)
	alice.expect(protocol.MsgRoomUpdate)

	bob := dial(t, ts, bobCodec)
	bob.send(protocol.MsgRoomRequest, protocol.RoomRequestPayload{Room: "abc", Username: "Bob"})
	bob.expect(protocol.MsgRoomJoined)
	bob.expect(protocol.MsgRoomUpdate)
	return alice, bob
}

func overlaps(a []protocol.Cell, c protocol.Cell) bool {
	for _, x := range a {
		if x == c {
			return true
		}
	}
	return false
}

func TestMatchOverWebSocket(t *testing.T) {
	s, ts := newTestServer(t)
	alice, bob := joinPair(t, ts, protocol.JSON, protocol.JSON)

	var members []protocol.Member
	if err := alice.expect(protocol.MsgRoomUpdate).DecodePayload(&members); err != nil {
		t.Fatal(err)
	}
	if len(members) != 2 || members[0].Name != "Alice" || members[1].Name != "Bob" {
		t.Fatalf("members = %+v", members)
	}

	alice.send(protocol.MsgGameStart, nil)

	for _, p := range []*peer{alice, bob} {
		var state protocol.GameState
		if err := p.expect(protocol.MsgState).DecodePayload(&state); err != nil {
			t.Fatal(err)
		}
		if !state.Active {
			t.Fatal("state not active after start")
		}
		if len(state.Player1.Snake) != 2 || len(state.Player2.Snake) != 2 {
			t.Fatalf("snakes = %+v / %+v", state.Player1.Snake, state.Player2.Snake)
		}
		if state.Food == nil {
			t.Fatal("no food")
		}
		if overlaps(state.Player1.Snake, *state.Food) || overlaps(state.Player2.Snake, *state.Food) {
			t.Fatalf("food %+v on a snake", *state.Food)
		}
	}

	// each player sends a reversal and then a turn; frames from one
	// connection are handled in order, so once both turns show up in a
	// broadcast the reversals have been handled too
	alice.send(protocol.MsgDirectionChange, protocol.Velocity{X: -1, Y: 0})
	alice.send(protocol.MsgDirectionChange, protocol.Velocity{X: 0, Y: -1})
	bob.send(protocol.MsgDirectionChange, protocol.Velocity{X: 1, Y: 0})
	bob.send(protocol.MsgDirectionChange, protocol.Velocity{X: 0, Y: 1})

	alice.untilState(func(gs protocol.GameState) bool {
		return gs.Player1.Velocity == protocol.Velocity{X: 0, Y: -1} &&
			gs.Player2.Velocity == protocol.Velocity{X: 0, Y: 1}
	})
	room, ok := s.Registry().Room("abc")
	if !ok {
		t.Fatal("room abc missing")
	}
	if snap := room.Snapshot(); snap.Player1.Velocity != game.Up || snap.Player2.Velocity != game.Down {
		t.Errorf("velocities = %+v / %+v", snap.Player1.Velocity, snap.Player2.Velocity)
	}

	carol := dial(t, ts, protocol.JSON)
	carol.send(protocol.MsgRoomRequest, protocol.RoomRequestPayload{Room: "abc", Username: "Carol"})
	if msg := carol.read(300 * time.Millisecond); msg != nil {
		t.Fatalf("third player received %s", msg.Type)
	}
}

func TestMsgPackClientsShareRoomWithJSON(t *testing.T) {
	_, ts := newTestServer(t)
	alice, bob := joinPair(t, ts, protocol.MsgPack, protocol.JSON)
	alice.expect(protocol.MsgRoomUpdate)

	bob.send(protocol.MsgGameStart, nil)

	var state protocol.GameState
	if err := alice.expect(protocol.MsgState).DecodePayload(&state); err != nil {
		t.Fatal(err)
	}
	if !state.Active || len(state.Player1.Snake) != 2 {
		t.Fatalf("msgpack state = %+v", state)
	}

	alice.send(protocol.MsgRoomReturn, nil)
	if err := bob.until(protocol.MsgState).DecodePayload(&state); err != nil {
		t.Fatal(err)
	}
	for state.Active {
		if err := bob.until(protocol.MsgState).DecodePayload(&state); err != nil {
			t.Fatal(err)
		}
	}
	if state.Food != nil || len(state.Player2.Snake) != 0 {
		t.Fatalf("state after return = %+v", state)
	}
}

func TestUnknownCodecRejected(t *testing.T) {
	_, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?codec=xml"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial with unknown codec succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("response = %+v", resp)
	}
}

func TestRoomsAndHealth(t *testing.T) {
	s, ts := newTestServer(t)
	joinPair(t, ts, protocol.JSON, protocol.JSON)

	resp, err := http.Get(ts.URL + "/rooms")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var rooms []protocol.RoomInfo
	if err := json.NewDecoder(resp.Body).Decode(&rooms); err != nil {
		t.Fatal(err)
	}
	if len(rooms) != 1 || rooms[0].Name != "abc" || rooms[0].Members != 2 || rooms[0].Playing {
		t.Fatalf("rooms = %+v", rooms)
	}

	health, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", health.StatusCode)
	}
	var status struct {
		Clients int `json:"clients"`
		Named   int `json:"named"`
	}
	if err := json.NewDecoder(health.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if status.Clients != 2 || status.Named != 2 {
		t.Fatalf("healthz = %+v", status)
	}
	if s.Registry().ClientCount() != 2 {
		t.Fatalf("clients = %d", s.Registry().ClientCount())
	}
}

func TestDisconnectDestroysRoom(t *testing.T) {
	s, ts := newTestServer(t)
	alice := dial(t, ts, protocol.JSON)
	alice.send(protocol.MsgRoomRequest, protocol.RoomRequestPayload{Room: "solo", Username: "Alice"})
	alice.expect(protocol.MsgRoomJoined)

	alice.conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := s.Registry().Room("solo"); !ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("room survived its only member's disconnect")
}
