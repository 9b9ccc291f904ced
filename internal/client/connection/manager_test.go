package connection

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yourusername/snake-duel/internal/protocol"
)

// scriptedServer accepts one connection, reports every message the client
// sends and writes whatever frames are pushed to it
type scriptedServer struct {
	received chan *protocol.Message
	frames   chan []byte
}

func newScriptedServer(t *testing.T, codec protocol.Codec) (*scriptedServer, string) {
	t.Helper()

	ss := &scriptedServer{
		received: make(chan *protocol.Message, 16),
		frames:   make(chan []byte, 16),
	}
	upgrader := websocket.Upgrader{}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("codec"); got != codec.Name() {
			t.Errorf("codec query = %q, want %q", got, codec.Name())
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		go func() {
			for frame := range ss.frames {
				frameType := websocket.TextMessage
				if codec.Binary() {
					frameType = websocket.BinaryMessage
				}
				if err := conn.WriteMessage(frameType, frame); err != nil {
					return
				}
			}
		}()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			msg, err := codec.Decode(data)
			if err != nil {
				t.Errorf("decode: %v", err)
				return
			}
			ss.received <- msg
		}
	}))
	t.Cleanup(func() {
		close(ss.frames)
		ts.Close()
	})

	return ss, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func encode(t *testing.T, codec protocol.Codec, msgType protocol.MessageType, payload interface{}) []byte {
	t.Helper()
	data, err := codec.Encode(msgType, payload)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func connect(t *testing.T, url string, codec protocol.Codec) (*Manager, chan Event) {
	t.Helper()

	events := make(chan Event, 32)
	m := NewManager(url, codec)
	m.OnEvent(func(e Event) { events <- e })
	if err := m.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(m.Disconnect)

	if _, ok := (<-events).(ConnectedEvent); !ok {
		t.Fatal("first event is not ConnectedEvent")
	}
	return m, events
}

func nextEvent(t *testing.T, events chan Event) Event {
	t.Helper()
	select {
	case e := <-events:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestManagerDecodesBatchedFrame(t *testing.T) {
	ss, url := newScriptedServer(t, protocol.JSON)
	m, events := connect(t, url, protocol.JSON)

	food := protocol.Cell{X: 3, Y: 4}
	batch := bytes.Join([][]byte{
		encode(t, protocol.JSON, protocol.MsgRoomJoined, "abc"),
		encode(t, protocol.JSON, protocol.MsgRoomUpdate, []protocol.Member{{ID: "1", Name: "Alice"}, {ID: "2", Name: "Bob"}}),
		encode(t, protocol.JSON, protocol.MsgState, protocol.GameState{
			Player1: protocol.PlayerState{Velocity: protocol.Velocity{X: 1}, Snake: []protocol.Cell{{X: 1, Y: 1}, {X: 2, Y: 1}}},
			Player2: protocol.PlayerState{Velocity: protocol.Velocity{X: -1}, Snake: []protocol.Cell{{X: 9, Y: 2}, {X: 8, Y: 2}}},
			Food:    &food,
			Active:  true,
			Tick:    7,
		}),
		encode(t, protocol.JSON, protocol.MsgGameOver, 2),
	}, []byte{'\n'})
	ss.frames <- batch

	if e, ok := nextEvent(t, events).(RoomJoinedEvent); !ok || e.Room != "abc" {
		t.Fatalf("want RoomJoinedEvent abc, got %#v", e)
	}
	if e, ok := nextEvent(t, events).(RoomUpdateEvent); !ok || len(e.Members) != 2 {
		t.Fatalf("want RoomUpdateEvent with 2 members, got %#v", e)
	}
	if e, ok := nextEvent(t, events).(GameStateEvent); !ok || !e.Active || e.Tick != 7 {
		t.Fatalf("want active GameStateEvent at tick 7, got %#v", e)
	}
	if e, ok := nextEvent(t, events).(GameOverEvent); !ok || e.Winner != 2 {
		t.Fatalf("want GameOverEvent 2, got %#v", e)
	}

	st := m.State()
	if st.Room() != "abc" || st.WinnerName() != "Bob" {
		t.Fatalf("room = %q winner = %q", st.Room(), st.WinnerName())
	}
	if gs := m.GetState(); gs.Food == nil || *gs.Food != food || len(gs.Player2.Snake) != 2 {
		t.Fatalf("cached state = %+v", gs)
	}
}

func TestManagerSendsIntents(t *testing.T) {
	for _, codec := range []protocol.Codec{protocol.JSON, protocol.MsgPack} {
		t.Run(codec.Name(), func(t *testing.T) {
			ss, url := newScriptedServer(t, codec)
			m, _ := connect(t, url, codec)

			if err := m.JoinRoom("abc", "Alice"); err != nil {
				t.Fatal(err)
			}
			if err := m.SendDirection(0, -1); err != nil {
				t.Fatal(err)
			}
			if err := m.StartGame(); err != nil {
				t.Fatal(err)
			}

			recv := func() *protocol.Message {
				select {
				case msg := <-ss.received:
					return msg
				case <-time.After(2 * time.Second):
					t.Fatal("server received nothing")
					return nil
				}
			}

			msg := recv()
			var req protocol.RoomRequestPayload
			if msg.Type != protocol.MsgRoomRequest || msg.DecodePayload(&req) != nil || req.Room != "abc" || req.Username != "Alice" {
				t.Fatalf("room request = %s %+v", msg.Type, req)
			}

			msg = recv()
			var v protocol.Velocity
			if msg.Type != protocol.MsgDirectionChange || msg.DecodePayload(&v) != nil || v != (protocol.Velocity{X: 0, Y: -1}) {
				t.Fatalf("direction change = %s %+v", msg.Type, v)
			}

			if msg = recv(); msg.Type != protocol.MsgGameStart {
				t.Fatalf("got %s, want game-start", msg.Type)
			}
		})
	}
}

func TestManagerMsgPackEvents(t *testing.T) {
	ss, url := newScriptedServer(t, protocol.MsgPack)
	m, events := connect(t, url, protocol.MsgPack)

	ss.frames <- encode(t, protocol.MsgPack, protocol.MsgState, protocol.GameState{
		Player1: protocol.PlayerState{Snake: []protocol.Cell{}},
		Player2: protocol.PlayerState{Snake: []protocol.Cell{}},
	})

	if e, ok := nextEvent(t, events).(GameStateEvent); !ok || e.Active {
		t.Fatalf("want inactive GameStateEvent, got %#v", e)
	}
	if gs := m.GetState(); gs.Food != nil || gs.Active {
		t.Fatalf("cached state = %+v", gs)
	}
}

func TestLeaveRoomClearsCache(t *testing.T) {
	ss, url := newScriptedServer(t, protocol.JSON)
	m, events := connect(t, url, protocol.JSON)

	ss.frames <- encode(t, protocol.JSON, protocol.MsgRoomJoined, "abc")
	nextEvent(t, events)

	if err := m.LeaveRoom(); err != nil {
		t.Fatal(err)
	}
	if m.State().Room() != "" {
		t.Fatalf("room = %q after leave", m.State().Room())
	}
}

func TestSendWithoutConnection(t *testing.T) {
	m := NewManager("ws://127.0.0.1:1/ws", nil)
	if err := m.StartGame(); err == nil {
		t.Fatal("send without a connection succeeded")
	}
	if m.IsConnected() {
		t.Fatal("manager reports connected")
	}
}
