package server

import (
	"sync"
	"time"

	"github.com/yourusername/snake-duel/internal/game"
	"github.com/yourusername/snake-duel/internal/logging"
	"github.com/yourusername/snake-duel/internal/protocol"
)

var roomLog = logging.Logger(logging.Room)

// RoomStatus is where a room is in its lifecycle
type RoomStatus int

const (
	RoomEmpty RoomStatus = iota
	RoomForming
	RoomReady
	RoomPlaying
	RoomFinished
)

func (s RoomStatus) String() string {
	switch s {
	case RoomForming:
		return "forming"
	case RoomReady:
		return "ready"
	case RoomPlaying:
		return "playing"
	case RoomFinished:
		return "finished"
	default:
		return "empty"
	}
}

// roomOptions are the settings every room of a registry shares
type roomOptions struct {
	tickRate      time.Duration
	stopOnAbandon bool
}

// Room is a named two-player match. Members are indexed by slot. All fields
// are guarded by mu; the registry takes its own lock before a room's.
type Room struct {
	Name string

	mu       sync.Mutex
	members  [2]*Client
	game     *game.Game
	driver   *tickDriver
	finished bool
	winner   game.Slot

	opts roomOptions
	gw   *Gateway
}

func newRoom(name string, g *game.Game, opts roomOptions, gw *Gateway) *Room {
	return &Room{
		Name: name,
		game: g,
		opts: opts,
		gw:   gw,
	}
}

// Status reports the room's lifecycle state
func (r *Room) Status() RoomStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statusLocked()
}

func (r *Room) statusLocked() RoomStatus {
	switch {
	case r.driver != nil:
		return RoomPlaying
	case r.count() == 0:
		return RoomEmpty
	case r.count() == 1:
		return RoomForming
	case r.finished:
		return RoomFinished
	default:
		return RoomReady
	}
}

// Info describes the room for the HTTP listing
func (r *Room) Info() protocol.RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return protocol.RoomInfo{
		Name:    r.Name,
		Members: r.count(),
		Playing: r.driver != nil,
	}
}

// Snapshot returns a copy of the room's game state
func (r *Room) Snapshot() game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Snapshot()
}

func (r *Room) count() int {
	n := 0
	for _, m := range r.members {
		if m != nil {
			n++
		}
	}
	return n
}

// freeSlot returns the vacant slot of a room with exactly one member
func (r *Room) freeSlot() (game.Slot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count() != 1 {
		return 0, false
	}
	if r.members[0] == nil {
		return game.Player1, true
	}
	return game.Player2, true
}

// recipients returns the current members in slot order
func (r *Room) recipients() []*Client {
	out := make([]*Client, 0, 2)
	for _, m := range r.members {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

func (r *Room) memberList() []protocol.Member {
	list := make([]protocol.Member, 0, 2)
	for _, m := range r.members {
		if m != nil {
			list = append(list, protocol.Member{ID: m.ID, Name: m.Name()})
		}
	}
	return list
}

// join seats c in slot, confirms it to c and re-broadcasts membership
func (r *Room) join(c *Client, slot game.Slot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.members[slot-1] = c
	roomLog.Infof("Player %s (%s) joined room %s as player %d", c.Name(), c.ID, r.Name, slot)

	r.gw.RoomJoined(c, r.Name)
	r.gw.RoomUpdate(r.recipients(), r.memberList())
}

// leave removes c and returns how many members remain. A game in progress is
// stopped and reset when stopOnAbandon is set.
func (r *Room) leave(c *Client) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for i, m := range r.members {
		if m == c {
			r.members[i] = nil
			found = true
		}
	}
	if !found {
		return r.count()
	}
	roomLog.Infof("Player %s (%s) left room %s", c.Name(), c.ID, r.Name)

	remaining := r.count()
	if remaining == 0 {
		r.stopLocked()
		return 0
	}

	r.gw.RoomUpdate(r.recipients(), r.memberList())

	if r.driver != nil && r.opts.stopOnAbandon {
		roomLog.Infof("Room %s: game abandoned", r.Name)
		r.stopLocked()
		r.game.Reset()
		r.finished = false
		r.gw.State(r.recipients(), r.game.Snapshot())
	}
	return remaining
}

// Start begins a game if both slots are filled and none is running
func (r *Room) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count() != 2 {
		roomLog.Debugf("Room %s: start ignored, %d member(s)", r.Name, r.count())
		return false
	}
	if r.driver != nil {
		roomLog.Debugf("Room %s: start ignored, game already running", r.Name)
		return false
	}
	if err := r.game.Start(); err != nil {
		roomLog.Errorf("Room %s: start game: %v", r.Name, err)
		r.game.Reset()
		return false
	}
	r.finished = false
	r.winner = 0

	roomLog.Infof("Room %s: game started", r.Name)
	r.gw.State(r.recipients(), r.game.Snapshot())
	r.driver = startTickDriver(r.opts.tickRate, r.tick)
	return true
}

// Return stops any running game, clears the board and re-broadcasts it
func (r *Room) Return() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	r.game.Reset()
	r.finished = false
	r.winner = 0

	roomLog.Infof("Room %s: returned to lobby", r.Name)
	r.gw.State(r.recipients(), r.game.Snapshot())
}

// Steer forwards a direction change for slot to the simulation
func (r *Room) Steer(slot game.Slot, v game.Velocity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.SetDirection(slot, v)
}

// tick runs one simulation step for driver d. Ticks from a driver that is no
// longer the room's current one do nothing.
func (r *Room) tick(d *tickDriver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.driver != d || d.stopped() {
		return
	}

	out, err := r.game.Tick()
	if err != nil {
		roomLog.Warnf("Room %s tick %d: %v", r.Name, out.Tick, err)
	}

	if out.Over {
		r.stopLocked()
		r.finished = true
		r.winner = out.Winner
		roomLog.Infof("Room %s: player %d wins at tick %d", r.Name, out.Winner, out.Tick)
		r.gw.GameOver(r.recipients(), out.Winner)
		return
	}

	r.gw.State(r.recipients(), r.game.Snapshot())
}

// Winner returns the slot that won the last finished game, or 0
func (r *Room) Winner() game.Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.winner
}

func (r *Room) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Room) stopLocked() {
	if r.driver != nil {
		r.driver.Stop()
		r.driver = nil
	}
}
