package game

import (
	"errors"
	"fmt"

	"github.com/yourusername/snake-duel/internal/logging"
)

var log = logging.Logger(logging.Game)

var (
	ErrGridTooSmall = errors.New("grid too small for two players")
	ErrBoardFull    = errors.New("no free cell for food")
)

// Slot is a player's fixed identity within a room
type Slot int

const (
	Player1 Slot = 1
	Player2 Slot = 2
)

// Valid reports whether s names one of the two players
func (s Slot) Valid() bool {
	return s == Player1 || s == Player2
}

// Other returns the opposing slot
func (s Slot) Other() Slot {
	if s == Player1 {
		return Player2
	}
	return Player1
}

func (s Slot) index() int {
	return int(s) - 1
}

// Collision is the classification of a cell a head is about to enter
type Collision int

const (
	CollisionNone Collision = iota
	CollisionFood
	CollisionSnake
)

func (c Collision) String() string {
	switch c {
	case CollisionFood:
		return "food"
	case CollisionSnake:
		return "snake"
	default:
		return "empty"
	}
}

// PlayerState is one player's direction and body
type PlayerState struct {
	Velocity Velocity
	Snake    Snake
}

// Snapshot is a deep copy of the game state, safe to hand to other goroutines
type Snapshot struct {
	Player1 PlayerState
	Player2 PlayerState
	Food    Cell
	Active  bool
	Tick    uint64
}

// Outcome reports what a tick decided
type Outcome struct {
	Tick uint64

	// Over is set when a head hit a snake; Winner is the slot that did not move into it
	Over   bool
	Winner Slot
}

// Game is one room's simulation. It is not safe for concurrent use; the
// owning room serializes access.
type Game struct {
	grid    Grid
	rng     Rand
	players [2]PlayerState
	food    Cell
	active  bool
	tick    uint64
}

// New returns an inactive game on grid
func New(grid Grid, rng Rand) (*Game, error) {
	if grid.SizeX < 4 || grid.SizeY < 2 {
		return nil, fmt.Errorf("%w: %dx%d", ErrGridTooSmall, grid.SizeX, grid.SizeY)
	}
	if rng == nil {
		rng = NewTimeRand()
	}
	return &Game{grid: grid, rng: rng, food: NoFood}, nil
}

// Grid returns the board dimensions
func (g *Game) Grid() Grid {
	return g.grid
}

// Active reports whether a game is in progress
func (g *Game) Active() bool {
	return g.active
}

// Start places both snakes and the first food and activates the game.
// Player 1 spawns in the left half heading right, player 2 in the right half
// heading left.
func (g *Game) Start() error {
	half := g.grid.SizeX / 2

	tail1 := Cell{X: between(g.rng, 0, half-2), Y: between(g.rng, 1, g.grid.SizeY-1)}
	tail2 := Cell{X: between(g.rng, half+1, g.grid.SizeX-1), Y: between(g.rng, 1, g.grid.SizeY-1)}

	g.players[Player1.index()] = PlayerState{
		Velocity: Right,
		Snake:    Snake{tail1, tail1.Add(Right)},
	}
	g.players[Player2.index()] = PlayerState{
		Velocity: Left,
		Snake:    Snake{tail2, tail2.Add(Left)},
	}
	g.tick = 0
	g.food = NoFood

	if err := g.placeFood(); err != nil {
		return err
	}
	g.active = true
	return nil
}

// Reset clears both snakes and deactivates the game
func (g *Game) Reset() {
	g.players = [2]PlayerState{}
	g.food = NoFood
	g.active = false
	g.tick = 0
}

// SetDirection changes a player's velocity for the next tick. It refuses
// exact reversals, malformed velocities, and requests while no game runs.
func (g *Game) SetDirection(slot Slot, v Velocity) bool {
	if !g.active || !slot.Valid() || !v.Valid() {
		return false
	}
	p := &g.players[slot.index()]
	if v == p.Velocity.Reverse() {
		return false
	}
	p.Velocity = v
	return true
}

// Velocity returns a player's current direction
func (g *Game) Velocity(slot Slot) Velocity {
	return g.players[slot.index()].Velocity
}

// Tick advances player 1 and then player 2 by one cell. Player 2 moves
// against the board player 1 has already changed, so a head-on crossing
// resolves in player 1's favor. When the heads would swap cells, player 2 is
// the one that collides. A non-nil error is ErrBoardFull and does not end the
// game.
func (g *Game) Tick() (Outcome, error) {
	if !g.active {
		return Outcome{Tick: g.tick}, nil
	}
	g.tick++

	if g.swapping() {
		log.Debugf("Tick %d: heads swap at %v/%v", g.tick, g.players[0].Snake.Head(), g.players[1].Snake.Head())
		g.active = false
		return Outcome{Tick: g.tick, Over: true, Winner: Player1}, nil
	}

	var foodErr error
	for _, slot := range [2]Slot{Player1, Player2} {
		lost, err := g.move(slot)
		if err != nil {
			foodErr = err
		}
		if lost {
			log.Debugf("Tick %d: player %d collided", g.tick, slot)
			g.active = false
			return Outcome{Tick: g.tick, Over: true, Winner: slot.Other()}, foodErr
		}
	}

	return Outcome{Tick: g.tick}, foodErr
}

// swapping reports whether each head is about to step onto the other's head
func (g *Game) swapping() bool {
	p1, p2 := &g.players[0], &g.players[1]
	h1, h2 := p1.Snake.Head(), p2.Snake.Head()
	return g.grid.Wrap(h1.Add(p1.Velocity)) == h2 && g.grid.Wrap(h2.Add(p2.Velocity)) == h1
}

// move advances one player and reports whether it ran into a snake
func (g *Game) move(slot Slot) (bool, error) {
	p := &g.players[slot.index()]
	head := g.grid.Wrap(p.Snake.Head().Add(p.Velocity))

	switch g.Classify(head) {
	case CollisionFood:
		p.Snake = p.Snake.grow(head)
		return false, g.placeFood()
	case CollisionSnake:
		return true, nil
	default:
		p.Snake.slide(head)
		return false, nil
	}
}

// Classify reports what occupies c on the current board
func (g *Game) Classify(c Cell) Collision {
	if c == g.food {
		return CollisionFood
	}
	if g.occupied(c) {
		return CollisionSnake
	}
	return CollisionNone
}

func (g *Game) occupied(c Cell) bool {
	return g.players[0].Snake.Contains(c) || g.players[1].Snake.Contains(c)
}

// Snapshot returns a deep copy of the current state
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Player1: PlayerState{Velocity: g.players[0].Velocity, Snake: g.players[0].Snake.clone()},
		Player2: PlayerState{Velocity: g.players[1].Velocity, Snake: g.players[1].Snake.clone()},
		Food:    g.food,
		Active:  g.active,
		Tick:    g.tick,
	}
}
