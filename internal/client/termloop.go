package client

import (
	"fmt"

	tl "github.com/JoelOtter/termloop"
	"github.com/yourusername/snake-duel/internal/client/connection"
	"github.com/yourusername/snake-duel/internal/protocol"
)

// columns per grid cell, so cells come out roughly square
const cellColumns = 2

// board is drawn below a one-line status bar
const boardTop = 1

// TermloopGame draws the game with termloop instead of Bubble Tea. It is a
// plain game view: the room is joined up front and the lobby is a status line.
type TermloopGame struct {
	game  *tl.Game
	level *tl.BaseLevel
	mgr   *connection.Manager
}

// NewTermloopGame creates a termloop view for a connected manager and a
// sizeX by sizeY board
func NewTermloopGame(mgr *connection.Manager, sizeX, sizeY int) *TermloopGame {
	game := tl.NewGame()
	level := tl.NewBaseLevel(tl.Cell{
		Bg: tl.ColorBlack,
		Fg: tl.ColorWhite,
		Ch: ' ',
	})
	game.Screen().SetLevel(level)
	game.SetEndKey(tl.KeyEsc)

	tg := &TermloopGame{
		game:  game,
		level: level,
		mgr:   mgr,
	}
	level.AddEntity(&BoardEntity{mgr: mgr, sizeX: sizeX, sizeY: sizeY})
	level.AddEntity(&StatusEntity{mgr: mgr})

	return tg
}

// Start runs the termloop game until the end key is pressed
func (tg *TermloopGame) Start() {
	tg.game.Start()
}

// BoardEntity renders the latest snapshot and turns keys into intents
type BoardEntity struct {
	mgr   *connection.Manager
	sizeX int
	sizeY int
}

var (
	snake1Cell = tl.Cell{Bg: tl.ColorGreen, Ch: ' '}
	snake2Cell = tl.Cell{Bg: tl.ColorCyan, Ch: ' '}
	foodCell   = tl.Cell{Bg: tl.ColorRed, Ch: ' '}
	edgeCell   = tl.Cell{Fg: tl.ColorWhite, Ch: '·'}
)

func (b *BoardEntity) renderGridCell(screen *tl.Screen, c protocol.Cell, cell tl.Cell) {
	if c.X < 0 || c.X >= b.sizeX || c.Y < 0 || c.Y >= b.sizeY {
		return
	}
	for i := 0; i < cellColumns; i++ {
		screen.RenderCell(c.X*cellColumns+i, c.Y+boardTop, &cell)
	}
}

// Draw draws the board frame, both snakes and the food
func (b *BoardEntity) Draw(screen *tl.Screen) {
	gs := b.mgr.GetState()

	for x := 0; x < b.sizeX*cellColumns; x++ {
		screen.RenderCell(x, b.sizeY+boardTop, &edgeCell)
	}
	for y := 0; y < b.sizeY; y++ {
		screen.RenderCell(b.sizeX*cellColumns, y+boardTop, &edgeCell)
	}

	if gs.Food != nil {
		b.renderGridCell(screen, *gs.Food, foodCell)
	}
	for _, c := range gs.Player1.Snake {
		b.renderGridCell(screen, c, snake1Cell)
	}
	for _, c := range gs.Player2.Snake {
		b.renderGridCell(screen, c, snake2Cell)
	}
}

// Tick handles keyboard input
func (b *BoardEntity) Tick(event tl.Event) {
	if event.Type != tl.EventKey {
		return
	}

	var err error
	switch event.Key {
	case tl.KeyArrowUp:
		err = b.mgr.SendDirection(0, -1)
	case tl.KeyArrowDown:
		err = b.mgr.SendDirection(0, 1)
	case tl.KeyArrowLeft:
		err = b.mgr.SendDirection(-1, 0)
	case tl.KeyArrowRight:
		err = b.mgr.SendDirection(1, 0)
	}

	switch event.Ch {
	case 's', 'r':
		err = b.mgr.StartGame()
	case 'm':
		err = b.mgr.ReturnToRoom()
	}

	if err != nil {
		log.Warnf("Send intent: %v", err)
	}
}

// StatusEntity prints the room, the players and the result on the top line
type StatusEntity struct {
	mgr *connection.Manager
}

func (s *StatusEntity) Draw(screen *tl.Screen) {
	st := s.mgr.State()
	gs := st.GetState()

	text := statusLine(st.Room(), st.Members(), gs.Active, gs.Tick, st.WinnerName())
	for i, ch := range text {
		screen.RenderCell(i, 0, &tl.Cell{Fg: tl.ColorYellow, Ch: ch})
	}
}

func (s *StatusEntity) Tick(event tl.Event) {}

// statusLine summarizes the session for the termloop header
func statusLine(room string, members []protocol.Member, active bool, tick uint64, winner string) string {
	if room == "" {
		return "Waiting for the room... (ESC to quit)"
	}

	names := "waiting for an opponent"
	if len(members) == 2 {
		names = fmt.Sprintf("%s (green) vs %s (cyan)", members[0].Name, members[1].Name)
	} else if len(members) == 1 {
		names = members[0].Name + " vs ?"
	}

	switch {
	case winner != "":
		return fmt.Sprintf("[%s] %s won!  r restart  m menu  ESC quit", room, winner)
	case active:
		return fmt.Sprintf("[%s] %s  tick %d", room, names, tick)
	default:
		return fmt.Sprintf("[%s] %s  s start  ESC quit", room, names)
	}
}
