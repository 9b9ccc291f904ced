package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yourusername/snake-duel/internal/protocol"
)

// what occupies a board cell
type tile int

const (
	tileEmpty tile = iota
	tileFood
	tileSnake1
	tileSnake2
	tileHead1
	tileHead2
)

// directionKeys maps arrow and WASD keys to velocities
var directionKeys = map[string]protocol.Velocity{
	"up":    {X: 0, Y: -1},
	"w":     {X: 0, Y: -1},
	"down":  {X: 0, Y: 1},
	"s":     {X: 0, Y: 1},
	"left":  {X: -1, Y: 0},
	"a":     {X: -1, Y: 0},
	"right": {X: 1, Y: 0},
	"d":     {X: 1, Y: 0},
}

// updateGame handles input while the board is shown
func (m Model) updateGame(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.connMgr.State().Winner() != 0 {
		switch key {
		case "r", "enter":
			if err := m.connMgr.StartGame(); err != nil {
				m.err = err
			}
		case "m", "esc":
			if err := m.connMgr.ReturnToRoom(); err != nil {
				m.err = err
			}
		}
		return m, nil
	}

	if v, ok := directionKeys[key]; ok {
		if err := m.connMgr.SendDirection(v.X, v.Y); err != nil {
			m.err = err
		}
	}
	return m, nil
}

// boardTiles rasterizes a snapshot; cells outside the board are skipped
func boardTiles(gs *protocol.GameState, b Board) [][]tile {
	tiles := make([][]tile, b.SizeY)
	for y := range tiles {
		tiles[y] = make([]tile, b.SizeX)
	}
	put := func(c protocol.Cell, t tile) {
		if c.Y >= 0 && c.Y < b.SizeY && c.X >= 0 && c.X < b.SizeX {
			tiles[c.Y][c.X] = t
		}
	}

	if gs.Food != nil {
		put(*gs.Food, tileFood)
	}
	for i, c := range gs.Player1.Snake {
		if i == len(gs.Player1.Snake)-1 {
			put(c, tileHead1)
		} else {
			put(c, tileSnake1)
		}
	}
	for i, c := range gs.Player2.Snake {
		if i == len(gs.Player2.Snake)-1 {
			put(c, tileHead2)
		} else {
			put(c, tileSnake2)
		}
	}
	return tiles
}

// renderBoard draws the grid, one style run per line segment of equal tiles
func renderBoard(gs *protocol.GameState, b Board) string {
	tiles := boardTiles(gs, b)
	w := b.cellWidth()

	var sb strings.Builder
	for y, row := range tiles {
		for x := 0; x < len(row); {
			t := row[x]
			run := x
			for run < len(row) && row[run] == t {
				run++
			}
			sb.WriteString(tileStyles[t].Render(strings.Repeat(tileGlyphs[t], (run-x)*w)))
			x = run
		}
		if y < len(tiles)-1 {
			sb.WriteByte('\n')
		}
	}
	return boardBoxStyle.Render(sb.String())
}

// viewGame renders the board, the players and any game-over overlay
func (m Model) viewGame() string {
	st := m.connMgr.State()
	gs := st.GetState()
	members := st.Members()

	legend := make([]string, 0, 2)
	for i, member := range members {
		legend = append(legend, playerStyle(i+1).Render("■ "+member.Name))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(legend, "   "),
		mutedStyle.Render(fmt.Sprintf("   room %s  •  tick %d", st.Room(), gs.Tick)),
	)

	board := renderBoard(gs, m.board)

	footer := instructionStyle.Render(
		highlightStyle.Render("←↑↓→") + " / " + highlightStyle.Render("WASD") + " steer  •  " +
			mutedStyle.Render("CTRL+C to quit"))

	if st.Winner() != 0 {
		name := st.WinnerName()
		if name == "" {
			name = fmt.Sprintf("Player %d", st.Winner())
		}
		overlay := overlayStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			titleStyle.Render(name+" won!"),
			highlightStyle.Render("R")+mutedStyle.Render(" restart  •  ")+
				highlightStyle.Render("M")+mutedStyle.Render(" return to the menu"),
		))
		board = lipgloss.Place(lipgloss.Width(board), lipgloss.Height(board),
			lipgloss.Center, lipgloss.Center, overlay)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, header, board, footer)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
