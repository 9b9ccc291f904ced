package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// updateLobby handles the room lobby
func (m Model) updateLobby(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "s", "enter":
		// ignored by the server until both players are present
		if err := m.connMgr.StartGame(); err != nil {
			m.err = err
		}

	case "b", "esc":
		if err := m.connMgr.LeaveRoom(); err != nil {
			m.err = err
		}
		m.viewState = ViewEntry
	}
	return m, nil
}

// viewLobby renders the room lobby
func (m Model) viewLobby() string {
	st := m.connMgr.State()
	members := st.Members()

	title := titleStyle.Render("🐍 SNAKE DUEL")
	roomLine := mutedStyle.Render("You are in room: ") + highlightStyle.Render(st.Room())

	lines := []string{mutedStyle.Render("Current players:")}
	for i, member := range members {
		lines = append(lines, playerStyle(i+1).Render(fmt.Sprintf("■ %s", member.Name)))
	}
	if len(members) < 2 {
		lines = append(lines, centerStyle.Render("waiting for an opponent..."))
	}
	roster := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	var errorMsg string
	if m.err != nil {
		errorMsg = errorStyle.Render("✗ " + m.err.Error())
	}

	mainContent := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		roomLine,
		roster,
		errorMsg,
	)

	instructions := instructionStyle.Render(
		highlightStyle.Render("S") + " start  •  " +
			highlightStyle.Render("B") + " back  •  " +
			mutedStyle.Render("Q to quit"))

	centeredMain := lipgloss.Place(m.width, m.height-5, lipgloss.Center, lipgloss.Center, mainContent)
	bottomInstructions := lipgloss.Place(m.width, 3, lipgloss.Center, lipgloss.Bottom, instructions)

	return centeredMain + "\n" + bottomInstructions
}
