package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxInputLen = 20

// updateEntry handles the name and room entry screen
func (m Model) updateEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab", "shift+tab", "up", "down":
		m.focus = (m.focus + 1) % 2
		return m, nil

	case "enter":
		if m.nameInput == "" {
			m.focus = fieldName
			return m, nil
		}
		if m.roomInput == "" {
			m.focus = fieldRoom
			return m, nil
		}
		// the server answers with room-joined, or stays silent if the room is full
		if err := m.connMgr.JoinRoom(m.roomInput, m.nameInput); err != nil {
			m.err = err
		}
		return m, nil

	case "backspace":
		field := m.focused()
		if len(*field) > 0 {
			*field = (*field)[:len(*field)-1]
		}

	default:
		field := m.focused()
		if msg.Type == tea.KeyRunes && len(*field)+len(msg.Runes) <= maxInputLen {
			*field += string(msg.Runes)
		}
	}

	return m, nil
}

func (m *Model) focused() *string {
	if m.focus == fieldRoom {
		return &m.roomInput
	}
	return &m.nameInput
}

func (m Model) renderInput(label string, value string, focused bool) string {
	text := value
	switch {
	case focused:
		text = highlightStyle.Render(value) + cursorStyle.Render("▊")
	case value == "":
		text = mutedStyle.Render("type here...")
	}

	style := inputBoxStyle
	if focused {
		style = style.BorderForeground(primaryColor)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render(label),
		style.Render(text),
	)
}

// viewEntry renders the name and room entry screen
func (m Model) viewEntry() string {
	title := titleStyle.Render("🐍 SNAKE DUEL")
	subtitle := subtitleStyle.Render("Two snakes, one board")

	form := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderInput("Your name", m.nameInput, m.focus == fieldName),
		m.renderInput("Room", m.roomInput, m.focus == fieldRoom),
	)

	var errorMsg string
	if m.err != nil {
		errorMsg = errorStyle.Render("\n✗ " + m.err.Error())
	}

	mainContent := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		subtitle,
		"\n",
		form,
		errorMsg,
	)

	instructions := instructionStyle.Render(
		"Press " + highlightStyle.Render("ENTER") + " to join  •  " +
			highlightStyle.Render("TAB") + " to switch field  •  " +
			mutedStyle.Render("ESC to quit"))

	centeredMain := lipgloss.Place(m.width, m.height-5, lipgloss.Center, lipgloss.Center, mainContent)
	bottomInstructions := lipgloss.Place(m.width, 3, lipgloss.Center, lipgloss.Bottom, instructions)

	return centeredMain + "\n" + bottomInstructions
}
