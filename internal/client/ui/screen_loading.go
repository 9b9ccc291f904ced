package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// updateLoading handles loading screen updates
func (m Model) updateLoading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		return m, tea.Quit

	case "r":
		// manual retry once the automatic ones are used up or the link dropped
		if m.err != nil && !m.waitingToRetry {
			m.reconnectAttempt = 0
			m.err = nil
			return m, tea.Batch(connectCmd(m.connMgr), tickCmd())
		}
	}
	return m, nil
}

// viewLoading renders the loading/connection screen
func (m Model) viewLoading() string {
	title := titleStyle.Render("🐍 SNAKE DUEL")
	subtitle := subtitleStyle.Render("Connecting to the arena...")

	dots := strings.Repeat(".", m.loadingDots)
	spinner := spinnerStyle.Render("◐◓◑◒"[m.loadingDots%4 : m.loadingDots%4+1])

	loadingText := lipgloss.NewStyle().
		Foreground(mutedColor).
		Render("Establishing connection" + dots)

	status := lipgloss.JoinVertical(
		lipgloss.Center,
		spinner+" "+loadingText,
	)

	var errorMsg string
	if m.err != nil {
		errorMsg = errorStyle.Render("\n\n✗ Connection failed: " + m.err.Error())
		switch {
		case m.waitingToRetry:
			errorMsg += mutedStyle.Render(fmt.Sprintf("\nRetrying (%d/%d)...", m.reconnectAttempt, m.maxReconnects))
		default:
			errorMsg += mutedStyle.Render("\nPress R to retry or ESC to quit")
		}
	}

	mainContent := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		subtitle,
		"\n\n",
		status,
		errorMsg,
	)

	instructions := instructionStyle.Render(
		mutedStyle.Render("Connecting to ") + highlightStyle.Render(m.serverURL) + "  •  " +
			mutedStyle.Render("ESC to quit"))

	centeredMain := lipgloss.Place(m.width, m.height-5, lipgloss.Center, lipgloss.Center, mainContent)
	bottomInstructions := lipgloss.Place(m.width, 3, lipgloss.Center, lipgloss.Bottom, instructions)

	return centeredMain + "\n" + bottomInstructions
}
