package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/snake-duel/internal/client/connection"
)

// connectionSuccessMsg is sent when connection is established
type connectionSuccessMsg struct{}

// connectionErrorMsg is sent when connection fails
type connectionErrorMsg struct {
	err error
}

// connectionEventMsg wraps events from the connection manager
type connectionEventMsg struct {
	event connection.Event
}

// retryMsg fires when the backoff before a reconnect has elapsed
type retryMsg struct{}

// tickMsg is sent periodically for animations
type tickMsg time.Time

// connectCmd attempts to connect to the server with the session's manager
func connectCmd(mgr *connection.Manager) tea.Cmd {
	return func() tea.Msg {
		if err := mgr.Connect(); err != nil {
			return connectionErrorMsg{err: err}
		}
		return connectionSuccessMsg{}
	}
}

// retryConnectCmd waits attempt seconds before the next connection attempt
func retryConnectCmd(attempt int) tea.Cmd {
	return tea.Tick(time.Duration(attempt)*time.Second, func(time.Time) tea.Msg {
		return retryMsg{}
	})
}

// listenForEventsCmd blocks until the manager reports the next event
func listenForEventsCmd(events <-chan connection.Event) tea.Cmd {
	return func() tea.Msg {
		return connectionEventMsg{event: <-events}
	}
}

// tickCmd returns a command that sends tick messages for animations
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
