package ui

import "github.com/charmbracelet/lipgloss"

// Color palette - Earthy tones (lighter for dark backgrounds)
var (
	primaryColor   = lipgloss.Color("#E8C4A0") // Light warm beige
	secondaryColor = lipgloss.Color("#7EBB81") // Light forest green
	accentColor    = lipgloss.Color("#A8C9A4") // Soft sage green
	successColor   = lipgloss.Color("#B5D99C") // Bright sage
	mutedColor     = lipgloss.Color("#B8A890") // Light taupe
	fgColor        = lipgloss.Color("#F5F3ED") // Warm white

	snake1Color = lipgloss.Color("#8FBC8F") // darkseagreen
	snake2Color = lipgloss.Color("#556B2F") // darkolivegreen
	foodColor   = lipgloss.Color("#8B0000") // darkred
	boardColor  = lipgloss.Color("#1E1E1E")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Padding(1, 2).
			Align(lipgloss.Center)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Italic(true).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2).
			Margin(1, 0)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(accentColor).
			Padding(0, 1).
			Width(30)

	labelStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			MarginTop(1)

	highlightStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	instructionStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Italic(true).
				Margin(1, 0)

	cursorStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	boardBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(primaryColor).
			Foreground(fgColor).
			Padding(1, 3).
			Align(lipgloss.Center)

	centerStyle = lipgloss.NewStyle().
			Align(lipgloss.Center).
			Foreground(mutedColor).
			Italic(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E07B7B")).
			Bold(true)
)

// board tiles, indexed by tile
var (
	tileGlyphs = [...]string{
		tileEmpty:  " ",
		tileFood:   "█",
		tileSnake1: "█",
		tileSnake2: "█",
		tileHead1:  "▓",
		tileHead2:  "▓",
	}

	tileStyles = [...]lipgloss.Style{
		tileEmpty:  lipgloss.NewStyle().Background(boardColor),
		tileFood:   lipgloss.NewStyle().Foreground(foodColor).Background(boardColor),
		tileSnake1: lipgloss.NewStyle().Foreground(snake1Color).Background(boardColor),
		tileSnake2: lipgloss.NewStyle().Foreground(snake2Color).Background(boardColor),
		tileHead1:  lipgloss.NewStyle().Foreground(snake1Color).Background(boardColor).Bold(true),
		tileHead2:  lipgloss.NewStyle().Foreground(snake2Color).Background(boardColor).Bold(true),
	}
)

// playerStyle colors a name the way its snake is drawn
func playerStyle(slot int) lipgloss.Style {
	if slot == 2 {
		return lipgloss.NewStyle().Foreground(snake2Color).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(snake1Color).Bold(true)
}
