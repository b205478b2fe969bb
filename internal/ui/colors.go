package ui

import "github.com/charmbracelet/lipgloss"

// accent is Spotify green; the rest of the palette stays muted so track
// text reads first.
const accent = "#1DB954"

type palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

var styles = palette{
	title: lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Bold(true).MarginBottom(1),
	ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
	err:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true),
	warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")),
	help:  lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Italic(true),
}
