package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	pane    key.Binding
	remove  key.Binding
	shuffle key.Binding
	rename  key.Binding
	save    key.Binding
	toggle  key.Binding
	next    key.Binding
	prev    key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		pane:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		remove:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		shuffle: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		rename:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		save:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "save")),
		toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		next:    key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "next track")),
		prev:    key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "previous track")),
		restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "keep building")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.pane, k.remove, k.shuffle},
		{k.rename, k.save, k.toggle},
		{k.next, k.prev, k.quit},
	}
}
