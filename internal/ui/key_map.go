package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	enter  key.Binding
	back   key.Binding
	toggle key.Binding
	seekB  key.Binding
	seekF  key.Binding
	like   key.Binding
	follow key.Binding
	artist key.Binding
	donate key.Binding
	login  key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		seekB:  key.NewBinding(key.WithKeys(","), key.WithHelp(",", "seek -5s")),
		seekF:  key.NewBinding(key.WithKeys("."), key.WithHelp(".", "seek +5s")),
		like:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
		follow: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "follow")),
		artist: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "artist")),
		donate: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "donate")),
		login:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "sign in")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.toggle, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.toggle, k.seekB, k.seekF},
		{k.like, k.follow, k.artist},
		{k.donate, k.login, k.quit},
	}
}
