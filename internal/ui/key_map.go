package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	back      key.Binding
	discover  key.Binding
	refresh   key.Binding
	tab       key.Binding
	queue     key.Binding
	subscribe key.Binding
	open      key.Binding
	quit      key.Binding
	forceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		discover:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "discover")),
		refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch tab")),
		queue:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "queue")),
		subscribe: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "subscribe")),
		open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open link")),
		quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// forView returns the bindings offered on screen v. refresh is only listed while it can be used.
func (k keyMap) forView(v View, refresh bool) []key.Binding {
	switch v {
	case Empty:
		return []key.Binding{k.discover, k.quit}
	case Podcasts:
		bindings := []key.Binding{k.up, k.down, k.tab}
		if refresh {
			bindings = append(bindings, k.refresh)
		}
		return append(bindings, k.queue, k.open, k.discover, k.quit)
	case Discover:
		return []key.Binding{k.enter, k.back, k.forceQuit}
	case ShowDetails:
		return []key.Binding{k.up, k.down, k.subscribe, k.open, k.back, k.quit}
	default:
		return []key.Binding{k.forceQuit}
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.discover, k.refresh, k.tab},
		{k.queue, k.subscribe, k.open},
		{k.quit, k.forceQuit},
	}
}
