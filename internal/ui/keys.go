package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the task viewer.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Done    key.Binding
	Overdue key.Binding
	Reload  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Done: key.NewBinding(
		key.WithKeys("d", "enter"),
		key.WithHelp("d", "mark done"),
	),
	Overdue: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "overdue only"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r", "f5"),
		key.WithHelp("r", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("h", "?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Done, k.Overdue, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Done, k.Overdue, k.Reload},
		{k.Help, k.Quit},
	}
}
