package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the presentation key bindings. Navigation keys route through
// the controller, which drops them while a transition is in flight.
type KeyMap struct {
	Next     key.Binding
	Previous key.Binding
	First    key.Binding
	Last     key.Binding
	Copy     key.Binding
	Help     key.Binding
	Suspend  key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "pgdown", " ", "l", "n"),
			key.WithHelp("→/space", "next slide"),
		),
		Previous: key.NewBinding(
			key.WithKeys("left", "pgup", "h", "p"),
			key.WithHelp("←", "previous slide"),
		),
		First: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home", "first slide"),
		),
		Last: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end", "last slide"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy slide source"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Suspend: key.NewBinding(
			key.WithKeys("ctrl+z"),
			key.WithHelp("ctrl+z", "suspend"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Previous, k.Next, k.Copy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Previous, k.Next, k.First, k.Last},
		{k.Copy, k.Help, k.Suspend, k.Quit},
	}
}
