package tui

import "github.com/charmbracelet/bubbles/key"

// BrowserKeyMap defines the key bindings for the level browser.
type BrowserKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Solve   key.Binding
	Hint    key.Binding
	Path    key.Binding
	History key.Binding
	Reload  key.Binding
	Back    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BrowserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Hint, k.Path, k.Back, k.Help}
}

// FullHelp returns key bindings for the full help view.
func (k BrowserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Reload},
		{k.Solve, k.Hint, k.Path, k.History},
		{k.Back, k.Help, k.Quit},
	}
}

// DefaultBrowserKeyMap returns default key bindings.
func DefaultBrowserKeyMap() BrowserKeyMap {
	return BrowserKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "move down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open level"),
		),
		Solve: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "re-solve"),
		),
		Hint: key.NewBinding(
			key.WithKeys("n", " "),
			key.WithHelp("n/space", "next hint"),
		),
		Path: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "toggle path"),
		),
		History: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "solve history"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload levels"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
