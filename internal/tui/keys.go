package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the dashboard bindings.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Retry       key.Binding
	RetryAll    key.Binding
	Add         key.Binding
	Layout      key.Binding
	Group       key.Binding
	Summary     key.Binding
	Quit        key.Binding
	Submit      key.Binding
	CancelInput key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		RetryAll: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "retry failed"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Layout: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "list/grid"),
		),
		Group: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "group"),
		),
		Summary: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "summary"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add files"),
		),
		CancelInput: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp implements help.KeyMap for the dashboard bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Retry, k.RetryAll, k.Add, k.Layout, k.Group, k.Summary, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Retry, k.RetryAll, k.Add},
		{k.Layout, k.Group, k.Summary, k.Quit},
	}
}

// inputHelp is shown while the path input is focused.
func (k keyMap) inputHelp() []key.Binding {
	return []key.Binding{k.Submit, k.CancelInput}
}
