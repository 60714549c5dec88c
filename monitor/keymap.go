package monitor

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	refresh   key.Binding
	attendees key.Binding
	help      key.Binding
	quit      key.Binding
}

func (k keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.refresh, k.attendees, k.help, k.quit}
}

func (k keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.refresh, k.attendees},
		{k.help, k.quit},
	}
}

var defaultKeymap = keymap{
	refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh now"),
	),
	attendees: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "toggle attendees"),
	),
	help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
