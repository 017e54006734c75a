package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Browse  key.Binding
	Path    key.Binding
	Predict key.Binding
	Clear   key.Binding
	History key.Binding
	Help    key.Binding
	Quit    key.Binding
	Back    key.Binding
	Submit  key.Binding
	Refresh key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Browse:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "browse")),
		Path:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "paste/drop path")),
		Predict: key.NewBinding(key.WithKeys("p", "enter"), key.WithHelp("p", "predict")),
		Clear:   key.NewBinding(key.WithKeys("c", "x"), key.WithHelp("c", "clear")),
		History: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Browse, k.Path, k.Predict, k.Clear, k.History, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Browse, k.Path},
		{k.Predict, k.Clear},
		{k.History, k.Help, k.Quit},
	}
}

// overlayKeys is the help shown while the picker, path input or history
// table has focus.
type overlayKeys struct {
	keys  keyMap
	extra []key.Binding
}

func (o overlayKeys) ShortHelp() []key.Binding {
	return append(append([]key.Binding{}, o.extra...), o.keys.Back)
}

func (o overlayKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{o.ShortHelp()}
}
