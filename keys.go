package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Dec      key.Binding
	Inc      key.Binding
	DecFast  key.Binding
	IncFast  key.Binding
	Toggle   key.Binding
	Reset    key.Binding
	Undo     key.Binding
	Redo     key.Binding
	SavePNG  key.Binding
	SaveText key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next control")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous control")),
		Dec:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "decrease")),
		Inc:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "increase")),
		DecFast:  key.NewBinding(key.WithKeys("H", "shift+left"), key.WithHelp("H", "decrease ×10")),
		IncFast:  key.NewBinding(key.WithKeys("L", "shift+right"), key.WithHelp("L", "increase ×10")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "toggle")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Undo:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Redo:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "redo")),
		SavePNG:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save PNG")),
		SaveText: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write values")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy values")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Inc, k.Toggle, k.Reset, k.Undo, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Dec, k.Inc, k.DecFast, k.IncFast, k.Toggle},
		{k.Reset, k.Undo, k.Redo},
		{k.SavePNG, k.SaveText, k.Copy},
		{k.Help, k.Quit},
	}
}
