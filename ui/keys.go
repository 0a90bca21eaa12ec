package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Theme    key.Binding
	Music    key.Binding
	NextTool key.Binding
	PrevTool key.Binding
	Up       key.Binding
	Down     key.Binding
	Email    key.Binding
	Copy     key.Binding
	Download key.Binding
	Help     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Music:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "music")),
		NextTool: key.NewBinding(key.WithKeys("tab", "right", "n"), key.WithHelp("tab", "next tool")),
		PrevTool: key.NewBinding(key.WithKeys("shift+tab", "left", "p"), key.WithHelp("shift+tab", "prev tool")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "select download")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "select download")),
		Email:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "email file")),
		Copy:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy link")),
		Download: key.NewBinding(key.WithKeys("d", "enter"), key.WithHelp("d", "download")),
		Help:     key.NewBinding(key.WithKeys("?", "h"), key.WithHelp("?", "help")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Download, k.Email, k.NextTool, k.Theme, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Download, k.Copy, k.Email},
		{k.NextTool, k.PrevTool},
		{k.Theme, k.Music, k.Help, k.Quit},
	}
}

type modalKeyMap struct {
	Next   key.Binding
	Send   key.Binding
	Cancel key.Binding
}

func defaultModalKeys() modalKeyMap {
	return modalKeyMap{
		Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Send:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "send email")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k modalKeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Next, k.Send, k.Cancel} }

func (k modalKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
