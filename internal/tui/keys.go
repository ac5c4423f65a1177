package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Fold     key.Binding
	Call     key.Binding
	Raise    key.Binding
	Show     key.Binding
	Blind    key.Binding
	BootUp   key.Binding
	BootDown key.Binding
	Deal     key.Binding
	Theme    key.Binding
	ScrollUp key.Binding
	ScrollDn key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Fold:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fold")),
		Call:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "call")),
		Raise:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "raise")),
		Show:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "show")),
		Blind:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "blind/seen")),
		BootUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "boot up")),
		BootDown: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "boot down")),
		Deal:     key.NewBinding(key.WithKeys("n", "enter"), key.WithHelp("n", "new round")),
		Theme:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dark/light")),
		ScrollUp: key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		ScrollDn: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Fold, k.Call, k.Raise, k.Show, k.Blind, k.Deal, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Fold, k.Call, k.Raise, k.Show},
		{k.Blind, k.BootUp, k.BootDown, k.Deal},
		{k.Theme, k.ScrollUp, k.ScrollDn, k.Help, k.Quit},
	}
}
