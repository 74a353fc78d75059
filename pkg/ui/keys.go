package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap is the outline view's key bindings.
type keyMap struct {
	Activate    key.Binding
	Fold        key.Binding
	Unfold      key.Binding
	ToggleTree  key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Refresh     key.Binding
	Copy        key.Binding
	Close       key.Binding
	Project     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Activate:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open/fold")),
		Fold:        key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h", "fold")),
		Unfold:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l", "unfold")),
		ToggleTree:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "hide lane")),
		ExpandAll:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy link")),
		Close:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close detail")),
		Project:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "project")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Activate, k.Fold, k.Unfold, k.ToggleTree, k.Refresh, k.Copy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Activate, k.Fold, k.Unfold, k.ToggleTree, k.ExpandAll, k.CollapseAll},
		{k.Refresh, k.Copy, k.Close, k.Project, k.Help, k.Quit},
	}
}
