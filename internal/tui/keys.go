package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the board's keyboard shortcuts
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPane key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Undelete key.Binding
	Save     key.Binding
	Schedule key.Binding
	Reload   key.Binding
	Clear    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	NextPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit task")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Undelete: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undelete")),
	Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
	Schedule: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "schedule")),
	Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Clear:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear hover")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPane, k.Add, k.Save, k.Schedule, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPane, k.Clear},
		{k.Add, k.Edit, k.Delete, k.Undelete},
		{k.Save, k.Schedule, k.Reload},
		{k.Help, k.Quit},
	}
}
