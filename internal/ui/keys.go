package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the TUI key bindings. The draft input always has focus, so
// commands use function keys and the control keys the text input leaves
// free (ctrl+a, ctrl+e, ctrl+k and ctrl+d stay line editing keys).
type keyMap struct {
	Submit    key.Binding
	Cancel    key.Binding
	Edit      key.Binding
	Toggle    key.Binding
	Delete    key.Binding
	Up        key.Binding
	Down      key.Binding
	All       key.Binding
	Active    key.Binding
	Completed key.Binding
	Theme     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add/update")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel edit")),
		Edit:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "edit")),
		Toggle:    key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "toggle")),
		Delete:    key.NewBinding(key.WithKeys("ctrl+r", "f4"), key.WithHelp("ctrl+r", "delete")),
		Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:      key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		All:       key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "all")),
		Active:    key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "active")),
		Completed: key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "completed")),
		Theme:     key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help (empty input)")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Edit, k.Toggle, k.Delete, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Cancel, k.Edit, k.Toggle, k.Delete},
		{k.Up, k.Down, k.All, k.Active, k.Completed},
		{k.Theme, k.Help, k.Quit},
	}
}
