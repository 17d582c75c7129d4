package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Tab       key.Binding
	ShiftTab  key.Binding
	Enter     key.Binding
	Escape    key.Binding
	Add       key.Binding
	Remove    key.Binding
	Compare   key.Binding
	New       key.Binding
	Copy      key.Binding
	Edit      key.Binding
	QR        key.Binding
	Delete    key.Binding
	Clear     key.Binding
	Toggle    key.Binding
	Save      key.Binding
	Regex     key.Binding
	Avatar    key.Binding
	Name      key.Binding
	Password  key.Binding
	Refresh   key.Binding
	Theme     key.Binding
	Lang      key.Binding
	Role      key.Binding
	Register  key.Binding
	Goto      key.Binding
	FormGoto  key.Binding
	Dashboard key.Binding
	History   key.Binding
	Profile   key.Binding
	Admin     key.Binding
	Docs      key.Binding
	Help      key.Binding
	Logout    key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	ShiftTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/submit")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add file")),
	Remove:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove file")),
	Compare:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "run analysis")),
	New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new check")),
	Copy:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy link")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit texts")),
	QR:        key.NewBinding(key.WithKeys("Q"), key.WithHelp("Q", "QR code")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Clear:     key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear history")),
	Toggle:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
	Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Regex:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "custom regex")),
	Avatar:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "upload avatar")),
	Name:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "display name")),
	Password:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "change password")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle theme")),
	Lang:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "language")),
	Role:      key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "switch role")),
	Register:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "login/register")),
	Goto:      key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "go to path")),
	FormGoto:  key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "go to path")),
	Dashboard: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "check")),
	History:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "history")),
	Profile:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "account")),
	Admin:     key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "admin")),
	Docs:      key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "docs")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Logout:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}
