package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the app-level bindings; view-local navigation keys are
// handled inline by each view.
type keyMap struct {
	Logout key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Logout: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "cerrar sesión"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "salir"),
	),
}
