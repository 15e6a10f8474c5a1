package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"taskboard/internal/config"
)

type keyMap struct {
	Quit    key.Binding
	Add     key.Binding
	Up      key.Binding
	Down    key.Binding
	Switch  key.Binding
	Toggle  key.Binding
	Delete  key.Binding
	Edit    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Yes     key.Binding
	No      key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys(k.Quit, "ctrl+c"), key.WithHelp(k.Quit, "quit")),
		Add:     key.NewBinding(key.WithKeys(k.Add), key.WithHelp(k.Add, "add")),
		Up:      key.NewBinding(key.WithKeys(k.Up, "up"), key.WithHelp(k.Up+"/↑", "up")),
		Down:    key.NewBinding(key.WithKeys(k.Down, "down"), key.WithHelp(k.Down+"/↓", "down")),
		Switch:  key.NewBinding(key.WithKeys(k.Switch, "left", "right", "h", "l"), key.WithHelp(k.Switch, "switch list")),
		Toggle:  key.NewBinding(key.WithKeys(k.Toggle), key.WithHelp(displayKey(k.Toggle), "complete/undo")),
		Delete:  key.NewBinding(key.WithKeys(k.Delete), key.WithHelp(k.Delete, "delete")),
		Edit:    key.NewBinding(key.WithKeys(k.Edit), key.WithHelp(k.Edit, "edit")),
		Confirm: key.NewBinding(key.WithKeys(k.Confirm), key.WithHelp(k.Confirm, "save")),
		Cancel:  key.NewBinding(key.WithKeys(k.Cancel), key.WithHelp(k.Cancel, "leave")),
		Yes:     key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "delete")),
		No:      key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "keep")),
	}
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Switch, k.Add, k.Toggle, k.Edit, k.Delete, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Switch},
		{k.Add, k.Toggle, k.Edit, k.Delete},
		{k.Confirm, k.Cancel, k.Quit},
	}
}
