package components

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// ListKeyMap holds the bindings of the profile list.
type ListKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Toggle key.Binding
	Add    key.Binding
	Delete key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultListKeys returns the profile list bindings.
func DefaultListKeys() ListKeyMap {
	return ListKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k ListKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Toggle, k.Add, k.Delete, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k ListKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Toggle},
		{k.Add, k.Delete, k.Help, k.Quit},
	}
}

// DialogKeyMap holds the bindings of the profile editor.
type DialogKeyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Paste    key.Binding
	Generate key.Binding
	Confirm  key.Binding
	Dismiss  key.Binding
	Press    key.Binding
}

// DefaultDialogKeys returns the profile editor bindings.
func DefaultDialogKeys() DialogKeyMap {
	return DialogKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev"),
		),
		Paste: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("ctrl+v", "paste url"),
		),
		Generate: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "generate"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "confirm"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
		Press: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "press button"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k DialogKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Paste, k.Generate, k.Confirm, k.Dismiss}
}

// FullHelp implements help.KeyMap.
func (k DialogKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Press},
		{k.Paste, k.Generate, k.Confirm, k.Dismiss},
	}
}

// NewHelp returns a help model styled to match the palette.
func NewHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(ColorPrimaryBright).
		Bold(true)
	h.Styles.ShortDesc = lipgloss.NewStyle().
		Foreground(ColorTextMuted)
	h.Styles.ShortSeparator = lipgloss.NewStyle().
		Foreground(ColorTextMuted)
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = h.Styles.ShortDesc
	h.Styles.FullSeparator = h.Styles.ShortSeparator
	return h
}
