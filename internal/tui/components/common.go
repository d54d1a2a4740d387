// Package components provides shared UI components for the TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorPrimary       = lipgloss.Color("62")  // Muted blue
	ColorPrimaryBright = lipgloss.Color("75")  // Brighter blue
	ColorAccent        = lipgloss.Color("86")  // Cyan/teal
	ColorSurface       = lipgloss.Color("236") // Slightly lighter surface

	ColorText       = lipgloss.Color("252")
	ColorTextMuted  = lipgloss.Color("243")
	ColorTextBright = lipgloss.Color("15")

	ColorSuccess = lipgloss.Color("82")
	ColorWarning = lipgloss.Color("214")
	ColorError   = lipgloss.Color("196")
	ColorInfo    = lipgloss.Color("117")
)

// Styles contains common styling for the TUI.
var Styles = struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Selected lipgloss.Style

	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Border     lipgloss.Style
	HelpText   lipgloss.Style
	StatusLine lipgloss.Style
	Header     lipgloss.Style
	Dialog     lipgloss.Style

	MenuItem     lipgloss.Style
	MenuSelected lipgloss.Style
	MenuKey      lipgloss.Style

	Button      lipgloss.Style
	ButtonFocus lipgloss.Style

	InputLabel      lipgloss.Style
	InputLabelFocus lipgloss.Style

	SwitchOn  lipgloss.Style
	SwitchOff lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorTextBright).
		Background(ColorPrimary).
		Padding(0, 2),
	Subtitle: lipgloss.NewStyle().
		Italic(true).
		Foreground(ColorTextMuted),
	Normal: lipgloss.NewStyle().
		Foreground(ColorText),
	Selected: lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorAccent),

	Error: lipgloss.NewStyle().
		Foreground(ColorError),
	Warning: lipgloss.NewStyle().
		Foreground(ColorWarning),
	Info: lipgloss.NewStyle().
		Foreground(ColorInfo),

	Border: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1),
	HelpText: lipgloss.NewStyle().
		Italic(true).
		Foreground(ColorTextMuted),
	StatusLine: lipgloss.NewStyle().
		Foreground(ColorTextBright).
		Background(ColorSurface).
		Padding(0, 1),
	Header: lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorTextBright).
		Background(ColorPrimary).
		Padding(0, 1),
	Dialog: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(1, 2),

	MenuItem: lipgloss.NewStyle().
		Foreground(ColorText),
	MenuSelected: lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorAccent),
	MenuKey: lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimaryBright),

	Button: lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorSurface).
		Padding(0, 2),
	ButtonFocus: lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorTextBright).
		Background(ColorPrimary).
		Padding(0, 2),

	InputLabel: lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorText),
	InputLabelFocus: lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorAccent),

	SwitchOn: lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSuccess),
	SwitchOff: lipgloss.NewStyle().
		Foreground(ColorTextMuted),
}

// MenuItem is one row of a Menu.
type MenuItem struct {
	Label       string
	Description string
}

// Menu is a vertical list with a cursor.
type Menu struct {
	Items  []MenuItem
	Cursor int
	Width  int
}

// NewMenu creates a new menu with the given items.
func NewMenu(items []MenuItem) *Menu {
	return &Menu{Items: items}
}

// SetWidth sets the menu width.
func (m *Menu) SetWidth(width int) {
	m.Width = width
}

// SetItems replaces the rows, keeping the cursor in range.
func (m *Menu) SetItems(items []MenuItem) {
	m.Items = items
	if m.Cursor >= len(items) {
		m.Cursor = len(items) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// Up moves the cursor up.
func (m *Menu) Up() {
	if m.Cursor > 0 {
		m.Cursor--
	}
}

// Down moves the cursor down.
func (m *Menu) Down() {
	if m.Cursor < len(m.Items)-1 {
		m.Cursor++
	}
}

// Render renders the menu rows, with the cursor row highlighted.
func (m *Menu) Render() string {
	var b strings.Builder

	for i, item := range m.Items {
		cursor := "  "
		labelStyle := Styles.MenuItem
		if i == m.Cursor {
			cursor = Styles.MenuSelected.Render("▸ ")
			labelStyle = Styles.MenuSelected
		}

		label := item.Label
		if m.Width > 8 {
			label = Truncate(label, m.Width-4)
		}
		b.WriteString(cursor + labelStyle.Render(label) + "\n")

		if item.Description != "" {
			b.WriteString(Styles.Subtitle.Render("    "+item.Description) + "\n")
		}
	}

	return b.String()
}

// Switch renders a labelled on/off toggle row.
func Switch(label string, on, focused bool) string {
	cursor := "  "
	labelStyle := Styles.MenuItem
	if focused {
		cursor = Styles.MenuSelected.Render("▸ ")
		labelStyle = Styles.MenuSelected
	}

	state := Styles.SwitchOff.Render("[   off]")
	if on {
		state = Styles.SwitchOn.Render("[on    ]")
	}
	return cursor + state + " " + labelStyle.Render(label)
}

// Button is a focusable push button.
type Button struct {
	Label string
	Focus bool
}

// Render renders the button with styling.
func (b *Button) Render() string {
	if b.Focus {
		return Styles.ButtonFocus.Render(b.Label)
	}
	return Styles.Button.Render(b.Label)
}

// HelpItem represents a help item with key and description.
type HelpItem struct {
	Key  string
	Desc string
}

// HelpBar renders a help bar showing keybindings.
func HelpBar(width int, items []HelpItem) string {
	var parts []string
	for _, item := range items {
		parts = append(parts, Styles.MenuKey.Render(item.Key)+Styles.HelpText.Render(" "+item.Desc))
	}

	content := strings.Join(parts, Styles.HelpText.Render(" • "))
	return Styles.StatusLine.Width(width).MaxWidth(width).Render(content)
}

// TitleBar renders a title bar with the application name and version.
func TitleBar(width int, title, version string) string {
	left := Styles.Header.Render(title)
	right := Styles.Subtitle.Render("v" + version + "  [?] Help  [q] Quit")

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return lipgloss.JoinHorizontal(lipgloss.Left,
		left,
		strings.Repeat(" ", padding),
		right,
	)
}

// StatusBar renders a status line at the bottom of the screen.
func StatusBar(width int, text string) string {
	return Styles.StatusLine.Width(width).Render(text)
}

// Overlay centers content in a width x height area.
func Overlay(width, height int, content string) string {
	if width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// Truncate truncates text to fit within maxLen runes.
func Truncate(text string, maxLen int) string {
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// RenderError renders an error message.
func RenderError(text string) string {
	return Styles.Error.Render("✗ " + text)
}

// RenderWarning renders a warning message.
func RenderWarning(text string) string {
	return Styles.Warning.Render("⚠ " + text)
}

// RenderInfo renders an info message.
func RenderInfo(text string) string {
	return Styles.Info.Render("ℹ " + text)
}
