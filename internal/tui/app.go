// Package tui provides the terminal user interface for cookie-profiles.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/dtg01100/cookie-profiles/internal/tui/components"
	"github.com/dtg01100/cookie-profiles/internal/tui/screens"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Screen represents a TUI screen in the application.
type Screen int

const (
	ScreenCookies Screen = iota
	ScreenGenerator
	ScreenHelp
)

// String returns the string representation of a screen.
func (s Screen) String() string {
	switch s {
	case ScreenCookies:
		return "Cookies"
	case ScreenGenerator:
		return "Generate Cookies"
	case ScreenHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// ScreenChangeMsg is sent when the screen should change.
type ScreenChangeMsg struct {
	Screen Screen
}

// AppInitError is sent when app initialization fails.
type AppInitError struct {
	Err error
}

// AppInitDone is sent when app initialization is complete.
type AppInitDone struct{}

// Loader loads the profile store.
type Loader interface {
	Load(ctx context.Context) error
}

// Deps are the services the screens run against.
type Deps struct {
	Preferences screens.Preferences
	Store       screens.ProfileStore
	Loader      Loader
	Source      screens.CookieSource
	Logger      *log.Logger
	Options     []screens.CookiesOption
}

// App is the main TUI application model.
type App struct {
	currentScreen  Screen
	previousScreen Screen
	width          int
	height         int
	showHelp       bool
	initError      error

	// Help screen scroll state
	helpScrollY    int
	helpContentLen int

	// Screen models
	cookies   *screens.CookiesScreen
	generator *screens.GeneratorScreen

	loader Loader
	logger *log.Logger
}

// NewApp creates a new TUI application.
func NewApp(deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	opts := append([]screens.CookiesOption{screens.WithLogger(logger)}, deps.Options...)

	return &App{
		currentScreen:  ScreenCookies,
		previousScreen: ScreenCookies,
		cookies:        screens.NewCookiesScreen(deps.Preferences, deps.Store, opts...),
		generator:      screens.NewGeneratorScreen(deps.Store, deps.Source),
		loader:         deps.Loader,
		logger:         logger,
	}
}

// Init initializes the application.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.cookies.Init(),
		a.initializeServices,
	)
}

// initializeServices loads saved profiles into the store.
func (a *App) initializeServices() tea.Msg {
	if a.loader == nil {
		return AppInitDone{}
	}
	if err := a.loader.Load(context.Background()); err != nil {
		return AppInitError{Err: err}
	}
	return AppInitDone{}
}

// CurrentScreen returns the visible screen.
func (a *App) CurrentScreen() Screen {
	return a.currentScreen
}

// Close releases screen subscriptions.
func (a *App) Close() {
	a.cookies.Close()
}

// Update handles application updates.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if cmd, handled := a.handleGlobalKey(msg); handled {
			return a, cmd
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentHeight := a.height - 2
		a.cookies.SetSize(a.width, contentHeight)
		a.generator.SetSize(a.width, contentHeight)

	case screens.SnapshotMsg:
		// The cookie screen keeps its subscription alive while other screens are shown.
		_, cmd := a.cookies.Update(msg)
		return a, cmd

	case screens.DraftCommittedMsg, screens.ProfileDeletedMsg:
		_, cmd := a.cookies.Update(msg)
		return a, cmd

	case screens.NavigateMsg:
		return a, a.navigate(msg.Screen)

	case ScreenChangeMsg:
		a.currentScreen = msg.Screen
		a.showHelp = msg.Screen == ScreenHelp
		return a, nil

	case AppInitError:
		a.initError = msg.Err
		a.logger.Error("failed to load profiles", "error", msg.Err)
		return a, nil

	case AppInitDone:
		a.logger.Debug("profiles loaded")
		return a, nil
	}

	// Update the current screen
	switch a.currentScreen {
	case ScreenCookies:
		_, cmd := a.cookies.Update(msg)
		cmds = append(cmds, cmd)
	case ScreenGenerator:
		_, cmd := a.generator.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// handleGlobalKey handles keys that apply outside text entry.
func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if a.showHelp {
		switch msg.String() {
		case "up", "k":
			if a.helpScrollY > 0 {
				a.helpScrollY--
			}
		case "down", "j":
			maxScroll := a.helpContentLen - (a.height - 6)
			if maxScroll > 0 && a.helpScrollY < maxScroll {
				a.helpScrollY++
			}
		case "esc", "q", "?":
			a.currentScreen = a.previousScreen
			a.showHelp = false
		}
		return nil, true
	}

	if a.initError != nil {
		if msg.String() == "q" || msg.String() == "esc" {
			return tea.Quit, true
		}
		return nil, true
	}

	if a.currentScreen != ScreenCookies || a.cookies.Capturing() {
		return nil, false
	}

	switch msg.String() {
	case "q":
		return tea.Quit, true
	case "?":
		a.previousScreen = a.currentScreen
		a.currentScreen = ScreenHelp
		a.showHelp = true
		a.helpScrollY = 0
		return nil, true
	}
	return nil, false
}

// navigate switches to the screen behind route.
func (a *App) navigate(route screens.Route) tea.Cmd {
	switch route {
	case screens.RouteGenerator:
		a.currentScreen = ScreenGenerator
		return a.generator.Init()
	default:
		a.currentScreen = ScreenCookies
		return nil
	}
}

// View renders the application.
func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	if a.initError != nil {
		return a.renderInitError()
	}

	contentHeight := a.height - 2

	var content string
	switch a.currentScreen {
	case ScreenCookies:
		content = a.cookies.View()
	case ScreenGenerator:
		content = a.generator.View()
	case ScreenHelp:
		content = a.renderHelp()
	}

	contentBox := lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left,
		components.TitleBar(a.width, "Cookie Profiles", Version),
		contentBox,
		a.renderStatusBar(),
	)
}

// renderStatusBar renders the bottom status bar.
func (a *App) renderStatusBar() string {
	var statusText string
	switch {
	case a.showHelp:
		statusText = "Press Esc or q to close help"
	case a.cookies.Capturing():
		statusText = fmt.Sprintf("Screen: %s | Esc: close dialog", a.currentScreen)
	default:
		statusText = fmt.Sprintf("Screen: %s | ?: Help | q: Quit", a.currentScreen)
	}
	return components.StatusBar(a.width, statusText)
}

// renderHelp renders the help screen.
func (a *App) renderHelp() string {
	var b strings.Builder

	b.WriteString(components.Styles.Title.Render("Help & Keybindings") + "\n\n")

	sections := []struct {
		title string
		items []components.HelpItem
	}{
		{"Global Keybindings", []components.HelpItem{
			{Key: "↑/k", Desc: "Move up"},
			{Key: "↓/j", Desc: "Move down"},
			{Key: "q", Desc: "Quit"},
			{Key: "Ctrl+C", Desc: "Force quit"},
			{Key: "?", Desc: "Toggle this help screen"},
		}},
		{"Profile List", []components.HelpItem{
			{Key: "Space", Desc: "Toggle cookie usage (on the switch row)"},
			{Key: "Enter", Desc: "Edit the selected profile"},
			{Key: "a", Desc: "Add a new profile"},
			{Key: "d/Del", Desc: "Delete the selected profile"},
		}},
		{"Profile Editor", []components.HelpItem{
			{Key: "Tab", Desc: "Next field or button"},
			{Key: "Ctrl+V", Desc: "Paste a URL from the clipboard"},
			{Key: "Ctrl+G", Desc: "Generate cookies from Firefox"},
			{Key: "Ctrl+S", Desc: "Confirm and save"},
			{Key: "Esc", Desc: "Dismiss without saving"},
		}},
	}

	for _, section := range sections {
		b.WriteString(components.Styles.Subtitle.Render(section.title) + "\n")
		for _, item := range section.items {
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				components.Styles.MenuKey.Render(fmt.Sprintf("%-7s", item.Key)),
				components.Styles.Normal.Render(item.Desc)))
		}
		b.WriteString("\n")
	}

	lines := strings.Split(b.String(), "\n")
	a.helpContentLen = len(lines)

	availableHeight := a.height - 6
	if availableHeight < 1 {
		availableHeight = 1
	}

	startLine := a.helpScrollY
	endLine := startLine + availableHeight
	if endLine > len(lines) {
		endLine = len(lines)
	}
	if startLine > endLine {
		startLine = endLine
	}
	visibleContent := strings.Join(lines[startLine:endLine], "\n")

	maxScroll := len(lines) - availableHeight
	if maxScroll > 0 {
		visibleContent += components.Styles.HelpText.Render(
			fmt.Sprintf("\n\n[%d/%d] ↑/↓ to scroll", startLine+1, maxScroll+1))
	}

	return components.Styles.Border.
		Width(a.width - 4).
		Render(visibleContent)
}

// renderInitError renders the initialization error screen.
func (a *App) renderInitError() string {
	center := lipgloss.NewStyle().Width(a.width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString(center.Render(components.Styles.Title.Render("Initialization Error")))
	b.WriteString("\n\n")
	b.WriteString(center.Render(components.RenderError(
		fmt.Sprintf("Failed to load cookie profiles:\n\n%v", a.initError))))
	b.WriteString("\n\n")
	b.WriteString(center.Render(components.Styles.Subtitle.Render("Possible solutions:")))
	b.WriteString("\n\n")

	for _, suggestion := range []string{
		"• Check that the data directory is writable",
		"• Move a corrupted profiles.db aside and restart",
		"• Run with --log-level debug and check the log file",
	} {
		b.WriteString(center.Render(suggestion))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(center.Render(components.Styles.HelpText.Render("Press q or Ctrl+C to quit")))

	return b.String()
}

// Run starts the TUI application.
func Run(deps Deps) error {
	app := NewApp(deps)
	defer app.Close()

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
