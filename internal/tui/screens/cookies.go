// Package screens provides individual TUI screens for the application.
package screens

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/dtg01100/cookie-profiles/internal/models"
	"github.com/dtg01100/cookie-profiles/internal/store"
	"github.com/dtg01100/cookie-profiles/internal/textutil"
	"github.com/dtg01100/cookie-profiles/internal/tui/components"
)

// Preferences reads and writes the persisted cookie enablement flag.
type Preferences interface {
	CookiesEnabled() bool
	SetCookiesEnabled(enabled bool) error
}

// ProfileStore is the profile state the cookie screens observe and drive.
type ProfileStore interface {
	Snapshot() store.Snapshot
	Subscribe() (<-chan store.Snapshot, func())
	ShowEditDialog(p *models.CookieProfile)
	ShowDeleteDialog(p models.CookieProfile)
	HideDialog()
	HideDialogAt(revision int) bool
	UpdateURL(url string)
	UpdateContent(content string)
	ReplaceContent(content string)
	CommitDraft(ctx context.Context, draft models.CookieProfile) (models.CookieProfile, error)
	DeleteProfile(ctx context.Context, target models.CookieProfile) error
}

// Route names a top-level screen.
type Route int

const (
	RouteCookies Route = iota
	RouteGenerator
)

// Messages

// SnapshotMsg delivers a store snapshot to the cookie screen.
type SnapshotMsg struct {
	Snapshot store.Snapshot
}

// NavigateMsg asks the app shell to switch screens.
type NavigateMsg struct {
	Screen Route
}

// DraftCommittedMsg is sent after the editor's draft was saved and the dialog closed.
type DraftCommittedMsg struct {
	Err error
}

// ProfileDeletedMsg is sent after a delete confirmation finished.
type ProfileDeletedMsg struct {
	Err error
}

// CookiesOption configures a CookiesScreen.
type CookiesOption func(*CookiesScreen)

// WithFeedback sets the function called on the long-press (delete) gesture.
func WithFeedback(fn func()) CookiesOption {
	return func(s *CookiesScreen) { s.feedback = fn }
}

// WithExtractURL sets the function used to pull a URL out of pasted text.
func WithExtractURL(fn func(string) string) CookiesOption {
	return func(s *CookiesScreen) { s.extractURL = fn }
}

// WithClipboard sets the clipboard reader used by the URL paste action.
func WithClipboard(fn func() (string, error)) CookiesOption {
	return func(s *CookiesScreen) { s.readClipboard = fn }
}

// WithLogger sets the screen logger.
func WithLogger(logger *log.Logger) CookiesOption {
	return func(s *CookiesScreen) { s.logger = logger }
}

// CookiesScreen shows the cookie enablement switch and the saved profiles,
// and hosts the edit and delete dialogs.
type CookiesScreen struct {
	prefs         Preferences
	store         ProfileStore
	logger        *log.Logger
	feedback      func()
	extractURL    func(string) string
	readClipboard func() (string, error)

	// State
	enabled  bool
	profiles []models.CookieProfile
	state    models.EditState
	menu     *components.Menu
	width    int
	height   int

	// dismissed is the revision whose dialog the user already closed here;
	// snapshots still showing that dialog are stale.
	dismissed int

	// Sub-screens
	dialog *EditDialog
	delete *DeleteConfirm

	keys components.ListKeyMap
	help help.Model

	snapshots   <-chan store.Snapshot
	unsubscribe func()

	writer *prefWriter
}

// NewCookiesScreen creates the cookie profile screen.
func NewCookiesScreen(prefs Preferences, st ProfileStore, opts ...CookiesOption) *CookiesScreen {
	s := &CookiesScreen{
		prefs:         prefs,
		store:         st,
		logger:        log.New(io.Discard),
		feedback:      bell,
		extractURL:    textutil.ExtractURL,
		readClipboard: textutil.ReadClipboard,
		menu:          components.NewMenu(nil),
		keys:          components.DefaultListKeys(),
		help:          components.NewHelp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if prefs != nil {
		s.writer = newPrefWriter(prefs, s.logger)
	}
	s.rebuildMenu()
	return s
}

// bell rings the terminal bell as long-press feedback.
func bell() {
	_, _ = fmt.Fprint(os.Stderr, "\a")
}

// SetSize sets the screen dimensions.
func (s *CookiesScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.menu.SetWidth(width)
	s.help.Width = width
	if s.dialog != nil {
		s.dialog.SetSize(width, height)
	}
}

// Init reads the enablement flag and subscribes to the store.
func (s *CookiesScreen) Init() tea.Cmd {
	if s.prefs != nil {
		s.enabled = s.prefs.CookiesEnabled()
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.snapshots, s.unsubscribe = s.store.Subscribe()
	return s.waitForSnapshot()
}

// Close saves a pending switch change and unsubscribes from the store.
func (s *CookiesScreen) Close() {
	if s.writer != nil {
		s.writer.flush()
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *CookiesScreen) waitForSnapshot() tea.Cmd {
	ch := s.snapshots
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return SnapshotMsg{Snapshot: snap}
	}
}

// Enabled returns the displayed switch state.
func (s *CookiesScreen) Enabled() bool {
	return s.enabled
}

// Capturing reports whether a dialog owns the keyboard.
func (s *CookiesScreen) Capturing() bool {
	return s.dialog != nil || s.delete != nil
}

// Update handles screen updates.
func (s *CookiesScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		cmd := s.applySnapshot(msg.Snapshot)
		return s, tea.Batch(cmd, s.waitForSnapshot())

	case DraftCommittedMsg:
		if msg.Err != nil {
			s.logger.Warn("profile was not saved", "error", msg.Err)
		}
		return s, nil

	case ProfileDeletedMsg:
		if msg.Err != nil {
			s.logger.Warn("profile was not deleted", "error", msg.Err)
		}
		return s, nil

	case tea.KeyMsg:
		switch {
		case s.delete != nil:
			return s.updateDelete(msg)
		case s.dialog != nil:
			return s.updateDialog(msg)
		default:
			return s.updateList(msg)
		}
	}

	// Non-key messages (cursor blink, form internals) go to the open dialog.
	switch {
	case s.delete != nil:
		return s.updateDelete(msg)
	case s.dialog != nil:
		return s.updateDialog(msg)
	}
	return s, nil
}

// applySnapshot mirrors a store snapshot into local state and mounts or
// unmounts the dialogs it describes.
func (s *CookiesScreen) applySnapshot(snap store.Snapshot) tea.Cmd {
	s.profiles = snap.Profiles
	s.state = snap.State
	s.rebuildMenu()

	stale := snap.State.Revision == s.dismissed
	var cmds []tea.Cmd

	if snap.State.ShowEditDialog && !stale {
		if s.dialog == nil || s.dialog.Revision() != snap.State.Revision {
			s.dialog = NewEditDialog(s.store, snap.State.EditingCookieProfile, snap.State.Revision, s.extractURL, s.readClipboard)
			s.dialog.SetSize(s.width, s.height)
			cmds = append(cmds, s.dialog.Init())
		}
	} else {
		s.dialog = nil
	}

	if snap.State.ShowDeleteDialog && !stale {
		if s.delete == nil || s.delete.Revision() != snap.State.Revision {
			s.delete = NewDeleteConfirm(s.store, snap.State.EditingCookieProfile, snap.State.Revision)
			cmds = append(cmds, s.delete.Init())
		}
	} else {
		s.delete = nil
	}

	return tea.Batch(cmds...)
}

// rebuildMenu lays out the rows: the switch, one row per profile, then the add row.
func (s *CookiesScreen) rebuildMenu() {
	items := make([]components.MenuItem, 0, len(s.profiles)+2)
	items = append(items, components.MenuItem{Label: "Use cookies"})
	for _, p := range s.profiles {
		items = append(items, components.MenuItem{
			Label:       p.URL,
			Description: cookieCountLabel(p.CookieLines()),
		})
	}
	items = append(items, components.MenuItem{Label: "+ Generate new cookies"})
	s.menu.SetItems(items)
}

func cookieCountLabel(n int) string {
	if n == 1 {
		return "1 cookie"
	}
	return fmt.Sprintf("%d cookies", n)
}

// Rows returns the labels of the rows below the switch, in display order.
func (s *CookiesScreen) Rows() []string {
	rows := make([]string, 0, len(s.menu.Items)-1)
	for _, item := range s.menu.Items[1:] {
		rows = append(rows, item.Label)
	}
	return rows
}

// selectedProfile returns the profile under the cursor.
func (s *CookiesScreen) selectedProfile() (models.CookieProfile, bool) {
	i := s.menu.Cursor - 1
	if i < 0 || i >= len(s.profiles) {
		return models.CookieProfile{}, false
	}
	return s.profiles[i], true
}

func (s *CookiesScreen) onSwitchRow() bool {
	return s.menu.Cursor == 0
}

func (s *CookiesScreen) onAddRow() bool {
	return s.menu.Cursor == len(s.menu.Items)-1
}

// updateList handles keys when no dialog is open.
func (s *CookiesScreen) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, s.keys.Up):
		s.menu.Up()
	case key.Matches(msg, s.keys.Down):
		s.menu.Down()
	case key.Matches(msg, s.keys.Toggle):
		if s.onSwitchRow() {
			return s, s.toggleEnabled()
		}
	case key.Matches(msg, s.keys.Select):
		switch {
		case s.onSwitchRow():
			return s, s.toggleEnabled()
		case s.onAddRow():
			s.store.ShowEditDialog(nil)
		default:
			if p, ok := s.selectedProfile(); ok {
				s.store.ShowEditDialog(&p)
			}
		}
	case key.Matches(msg, s.keys.Add):
		s.store.ShowEditDialog(nil)
	case key.Matches(msg, s.keys.Delete):
		if p, ok := s.selectedProfile(); ok {
			s.feedback()
			s.store.ShowDeleteDialog(p)
		}
	}

	return s, nil
}

// toggleEnabled flips the switch and persists the new value in the background.
func (s *CookiesScreen) toggleEnabled() tea.Cmd {
	s.enabled = !s.enabled
	w := s.writer
	if w == nil {
		return nil
	}
	seq := w.set(s.enabled)
	return func() tea.Msg {
		w.write(seq)
		return nil
	}
}

// updateDialog forwards messages to the edit dialog.
func (s *CookiesScreen) updateDialog(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := s.dialog.Update(msg)
	if d, ok := model.(*EditDialog); ok {
		s.dialog = d
	}

	if s.dialog.IsDone() {
		s.dismissed = s.dialog.Revision()
		s.dialog = nil
	}

	return s, cmd
}

// updateDelete forwards messages to the delete confirmation.
func (s *CookiesScreen) updateDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := s.delete.Update(msg)
	if d, ok := model.(*DeleteConfirm); ok {
		s.delete = d
	}

	if s.delete.IsDone() {
		s.dismissed = s.delete.Revision()
		s.delete = nil
	}

	return s, cmd
}

// View renders the screen.
func (s *CookiesScreen) View() string {
	if s.delete != nil {
		return components.Overlay(s.width, s.height, s.delete.View())
	}
	if s.dialog != nil {
		return components.Overlay(s.width, s.height, s.dialog.View())
	}

	var b strings.Builder

	title := components.Styles.Title.Render("Cookies")
	b.WriteString(lipgloss.NewStyle().
		Width(s.width).
		Align(lipgloss.Center).
		Render(title))
	b.WriteString("\n\n")

	b.WriteString(components.Switch("Use cookies for downloads", s.enabled, s.onSwitchRow()))
	b.WriteString("\n")
	b.WriteString(components.Styles.Subtitle.Render("    Send saved cookies with requests to matching sites"))
	b.WriteString("\n\n")

	if len(s.profiles) == 0 {
		b.WriteString(components.Styles.Subtitle.Render("  No cookie profiles saved yet."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(components.Styles.Subtitle.Render(fmt.Sprintf("  Profiles (%d)", len(s.profiles))))
		b.WriteString("\n")
	}

	rows := *s.menu
	rows.Items = s.menu.Items[1:]
	rows.Cursor = s.menu.Cursor - 1
	b.WriteString(rows.Render())

	b.WriteString("\n")
	b.WriteString(s.help.View(s.keys))

	return b.String()
}
