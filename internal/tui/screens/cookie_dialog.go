package screens

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtg01100/cookie-profiles/internal/models"
	"github.com/dtg01100/cookie-profiles/internal/tui/components"
)

// Dialog focus positions, in tab order.
const (
	focusURL = iota
	focusContent
	focusGenerate
	focusDismiss
	focusConfirm
	focusCount
)

// EditDialog edits the url and content of the store's draft profile.
// Every change is written back to the store as it is typed.
type EditDialog struct {
	store         ProfileStore
	extractURL    func(string) string
	readClipboard func() (string, error)

	url      textinput.Model
	content  textarea.Model
	focus    int
	revision int
	id       string
	isNew    bool
	status   string
	done     bool

	keys   components.DialogKeyMap
	help   help.Model
	width  int
	height int
}

// NewEditDialog creates a dialog showing draft, loaded at the given store revision.
func NewEditDialog(st ProfileStore, draft models.CookieProfile, revision int, extractURL func(string) string, readClipboard func() (string, error)) *EditDialog {
	url := textinput.New()
	url.Placeholder = "https://example.com"
	url.Prompt = ""
	url.CharLimit = 0
	url.Width = 50
	url.SetValue(draft.URL)

	content := textarea.New()
	content.Placeholder = "# Netscape HTTP Cookie File"
	content.ShowLineNumbers = false
	content.CharLimit = 0
	content.MaxHeight = 0
	content.SetWidth(60)
	content.SetHeight(8)
	content.SetValue(draft.Content)
	content.Blur()

	return &EditDialog{
		store:         st,
		extractURL:    extractURL,
		readClipboard: readClipboard,
		url:           url,
		content:       content,
		revision:      revision,
		id:            draft.ID,
		isNew:         draft.IsNew(),
		keys:          components.DefaultDialogKeys(),
		help:          components.NewHelp(),
	}
}

// SetSize sets the dialog dimensions.
func (d *EditDialog) SetSize(width, height int) {
	d.width = width
	d.height = height

	inner := width - 12
	if inner > 100 {
		inner = 100
	}
	if inner < 20 {
		inner = 20
	}
	d.url.Width = inner
	d.content.SetWidth(inner)

	rows := height - 16
	if rows > 16 {
		rows = 16
	}
	if rows < 3 {
		rows = 3
	}
	d.content.SetHeight(rows)
	d.help.Width = inner
}

// Init focuses the url field.
func (d *EditDialog) Init() tea.Cmd {
	return d.setFocus(focusURL)
}

// Revision returns the store revision the dialog was loaded from.
func (d *EditDialog) Revision() int {
	return d.revision
}

// IsDone returns true once the dialog was dismissed or confirmed.
func (d *EditDialog) IsDone() bool {
	return d.done
}

// URL returns the url field value.
func (d *EditDialog) URL() string {
	return d.url.Value()
}

// Content returns the content field value.
func (d *EditDialog) Content() string {
	return d.content.Value()
}

// Update handles dialog updates.
func (d *EditDialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if d.done {
		return d, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, d.keys.Dismiss):
			return d, d.dismiss()
		case key.Matches(msg, d.keys.Confirm):
			return d, d.confirm()
		case key.Matches(msg, d.keys.Generate):
			return d, d.generate()
		case key.Matches(msg, d.keys.Paste) && d.focus == focusURL:
			d.pasteURL()
			return d, nil
		case key.Matches(msg, d.keys.Next):
			return d, d.setFocus((d.focus + 1) % focusCount)
		case key.Matches(msg, d.keys.Prev):
			return d, d.setFocus((d.focus + focusCount - 1) % focusCount)
		case key.Matches(msg, d.keys.Press):
			switch d.focus {
			case focusURL:
				return d, d.setFocus(focusContent)
			case focusGenerate:
				return d, d.generate()
			case focusDismiss:
				return d, d.dismiss()
			case focusConfirm:
				return d, d.confirm()
			}
		}
	}

	var cmd tea.Cmd
	switch d.focus {
	case focusURL:
		before := d.url.Value()
		d.url, cmd = d.url.Update(msg)
		if after := d.url.Value(); after != before {
			d.status = ""
			d.store.UpdateURL(after)
		}
	case focusContent:
		before := d.content.Value()
		d.content, cmd = d.content.Update(msg)
		if after := d.content.Value(); after != before {
			d.store.UpdateContent(after)
		}
	}

	return d, cmd
}

func (d *EditDialog) setFocus(focus int) tea.Cmd {
	d.focus = focus
	d.url.Blur()
	d.content.Blur()

	switch focus {
	case focusURL:
		return d.url.Focus()
	case focusContent:
		return d.content.Focus()
	}
	return nil
}

// dismiss closes the dialog without saving.
func (d *EditDialog) dismiss() tea.Cmd {
	d.done = true
	d.store.HideDialog()
	return nil
}

// Draft returns the profile as currently shown in the fields.
func (d *EditDialog) Draft() models.CookieProfile {
	return models.CookieProfile{ID: d.id, URL: d.url.Value(), Content: d.content.Value()}
}

// confirm saves the draft as it is now and then closes the dialog, unless
// another dialog was opened in the meantime.
func (d *EditDialog) confirm() tea.Cmd {
	d.done = true
	st := d.store
	draft := d.Draft()
	revision := d.revision
	return func() tea.Msg {
		_, err := st.CommitDraft(context.Background(), draft)
		st.HideDialogAt(revision)
		return DraftCommittedMsg{Err: err}
	}
}

// generate opens the cookie generator for the draft, leaving the dialog open.
func (d *EditDialog) generate() tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Screen: RouteGenerator}
	}
}

// pasteURL replaces the url with the first URL found on the clipboard.
func (d *EditDialog) pasteURL() {
	if d.readClipboard == nil || d.extractURL == nil {
		return
	}
	text, err := d.readClipboard()
	if err != nil {
		d.status = "Clipboard is not available"
		return
	}
	url := d.extractURL(text)
	if url == "" {
		d.status = "No URL found in clipboard"
		return
	}

	d.status = ""
	d.url.SetValue(url)
	d.url.CursorEnd()
	d.store.UpdateURL(url)
}

// View renders the dialog.
func (d *EditDialog) View() string {
	var b strings.Builder

	title := "Edit cookie profile"
	if d.isNew {
		title = "New cookie profile"
	}
	b.WriteString(components.Styles.Title.Render(title))
	b.WriteString("\n\n")

	b.WriteString(d.label("URL", focusURL))
	b.WriteString("\n")
	b.WriteString(d.url.View())
	b.WriteString("\n\n")

	b.WriteString(d.label("Cookies", focusContent))
	b.WriteString(components.Styles.Subtitle.Render("  Netscape format"))
	b.WriteString("\n")
	b.WriteString(d.content.View())
	b.WriteString("\n\n")

	generate := components.Button{Label: "Generate", Focus: d.focus == focusGenerate}
	dismiss := components.Button{Label: "Dismiss", Focus: d.focus == focusDismiss}
	confirm := components.Button{Label: "Confirm", Focus: d.focus == focusConfirm}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		generate.Render(), "   ", dismiss.Render(), " ", confirm.Render()))

	if d.status != "" {
		b.WriteString("\n\n")
		b.WriteString(components.RenderWarning(d.status))
	}

	b.WriteString("\n\n")
	b.WriteString(d.help.View(d.keys))

	return components.Styles.Dialog.Render(b.String())
}

func (d *EditDialog) label(text string, focus int) string {
	if d.focus == focus {
		return components.Styles.InputLabelFocus.Render(text)
	}
	return components.Styles.InputLabel.Render(text)
}
