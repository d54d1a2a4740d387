package screens

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/dtg01100/cookie-profiles/internal/models"
	"github.com/dtg01100/cookie-profiles/internal/tui/components"
)

// DeleteConfirm asks whether to delete the profile held by the store.
type DeleteConfirm struct {
	store     ProfileStore
	profile   models.CookieProfile
	revision  int
	form      *huh.Form
	confirmed bool
	done      bool
}

// NewDeleteConfirm creates a delete confirmation for profile.
func NewDeleteConfirm(st ProfileStore, profile models.CookieProfile, revision int) *DeleteConfirm {
	d := &DeleteConfirm{
		store:    st,
		profile:  profile,
		revision: revision,
	}

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete cookie profile?").
				Description(fmt.Sprintf("%s\n%s will be removed.", profile.URL, cookieCountLabel(profile.CookieLines()))).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&d.confirmed),
		),
	).WithTheme(huh.ThemeBase16()).WithShowHelp(false)

	return d
}

// Init initializes the confirmation form.
func (d *DeleteConfirm) Init() tea.Cmd {
	return d.form.Init()
}

// Revision returns the store revision the confirmation was opened at.
func (d *DeleteConfirm) Revision() int {
	return d.revision
}

// IsDone returns true once the user answered.
func (d *DeleteConfirm) IsDone() bool {
	return d.done
}

// Update handles updates.
func (d *DeleteConfirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if d.done {
		return d, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		return d, d.Cancel()
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	switch d.form.State {
	case huh.StateCompleted:
		if d.confirmed {
			return d, d.Confirm()
		}
		return d, d.Cancel()
	case huh.StateAborted:
		return d, d.Cancel()
	}

	return d, cmd
}

// Confirm deletes the profile and then closes the dialog, unless another
// dialog was opened in the meantime.
func (d *DeleteConfirm) Confirm() tea.Cmd {
	d.done = true
	st := d.store
	target := d.profile
	revision := d.revision
	return func() tea.Msg {
		err := st.DeleteProfile(context.Background(), target)
		st.HideDialogAt(revision)
		return ProfileDeletedMsg{Err: err}
	}
}

// Cancel closes the dialog without deleting.
func (d *DeleteConfirm) Cancel() tea.Cmd {
	d.done = true
	d.store.HideDialog()
	return nil
}

// View renders the confirmation.
func (d *DeleteConfirm) View() string {
	var b strings.Builder
	b.WriteString(d.form.View())
	b.WriteString("\n")
	b.WriteString(components.Styles.HelpText.Render("←/→ choose • enter submit • esc cancel"))
	return components.Styles.Dialog.Render(b.String())
}
