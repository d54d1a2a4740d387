// Package models defines the core data structures for the cookie-profiles application.
package models

import (
	"strings"
	"time"
)

// CookieProfile is a bundle of raw cookie data keyed by the URL it authenticates.
type CookieProfile struct {
	// ID is empty until the profile is first committed.
	ID string `json:"id" yaml:"id" mapstructure:"id"`

	URL     string `json:"url" yaml:"url" mapstructure:"url"`
	Content string `json:"content" yaml:"content" mapstructure:"content"` // Netscape cookies.txt text

	// Metadata
	CreatedAt  time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty" mapstructure:"created_at"`
	ModifiedAt time.Time `json:"modified_at,omitempty" yaml:"modified_at,omitempty" mapstructure:"modified_at"`
}

// IsNew reports whether the profile has never been committed.
func (p CookieProfile) IsNew() bool {
	return p.ID == ""
}

// CookieLines returns the number of non-empty, non-comment lines in the content.
// Lines prefixed with #HttpOnly_ are cookie lines, not comments.
func (p CookieProfile) CookieLines() int {
	n := 0
	for _, line := range strings.Split(p.Content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "#HttpOnly_") {
			continue
		}
		n++
	}
	return n
}

// EditState is the transient dialog state owned by the profile store.
type EditState struct {
	ShowEditDialog   bool
	ShowDeleteDialog bool

	// EditingCookieProfile is the draft being edited, or the profile pending deletion.
	EditingCookieProfile CookieProfile

	// Revision increments whenever the draft is replaced wholesale. Keystroke
	// updates leave it untouched.
	Revision int
}

// DialogOpen reports whether any dialog is visible.
func (s EditState) DialogOpen() bool {
	return s.ShowEditDialog || s.ShowDeleteDialog
}
