// Package logging builds the application logger.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// ParseLevel converts a level name to a log level, falling back to info.
func ParseLevel(name string) log.Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// New returns a logger writing to w with coloured level labels.
func New(w io.Writer, level string, timestamps bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: timestamps,
		TimeFormat:      time.Kitchen,
		Level:           ParseLevel(level),
	})

	styles := log.DefaultStyles()
	if os.Getenv("NO_COLOR") == "" {
		styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
			SetString("DEBUG").
			Foreground(lipgloss.Color("241")).
			Bold(true)
		styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
			SetString("INFO").
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)
		styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
			SetString("WARN").
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)
		styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
			SetString("ERROR").
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
	}
	logger.SetStyles(styles)

	return logger
}

// NewFile returns a logger appending to path, for use while the TUI owns the terminal.
// The returned close function must be called on exit.
func NewFile(path, level string) (*log.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, err
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           ParseLevel(level),
		Formatter:       log.LogfmtFormatter,
	})
	return logger, f.Close, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
