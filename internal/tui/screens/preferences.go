package screens

import (
	"sync"

	"github.com/charmbracelet/log"
)

// prefWriter persists the enablement flag off the UI goroutine. Only the most
// recent value is written; a write that finds a newer one already saved is
// skipped.
type prefWriter struct {
	prefs  Preferences
	logger *log.Logger

	mu      sync.Mutex
	want    bool
	seq     int
	written int
}

func newPrefWriter(prefs Preferences, logger *log.Logger) *prefWriter {
	return &prefWriter{prefs: prefs, logger: logger}
}

// set records enabled as the value to persist and returns its sequence number.
func (w *prefWriter) set(enabled bool) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seq++
	w.want = enabled
	return w.seq
}

// write persists the latest value unless a write at or after seq already ran.
func (w *prefWriter) write(seq int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.written >= seq {
		return
	}
	enabled, latest := w.want, w.seq
	if err := w.prefs.SetCookiesEnabled(enabled); err != nil {
		w.logger.Error("failed to save cookie preference", "enabled", enabled, "error", err)
	}
	w.written = latest
}

// flush writes any value that has not been persisted yet.
func (w *prefWriter) flush() {
	w.mu.Lock()
	seq := w.seq
	w.mu.Unlock()
	w.write(seq)
}
