// Package textutil holds small text helpers used by the profile editor.
package textutil

import (
	"regexp"
	"strings"

	"github.com/atotto/clipboard"
)

var urlPattern = regexp.MustCompile(`(http|https)://[\w\-_]+(\.[\w\-_]+)+([\w\-.,@?^=%&:/~+#]*[\w\-@?^=%&/~+#])?`)

// ExtractURL returns the first http(s) URL in text, or "" when there is none.
func ExtractURL(text string) string {
	return urlPattern.FindString(text)
}

// ExtractURLs returns every http(s) URL in text, in order of appearance.
func ExtractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

// ReadClipboard returns the system clipboard as text.
func ReadClipboard() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ClipboardAvailable reports whether a clipboard backend was found.
func ClipboardAvailable() bool {
	return !clipboard.Unsupported
}
