// Package preflight checks the environment the editor and CLI depend on.
package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtg01100/cookie-profiles/internal/generator"
	"github.com/dtg01100/cookie-profiles/internal/storage"
	"github.com/dtg01100/cookie-profiles/pkg/utils"
)

// CheckResult represents the result of a single pre-flight check.
type CheckResult struct {
	Name       string `json:"name"`
	Passed     bool   `json:"passed"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	IsCritical bool   `json:"critical"` // the application cannot continue without this check passing
}

// Environment names what the checks inspect.
type Environment struct {
	DataDir      string
	DatabasePath string

	// Browsers lists the browser profiles cookies can be generated from.
	Browsers func() ([]generator.Profile, error)

	// ClipboardAvailable reports whether URL paste can read the clipboard.
	ClipboardAvailable func() bool
}

// Run runs all pre-flight checks and returns the results.
func Run(ctx context.Context, env Environment) []CheckResult {
	var results []CheckResult

	results = append(results, checkDataDir(env.DataDir))

	if !results[0].Passed {
		results = append(results, CheckResult{
			Name:       "Profile Database",
			Passed:     false,
			Message:    "Skipped: data directory is not writable",
			Suggestion: "Fix the data directory first",
			IsCritical: true,
		})
	} else {
		results = append(results, checkDatabase(ctx, env.DatabasePath))
	}

	results = append(results, checkBrowsers(env.Browsers))
	results = append(results, checkClipboard(env.ClipboardAvailable))

	return results
}

// checkDataDir verifies that the data directory exists or can be created, and is writable.
func checkDataDir(dir string) CheckResult {
	result := CheckResult{
		Name:       "Data Directory",
		IsCritical: true,
	}

	if err := utils.EnsureDir(dir); err != nil {
		result.Message = fmt.Sprintf("Cannot create %s: %v", dir, err)
		result.Suggestion = "Set settings.data_dir to a writable directory"
		return result
	}

	f, err := os.CreateTemp(dir, ".preflight-*")
	if err != nil {
		result.Message = fmt.Sprintf("Cannot write to %s: %v", dir, err)
		result.Suggestion = "Check the directory permissions or set settings.data_dir"
		return result
	}
	name := f.Name()
	f.Close()
	os.Remove(name)

	result.Passed = true
	result.Message = fmt.Sprintf("Data directory is writable: %s", dir)
	return result
}

// checkDatabase verifies that the profile database opens and can be read.
func checkDatabase(ctx context.Context, path string) CheckResult {
	result := CheckResult{
		Name:       "Profile Database",
		IsCritical: true,
	}

	repo, err := storage.Open(ctx, path)
	if err != nil {
		result.Message = fmt.Sprintf("Failed to open %s: %v", path, err)
		result.Suggestion = "Move the database aside to start with an empty profile list"
		return result
	}
	defer repo.Close()

	profiles, err := repo.List(ctx)
	if err != nil {
		result.Message = fmt.Sprintf("Failed to read profiles: %v", err)
		result.Suggestion = "The database may be corrupt; restore it from a backup"
		return result
	}

	result.Passed = true
	result.Message = fmt.Sprintf("%d profile(s) in %s", len(profiles), filepath.Base(path))
	return result
}

// checkBrowsers verifies that at least one Firefox profile is available for generating cookies.
func checkBrowsers(list func() ([]generator.Profile, error)) CheckResult {
	result := CheckResult{
		Name:       "Firefox Profiles",
		IsCritical: false,
	}

	if list == nil {
		result.Message = "Skipped: no browser source configured"
		return result
	}

	profiles, err := list()
	if err != nil || len(profiles) == 0 {
		result.Message = "No Firefox profile with a cookie store found"
		if err != nil {
			result.Message = err.Error()
		}
		result.Suggestion = "Generating cookies needs Firefox; set settings.firefox_profile if it lives elsewhere"
		return result
	}

	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	result.Passed = true
	result.Message = fmt.Sprintf("Found %d profile(s): %s", len(profiles), strings.Join(names, ", "))
	return result
}

// checkClipboard verifies that the system clipboard can be read for URL paste.
func checkClipboard(available func() bool) CheckResult {
	result := CheckResult{
		Name:       "Clipboard",
		IsCritical: false,
	}

	if available == nil || !available() {
		result.Message = "System clipboard is not available"
		result.Suggestion = "Install xclip, xsel or wl-clipboard to paste URLs"
		return result
	}

	result.Passed = true
	result.Message = "System clipboard is available"
	return result
}

// HasCriticalFailure returns true if any critical check failed.
func HasCriticalFailure(results []CheckResult) bool {
	for _, r := range results {
		if !r.Passed && r.IsCritical {
			return true
		}
	}
	return false
}

// AllPassed returns true if all checks passed.
func AllPassed(results []CheckResult) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// FormatResults formats the check results for display.
func FormatResults(results []CheckResult) string {
	var sb strings.Builder

	sb.WriteString("Pre-flight Check Results:\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")

	for _, r := range results {
		status := "✓ PASS"
		if !r.Passed {
			if r.IsCritical {
				status = "✗ FAIL (critical)"
			} else {
				status = "⚠ FAIL (optional)"
			}
		}

		sb.WriteString(fmt.Sprintf("\n[%s] %s\n", status, r.Name))
		sb.WriteString(fmt.Sprintf("  %s\n", r.Message))
		if r.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("  Suggestion: %s\n", r.Suggestion))
		}
	}

	return sb.String()
}
