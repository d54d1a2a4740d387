// Package errors provides structured error types for the cookie-profiles application.
// Each error carries a code, a short message, and a suggestion shown to the user.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// AppError represents a structured application error with additional context.
type AppError struct {
	// Code is a unique identifier for the error type (e.g., "STORE_001")
	Code string

	// Message is a brief description of the error
	Message string

	// Suggestion provides actionable guidance for the user
	Suggestion string

	// Cause is the underlying error (optional)
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Message)
	if e.Code != "" {
		sb.WriteString(" (code: ")
		sb.WriteString(e.Code)
		sb.WriteString(")")
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches by code when both errors have one, otherwise by message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if e.Code != "" && t.Code != "" {
		return e.Code == t.Code
	}
	return e.Message == t.Message
}

// FormatForTUI returns the message, suggestion and code laid out for a terminal panel.
func (e *AppError) FormatForTUI() string {
	var sb strings.Builder

	sb.WriteString("⚠ ")
	sb.WriteString(e.Message)
	sb.WriteString("\n\n")
	if e.Suggestion != "" {
		sb.WriteString(e.Suggestion)
		sb.WriteString("\n\n")
	}
	if e.Code != "" {
		sb.WriteString("Error Code: ")
		sb.WriteString(e.Code)
	}

	return sb.String()
}

// --- Sentinel Errors ---

var (
	// ErrConfigInvalid indicates a configuration file that cannot be read or parsed.
	ErrConfigInvalid = &AppError{
		Code:       "CFG_001",
		Message:    "Configuration is invalid",
		Suggestion: "Check config.yaml for syntax errors, or delete it to start from defaults.",
	}

	// ErrProfileNotFound indicates that no cookie profile matched an id or URL.
	ErrProfileNotFound = &AppError{
		Code:       "STORE_001",
		Message:    "Cookie profile not found",
		Suggestion: "Run 'cookie-profiles list' to see the saved profiles and their IDs.",
	}

	// ErrStorage indicates that the profile database could not be read or written.
	ErrStorage = &AppError{
		Code:       "STORE_002",
		Message:    "Profile storage failed",
		Suggestion: "Check that the data directory is writable and the database is not locked by another process.",
	}

	// ErrCookieContent indicates cookie text that is not in Netscape cookies.txt format.
	ErrCookieContent = &AppError{
		Code:       "COOKIE_001",
		Message:    "Cookie content is malformed",
		Suggestion: "Export cookies in Netscape format: seven tab-separated fields per line.",
	}

	// ErrNoBrowserProfile indicates that no Firefox profile with a cookie store was found.
	ErrNoBrowserProfile = &AppError{
		Code:       "GEN_002",
		Message:    "No browser profile found",
		Suggestion: "Start Firefox at least once so it creates a profile, or pass an explicit profile directory.",
	}

	// ErrNoCookies indicates the browser holds no cookies for the requested site.
	ErrNoCookies = &AppError{
		Code:       "GEN_003",
		Message:    "No cookies found",
		Suggestion: "Sign in to the site in Firefox first, or choose another Firefox profile.",
	}

	// ErrPermissionDenied indicates a permission denied error.
	ErrPermissionDenied = &AppError{
		Code:       "PERM_001",
		Message:    "Permission denied",
		Suggestion: "Ensure you have the necessary permissions for this file or directory.",
	}
)

// --- Constructor Functions ---

// NewConfigInvalidError creates a CFG_001 error with validation details.
func NewConfigInvalidError(details string, cause error) *AppError {
	return &AppError{
		Code:       ErrConfigInvalid.Code,
		Message:    fmt.Sprintf("Configuration is invalid: %s", details),
		Suggestion: ErrConfigInvalid.Suggestion,
		Cause:      cause,
	}
}

// NewProfileNotFoundError creates a STORE_001 error for the given id or URL.
func NewProfileNotFoundError(idOrURL string) *AppError {
	return &AppError{
		Code:       ErrProfileNotFound.Code,
		Message:    fmt.Sprintf("Cookie profile %q not found", idOrURL),
		Suggestion: ErrProfileNotFound.Suggestion,
	}
}

// NewStorageError creates a STORE_002 error for a failed repository operation.
func NewStorageError(operation string, cause error) *AppError {
	return &AppError{
		Code:       ErrStorage.Code,
		Message:    fmt.Sprintf("Failed to %s cookie profiles", operation),
		Suggestion: ErrStorage.Suggestion,
		Cause:      cause,
	}
}

// NewCookieContentError creates a COOKIE_001 error pointing at a line of cookie text.
func NewCookieContentError(line int, details string) *AppError {
	return &AppError{
		Code:       ErrCookieContent.Code,
		Message:    fmt.Sprintf("Cookie content is malformed at line %d: %s", line, details),
		Suggestion: ErrCookieContent.Suggestion,
	}
}

// NewNoBrowserProfileError creates a GEN_002 error for the given browser.
func NewNoBrowserProfileError(browser string, cause error) *AppError {
	return &AppError{
		Code:       ErrNoBrowserProfile.Code,
		Message:    fmt.Sprintf("No %s profile with a cookie store was found", browser),
		Suggestion: ErrNoBrowserProfile.Suggestion,
		Cause:      cause,
	}
}

// NewNoCookiesError creates a GEN_003 error for the site being generated.
func NewNoCookiesError(site string) *AppError {
	return &AppError{
		Code:       ErrNoCookies.Code,
		Message:    fmt.Sprintf("No cookies found for %s", site),
		Suggestion: ErrNoCookies.Suggestion,
	}
}

// NewPermissionDeniedError creates a PERM_001 error with operation details.
func NewPermissionDeniedError(operation string, resource string, cause error) *AppError {
	return &AppError{
		Code:       ErrPermissionDenied.Code,
		Message:    fmt.Sprintf("Permission denied for %s on %s", operation, resource),
		Suggestion: ErrPermissionDenied.Suggestion,
		Cause:      cause,
	}
}

// --- Helper Functions ---

// IsAppError reports whether err is, or wraps, an AppError.
func IsAppError(err error) bool {
	return GetAppError(err) != nil
}

// GetAppError extracts the first AppError in err's chain, or nil.
func GetAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// Wrap wraps an existing error with additional context.
// An AppError keeps its code and suggestion; anything else becomes GEN_001.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:       appErr.Code,
			Message:    message + ": " + appErr.Message,
			Suggestion: appErr.Suggestion,
			Cause:      appErr.Cause,
		}
	}

	return &AppError{
		Code:       "GEN_001",
		Message:    message,
		Suggestion: "Check the error details and try again.",
		Cause:      err,
	}
}

// FormatErrorForTUI formats any error for display in the TUI.
func FormatErrorForTUI(err error) string {
	if err == nil {
		return ""
	}
	if appErr := GetAppError(err); appErr != nil {
		return appErr.FormatForTUI()
	}
	return fmt.Sprintf("⚠ %s\n\nAn unexpected error occurred. Check the log file for more details.", err.Error())
}
