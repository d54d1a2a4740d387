// Package cookies reads and writes Netscape cookies.txt data.
package cookies

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/dtg01100/cookie-profiles/internal/errors"
	"github.com/dtg01100/cookie-profiles/internal/models"
	"github.com/dtg01100/cookie-profiles/pkg/utils"
)

// Header is the first line of a Netscape cookie file.
const Header = "# Netscape HTTP Cookie File"

const httpOnlyPrefix = "#HttpOnly_"

// Cookie is one line of a Netscape cookie file.
type Cookie struct {
	Domain            string
	IncludeSubdomains bool
	Path              string
	Secure            bool
	// Expires is zero for session cookies.
	Expires  time.Time
	Name     string
	Value    string
	HTTPOnly bool
}

// Parse parses Netscape cookie text. Blank lines and comments are skipped,
// except for lines carrying the #HttpOnly_ domain prefix.
func Parse(content string) ([]Cookie, error) {
	var out []Cookie

	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = strings.TrimPrefix(line, httpOnlyPrefix)
		} else if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			// Values may be empty, which leaves six fields.
			if len(fields) == 6 {
				fields = append(fields, "")
			} else {
				return nil, apperrors.NewCookieContentError(i+1,
					fmt.Sprintf("expected 7 tab-separated fields, got %d", len(fields)))
			}
		}

		expires, err := strconv.ParseInt(strings.TrimSpace(fields[4]), 10, 64)
		if err != nil {
			return nil, apperrors.NewCookieContentError(i+1,
				fmt.Sprintf("invalid expiry %q", fields[4]))
		}

		c := Cookie{
			Domain:            fields[0],
			IncludeSubdomains: strings.EqualFold(fields[1], "TRUE"),
			Path:              fields[2],
			Secure:            strings.EqualFold(fields[3], "TRUE"),
			Name:              fields[5],
			Value:             fields[6],
			HTTPOnly:          httpOnly,
		}
		if expires > 0 {
			c.Expires = time.Unix(expires, 0).UTC()
		}
		out = append(out, c)
	}

	return out, nil
}

// Format writes cookies in Netscape format, header first.
func Format(cookies []Cookie) string {
	var sb strings.Builder
	sb.WriteString(Header)
	sb.WriteString("\n")

	for _, c := range cookies {
		if c.HTTPOnly {
			sb.WriteString(httpOnlyPrefix)
		}
		var expires int64
		if !c.Expires.IsZero() {
			expires = c.Expires.Unix()
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			c.Domain, boolField(c.IncludeSubdomains), path, boolField(c.Secure), expires, c.Name, c.Value)
	}

	return sb.String()
}

func boolField(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// WriteJar writes the contents of all profiles to path, one after another.
func WriteJar(path string, profiles []models.CookieProfile) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return apperrors.NewPermissionDeniedError("create directory", filepath.Dir(path), err)
	}

	var sb strings.Builder
	for _, p := range profiles {
		content := strings.TrimRight(p.Content, "\n")
		if content == "" {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	if err := utils.WriteFileAtomic(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write cookies jar: %w", err)
	}
	return nil
}

// MatchesURL reports whether the cookie would be sent with a request to rawURL.
func MatchesURL(c Cookie, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return false
	}
	if c.Secure && u.Scheme != "https" && u.Scheme != "wss" {
		return false
	}
	if !HostMatches(u.Hostname(), c.Domain) {
		return false
	}
	return pathMatches(u.Path, c.Path)
}

// HostMatches reports whether host is cookieDomain or one of its subdomains.
func HostMatches(host, cookieDomain string) bool {
	host = normalizeHost(host)
	cookieDomain = normalizeHost(cookieDomain)
	if host == "" || cookieDomain == "" {
		return false
	}
	if host == cookieDomain {
		return true
	}
	return strings.HasSuffix(host, "."+cookieDomain)
}

func pathMatches(requestPath, cookiePath string) bool {
	requestPath = normalizePath(requestPath)
	cookiePath = normalizePath(cookiePath)
	if cookiePath == "/" || requestPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(requestPath, cookiePath) {
		return false
	}
	if cookiePath[len(cookiePath)-1] == '/' {
		return true
	}
	return len(requestPath) > len(cookiePath) && requestPath[len(cookiePath)] == '/'
}

func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimPrefix(host, ".")
	return strings.ToLower(host)
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path[0] != '/' {
		return "/"
	}
	return path
}
