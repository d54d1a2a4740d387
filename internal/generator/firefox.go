// Package generator builds cookie profile content from a local Firefox cookie store.
package generator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-ini/ini"
	_ "modernc.org/sqlite" // SQLite driver (pure Go).

	"github.com/dtg01100/cookie-profiles/internal/cookies"
	apperrors "github.com/dtg01100/cookie-profiles/internal/errors"
	"github.com/dtg01100/cookie-profiles/pkg/utils"
)

// Profile is a Firefox profile that has a cookie store.
type Profile struct {
	Name        string
	Dir         string
	CookiesPath string
	Default     bool
}

// Firefox reads cookies from Firefox profiles.
type Firefox struct {
	// Override is a profile name, profile directory or cookies.sqlite path.
	Override string
	logger   *log.Logger
	roots    func() []string
	now      func() time.Time
}

// NewFirefox returns a reader that discovers profiles under the platform Firefox roots.
func NewFirefox(override string, logger *log.Logger) *Firefox {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Firefox{
		Override: strings.TrimSpace(override),
		logger:   logger.WithPrefix("firefox"),
		roots:    firefoxRoots,
		now:      time.Now,
	}
}

// Profiles lists the Firefox profiles that have a cookies.sqlite, default profile first.
func (f *Firefox) Profiles() ([]Profile, error) {
	if f.Override != "" {
		if fi, err := os.Stat(f.Override); err == nil {
			if fi.IsDir() {
				dbPath := filepath.Join(f.Override, "cookies.sqlite")
				if !utils.FileExists(dbPath) {
					return nil, apperrors.NewNoBrowserProfileError("Firefox",
						fmt.Errorf("cookies.sqlite not found in %q", f.Override))
				}
				return []Profile{{Name: filepath.Base(f.Override), Dir: f.Override, CookiesPath: dbPath}}, nil
			}
			dir := filepath.Dir(f.Override)
			return []Profile{{Name: filepath.Base(dir), Dir: dir, CookiesPath: f.Override}}, nil
		}
	}

	var out []Profile
	for _, root := range f.roots() {
		iniPath := filepath.Join(root, "profiles.ini")
		cfg, err := ini.Load(iniPath)
		if err != nil {
			f.logger.Debug("skipping firefox root", "root", root, "error", err)
			continue
		}

		for _, secName := range cfg.SectionStrings() {
			if !strings.HasPrefix(secName, "Profile") {
				continue
			}
			sec := cfg.Section(secName)
			dir := filepath.FromSlash(sec.Key("Path").String())
			if dir == "" {
				continue
			}
			if sec.Key("IsRelative").String() == "1" {
				dir = filepath.Join(root, dir)
			}
			dbPath := filepath.Join(dir, "cookies.sqlite")
			if !utils.FileExists(dbPath) {
				continue
			}

			name := sec.Key("Name").String()
			if name == "" {
				name = filepath.Base(dir)
			}
			if f.Override != "" && name != f.Override && filepath.Base(dir) != f.Override {
				continue
			}

			p := Profile{
				Name:        name,
				Dir:         dir,
				CookiesPath: dbPath,
				Default:     sec.Key("Default").String() == "1",
			}
			if p.Default {
				out = append([]Profile{p}, out...)
			} else {
				out = append(out, p)
			}
		}
	}

	if len(out) == 0 {
		var cause error
		if f.Override != "" {
			cause = fmt.Errorf("profile %q not found", f.Override)
		}
		return nil, apperrors.NewNoBrowserProfileError("Firefox", cause)
	}
	return out, nil
}

// Cookies returns the unexpired cookies in profile that would be sent to rawURL.
// A URL without a scheme is treated as https.
func (f *Firefox) Cookies(ctx context.Context, profile Profile, rawURL string) ([]cookies.Cookie, error) {
	target, host, err := normalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	snap, cleanup, err := openSnapshot(profile.CookiesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to copy Firefox cookie store: %w", err)
	}
	defer cleanup()

	db, err := openReadOnly(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("failed to open Firefox cookie store: %w", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := readRows(ctx, db, hostCandidates(host))
	if err != nil {
		return nil, fmt.Errorf("failed to read Firefox cookies: %w", err)
	}

	now := f.now()
	seen := make(map[string]struct{}, len(rows))
	var out []cookies.Cookie
	for _, r := range rows {
		c, ok := r.toCookie()
		if !ok {
			continue
		}
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		if !cookies.MatchesURL(c, target) {
			continue
		}
		key := c.Name + "\x00" + c.Domain + "\x00" + c.Path
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}

	f.logger.Debug("read cookies", "profile", profile.Name, "host", host, "count", len(out))
	return out, nil
}

// Generate returns Netscape cookie text for rawURL from profile.
func (f *Firefox) Generate(ctx context.Context, profile Profile, rawURL string) (string, error) {
	found, err := f.Cookies(ctx, profile, rawURL)
	if err != nil {
		return "", err
	}
	if len(found) == 0 {
		_, host, _ := normalizeURL(rawURL)
		return "", apperrors.NewNoCookiesError(host)
	}
	return cookies.Format(found), nil
}

func normalizeURL(rawURL string) (string, string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", "", errors.New("a URL is required to generate cookies")
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "", "", fmt.Errorf("invalid URL %q", rawURL)
	}
	return rawURL, strings.ToLower(u.Hostname()), nil
}

type mozRow struct {
	host     string
	name     string
	value    string
	path     string
	expiry   int64
	secure   bool
	httpOnly bool
}

// Firefox stores expiry in milliseconds since release 127 and in seconds before that.
const millisecondExpiryThreshold = 100_000_000_000

func (r mozRow) toCookie() (cookies.Cookie, bool) {
	if r.name == "" || r.host == "" {
		return cookies.Cookie{}, false
	}
	path := r.path
	if path == "" {
		path = "/"
	}

	c := cookies.Cookie{
		Domain:            r.host,
		IncludeSubdomains: strings.HasPrefix(r.host, "."),
		Path:              path,
		Secure:            r.secure,
		Name:              r.name,
		Value:             r.value,
		HTTPOnly:          r.httpOnly,
	}
	switch {
	case r.expiry <= 0:
	case r.expiry > millisecondExpiryThreshold:
		c.Expires = time.UnixMilli(r.expiry).UTC().Truncate(time.Second)
	default:
		c.Expires = time.Unix(r.expiry, 0).UTC()
	}
	return c, true
}

func readRows(ctx context.Context, db *sql.DB, hosts []string) ([]mozRow, error) {
	var clauses []string
	var args []any
	for _, h := range hosts {
		clauses = append(clauses, "host = ?", "host = ?")
		args = append(args, h, "."+h)
	}
	if len(clauses) == 0 {
		return nil, nil
	}

	//nolint:gosec // clauses are placeholders only.
	query := `SELECT host, name, value, path, expiry, isSecure, isHttpOnly FROM moz_cookies WHERE (` +
		strings.Join(clauses, " OR ") + `) ORDER BY host, path, name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []mozRow
	for rows.Next() {
		var (
			r                        mozRow
			expiry, secure, httpOnly sql.NullInt64
		)
		if err := rows.Scan(&r.host, &r.name, &r.value, &r.path, &expiry, &secure, &httpOnly); err != nil {
			return nil, err
		}
		r.expiry = expiry.Int64
		r.secure = secure.Valid && secure.Int64 == 1
		r.httpOnly = httpOnly.Valid && httpOnly.Int64 == 1
		out = append(out, r)
	}
	return out, rows.Err()
}

// hostCandidates returns host and its parent domains, stopping before the top-level label.
func hostCandidates(host string) []string {
	parts := strings.Split(strings.Trim(host, "."), ".")
	if len(parts) <= 1 {
		return []string{host}
	}
	out := []string{host}
	for i := 1; i <= len(parts)-2; i++ {
		out = append(out, strings.Join(parts[i:], "."))
	}
	return out
}

// openSnapshot copies the cookie store and its WAL sidecars to a temp dir,
// since Firefox holds a lock on the live database.
func openSnapshot(dbPath string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "cookie-profiles-firefox-")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	target := filepath.Join(dir, "cookies.sqlite")
	if err := utils.CopyFile(dbPath, target); err != nil {
		cleanup()
		return "", nil, err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := utils.CopyFileIfExists(dbPath+suffix, target+suffix); err != nil {
			cleanup()
			return "", nil, err
		}
	}

	return target, cleanup, nil
}

func openReadOnly(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+filepath.ToSlash(path)+"?mode=ro")
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
