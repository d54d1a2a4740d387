// Package storage persists cookie profiles in a SQLite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	apperrors "github.com/dtg01100/cookie-profiles/internal/errors"
	"github.com/dtg01100/cookie-profiles/internal/models"
	"github.com/dtg01100/cookie-profiles/pkg/utils"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go).
)

const schema = `
CREATE TABLE IF NOT EXISTS cookie_profiles (
	id          TEXT PRIMARY KEY,
	url         TEXT NOT NULL,
	content     TEXT NOT NULL,
	position    INTEGER NOT NULL,
	created_at  INTEGER NOT NULL,
	modified_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS cookie_profiles_position ON cookie_profiles(position);
`

// Repository stores cookie profiles in insertion order.
type Repository struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the profile database at path.
func Open(ctx context.Context, path string) (*Repository, error) {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, apperrors.NewStorageError("create data directory for", err)
	}

	dsn := "file:" + filepath.ToSlash(path) + "?mode=rwc&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperrors.NewStorageError("open", err)
	}
	// One connection serialises writers and avoids SQLITE_BUSY between them.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperrors.NewStorageError("open", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, apperrors.NewStorageError("initialise", err)
	}

	return &Repository{db: db, path: path}, nil
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// List returns all profiles in insertion order.
func (r *Repository) List(ctx context.Context) ([]models.CookieProfile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, url, content, created_at, modified_at FROM cookie_profiles ORDER BY position`)
	if err != nil {
		return nil, apperrors.NewStorageError("list", err)
	}
	defer rows.Close()

	profiles := []models.CookieProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, apperrors.NewStorageError("list", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("list", err)
	}

	return profiles, nil
}

// Get returns the profile with the given id.
func (r *Repository) Get(ctx context.Context, id string) (models.CookieProfile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, url, content, created_at, modified_at FROM cookie_profiles WHERE id = ?`, id)

	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CookieProfile{}, apperrors.NewProfileNotFoundError(id)
	}
	if err != nil {
		return models.CookieProfile{}, apperrors.NewStorageError("read", err)
	}
	return p, nil
}

// FindByURL returns all profiles whose URL equals url, in insertion order.
func (r *Repository) FindByURL(ctx context.Context, url string) ([]models.CookieProfile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, url, content, created_at, modified_at FROM cookie_profiles WHERE url = ? ORDER BY position`, url)
	if err != nil {
		return nil, apperrors.NewStorageError("search", err)
	}
	defer rows.Close()

	var out []models.CookieProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, apperrors.NewStorageError("search", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("search", err)
	}
	return out, nil
}

// Upsert inserts a profile, or replaces the url and content of the profile with the same id.
// A profile without an id gets a generated one and is appended to the end of the list.
func (r *Repository) Upsert(ctx context.Context, p models.CookieProfile) (models.CookieProfile, error) {
	if p.ID == "" {
		p.ID = generateID()
	}
	now := time.Now()

	_, err := r.db.ExecContext(ctx, `
INSERT INTO cookie_profiles (id, url, content, position, created_at, modified_at)
VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM cookie_profiles), ?, ?)
ON CONFLICT(id) DO UPDATE SET
	url = excluded.url,
	content = excluded.content,
	modified_at = excluded.modified_at`,
		p.ID, p.URL, p.Content, now.UnixNano(), now.UnixNano())
	if err != nil {
		return models.CookieProfile{}, apperrors.NewStorageError("save", err)
	}

	return r.Get(ctx, p.ID)
}

// Delete removes the profile with the given id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cookie_profiles WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewStorageError("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStorageError("delete", err)
	}
	if n == 0 {
		return apperrors.NewProfileNotFoundError(id)
	}
	return nil
}

// DeleteAll removes every profile.
func (r *Repository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cookie_profiles`); err != nil {
		return apperrors.NewStorageError("delete", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (models.CookieProfile, error) {
	var (
		p                 models.CookieProfile
		created, modified int64
	)
	if err := s.Scan(&p.ID, &p.URL, &p.Content, &created, &modified); err != nil {
		return models.CookieProfile{}, err
	}
	p.CreatedAt = time.Unix(0, created)
	p.ModifiedAt = time.Unix(0, modified)
	return p, nil
}

// generateID generates a short unique profile ID.
func generateID() string {
	return uuid.New().String()[:8]
}

// String implements fmt.Stringer for log output.
func (r *Repository) String() string {
	return fmt.Sprintf("sqlite:%s", r.path)
}
