// Package store holds the cookie profile list and the editor dialog state,
// and publishes snapshots of both to subscribers.
package store

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/dtg01100/cookie-profiles/internal/models"
	"github.com/dtg01100/cookie-profiles/internal/tracing"
)

// Repository persists cookie profiles.
type Repository interface {
	List(ctx context.Context) ([]models.CookieProfile, error)
	Upsert(ctx context.Context, p models.CookieProfile) (models.CookieProfile, error)
	Delete(ctx context.Context, id string) error
}

// Snapshot is the store state delivered to subscribers.
type Snapshot struct {
	Profiles []models.CookieProfile
	State    models.EditState
}

// Store owns the profile list, the draft being edited and the dialog flags.
// It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	repo     Repository
	logger   *log.Logger
	profiles []models.CookieProfile
	state    models.EditState

	subs    map[int]chan Snapshot
	nextSub int
}

// New creates a store backed by repo. Call Load to populate it.
func New(repo Repository, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		repo:   repo,
		logger: logger.WithPrefix("store"),
		subs:   make(map[int]chan Snapshot),
	}
}

// Load reads all profiles from the repository and publishes them.
func (s *Store) Load(ctx context.Context) error {
	profiles, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to load profiles", "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = profiles
	s.logger.Debug("loaded profiles", "count", len(profiles))
	s.publishLocked()
	return nil
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel that receives the current snapshot and every later one.
// The channel holds at most one pending snapshot; a newer snapshot replaces an
// undelivered one. The returned function unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 1)
	ch <- s.snapshotLocked()
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// ShowEditDialog opens the editor on a copy of p, or on a blank draft when p is nil.
func (s *Store) ShowEditDialog(p *models.CookieProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := models.CookieProfile{}
	if p != nil {
		draft = *p
	}
	s.state = models.EditState{
		ShowEditDialog:       true,
		EditingCookieProfile: draft,
		Revision:             s.state.Revision + 1,
	}
	s.publishLocked()
}

// ShowDeleteDialog opens the delete confirmation for p.
func (s *Store) ShowDeleteDialog(p models.CookieProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = models.EditState{
		ShowDeleteDialog:     true,
		EditingCookieProfile: p,
		Revision:             s.state.Revision + 1,
	}
	s.publishLocked()
}

// HideDialog closes any open dialog and discards the draft.
func (s *Store) HideDialog() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = models.EditState{Revision: s.state.Revision}
	s.publishLocked()
}

// HideDialogAt closes the dialog only if it is still the one opened at revision.
// It reports whether the dialog was closed.
func (s *Store) HideDialogAt(revision int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Revision != revision {
		return false
	}
	s.state = models.EditState{Revision: s.state.Revision}
	s.publishLocked()
	return true
}

// UpdateURL sets the draft URL.
func (s *Store) UpdateURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.EditingCookieProfile.URL = url
	s.publishLocked()
}

// UpdateContent sets the draft content.
func (s *Store) UpdateContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.EditingCookieProfile.Content = content
	s.publishLocked()
}

// ReplaceContent sets the draft content from outside the editor, so open
// editors reload their fields.
func (s *Store) ReplaceContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.EditingCookieProfile.Content = content
	s.state.Revision++
	s.publishLocked()
}

// CommitDraft saves draft and returns the stored profile. A draft with an id
// replaces the profile with that id in place; a draft without one is appended.
// Dialog state is left as it is.
func (s *Store) CommitDraft(ctx context.Context, draft models.CookieProfile) (models.CookieProfile, error) {
	ctx, span := tracing.Tracer().Start(ctx, "store.CommitDraft")
	defer span.End()

	span.SetAttributes(
		attribute.String("profile.id", draft.ID),
		attribute.Bool("profile.new", draft.IsNew()),
	)

	saved, err := s.repo.Upsert(ctx, draft)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert failed")
		s.logger.Error("failed to save profile", "url", draft.URL, "error", err)
		return models.CookieProfile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.profiles, func(p models.CookieProfile) bool { return p.ID == saved.ID })
	if idx >= 0 {
		s.profiles[idx] = saved
	} else {
		s.profiles = append(s.profiles, saved)
	}
	s.logger.Info("saved profile", "id", saved.ID, "url", saved.URL)
	s.publishLocked()
	return saved, nil
}

// DeleteProfile removes target. A profile that was never committed is ignored.
func (s *Store) DeleteProfile(ctx context.Context, target models.CookieProfile) error {
	ctx, span := tracing.Tracer().Start(ctx, "store.DeleteProfile")
	defer span.End()

	if target.IsNew() {
		return nil
	}
	span.SetAttributes(attribute.String("profile.id", target.ID))

	if err := s.repo.Delete(ctx, target.ID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		s.logger.Error("failed to delete profile", "id", target.ID, "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles = slices.DeleteFunc(s.profiles, func(p models.CookieProfile) bool { return p.ID == target.ID })
	s.logger.Info("deleted profile", "id", target.ID, "url", target.URL)
	s.publishLocked()
	return nil
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Profiles: slices.Clone(s.profiles),
		State:    s.state,
	}
}

func (s *Store) publishLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Drop the stale pending snapshot.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
