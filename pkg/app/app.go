// Package app holds the journal controller shared by the CLI, the TUI and
// the MCP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/store"
	"tableflip.dev/journal/pkg/timeutil"
)

// Service owns the in-memory journal of the current user. Every mutation
// replaces the state under the lock and then saves the whole record.
type Service struct {
	Persistence store.Persistence
	Log         *zap.SugaredLogger
	// Now and NewID default to the wall clock and random UUIDs.
	Now   func() time.Time
	NewID func() string

	mu     sync.Mutex
	key    string
	state  *journal.State
	view   View
	loaded bool
}

var (
	ErrNoPersistence   = errors.New("app: no persistence configured")
	ErrThemeRequired   = errors.New("app: journey theme required")
	ErrJourneyActive   = errors.New("app: a journey is already active")
	ErrNoActiveJourney = errors.New("app: no active journey")
)

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) today() timeutil.Day {
	return timeutil.DayOf(s.now())
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) log() *zap.SugaredLogger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop().Sugar()
}

// Key returns the record key the service reads and writes.
func (s *Service) Key() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keyLocked()
}

func (s *Service) keyLocked() string {
	if s.key == "" {
		return store.KeyFor("")
	}
	return s.key
}

// Load (re)hydrates the state from the current record. Missing records
// yield the default state.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Service) loadLocked(ctx context.Context) error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	st, err := s.Persistence.Load(ctx, s.keyLocked())
	if err != nil {
		s.log().Errorw("load journal", "key", s.keyLocked(), "error", err)
		return fmt.Errorf("app: load: %w", err)
	}
	s.state = st
	s.loaded = true
	s.log().Debugw("loaded journal", "key", s.keyLocked(),
		"entries", len(st.Entries), "goals", len(st.Goals), "journeys", len(st.Journeys))
	return nil
}

func (s *Service) ensureLoadedLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.loadLocked(ctx)
}

// saveLocked writes the whole state. A failed write is logged and returned
// but the in-memory state stays authoritative.
func (s *Service) saveLocked(ctx context.Context) error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	if err := s.Persistence.Save(ctx, s.keyLocked(), s.state); err != nil {
		s.log().Errorw("save journal", "key", s.keyLocked(), "error", err)
		return fmt.Errorf("app: save: %w", err)
	}
	return nil
}

// update loads if needed, applies fn to the live state and saves.
func (s *Service) update(ctx context.Context, fn func(st *journal.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return err
	}
	if err := fn(s.state); err != nil {
		return err
	}
	return s.saveLocked(ctx)
}

// read runs fn against the live state without saving.
func (s *Service) read(ctx context.Context, fn func(st *journal.State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return err
	}
	fn(s.state)
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Service) Snapshot(ctx context.Context) (*journal.State, error) {
	var cp *journal.State
	err := s.read(ctx, func(st *journal.State) { cp = st.Clone() })
	return cp, err
}

// SwitchUser points the service at the record of uid and loads it. A
// non-empty displayName replaces the stored user name.
func (s *Service) SwitchUser(ctx context.Context, uid, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = store.KeyFor(uid)
	s.view = View{}
	if err := s.loadLocked(ctx); err != nil {
		return err
	}
	s.log().Infow("switched user", "key", s.key)
	if displayName == "" || displayName == s.state.UserName {
		return nil
	}
	s.state.UserName = displayName
	return s.saveLocked(ctx)
}

// Clear drops the in-memory journal without touching storage and falls
// back to the shared record.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = ""
	s.state = journal.DefaultState()
	s.view = View{}
	s.loaded = true
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Watch(ctx)
}

// Reload re-reads the record when ev concerns the current user. It reports
// whether the state changed.
func (s *Service) Reload(ctx context.Context, ev store.Event) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.Key != s.keyLocked() {
		return false, nil
	}
	if err := s.loadLocked(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func removeByID[T any](items []*T, id string, idOf func(*T) string) ([]*T, bool) {
	for i, it := range items {
		if idOf(it) == id {
			out := make([]*T, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...), true
		}
	}
	return items, false
}
