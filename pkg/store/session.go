package store

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
)

const (
	sessionDir = "session"
	sessionKey = "auth_session"
)

// SessionStore keeps the signed-in user's credentials next to the journal
// records so a later invocation resumes the same session.
type SessionStore struct {
	d *diskv.Diskv
}

// NewSessionStore keeps sessions under basePath/session.
func NewSessionStore(basePath string) *SessionStore {
	dir := filepath.Join(basePath, sessionDir)
	return &SessionStore{d: diskv.New(diskv.Options{
		BasePath:     dir,
		TempDir:      filepath.Join(dir, tempDir),
		CacheSizeMax: 0,
		FilePerm:     0o600,
		PathPerm:     0o700,
	})}
}

// Load returns the stored session, or ErrNotFound.
func (s *SessionStore) Load() ([]byte, error) {
	data, err := s.d.Read(sessionKey)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: read session: %w", err)
	}
	return data, nil
}

func (s *SessionStore) Save(data []byte) error {
	if err := s.d.Write(sessionKey, data); err != nil {
		return fmt.Errorf("store: write session: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear() error {
	if err := s.d.Erase(sessionKey); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: erase session: %w", err)
	}
	return nil
}
