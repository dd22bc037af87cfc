// Package auth signs users in and tells subscribers who is signed in. The
// journal only uses the identity to pick its record and to seed the
// journal name.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// User is the signed-in identity.
type User struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName,omitempty"`
	IDToken      string    `json:"idToken,omitempty"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt,omitempty"`
}

// Provider is an identity backend.
type Provider interface {
	SignUp(ctx context.Context, email, password, displayName string) (*User, error)
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignInWithToken(ctx context.Context, idToken string) (*User, error)
	UpdateDisplayName(ctx context.Context, u *User, displayName string) (*User, error)
}

// SessionStore persists the current user between runs.
type SessionStore interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Clear() error
}

var ErrNotSignedIn = errors.New("auth: no user is currently signed in")

const minPasswordLength = 6

// Manager keeps the current user and notifies subscribers whenever it
// changes.
type Manager struct {
	provider Provider
	sessions SessionStore
	log      *zap.SugaredLogger

	mu     sync.Mutex
	user   *User
	subs   map[int]func(*User)
	nextID int
}

// NewManager returns a Manager with nobody signed in. Call Restore to pick
// up a saved session.
func NewManager(p Provider, sessions SessionStore, log *zap.SugaredLogger) *Manager {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Manager{provider: p, sessions: sessions, log: log, subs: make(map[int]func(*User))}
}

// Restore loads the saved session, if any, and notifies subscribers.
func (m *Manager) Restore() error {
	if m.sessions == nil {
		return nil
	}
	data, err := m.sessions.Load()
	if err != nil {
		// A missing session just means nobody is signed in.
		m.log.Debugw("no saved session", "error", err)
		return nil
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return fmt.Errorf("auth: decode session: %w", err)
	}
	if u.UID == "" {
		return nil
	}
	m.setUser(&u, false)
	return nil
}

// Current returns a copy of the signed-in user, or nil.
func (m *Manager) Current() *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// OnAuthStateChanged registers fn and calls it at once with the current
// user. The returned func unsubscribes.
func (m *Manager) OnAuthStateChanged(fn func(*User)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	fn(m.Current())
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) SignUp(ctx context.Context, email, password, displayName string) (*User, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &Error{Code: CodeInvalidEmail, Err: err}
	}
	if len(password) < minPasswordLength {
		return nil, &Error{Code: CodeWeakPassword}
	}
	u, err := m.provider.SignUp(ctx, email, password, strings.TrimSpace(displayName))
	if err != nil {
		return nil, err
	}
	m.setUser(u, true)
	return u, nil
}

func (m *Manager) SignIn(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &Error{Code: CodeInvalidEmail, Err: err}
	}
	u, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	m.setUser(u, true)
	return u, nil
}

// SignInWithToken signs in with an ID token minted by an external identity
// provider flow.
func (m *Manager) SignInWithToken(ctx context.Context, idToken string) (*User, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, &Error{Code: CodeInvalidCredential}
	}
	u, err := m.provider.SignInWithToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	m.setUser(u, true)
	return u, nil
}

// SignOut forgets the current user and the saved session.
func (m *Manager) SignOut() error {
	if m.sessions != nil {
		if err := m.sessions.Clear(); err != nil {
			return fmt.Errorf("auth: clear session: %w", err)
		}
	}
	m.setUser(nil, false)
	return nil
}

func (m *Manager) UpdateDisplayName(ctx context.Context, displayName string) (*User, error) {
	cur := m.Current()
	if cur == nil {
		return nil, ErrNotSignedIn
	}
	u, err := m.provider.UpdateDisplayName(ctx, cur, strings.TrimSpace(displayName))
	if err != nil {
		return nil, err
	}
	m.setUser(u, true)
	return u, nil
}

func (m *Manager) setUser(u *User, persist bool) {
	m.mu.Lock()
	m.user = u
	subs := make([]func(*User), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	if persist && u != nil && m.sessions != nil {
		if data, err := json.Marshal(u); err != nil {
			m.log.Warnw("encode session", "error", err)
		} else if err := m.sessions.Save(data); err != nil {
			m.log.Warnw("save session", "error", err)
		}
	}
	if u != nil {
		m.log.Infow("auth state changed", "uid", u.UID)
	} else {
		m.log.Infow("auth state changed", "uid", "")
	}

	for _, fn := range subs {
		if u == nil {
			fn(nil)
			continue
		}
		cp := *u
		fn(&cp)
	}
}
