package auth

import (
	"context"
	"sync"
)

// Lazy builds its Provider on first use, so commands that never touch an
// account do not dial the identity backend.
type Lazy struct {
	New func(ctx context.Context) (Provider, error)

	once sync.Once
	p    Provider
	err  error
}

func (l *Lazy) get(ctx context.Context) (Provider, error) {
	l.once.Do(func() {
		l.p, l.err = l.New(ctx)
	})
	return l.p, l.err
}

func (l *Lazy) SignUp(ctx context.Context, email, password, displayName string) (*User, error) {
	p, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return p.SignUp(ctx, email, password, displayName)
}

func (l *Lazy) SignIn(ctx context.Context, email, password string) (*User, error) {
	p, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return p.SignIn(ctx, email, password)
}

func (l *Lazy) SignInWithToken(ctx context.Context, idToken string) (*User, error) {
	p, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return p.SignInWithToken(ctx, idToken)
}

func (l *Lazy) UpdateDisplayName(ctx context.Context, u *User, displayName string) (*User, error) {
	p, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return p.UpdateDisplayName(ctx, u, displayName)
}
