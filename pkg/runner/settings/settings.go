// Package settings shows and changes the journal preferences.
package settings

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/auth"
	"tableflip.dev/journal/pkg/printers"
)

var errNoJournal = errors.New("can not run, no journal service")

// Identity is the part of the account manager settings care about.
type Identity interface {
	Current() *auth.User
	UpdateDisplayName(ctx context.Context, displayName string) (*auth.User, error)
}

type Show struct {
	App  *app.Service
	Auth Identity

	JSON bool
	Out  io.Writer
}

func (n *Show) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	s, err := n.App.Settings(ctx)
	if err != nil {
		return err
	}
	email := ""
	if n.Auth != nil {
		if u := n.Auth.Current(); u != nil {
			email = u.Email
		}
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(struct {
			UserName   string `json:"userName"`
			IsDarkMode bool   `json:"isDarkMode"`
			Email      string `json:"email,omitempty"`
			Key        string `json:"key"`
		}{s.UserName, s.IsDarkMode, email, n.App.Key()})
	}
	pp.Settings(s, n.App.Key(), email)
	return nil
}

// Name renames the journal. When someone is signed in their display name
// follows, best effort.
type Name struct {
	App  *app.Service
	Auth Identity
	Name string

	Out io.Writer
}

func (n *Name) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	if err := n.App.SetUserName(ctx, n.Name); err != nil {
		return err
	}
	s, err := n.App.Settings(ctx)
	if err != nil {
		return err
	}
	if n.Auth != nil && n.Auth.Current() != nil {
		if _, err := n.Auth.UpdateDisplayName(ctx, s.UserName); err != nil {
			zap.S().Warnw("update display name", "error", err)
		}
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Done("journal is now %q", s.UserName)
	return nil
}

// Theme flips between the light and dark theme.
type Theme struct {
	App *app.Service

	Out io.Writer
}

func (n *Theme) Do(ctx context.Context) error {
	if n.App == nil {
		return errNoJournal
	}
	dark, err := n.App.ToggleTheme(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if dark {
		pp.Done("dark theme")
	} else {
		pp.Done("light theme")
	}
	return nil
}
