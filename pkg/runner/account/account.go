// Package account signs people in and out.
package account

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/auth"
	"tableflip.dev/journal/pkg/printers"
)

// failed turns a provider error into the sentence shown to the user.
func failed(op auth.Op, err error) error {
	return errors.New(auth.Message(op, err))
}

type SignUp struct {
	Auth        *auth.Manager
	Email       string
	Password    string
	DisplayName string

	Out io.Writer
}

func (n *SignUp) Do(ctx context.Context) error {
	u, err := n.Auth.SignUp(ctx, n.Email, n.Password, n.DisplayName)
	if err != nil {
		return failed(auth.OpSignUp, err)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Done("welcome, %s", greeting(u))
	return nil
}

type SignIn struct {
	Auth     *auth.Manager
	Email    string
	Password string
	// Token signs in with an ID token instead of a password.
	Token string

	Out io.Writer
}

func (n *SignIn) Do(ctx context.Context) error {
	var (
		u   *auth.User
		err error
	)
	if n.Token != "" {
		u, err = n.Auth.SignInWithToken(ctx, n.Token)
	} else {
		u, err = n.Auth.SignIn(ctx, n.Email, n.Password)
	}
	if err != nil {
		return failed(auth.OpSignIn, err)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Done("signed in as %s", greeting(u))
	return nil
}

// SignOut forgets the user. Subscribers drop their journal from memory.
type SignOut struct {
	Auth *auth.Manager

	Out io.Writer
}

func (n *SignOut) Do(ctx context.Context) error {
	if n.Auth.Current() == nil {
		return auth.ErrNotSignedIn
	}
	if err := n.Auth.SignOut(); err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Done("signed out")
	return nil
}

type WhoAmI struct {
	Auth *auth.Manager
	App  *app.Service

	JSON bool
	Out  io.Writer
}

func (n *WhoAmI) Do(ctx context.Context) error {
	u := n.Auth.Current()
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		if u == nil {
			return pp.JSON(struct{}{})
		}
		// Tokens stay out of the output.
		return pp.JSON(struct {
			UID         string `json:"uid"`
			Email       string `json:"email"`
			DisplayName string `json:"displayName,omitempty"`
		}{u.UID, u.Email, u.DisplayName})
	}
	if u == nil {
		pp.Note("signed out, using the shared journal")
		return nil
	}
	pp.Done("%s", greeting(u))
	if n.App != nil {
		pp.Note("record %s", n.App.Key())
	}
	return nil
}

func greeting(u *auth.User) string {
	if u.DisplayName != "" {
		return u.DisplayName + " <" + u.Email + ">"
	}
	return u.Email
}
