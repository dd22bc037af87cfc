package account

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"tableflip.dev/journal/pkg/auth"
)

type provider struct {
	users map[string]string
}

func (p *provider) SignUp(_ context.Context, email, password, name string) (*auth.User, error) {
	if _, ok := p.users[email]; ok {
		return nil, &auth.Error{Code: auth.CodeEmailInUse}
	}
	p.users[email] = password
	return &auth.User{UID: "u-" + email, Email: email, DisplayName: name, IDToken: "secret-token"}, nil
}

func (p *provider) SignIn(_ context.Context, email, password string) (*auth.User, error) {
	if p.users[email] != password {
		return nil, &auth.Error{Code: auth.CodeWrongPassword}
	}
	return &auth.User{UID: "u-" + email, Email: email, IDToken: "secret-token"}, nil
}

func (p *provider) SignInWithToken(_ context.Context, token string) (*auth.User, error) {
	if token != "good" {
		return nil, &auth.Error{Code: auth.CodeInvalidCredential}
	}
	return &auth.User{UID: "u-token", Email: "token@example.com"}, nil
}

func (p *provider) UpdateDisplayName(_ context.Context, u *auth.User, name string) (*auth.User, error) {
	out := *u
	out.DisplayName = name
	return &out, nil
}

func newManager() *auth.Manager {
	return auth.NewManager(&provider{users: map[string]string{}}, nil, nil)
}

func TestSignUpSignInSignOut(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	var out bytes.Buffer

	err := (&SignUp{Auth: m, Email: "ada@example.com", Password: "short", Out: &out}).Do(ctx)
	if err == nil || err.Error() != "Password should be at least 6 characters" {
		t.Fatalf("weak password = %v", err)
	}
	if err := (&SignUp{Auth: m, Email: "ada@example.com", Password: "analytical", DisplayName: "Ada", Out: &out}).Do(ctx); err != nil {
		t.Fatalf("SignUp.Do() = %v", err)
	}
	if !strings.Contains(out.String(), "welcome, Ada <ada@example.com>") {
		t.Errorf("output = %q", out.String())
	}
	err = (&SignUp{Auth: m, Email: "ada@example.com", Password: "analytical", Out: &out}).Do(ctx)
	if err == nil || err.Error() != "This email is already registered" {
		t.Errorf("duplicate sign up = %v", err)
	}

	err = (&SignIn{Auth: m, Email: "ada@example.com", Password: "nope", Out: &out}).Do(ctx)
	if err == nil || err.Error() != "Invalid email or password" {
		t.Errorf("wrong password = %v", err)
	}
	if err := (&SignIn{Auth: m, Token: "good", Out: &out}).Do(ctx); err != nil {
		t.Fatalf("token sign in = %v", err)
	}
	if got := m.Current(); got == nil || got.UID != "u-token" {
		t.Errorf("Current() = %+v", got)
	}

	if err := (&SignOut{Auth: m, Out: &out}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&SignOut{Auth: m, Out: &out}).Do(ctx); !errors.Is(err, auth.ErrNotSignedIn) {
		t.Errorf("second sign out = %v", err)
	}
}

func TestWhoAmIHidesTokens(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	if _, err := m.SignUp(ctx, "ada@example.com", "analytical", "Ada"); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := (&WhoAmI{Auth: m, JSON: true, Out: &out}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "secret-token") {
		t.Errorf("token leaked: %s", out.String())
	}
	var got map[string]string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got["email"] != "ada@example.com" || got["displayName"] != "Ada" {
		t.Errorf("whoami = %v", got)
	}
}
