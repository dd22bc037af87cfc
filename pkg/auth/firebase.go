package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// FirebaseConfig locates the Firebase project. The admin SDK needs service
// account credentials; password sign-in needs the web API key.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
	APIKey          string
}

// Firebase is a Provider backed by Firebase Authentication.
type Firebase struct {
	client  *fbauth.Client
	toolkit *identitytoolkit.Service
}

// NewFirebase initialises the admin client and the Identity Toolkit client.
func NewFirebase(ctx context.Context, cfg FirebaseConfig) (*Firebase, error) {
	config := &firebase.Config{ProjectID: cfg.ProjectID}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, config, opts...)
	if err != nil {
		return nil, fmt.Errorf("auth: initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth: get firebase auth client: %w", err)
	}

	if cfg.APIKey == "" {
		return nil, errors.New("auth: firebase api key required")
	}
	toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("auth: identity toolkit: %w", err)
	}
	return &Firebase{client: client, toolkit: toolkit}, nil
}

func (f *Firebase) SignUp(ctx context.Context, email, password, displayName string) (*User, error) {
	params := (&fbauth.UserToCreate{}).Email(email).Password(password)
	if displayName != "" {
		params = params.DisplayName(displayName)
	}
	if _, err := f.client.CreateUser(ctx, params); err != nil {
		return nil, adminError(err)
	}
	return f.SignIn(ctx, email, password)
}

func (f *Firebase) SignIn(ctx context.Context, email, password string) (*User, error) {
	resp, err := f.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, toolkitError(err)
	}
	return &User{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}, nil
}

func (f *Firebase) SignInWithToken(ctx context.Context, idToken string) (*User, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, adminError(err)
	}
	rec, err := f.client.GetUser(ctx, token.UID)
	if err != nil {
		return nil, adminError(err)
	}
	return &User{
		UID:         rec.UID,
		Email:       rec.Email,
		DisplayName: rec.DisplayName,
		IDToken:     idToken,
		ExpiresAt:   time.Unix(token.Expires, 0),
	}, nil
}

func (f *Firebase) UpdateDisplayName(ctx context.Context, u *User, displayName string) (*User, error) {
	rec, err := f.client.UpdateUser(ctx, u.UID, (&fbauth.UserToUpdate{}).DisplayName(displayName))
	if err != nil {
		return nil, adminError(err)
	}
	out := *u
	out.DisplayName = rec.DisplayName
	return &out, nil
}

func adminError(err error) error {
	switch {
	case fbauth.IsEmailAlreadyExists(err):
		return &Error{Code: CodeEmailInUse, Err: err}
	case fbauth.IsUserNotFound(err):
		return &Error{Code: CodeUserNotFound, Err: err}
	case fbauth.IsIDTokenInvalid(err), fbauth.IsIDTokenExpired(err), fbauth.IsIDTokenRevoked(err):
		return &Error{Code: CodeInvalidCredential, Err: err}
	case fbauth.IsInvalidEmail(err):
		return &Error{Code: CodeInvalidEmail, Err: err}
	}
	return classifyTransport(err)
}

// toolkitError maps Identity Toolkit REST error messages onto codes.
func toolkitError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return classifyTransport(err)
	}
	msg := gerr.Message
	switch {
	case strings.HasPrefix(msg, "EMAIL_NOT_FOUND"):
		return &Error{Code: CodeUserNotFound, Err: err}
	case strings.HasPrefix(msg, "INVALID_PASSWORD"):
		return &Error{Code: CodeWrongPassword, Err: err}
	case strings.HasPrefix(msg, "INVALID_LOGIN_CREDENTIALS"):
		return &Error{Code: CodeInvalidCredential, Err: err}
	case strings.HasPrefix(msg, "INVALID_EMAIL"):
		return &Error{Code: CodeInvalidEmail, Err: err}
	case strings.HasPrefix(msg, "USER_DISABLED"):
		return &Error{Code: CodeUserDisabled, Err: err}
	case strings.HasPrefix(msg, "TOO_MANY_ATTEMPTS_TRY_LATER"):
		return &Error{Code: CodeTooManyRequests, Err: err}
	case strings.HasPrefix(msg, "EMAIL_EXISTS"):
		return &Error{Code: CodeEmailInUse, Err: err}
	case strings.HasPrefix(msg, "WEAK_PASSWORD"):
		return &Error{Code: CodeWeakPassword, Err: err}
	case strings.Contains(msg, "API key not valid"):
		return &Error{Code: CodeInvalidAPIKey, Err: err}
	}
	return err
}

func classifyTransport(err error) error {
	if CodeOf(err) == CodeNetwork {
		return &Error{Code: CodeNetwork, Err: err}
	}
	return err
}
