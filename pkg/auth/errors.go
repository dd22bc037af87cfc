package auth

import (
	"errors"
	"net"
	"net/url"
)

// Code classifies an authentication failure.
type Code string

const (
	CodeEmailInUse        Code = "auth/email-already-in-use"
	CodeInvalidEmail      Code = "auth/invalid-email"
	CodeWeakPassword      Code = "auth/weak-password"
	CodeInvalidCredential Code = "auth/invalid-credential"
	CodeUserNotFound      Code = "auth/user-not-found"
	CodeWrongPassword     Code = "auth/wrong-password"
	CodeUserDisabled      Code = "auth/user-disabled"
	CodeTooManyRequests   Code = "auth/too-many-requests"
	CodeNetwork           Code = "auth/network-request-failed"
	CodeInvalidAPIKey     Code = "auth/api-key-not-valid"
)

// Error is a provider failure with a known code.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf returns the code carried by err, or "" when err is not an
// authentication failure. Network failures are classified even when the
// provider did not wrap them.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	var ue *url.Error
	var ne net.Error
	if errors.As(err, &ue) || errors.As(err, &ne) {
		return CodeNetwork
	}
	return ""
}

// Op names the operation an error message is written for.
type Op int

const (
	OpSignUp Op = iota
	OpSignIn
)

// Message turns err into a sentence suitable for showing to the user.
func Message(op Op, err error) string {
	if err == nil {
		return ""
	}
	switch CodeOf(err) {
	case CodeEmailInUse:
		return "This email is already registered"
	case CodeInvalidEmail:
		return "Invalid email address"
	case CodeWeakPassword:
		return "Password should be at least 6 characters"
	case CodeInvalidCredential, CodeUserNotFound, CodeWrongPassword:
		return "Invalid email or password"
	case CodeUserDisabled:
		return "This account has been disabled"
	case CodeTooManyRequests:
		return "Too many failed attempts. Please try again later"
	case CodeNetwork:
		return "Network error. Please check your connection"
	case CodeInvalidAPIKey:
		return "Configuration Error: Invalid API Key"
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	if op == OpSignUp {
		return "An error occurred during sign up"
	}
	return "An error occurred during sign in"
}
