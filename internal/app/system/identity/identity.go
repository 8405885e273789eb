// Package identity is the boundary to the service that owns credentials.
// Everything else in the app only sees identity ids and emails.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Identity is an account known to the provider.
type Identity struct {
	ID    string
	Email string
}

// Provider creates, verifies and removes identities.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (Identity, error)
	SignIn(ctx context.Context, email, password string) (Identity, error)
	Delete(ctx context.Context, id string) error
}

// MinPasswordLength matches what hosted providers accept.
const MinPasswordLength = 6

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("identity not found")
	ErrWeakPassword       = errors.New("password too weak")
	ErrInvalidEmail       = errors.New("invalid email")
)

// AuthError carries the provider's error code next to the sentinel it maps to.
type AuthError struct {
	Code    string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("identity: %s: %s", e.Code, e.Message)
	}
	return "identity: " + e.Code
}

func (e *AuthError) Unwrap() error { return e.Err }

// FromCode maps a provider error code to an AuthError. Codes may carry a
// trailing detail ("WEAK_PASSWORD : Password should be at least 6 characters").
func FromCode(code, message string) *AuthError {
	base := strings.TrimSpace(strings.SplitN(code, ":", 2)[0])
	var sentinel error
	switch base {
	case "EMAIL_EXISTS":
		sentinel = ErrEmailExists
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		sentinel = ErrInvalidCredentials
	case "USER_NOT_FOUND":
		sentinel = ErrNotFound
	case "WEAK_PASSWORD":
		sentinel = ErrWeakPassword
	case "INVALID_EMAIL", "MISSING_EMAIL":
		sentinel = ErrInvalidEmail
	}
	return &AuthError{Code: base, Message: message, Err: sentinel}
}

// Message turns an identity error into the text shown to an admin or a
// signing-in user.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrEmailExists):
		return "This email is already registered"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrWeakPassword):
		return fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)
	case errors.Is(err, ErrInvalidEmail):
		return "Please enter a valid email address"
	case errors.Is(err, ErrNotFound):
		return "Account not found"
	}
	return "Authentication service error, please try again"
}

// NormalizeEmail trims and lowercases an email for identity lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail is a light syntactic check: one @ with text on both sides and
// a dot in the domain.
func ValidEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}
