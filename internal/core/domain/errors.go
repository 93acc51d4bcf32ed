package domain

import "errors"

// Validation failures (HTTP 400).
var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrWeakPassword = errors.New("password does not meet the minimum length")
	ErrNameRequired = errors.New("name is required")
	ErrInvalidRole  = errors.New("invalid role")
)

// Directory failures.
var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

// Authentication and authorization failures. ErrInvalidCredentials covers
// both unknown email and wrong password so responses cannot be used to
// enumerate accounts. ErrAccountDisabled is internal only and surfaces to
// clients as ErrInvalidCredentials.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("access forbidden")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// ErrHashing marks a credential-hashing malfunction. It is never shown to
// clients; the error handler renders a generic server error.
var ErrHashing = errors.New("password hashing failed")
