package auth

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses don't reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserNotFound is returned when a user row does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrSessionExpired is returned for a missing or expired session.
	ErrSessionExpired = errors.New("session expired")

	// ErrBadToken is returned for a malformed or tampered JWT.
	ErrBadToken = errors.New("invalid token")
)
