package slots

import "errors"

var (
	// ErrInvalidDate is returned when the requested date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrNoProviders is returned when every configured provider failed.
	ErrNoProviders = errors.New("all slot providers failed")

	// ErrInvalidRule is returned when an availability rule cannot produce slots.
	ErrInvalidRule = errors.New("invalid availability rule")
)
