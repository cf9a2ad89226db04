package notifications

import "errors"

var (
	// ErrNotFound is returned when a notification does not exist.
	ErrNotFound = errors.New("notification not found")

	// ErrMissingUser is returned when the target user email is empty.
	ErrMissingUser = errors.New("user email is required")

	// ErrMissingTitle is returned when the title is empty.
	ErrMissingTitle = errors.New("title is required")

	// ErrInvalidType is returned for an unknown notification type.
	ErrInvalidType = errors.New("invalid notification type")
)
