// Package notifications records and serves per-user notification feeds.
package notifications

import (
	"strings"
	"time"
)

// Type is the severity bucket a notification renders with.
type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	switch t {
	case TypeInfo, TypeSuccess, TypeWarning, TypeError:
		return true
	}
	return false
}

// Notification is one entry in a user's feed. Created by appointment
// lifecycle events or by an admin; mutated only by mark-as-read.
type Notification struct {
	ID            string     `json:"id"`
	UserEmail     string     `json:"user_email"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	Type          Type       `json:"type"`
	Category      string     `json:"category"`
	Read          bool       `json:"read"`
	AppointmentID string     `json:"appointment_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
}

// CreateNotificationRequest is the request body for creating a notification.
type CreateNotificationRequest struct {
	UserEmail     string `json:"user_email"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	Type          Type   `json:"type"`
	Category      string `json:"category"`
	AppointmentID string `json:"appointment_id"`
}

// Validate checks required fields and defaults the type.
func (r *CreateNotificationRequest) Validate() error {
	r.UserEmail = strings.TrimSpace(r.UserEmail)
	r.Title = strings.TrimSpace(r.Title)
	if r.UserEmail == "" {
		return ErrMissingUser
	}
	if r.Title == "" {
		return ErrMissingTitle
	}
	if r.Type == "" {
		r.Type = TypeInfo
	}
	if !r.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}
