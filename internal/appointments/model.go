// Package appointments owns the appointment lifecycle: booking, status
// transitions, search and stats.
package appointments

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/caspianclinic/booking-platform/internal/slots"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Appointment is a patient booking for one (date, time) slot.
type Appointment struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ServiceType string    `json:"service_type"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Message     string    `json:"message,omitempty"`
	Status      Status    `json:"status"`
	PatientID   string    `json:"patient_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var validate = validator.New()

// CreateAppointmentRequest is the request body for booking an appointment.
type CreateAppointmentRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,min=5,max=32"`
	ServiceType string `json:"service_type" validate:"required,max=120"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required"`
	Message     string `json:"message" validate:"max=2000"`
	PatientID   string `json:"patient_id" validate:"omitempty,uuid"`
}

// Validate checks field-level constraints and canonicalizes the slot time.
func (r *CreateAppointmentRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.ServiceType = strings.TrimSpace(r.ServiceType)
	if err := validate.Struct(r); err != nil {
		return err
	}
	clock, ok := slots.NormalizeClock(r.Time)
	if !ok {
		return ErrInvalidTime
	}
	r.Time = clock
	return nil
}

// Stats aggregates appointment counts by status.
type Stats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Cancelled int64 `json:"cancelled"`
	Completed int64 `json:"completed"`
}
