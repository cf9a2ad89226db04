package appointments

import "errors"

var (
	// ErrNotFound is returned when an appointment does not exist. Callers
	// treat this as a benign race on delete and status updates.
	ErrNotFound = errors.New("appointment not found")

	// ErrSlotTaken is returned when the requested (date, time) pair is held
	// by another non-cancelled appointment.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrInvalidStatus is returned for an unknown target status.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrIllegalTransition is returned when the current status does not
	// permit the requested transition.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrStaleStatus is returned when the row changed between the existence
	// check and the conditional update.
	ErrStaleStatus = errors.New("appointment modified concurrently")

	// ErrInvalidTime is returned when the slot time cannot be canonicalized.
	ErrInvalidTime = errors.New("invalid slot time")
)
