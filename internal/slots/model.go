// Package slots computes bookable time slots for the patient-facing booking flow.
package slots

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ClockLayout is the canonical wire format for slot times.
const ClockLayout = "15:04"

// Slot is one bookable time unit for one calendar day.
type Slot struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
}

// DisabledReason distinguishes why a slot cannot be selected.
type DisabledReason string

const (
	// DisabledUnavailable marks a slot the backend reported as taken or blocked.
	DisabledUnavailable DisabledReason = "unavailable"
	// DisabledLeadTime marks a slot starting sooner than the minimum advance window.
	DisabledLeadTime DisabledReason = "lead_time"
)

// ResolvedSlot is a slot after normalization and the advance-booking rule.
// Available reflects the backend's view; Selectable additionally applies the
// lead-time window. A slot can be available yet not selectable.
type ResolvedSlot struct {
	Slot
	Selectable     bool           `json:"selectable"`
	DisabledReason DisabledReason `json:"disabled_reason,omitempty"`
}

// AvailabilityRule describes a recurring weekly opening from which slots
// are generated.
type AvailabilityRule struct {
	ID          string       `json:"id"`
	Weekday     time.Weekday `json:"weekday"`
	StartTime   string       `json:"start_time"`
	EndTime     string       `json:"end_time"`
	SlotMinutes int          `json:"slot_minutes"`
	Active      bool         `json:"active"`
}
