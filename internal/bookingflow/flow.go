// Package bookingflow models the patient booking form as a pure state
// machine. Handlers and UIs feed it events; it never performs I/O itself,
// which keeps every transition unit-testable.
package bookingflow

import "github.com/caspianclinic/booking-platform/internal/slots"

// Phase is where the form currently is in its lifecycle.
type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseSubmitted  Phase = "submitted"
	PhaseFailed     Phase = "failed"
)

// Fields holds what the patient has typed so far.
type Fields struct {
	Name        string
	Email       string
	Phone       string
	ServiceType string
	Message     string
}

// State is the complete form state. It is a value type: every transition
// returns a new State, leaving the old one intact.
type State struct {
	Phase Phase

	Fields Fields
	Date   string
	Time   string

	// Slots for the selected date, empty while loading or after a failure.
	Slots        []slots.ResolvedSlot
	SlotsLoading bool
	SlotsErr     string

	// RequestSeq pairs slot responses with the date that requested them, so
	// a slow response for an abandoned date cannot overwrite fresher data.
	RequestSeq uint64

	SubmitErr   string
	Appointment string // booked appointment id once submitted
}

// NewState returns an empty form in the editing phase.
func NewState() State {
	return State{Phase: PhaseEditing}
}

// EditField updates one text field. Ignored outside the editing and failed
// phases.
func (s State) EditField(update func(*Fields)) State {
	if s.Phase != PhaseEditing && s.Phase != PhaseFailed {
		return s
	}
	if s.Phase == PhaseFailed {
		s = s.backToEditing()
	}
	update(&s.Fields)
	return s
}

// SelectDate picks a booking date. The previously chosen time is dropped
// because it belonged to the old date's slot set, and the request sequence
// advances so stale slot responses are discarded.
func (s State) SelectDate(date string) State {
	if s.Phase == PhaseSubmitting || s.Phase == PhaseSubmitted {
		return s
	}
	if s.Phase == PhaseFailed {
		s = s.backToEditing()
	}
	if date == s.Date {
		return s
	}
	s.Date = date
	s.Time = ""
	s.Slots = nil
	s.SlotsErr = ""
	s.SlotsLoading = date != ""
	s.RequestSeq++
	return s
}

// SlotsLoaded installs a slot response. Responses carrying a sequence other
// than the current one are dropped.
func (s State) SlotsLoaded(seq uint64, loaded []slots.ResolvedSlot) State {
	if seq != s.RequestSeq {
		return s
	}
	s.Slots = loaded
	s.SlotsLoading = false
	s.SlotsErr = ""
	return s
}

// SlotsFailed records a slot fetch failure for the current request.
func (s State) SlotsFailed(seq uint64, msg string) State {
	if seq != s.RequestSeq {
		return s
	}
	s.Slots = nil
	s.SlotsLoading = false
	s.SlotsErr = msg
	return s
}

// SelectTime picks a slot time. Only times present in the loaded slot set
// and marked selectable are accepted.
func (s State) SelectTime(t string) State {
	if s.Phase == PhaseSubmitting || s.Phase == PhaseSubmitted {
		return s
	}
	if s.Phase == PhaseFailed {
		s = s.backToEditing()
	}
	for _, slot := range s.Slots {
		if slot.Time == t && slot.Selectable {
			s.Time = t
			return s
		}
	}
	return s
}

// CanSubmit reports whether the form is complete enough to submit.
func (s State) CanSubmit() bool {
	return s.Phase == PhaseEditing &&
		s.Fields.Name != "" &&
		s.Fields.Email != "" &&
		s.Fields.Phone != "" &&
		s.Fields.ServiceType != "" &&
		s.Date != "" &&
		s.Time != "" &&
		len(s.Slots) > 0
}

// Submit moves the form into the submitting phase.
func (s State) Submit() State {
	if !s.CanSubmit() {
		return s
	}
	s.Phase = PhaseSubmitting
	s.SubmitErr = ""
	return s
}

// SubmitSucceeded records the booked appointment.
func (s State) SubmitSucceeded(appointmentID string) State {
	if s.Phase != PhaseSubmitting {
		return s
	}
	s.Phase = PhaseSubmitted
	s.Appointment = appointmentID
	return s
}

// SubmitFailed surfaces the server error. All typed fields survive so the
// patient can correct and retry without starting over.
func (s State) SubmitFailed(msg string) State {
	if s.Phase != PhaseSubmitting {
		return s
	}
	s.Phase = PhaseFailed
	s.SubmitErr = msg
	return s
}

// Reset clears everything back to a fresh editing form.
func (s State) Reset() State {
	fresh := NewState()
	fresh.RequestSeq = s.RequestSeq + 1
	return fresh
}

func (s State) backToEditing() State {
	s.Phase = PhaseEditing
	s.SubmitErr = ""
	return s
}
