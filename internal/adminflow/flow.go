// Package adminflow models the admin appointment table as a pure state
// machine: per-row busy flags, guarded status transitions and a two-phase
// delete. It performs no I/O; callers run the server calls between Begin and
// Complete events.
package adminflow

import (
	"github.com/caspianclinic/booking-platform/internal/appointments"
)

// Notice is a transient, non-blocking message for the operator.
type Notice struct {
	Text  string
	IsErr bool
}

// Row is one appointment line in the admin table.
type Row struct {
	Appointment *appointments.Appointment

	// Processing guards the row: while an update or delete is in flight,
	// further actions on the same row are swallowed.
	Processing bool

	// ConfirmingDelete marks the row as awaiting the second delete click.
	ConfirmingDelete bool
}

// State is the whole table.
type State struct {
	Rows   []Row
	Notice *Notice
}

// NewState builds table state from a server listing.
func NewState(appts []*appointments.Appointment) State {
	rows := make([]Row, 0, len(appts))
	for _, a := range appts {
		rows = append(rows, Row{Appointment: a})
	}
	return State{Rows: rows}
}

func (s State) find(id string) (int, bool) {
	for i := range s.Rows {
		if s.Rows[i].Appointment.ID == id {
			return i, true
		}
	}
	return -1, false
}

// cloneRows gives transitions value semantics without copying appointments.
func (s State) cloneRows() State {
	rows := make([]Row, len(s.Rows))
	copy(rows, s.Rows)
	s.Rows = rows
	return s
}

// BeginStatusChange marks a row busy for a transition. Returns ok=false when
// the row is already busy, missing, or the transition is illegal from the
// row's current status; in that case the caller must not issue the request.
func (s State) BeginStatusChange(id string, to appointments.Status) (State, bool) {
	i, found := s.find(id)
	if !found || s.Rows[i].Processing {
		return s, false
	}
	if !appointments.CanTransition(s.Rows[i].Appointment.Status, to) {
		return s, false
	}
	s = s.cloneRows()
	s.Rows[i].Processing = true
	s.Rows[i].ConfirmingDelete = false
	return s, true
}

// StatusChanged installs the server's row after a successful transition.
func (s State) StatusChanged(updated *appointments.Appointment) State {
	i, found := s.find(updated.ID)
	if !found {
		return s
	}
	s = s.cloneRows()
	s.Rows[i].Appointment = updated
	s.Rows[i].Processing = false
	return s
}

// StatusChangeFailed releases the row and surfaces the error.
func (s State) StatusChangeFailed(id, msg string) State {
	i, found := s.find(id)
	if !found {
		return s
	}
	s = s.cloneRows()
	s.Rows[i].Processing = false
	s.Notice = &Notice{Text: msg, IsErr: true}
	return s
}

// RequestDelete arms the per-row confirmation. Each row confirms
// independently; arming one row leaves the others untouched.
func (s State) RequestDelete(id string) State {
	i, found := s.find(id)
	if !found || s.Rows[i].Processing {
		return s
	}
	s = s.cloneRows()
	s.Rows[i].ConfirmingDelete = true
	return s
}

// CancelDelete disarms the confirmation.
func (s State) CancelDelete(id string) State {
	i, found := s.find(id)
	if !found {
		return s
	}
	s = s.cloneRows()
	s.Rows[i].ConfirmingDelete = false
	return s
}

// ConfirmDelete marks the armed row busy for deletion. Returns ok=false when
// the row was never armed, is busy, or is gone.
func (s State) ConfirmDelete(id string) (State, bool) {
	i, found := s.find(id)
	if !found || s.Rows[i].Processing || !s.Rows[i].ConfirmingDelete {
		return s, false
	}
	s = s.cloneRows()
	s.Rows[i].Processing = true
	return s, true
}

// Deleted removes the row after the server confirmed the delete.
func (s State) Deleted(id string) State {
	i, found := s.find(id)
	if !found {
		return s
	}
	s = s.cloneRows()
	s.Rows = append(s.Rows[:i], s.Rows[i+1:]...)
	return s
}

// DeleteFailed releases the row and surfaces the error.
func (s State) DeleteFailed(id, msg string) State {
	i, found := s.find(id)
	if !found {
		return s
	}
	s = s.cloneRows()
	s.Rows[i].Processing = false
	s.Rows[i].ConfirmingDelete = false
	s.Notice = &Notice{Text: msg, IsErr: true}
	return s
}

// RowVanished handles the benign race where another admin deleted the row
// first: the row disappears and the operator gets a soft notice, not an
// error.
func (s State) RowVanished(id string) State {
	s = s.Deleted(id)
	s.Notice = &Notice{Text: "appointment was already removed", IsErr: false}
	return s
}

// ClearNotice dismisses the transient message.
func (s State) ClearNotice() State {
	s.Notice = nil
	return s
}
