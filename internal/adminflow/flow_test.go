package adminflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caspianclinic/booking-platform/internal/appointments"
)

func tableWith(statuses ...appointments.Status) State {
	appts := make([]*appointments.Appointment, 0, len(statuses))
	for i, st := range statuses {
		appts = append(appts, &appointments.Appointment{
			ID:     string(rune('a' + i)),
			Name:   "Patient",
			Status: st,
		})
	}
	return NewState(appts)
}

func TestBeginStatusChangeGuardsTransitions(t *testing.T) {
	s := tableWith(appointments.StatusPending, appointments.StatusCompleted)

	_, ok := s.BeginStatusChange("a", appointments.StatusConfirmed)
	assert.True(t, ok, "pending -> confirmed is legal")

	_, ok = s.BeginStatusChange("a", appointments.StatusCompleted)
	assert.False(t, ok, "pending -> completed skips confirmation")

	_, ok = s.BeginStatusChange("b", appointments.StatusCancelled)
	assert.False(t, ok, "completed is terminal")

	_, ok = s.BeginStatusChange("zzz", appointments.StatusConfirmed)
	assert.False(t, ok, "unknown row")
}

func TestProcessingRowSwallowsRepeatActions(t *testing.T) {
	s := tableWith(appointments.StatusPending)
	s, ok := s.BeginStatusChange("a", appointments.StatusConfirmed)
	require.True(t, ok)

	_, ok = s.BeginStatusChange("a", appointments.StatusCancelled)
	assert.False(t, ok, "double click while in flight must not fire twice")

	s2 := s.RequestDelete("a")
	assert.False(t, s2.Rows[0].ConfirmingDelete, "busy row cannot arm delete")
}

func TestStatusChangedInstallsServerRow(t *testing.T) {
	s := tableWith(appointments.StatusPending)
	s, ok := s.BeginStatusChange("a", appointments.StatusConfirmed)
	require.True(t, ok)

	s = s.StatusChanged(&appointments.Appointment{ID: "a", Status: appointments.StatusConfirmed})
	assert.Equal(t, appointments.StatusConfirmed, s.Rows[0].Appointment.Status)
	assert.False(t, s.Rows[0].Processing)
}

func TestStatusChangeFailedReleasesRow(t *testing.T) {
	s := tableWith(appointments.StatusPending)
	s, _ = s.BeginStatusChange("a", appointments.StatusConfirmed)

	s = s.StatusChangeFailed("a", "status changed concurrently")
	assert.False(t, s.Rows[0].Processing)
	require.NotNil(t, s.Notice)
	assert.True(t, s.Notice.IsErr)

	_, ok := s.BeginStatusChange("a", appointments.StatusConfirmed)
	assert.True(t, ok, "row is actionable again after failure")
}

func TestTwoPhaseDelete(t *testing.T) {
	s := tableWith(appointments.StatusPending)

	_, ok := s.ConfirmDelete("a")
	assert.False(t, ok, "confirm without arming does nothing")

	s = s.RequestDelete("a")
	require.True(t, s.Rows[0].ConfirmingDelete)

	s, ok = s.ConfirmDelete("a")
	require.True(t, ok)
	assert.True(t, s.Rows[0].Processing)

	s = s.Deleted("a")
	assert.Empty(t, s.Rows)
}

func TestCancelDeleteDisarms(t *testing.T) {
	s := tableWith(appointments.StatusPending).RequestDelete("a").CancelDelete("a")
	assert.False(t, s.Rows[0].ConfirmingDelete)

	_, ok := s.ConfirmDelete("a")
	assert.False(t, ok)
}

func TestConfirmationsAreScopedPerRow(t *testing.T) {
	s := tableWith(appointments.StatusPending, appointments.StatusPending)
	s = s.RequestDelete("a")
	s = s.RequestDelete("b")

	assert.True(t, s.Rows[0].ConfirmingDelete)
	assert.True(t, s.Rows[1].ConfirmingDelete)

	s = s.CancelDelete("a")
	assert.False(t, s.Rows[0].ConfirmingDelete)
	assert.True(t, s.Rows[1].ConfirmingDelete, "other rows keep their own confirmation")
}

func TestRowVanishedIsSoftNotice(t *testing.T) {
	s := tableWith(appointments.StatusPending, appointments.StatusConfirmed)
	s = s.RequestDelete("a")
	s, _ = s.ConfirmDelete("a")

	s = s.RowVanished("a")
	require.Len(t, s.Rows, 1)
	assert.Equal(t, "b", s.Rows[0].Appointment.ID)
	require.NotNil(t, s.Notice)
	assert.False(t, s.Notice.IsErr, "losing the race to another admin is not an error")
}

func TestDeleteFailedReleasesAndDisarms(t *testing.T) {
	s := tableWith(appointments.StatusPending)
	s = s.RequestDelete("a")
	s, _ = s.ConfirmDelete("a")

	s = s.DeleteFailed("a", "database unavailable")
	assert.False(t, s.Rows[0].Processing)
	assert.False(t, s.Rows[0].ConfirmingDelete)
	require.NotNil(t, s.Notice)
	assert.True(t, s.Notice.IsErr)
}

func TestTransitionsAreValueSemantics(t *testing.T) {
	s := tableWith(appointments.StatusPending)
	armed := s.RequestDelete("a")

	assert.False(t, s.Rows[0].ConfirmingDelete, "original state is untouched")
	assert.True(t, armed.Rows[0].ConfirmingDelete)
}

func TestClearNotice(t *testing.T) {
	s := tableWith(appointments.StatusPending).StatusChangeFailed("a", "x").ClearNotice()
	assert.Nil(t, s.Notice)
}
