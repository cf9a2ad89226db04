package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caspianclinic/booking-platform/internal/appointments"
	"github.com/caspianclinic/booking-platform/internal/notify"
)

type recordingSender struct {
	sent []notify.EmailMessage
	err  error
}

func (r *recordingSender) Send(ctx context.Context, msg notify.EmailMessage) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func sampleAppointment() *appointments.Appointment {
	return &appointments.Appointment{
		ID:          "a1b2c3",
		Name:        "Ali Mammadov",
		Email:       "ali@example.com",
		ServiceType: "Knee Consultation",
		Date:        "2025-06-10",
		Time:        "09:00",
		Status:      appointments.StatusPending,
	}
}

func TestAppointmentCreatedRecordsAndEmails(t *testing.T) {
	repo := NewInMemoryRepository()
	sender := &recordingSender{}
	svc := NewService(repo, sender, nil)

	require.NoError(t, svc.AppointmentCreated(context.Background(), sampleAppointment()))

	feed, err := repo.ListByUser(context.Background(), "ali@example.com", 10)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, TypeInfo, feed[0].Type)
	assert.Equal(t, "a1b2c3", feed[0].AppointmentID)
	assert.False(t, feed[0].Read)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ali@example.com", sender.sent[0].To)
}

func TestAppointmentCreatedSurvivesEmailFailure(t *testing.T) {
	repo := NewInMemoryRepository()
	sender := &recordingSender{err: errors.New("smtp down")}
	svc := NewService(repo, sender, nil)

	require.NoError(t, svc.AppointmentCreated(context.Background(), sampleAppointment()),
		"in-app record is the source of truth, email failure must not surface")

	count, err := repo.UnreadCount(context.Background(), "ali@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestStatusChangedPicksTypeFromTarget(t *testing.T) {
	cases := []struct {
		status appointments.Status
		want   Type
	}{
		{appointments.StatusConfirmed, TypeSuccess},
		{appointments.StatusCancelled, TypeWarning},
		{appointments.StatusCompleted, TypeSuccess},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			repo := NewInMemoryRepository()
			svc := NewService(repo, nil, nil)

			appt := sampleAppointment()
			appt.Status = tc.status
			require.NoError(t, svc.AppointmentStatusChanged(context.Background(), appt, appointments.StatusPending))

			feed, err := repo.ListByUser(context.Background(), "ali@example.com", 10)
			require.NoError(t, err)
			require.Len(t, feed, 1)
			assert.Equal(t, tc.want, feed[0].Type)
		})
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, nil, nil)

	n, err := svc.Create(context.Background(), &CreateNotificationRequest{
		UserEmail: "ali@example.com", Title: "Reminder",
	})
	require.NoError(t, err)

	first, err := svc.MarkRead(context.Background(), n.ID)
	require.NoError(t, err)
	require.NotNil(t, first.ReadAt)

	second, err := svc.MarkRead(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ReadAt, second.ReadAt)

	count, err := svc.UnreadCount(context.Background(), "ali@example.com")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkReadUnknownID(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil)
	_, err := svc.MarkRead(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil)

	_, err := svc.Create(context.Background(), &CreateNotificationRequest{Title: "No user"})
	assert.ErrorIs(t, err, ErrMissingUser)

	_, err = svc.Create(context.Background(), &CreateNotificationRequest{UserEmail: "a@b.c"})
	assert.ErrorIs(t, err, ErrMissingTitle)

	_, err = svc.Create(context.Background(), &CreateNotificationRequest{
		UserEmail: "a@b.c", Title: "x", Type: "loud",
	})
	assert.ErrorIs(t, err, ErrInvalidType)

	n, err := svc.Create(context.Background(), &CreateNotificationRequest{UserEmail: "a@b.c", Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, TypeInfo, n.Type, "type defaults to info")
}
