package appointments

import (
	"context"
	"errors"
	"testing"
)

func validCreateRequest() *CreateAppointmentRequest {
	return &CreateAppointmentRequest{
		Name:        "Ali Mammadov",
		Email:       "ali@example.com",
		Phone:       "0551234567",
		ServiceType: "Knee Consultation",
		Date:        "2025-06-10",
		Time:        "09:00",
		Message:     "First visit",
	}
}

type recordingNotifier struct {
	created []string
	changed []string
	err     error
}

func (n *recordingNotifier) AppointmentCreated(ctx context.Context, appt *Appointment) error {
	n.created = append(n.created, appt.ID)
	return n.err
}

func (n *recordingNotifier) AppointmentStatusChanged(ctx context.Context, appt *Appointment, from Status) error {
	n.changed = append(n.changed, string(from)+"->"+string(appt.Status))
	return n.err
}

func TestCreateBooksPendingAppointment(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(NewInMemoryRepository(), notifier, nil, nil)

	appt, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.Status != StatusPending {
		t.Errorf("expected pending, got %s", appt.Status)
	}
	if appt.ID == "" || appt.CreatedAt.IsZero() {
		t.Error("expected id and created_at to be set")
	}
	if appt.ServiceType != "Knee Consultation" {
		t.Errorf("unexpected service type %q", appt.ServiceType)
	}
	if len(notifier.created) != 1 {
		t.Errorf("expected 1 create notification, got %d", len(notifier.created))
	}
}

func TestCreateNormalizesTime(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil, nil)
	req := validCreateRequest()
	req.Time = "9:00 AM"

	appt, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.Time != "09:00" {
		t.Errorf("expected canonical 09:00, got %s", appt.Time)
	}
}

func TestCreateRejectsInvalidRequests(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil, nil)

	bad := []*CreateAppointmentRequest{
		func() *CreateAppointmentRequest { r := validCreateRequest(); r.Name = ""; return r }(),
		func() *CreateAppointmentRequest { r := validCreateRequest(); r.Email = "nope"; return r }(),
		func() *CreateAppointmentRequest { r := validCreateRequest(); r.Date = "10.06.2025"; return r }(),
		func() *CreateAppointmentRequest { r := validCreateRequest(); r.Time = "morning"; return r }(),
		func() *CreateAppointmentRequest { r := validCreateRequest(); r.Phone = ""; return r }(),
	}
	for i, req := range bad {
		if _, err := svc.Create(context.Background(), req); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestCreateRejectsDoubleBooking(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil, nil)

	if _, err := svc.Create(context.Background(), validCreateRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := validCreateRequest()
	second.Name = "Someone Else"
	second.Phone = "0559999999"
	if _, err := svc.Create(context.Background(), second); !errors.Is(err, ErrSlotTaken) {
		t.Errorf("expected ErrSlotTaken, got %v", err)
	}
}

func TestCreateAllowsRebookingCancelledSlot(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, nil, nil, nil)

	appt, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), appt.ID, StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.Create(context.Background(), validCreateRequest()); err != nil {
		t.Errorf("cancelled slot should be bookable again, got %v", err)
	}
}

func TestUpdateStatusHonorsTransitionTable(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(NewInMemoryRepository(), notifier, nil, nil)

	appt, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	confirmed, err := svc.UpdateStatus(context.Background(), appt.ID, StatusConfirmed)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != StatusConfirmed {
		t.Errorf("expected confirmed, got %s", confirmed.Status)
	}

	// No way back to pending.
	if _, err := svc.UpdateStatus(context.Background(), appt.ID, StatusPending); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition for confirmed->pending, got %v", err)
	}

	done, err := svc.UpdateStatus(context.Background(), appt.ID, StatusCompleted)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", done.Status)
	}

	// Terminal.
	if _, err := svc.UpdateStatus(context.Background(), appt.ID, StatusCancelled); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition out of completed, got %v", err)
	}

	if len(notifier.changed) != 2 {
		t.Errorf("expected 2 status notifications, got %v", notifier.changed)
	}
}

func TestUpdateStatusOnCancelledIsRejected(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil, nil)

	appt, _ := svc.Create(context.Background(), validCreateRequest())
	if _, err := svc.UpdateStatus(context.Background(), appt.ID, StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), appt.ID, StatusConfirmed); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition for cancelled->confirmed, got %v", err)
	}
}

func TestUpdateStatusMissingRow(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil, nil)
	if _, err := svc.UpdateStatus(context.Background(), "ghost", StatusConfirmed); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil, nil)
	if _, err := svc.UpdateStatus(context.Background(), "any", Status("archived")); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestDeleteMissingRowPropagatesNotFound(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil, nil)
	if err := svc.Delete(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNotifierFailureDoesNotFailCreate(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	svc := NewService(NewInMemoryRepository(), notifier, nil, nil)

	if _, err := svc.Create(context.Background(), validCreateRequest()); err != nil {
		t.Errorf("notifier failure must not fail the booking: %v", err)
	}
}

func TestSearchMatchesSuffixPhone(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil, nil)

	if _, err := svc.Create(context.Background(), validCreateRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other := validCreateRequest()
	other.Name = "Leyla Aliyeva"
	other.Phone = "0701112233"
	other.Time = "10:00"
	if _, err := svc.Create(context.Background(), other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := svc.Search(context.Background(), "Ali", "+994551234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 match, got %d", len(found))
	}
	if found[0].Name != "Ali Mammadov" {
		t.Errorf("unexpected match %q", found[0].Name)
	}
}

func TestStatsCountsByStatus(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil, nil)

	a1, _ := svc.Create(context.Background(), validCreateRequest())
	second := validCreateRequest()
	second.Time = "10:00"
	a2, _ := svc.Create(context.Background(), second)
	third := validCreateRequest()
	third.Time = "11:00"
	if _, err := svc.Create(context.Background(), third); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), a1.ID, StatusConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), a2.ID, StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Stats{Total: 3, Pending: 1, Confirmed: 1, Cancelled: 1}
	if *stats != want {
		t.Errorf("stats = %+v, want %+v", *stats, want)
	}
}
