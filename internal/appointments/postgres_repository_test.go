package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewPostgresRepositoryWithDB(mock), mock
}

func appointmentRow(status Status) *pgxmock.Rows {
	now := time.Now().UTC()
	return pgxmock.NewRows([]string{
		"id", "name", "email", "phone", "service_type", "date", "slot_time",
		"message", "status", "patient_id", "created_at", "updated_at",
	}).AddRow(
		"3f0c", "Ali Mammadov", "ali@example.com", "0551234567", "Knee Consultation",
		time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), "09:00",
		"", status, "", now, now,
	)
}

func TestPostgresCreateChecksConflictBeforeInsert(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("2025-06-10", "09:00").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), "Ali Mammadov", "ali@example.com", "0551234567",
			"Knee Consultation", "2025-06-10", "09:00", "First visit", "").
		WillReturnRows(appointmentRow(StatusPending))
	mock.ExpectCommit()
	mock.ExpectRollback()

	appt, err := repo.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.Status != StatusPending {
		t.Errorf("expected pending, got %s", appt.Status)
	}
	if appt.Date != "2025-06-10" {
		t.Errorf("expected date 2025-06-10, got %s", appt.Date)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresCreateReturnsSlotTaken(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("2025-06-10", "09:00").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	if _, err := repo.Create(context.Background(), validCreateRequest()); !errors.Is(err, ErrSlotTaken) {
		t.Errorf("expected ErrSlotTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresUpdateStatusDistinguishesMissingFromStale(t *testing.T) {
	repo, mock := newMockRepo(t)

	// Row vanished between the UI's view and the update.
	mock.ExpectQuery("UPDATE appointments").
		WithArgs("gone", "confirmed", []string{"pending"}).
		WillReturnRows(pgxmock.NewRows(nil))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("gone").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	if _, err := repo.UpdateStatus(context.Background(), "gone", StatusConfirmed, []Status{StatusPending}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Row exists but was moved by a concurrent admin action.
	mock.ExpectQuery("UPDATE appointments").
		WithArgs("busy", "confirmed", []string{"pending"}).
		WillReturnRows(pgxmock.NewRows(nil))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("busy").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	if _, err := repo.UpdateStatus(context.Background(), "busy", StatusConfirmed, []Status{StatusPending}); !errors.Is(err, ErrStaleStatus) {
		t.Errorf("expected ErrStaleStatus, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresDeleteNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM appointments").
		WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresSearchFiltersPhoneInGo(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := pgxmock.NewRows([]string{
		"id", "name", "email", "phone", "service_type", "date", "slot_time",
		"message", "status", "patient_id", "created_at", "updated_at",
	}).AddRow(
		"1", "Ali Mammadov", "ali@example.com", "0551234567", "Knee Consultation",
		time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), "09:00",
		"", StatusPending, "", time.Now(), time.Now(),
	).AddRow(
		"2", "Alim Guliyev", "alim@example.com", "0700000000", "Check-up",
		time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), "10:00",
		"", StatusPending, "", time.Now(), time.Now(),
	)
	mock.ExpectQuery("FROM appointments").
		WithArgs("Ali").
		WillReturnRows(rows)

	found, err := repo.Search(context.Background(), "Ali", "+994551234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 1 || found[0].ID != "1" {
		t.Errorf("expected only the suffix-matching row, got %+v", found)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
