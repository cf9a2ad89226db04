// Package calendar projects slots and appointments into the admin week grid.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caspianclinic/booking-platform/internal/slots"
)

// Entry is one cell of the admin calendar: a slot merged with the status of
// the appointment occupying it, if any. Recomputed on every fetch, never
// persisted.
type Entry struct {
	Date          string `json:"date"`
	Time          string `json:"time"`
	Available     bool   `json:"available"`
	Status        string `json:"status,omitempty"`
	AppointmentID string `json:"appointment_id,omitempty"`
	PatientName   string `json:"patient_name,omitempty"`
}

// Repository answers the joined calendar query.
type Repository interface {
	ListRange(ctx context.Context, start, end string) ([]Entry, error)
}

// PostgresRepository reads the calendar grid with one joined query.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a calendar repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("calendar: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// ListRange joins generated slots with any non-cancelled appointment holding
// the same (date, time).
func (r *PostgresRepository) ListRange(ctx context.Context, start, end string) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.date, s.slot_time, s.available,
		       COALESCE(a.status, ''), COALESCE(a.id::text, ''), COALESCE(a.name, '')
		FROM appointment_slots s
		LEFT JOIN appointments a
		  ON a.date = s.date AND a.slot_time = s.slot_time AND a.status != 'cancelled'
		WHERE s.date >= $1 AND s.date <= $2
		ORDER BY s.date, s.slot_time`, start, end)
	if err != nil {
		return nil, fmt.Errorf("calendar: list range: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var day time.Time
		if err := rows.Scan(&day, &e.Time, &e.Available, &e.Status, &e.AppointmentID, &e.PatientName); err != nil {
			return nil, fmt.Errorf("calendar: scan: %w", err)
		}
		e.Date = day.Format(slots.DateLayout)
		out = append(out, e)
	}
	return out, rows.Err()
}
