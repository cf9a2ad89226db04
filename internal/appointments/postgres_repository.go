package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caspianclinic/booking-platform/internal/slots"
)

// PgxDB is the subset of pgxpool.Pool the repository uses; pgxmock
// implements it for tests.
type PgxDB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db PgxDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db PgxDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const appointmentColumns = `id, name, email, phone, service_type, date, slot_time, message, status, COALESCE(patient_id::text, ''), created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var day time.Time
	if err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone, &a.ServiceType,
		&day, &a.Time, &a.Message, &a.Status, &a.PatientID,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.Date = day.Format(slots.DateLayout)
	return &a, nil
}

// Create inserts a pending appointment inside a transaction, re-checking the
// slot-conflict invariant the partial unique index enforces so the caller
// gets a typed error instead of a constraint violation.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("appointments: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var taken bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE date = $1 AND slot_time = $2 AND status != 'cancelled'
		)`, req.Date, req.Time).Scan(&taken); err != nil {
		return nil, fmt.Errorf("appointments: conflict check: %w", err)
	}
	if taken {
		return nil, ErrSlotTaken
	}

	id := uuid.New()
	row := tx.QueryRow(ctx, `
		INSERT INTO appointments (id, name, email, phone, service_type, date, slot_time, message, status, patient_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending', NULLIF($9, '')::uuid)
		RETURNING `+appointmentColumns,
		id, req.Name, req.Email, req.Phone, req.ServiceType, req.Date, req.Time, req.Message, req.PatientID)
	appt, err := scanAppointment(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("appointments: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("appointments: commit: %w", err)
	}
	return appt, nil
}

// GetByID fetches one appointment.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: select: %w", err)
	}
	return appt, nil
}

// UpdateStatus moves the row to the target status only when the current
// status is in from, in one statement. A missing row maps to ErrNotFound, a
// row that changed under us to ErrStaleStatus.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, to Status, from []Status) (*Appointment, error) {
	fromStrs := make([]string, len(from))
	for i, f := range from {
		fromStrs[i] = string(f)
	}
	row := r.db.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)
		RETURNING `+appointmentColumns,
		id, string(to), fromStrs)
	appt, err := scanAppointment(row)
	if err == nil {
		return appt, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("appointments: update status: %w", err)
	}

	// Distinguish "gone" from "concurrently modified".
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM appointments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("appointments: existence check: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}
	return nil, ErrStaleStatus
}

// Delete removes an appointment. A missing row maps to ErrNotFound so the
// service can classify the benign already-deleted case.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("appointments: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Search narrows by case-insensitive partial name in SQL, then applies the
// suffix-tolerant phone match in Go where the normalization rules live.
func (r *PostgresRepository) Search(ctx context.Context, name, phone string) ([]*Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY date, slot_time`, name)
	if err != nil {
		return nil, fmt.Errorf("appointments: search: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		if PhoneMatches(appt.Phone, phone) {
			out = append(out, appt)
		}
	}
	return out, rows.Err()
}

// Stats counts appointments per status in one aggregate pass.
func (r *PostgresRepository) Stats(ctx context.Context) (*Stats, error) {
	s := &Stats{}
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'confirmed'),
		       COUNT(*) FILTER (WHERE status = 'cancelled'),
		       COUNT(*) FILTER (WHERE status = 'completed')
		FROM appointments`,
	).Scan(&s.Total, &s.Pending, &s.Confirmed, &s.Cancelled, &s.Completed); err != nil {
		return nil, fmt.Errorf("appointments: stats: %w", err)
	}
	return s, nil
}

// ListBetween returns appointments within a date range ordered by start.
func (r *PostgresRepository) ListBetween(ctx context.Context, from, to string) ([]*Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date >= $1 AND date <= $2
		ORDER BY date, slot_time`, from, to)
	if err != nil {
		return nil, fmt.Errorf("appointments: list between: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		out = append(out, appt)
	}
	return out, rows.Err()
}

// BookedTimes returns times held by non-cancelled appointments on a date.
func (r *PostgresRepository) BookedTimes(ctx context.Context, date string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT slot_time FROM appointments
		WHERE date = $1 AND status != 'cancelled'
		ORDER BY slot_time`, date)
	if err != nil {
		return nil, fmt.Errorf("appointments: booked times: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("appointments: scan time: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
