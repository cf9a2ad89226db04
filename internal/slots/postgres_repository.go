package slots

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores generated slots in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a slot repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("slots: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// ListByDate returns the generated slots for one date ordered by time.
func (r *PostgresRepository) ListByDate(ctx context.Context, date string) ([]Slot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, date, slot_time, available, created_at
		FROM appointment_slots
		WHERE date = $1
		ORDER BY slot_time`, date)
	if err != nil {
		return nil, fmt.Errorf("slots: list by date: %w", err)
	}
	defer rows.Close()

	var out []Slot
	for rows.Next() {
		var s Slot
		var day time.Time
		if err := rows.Scan(&s.ID, &day, &s.Time, &s.Available, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("slots: scan: %w", err)
		}
		s.Date = day.Format(DateLayout)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Insert stores a batch of generated slots. Rows that collide with an
// existing (date, slot_time) pair are skipped. Returns how many were added.
func (r *PostgresRepository) Insert(ctx context.Context, batch []Slot) (int, error) {
	inserted := 0
	for _, s := range batch {
		tag, err := r.pool.Exec(ctx, `
			INSERT INTO appointment_slots (id, date, slot_time, available)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (date, slot_time) DO NOTHING`,
			s.ID, s.Date, s.Time, s.Available)
		if err != nil {
			return inserted, fmt.Errorf("slots: insert: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// PostgresRuleRepository stores weekly availability rules.
type PostgresRuleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRuleRepository initializes a rule repo backed by pgxpool.
func NewPostgresRuleRepository(pool *pgxpool.Pool) *PostgresRuleRepository {
	if pool == nil {
		panic("slots: pgx pool required")
	}
	return &PostgresRuleRepository{pool: pool}
}

// ListActive returns the enabled availability rules.
func (r *PostgresRuleRepository) ListActive(ctx context.Context) ([]AvailabilityRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, weekday, start_time, end_time, slot_minutes, active
		FROM availability_rules
		WHERE active
		ORDER BY weekday, start_time`)
	if err != nil {
		return nil, fmt.Errorf("slots: list rules: %w", err)
	}
	defer rows.Close()

	var out []AvailabilityRule
	for rows.Next() {
		var rule AvailabilityRule
		var weekday int
		if err := rows.Scan(&rule.ID, &weekday, &rule.StartTime, &rule.EndTime, &rule.SlotMinutes, &rule.Active); err != nil {
			return nil, fmt.Errorf("slots: scan rule: %w", err)
		}
		rule.Weekday = time.Weekday(weekday)
		out = append(out, rule)
	}
	return out, rows.Err()
}
