package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxDB is the subset of pgxpool.Pool the repository uses; pgxmock
// implements it for tests.
type PgxDB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores notifications in the relational database.
type PostgresRepository struct {
	db PgxDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("notifications: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db PgxDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const notificationColumns = `id, user_email, title, message, type, category, read, COALESCE(appointment_id::text, ''), created_at, read_at`

func scanNotification(row pgx.Row) (*Notification, error) {
	var n Notification
	if err := row.Scan(
		&n.ID, &n.UserEmail, &n.Title, &n.Message, &n.Type,
		&n.Category, &n.Read, &n.AppointmentID, &n.CreatedAt, &n.ReadAt,
	); err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts a new unread notification.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateNotificationRequest) (*Notification, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO notifications (id, user_email, title, message, type, category, appointment_id)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid)
		RETURNING `+notificationColumns,
		uuid.New(), req.UserEmail, req.Title, req.Message, string(req.Type), req.Category, req.AppointmentID)
	n, err := scanNotification(row)
	if err != nil {
		return nil, fmt.Errorf("notifications: insert: %w", err)
	}
	return n, nil
}

// ListByUser returns a user's notifications, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userEmail string, limit int) ([]*Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE user_email = $1
		ORDER BY created_at DESC
		LIMIT $2`, userEmail, limit)
	if err != nil {
		return nil, fmt.Errorf("notifications: list: %w", err)
	}
	defer rows.Close()

	var out []*Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("notifications: scan: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// UnreadCount counts a user's unread notifications.
func (r *PostgresRepository) UnreadCount(ctx context.Context, userEmail string) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE user_email = $1 AND read = FALSE`, userEmail).Scan(&count); err != nil {
		return 0, fmt.Errorf("notifications: unread count: %w", err)
	}
	return count, nil
}

// MarkRead flags one notification as read. Repeating the call leaves the
// original read_at intact.
func (r *PostgresRepository) MarkRead(ctx context.Context, id string) (*Notification, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE notifications
		SET read = TRUE, read_at = COALESCE(read_at, NOW())
		WHERE id = $1
		RETURNING `+notificationColumns, id)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("notifications: mark read: %w", err)
	}
	return n, nil
}
