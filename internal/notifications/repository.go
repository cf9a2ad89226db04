package notifications

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for notification storage.
type Repository interface {
	Create(ctx context.Context, req *CreateNotificationRequest) (*Notification, error)
	ListByUser(ctx context.Context, userEmail string, limit int) ([]*Notification, error)
	UnreadCount(ctx context.Context, userEmail string) (int64, error)
	MarkRead(ctx context.Context, id string) (*Notification, error)
}

// InMemoryRepository keeps notifications in memory for tests and demos.
type InMemoryRepository struct {
	mu   sync.RWMutex
	rows map[string]*Notification
}

// NewInMemoryRepository creates an empty in-memory notification store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{rows: make(map[string]*Notification)}
}

// Create stores a new unread notification.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateNotificationRequest) (*Notification, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	n := &Notification{
		ID:            uuid.NewString(),
		UserEmail:     req.UserEmail,
		Title:         req.Title,
		Message:       req.Message,
		Type:          req.Type,
		Category:      req.Category,
		AppointmentID: req.AppointmentID,
		CreatedAt:     time.Now().UTC(),
	}
	r.mu.Lock()
	r.rows[n.ID] = n
	r.mu.Unlock()
	c := *n
	return &c, nil
}

// ListByUser returns a user's notifications, newest first.
func (r *InMemoryRepository) ListByUser(ctx context.Context, userEmail string, limit int) ([]*Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Notification
	for _, n := range r.rows {
		if n.UserEmail == userEmail {
			c := *n
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UnreadCount counts a user's unread notifications.
func (r *InMemoryRepository) UnreadCount(ctx context.Context, userEmail string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, n := range r.rows {
		if n.UserEmail == userEmail && !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkRead flags one notification as read. Marking twice is harmless.
func (r *InMemoryRepository) MarkRead(ctx context.Context, id string) (*Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !n.Read {
		n.Read = true
		now := time.Now().UTC()
		n.ReadAt = &now
	}
	c := *n
	return &c, nil
}
