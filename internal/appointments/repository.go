package appointments

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for appointment storage.
type Repository interface {
	Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	// UpdateStatus conditionally moves the row to the target status; the
	// condition is "current status is one of from". Returns ErrNotFound when
	// the row is gone and ErrStaleStatus when it exists but no longer
	// satisfies the condition.
	UpdateStatus(ctx context.Context, id string, to Status, from []Status) (*Appointment, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, name, phone string) ([]*Appointment, error)
	Stats(ctx context.Context) (*Stats, error)
	ListBetween(ctx context.Context, from, to string) ([]*Appointment, error)
	BookedTimes(ctx context.Context, date string) ([]string, error)
}

// InMemoryRepository keeps appointments in memory for tests and demos.
type InMemoryRepository struct {
	mu   sync.RWMutex
	rows map[string]*Appointment
}

// NewInMemoryRepository creates an empty in-memory appointment store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{rows: make(map[string]*Appointment)}
}

// Create stores a new pending appointment, enforcing the one-booking-per-slot
// invariant the database enforces with a partial unique index.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.rows {
		if a.Date == req.Date && a.Time == req.Time && a.Status != StatusCancelled {
			return nil, ErrSlotTaken
		}
	}

	now := time.Now().UTC()
	appt := &Appointment{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		ServiceType: req.ServiceType,
		Date:        req.Date,
		Time:        req.Time,
		Message:     req.Message,
		Status:      StatusPending,
		PatientID:   req.PatientID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.rows[appt.ID] = appt
	return cloned(appt), nil
}

// GetByID retrieves an appointment by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloned(a), nil
}

// UpdateStatus applies the conditional status move.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, to Status, from []Status) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	allowed := false
	for _, f := range from {
		if a.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrStaleStatus
	}
	a.Status = to
	a.UpdatedAt = time.Now().UTC()
	return cloned(a), nil
}

// Delete removes an appointment row.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

// Search matches a case-insensitive partial name AND a normalized phone.
func (r *InMemoryRepository) Search(ctx context.Context, name, phone string) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(strings.TrimSpace(name))
	var out []*Appointment
	for _, a := range r.rows {
		if !strings.Contains(strings.ToLower(a.Name), needle) {
			continue
		}
		if !PhoneMatches(a.Phone, phone) {
			continue
		}
		out = append(out, cloned(a))
	}
	sortByDateTime(out)
	return out, nil
}

// Stats counts appointments per status.
func (r *InMemoryRepository) Stats(ctx context.Context) (*Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := &Stats{}
	for _, a := range r.rows {
		s.Total++
		switch a.Status {
		case StatusPending:
			s.Pending++
		case StatusConfirmed:
			s.Confirmed++
		case StatusCancelled:
			s.Cancelled++
		case StatusCompleted:
			s.Completed++
		}
	}
	return s, nil
}

// ListBetween returns appointments with from <= date <= to.
func (r *InMemoryRepository) ListBetween(ctx context.Context, from, to string) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Appointment
	for _, a := range r.rows {
		if a.Date >= from && a.Date <= to {
			out = append(out, cloned(a))
		}
	}
	sortByDateTime(out)
	return out, nil
}

// BookedTimes returns the times held by non-cancelled appointments on a date.
func (r *InMemoryRepository) BookedTimes(ctx context.Context, date string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, a := range r.rows {
		if a.Date == date && a.Status != StatusCancelled {
			out = append(out, a.Time)
		}
	}
	sort.Strings(out)
	return out, nil
}

func sortByDateTime(rows []*Appointment) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].Time < rows[j].Time
	})
}

func cloned(a *Appointment) *Appointment {
	c := *a
	return &c
}
