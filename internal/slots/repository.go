package slots

import (
	"context"
	"sort"
	"sync"
)

// Repository defines storage for generated slots.
type Repository interface {
	ListByDate(ctx context.Context, date string) ([]Slot, error)
	Insert(ctx context.Context, batch []Slot) (int, error)
}

// RuleRepository defines storage for recurring availability rules.
type RuleRepository interface {
	ListActive(ctx context.Context) ([]AvailabilityRule, error)
}

// BookedTimesLister reports which times on a date are held by a
// non-cancelled appointment. Implemented by the appointments repository.
type BookedTimesLister interface {
	BookedTimes(ctx context.Context, date string) ([]string, error)
}

// InMemoryRepository is an in-memory slot store used in tests and demos.
type InMemoryRepository struct {
	mu    sync.RWMutex
	byDay map[string][]Slot
}

// NewInMemoryRepository creates an empty in-memory slot store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byDay: make(map[string][]Slot)}
}

// ListByDate returns the slots stored for a date, ordered by time.
func (r *InMemoryRepository) ListByDate(ctx context.Context, date string) ([]Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Slot, len(r.byDay[date]))
	copy(out, r.byDay[date])
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

// Insert stores a batch of slots, skipping (date,time) pairs already present.
func (r *InMemoryRepository) Insert(ctx context.Context, batch []Slot) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inserted := 0
	for _, s := range batch {
		if r.contains(s.Date, s.Time) {
			continue
		}
		r.byDay[s.Date] = append(r.byDay[s.Date], s)
		inserted++
	}
	return inserted, nil
}

func (r *InMemoryRepository) contains(date, clock string) bool {
	for _, s := range r.byDay[date] {
		if s.Time == clock {
			return true
		}
	}
	return false
}

// StaticRuleRepository serves a fixed rule set, used in tests.
type StaticRuleRepository struct {
	Rules []AvailabilityRule
}

// ListActive returns the active subset of the fixed rules.
func (r *StaticRuleRepository) ListActive(ctx context.Context) ([]AvailabilityRule, error) {
	var out []AvailabilityRule
	for _, rule := range r.Rules {
		if rule.Active {
			out = append(out, rule)
		}
	}
	return out, nil
}
