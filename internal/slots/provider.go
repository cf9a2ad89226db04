package slots

import (
	"context"
	"fmt"
	"time"
)

// Provider produces the slot set for one date. Providers are tried by the
// resolver in declared order; later ones are fallbacks.
type Provider interface {
	Name() string
	SlotsForDate(ctx context.Context, date string) ([]Slot, error)
}

// TableProvider reads pre-generated slot rows and marks the ones held by a
// non-cancelled appointment as unavailable. This is the primary source.
type TableProvider struct {
	repo   Repository
	booked BookedTimesLister
}

// NewTableProvider creates the table-backed provider.
func NewTableProvider(repo Repository, booked BookedTimesLister) *TableProvider {
	return &TableProvider{repo: repo, booked: booked}
}

func (p *TableProvider) Name() string { return "table" }

// SlotsForDate returns generated slots with booked times flipped unavailable.
func (p *TableProvider) SlotsForDate(ctx context.Context, date string) ([]Slot, error) {
	listed, err := p.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("slots: table provider: %w", err)
	}
	taken, err := p.bookedSet(ctx, date)
	if err != nil {
		return nil, err
	}
	out := make([]Slot, len(listed))
	for i, s := range listed {
		if clock, ok := NormalizeClock(s.Time); ok {
			s.Time = clock
		}
		if _, held := taken[s.Time]; held {
			s.Available = false
		}
		out[i] = s
	}
	return out, nil
}

func (p *TableProvider) bookedSet(ctx context.Context, date string) (map[string]struct{}, error) {
	taken := make(map[string]struct{})
	if p.booked == nil {
		return taken, nil
	}
	times, err := p.booked.BookedTimes(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("slots: booked times: %w", err)
	}
	for _, t := range times {
		if clock, ok := NormalizeClock(t); ok {
			t = clock
		}
		taken[t] = struct{}{}
	}
	return taken, nil
}

// RuleProvider derives the day's slots directly from the weekly availability
// rules and subtracts booked times. It predates the generated slot table and
// is kept as the fallback while older deployments migrate.
type RuleProvider struct {
	rules  RuleRepository
	booked BookedTimesLister
}

// NewRuleProvider creates the rule-derived fallback provider.
func NewRuleProvider(rules RuleRepository, booked BookedTimesLister) *RuleProvider {
	return &RuleProvider{rules: rules, booked: booked}
}

func (p *RuleProvider) Name() string { return "rules" }

// SlotsForDate expands the matching weekly rules for the date on the fly.
func (p *RuleProvider) SlotsForDate(ctx context.Context, date string) ([]Slot, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	rules, err := p.rules.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("slots: rule provider: %w", err)
	}

	taken := make(map[string]struct{})
	if p.booked != nil {
		times, err := p.booked.BookedTimes(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("slots: booked times: %w", err)
		}
		for _, t := range times {
			if clock, ok := NormalizeClock(t); ok {
				t = clock
			}
			taken[t] = struct{}{}
		}
	}

	var out []Slot
	for _, rule := range rules {
		if rule.Weekday != day.Weekday() {
			continue
		}
		expanded, err := expandRule(rule, day)
		if err != nil {
			continue
		}
		for _, s := range expanded {
			if _, held := taken[s.Time]; held {
				s.Available = false
			}
			out = append(out, s)
		}
	}
	return out, nil
}
