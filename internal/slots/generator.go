package slots

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caspianclinic/booking-platform/pkg/logging"
)

// Generator expands weekly availability rules into concrete slot rows.
type Generator struct {
	rules  RuleRepository
	repo   Repository
	logger *logging.Logger
}

// NewGenerator creates a slot generator.
func NewGenerator(rules RuleRepository, repo Repository, logger *logging.Logger) *Generator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Generator{rules: rules, repo: repo, logger: logger}
}

// Generate creates slots for every date in [from, to] covered by an active
// rule and stores them, skipping pairs that already exist. Returns the
// number of newly inserted slots.
func (g *Generator) Generate(ctx context.Context, from, to string) (int, error) {
	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return 0, ErrInvalidDate
	}
	end, err := time.Parse(DateLayout, to)
	if err != nil {
		return 0, ErrInvalidDate
	}
	if end.Before(start) {
		return 0, ErrInvalidDate
	}

	rules, err := g.rules.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("slots: load rules: %w", err)
	}

	var batch []Slot
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		for _, rule := range rules {
			if rule.Weekday != day.Weekday() {
				continue
			}
			expanded, err := expandRule(rule, day)
			if err != nil {
				g.logger.Warn("skipping availability rule", "rule_id", rule.ID, "error", err)
				continue
			}
			batch = append(batch, expanded...)
		}
	}
	if len(batch) == 0 {
		return 0, nil
	}

	inserted, err := g.repo.Insert(ctx, batch)
	if err != nil {
		return inserted, err
	}
	g.logger.Info("slots generated", "from", from, "to", to, "inserted", inserted)
	return inserted, nil
}

// expandRule walks a rule's window in slot-sized steps for one day.
func expandRule(rule AvailabilityRule, day time.Time) ([]Slot, error) {
	if rule.SlotMinutes <= 0 {
		return nil, ErrInvalidRule
	}
	open, ok := NormalizeClock(rule.StartTime)
	if !ok {
		return nil, ErrInvalidRule
	}
	closing, ok := NormalizeClock(rule.EndTime)
	if !ok {
		return nil, ErrInvalidRule
	}
	startClock, err := time.Parse(ClockLayout, open)
	if err != nil {
		return nil, ErrInvalidRule
	}
	endClock, err := time.Parse(ClockLayout, closing)
	if err != nil {
		return nil, ErrInvalidRule
	}
	if !startClock.Before(endClock) {
		return nil, ErrInvalidRule
	}

	date := day.Format(DateLayout)
	step := time.Duration(rule.SlotMinutes) * time.Minute
	var out []Slot
	for t := startClock; t.Add(step).Compare(endClock) <= 0; t = t.Add(step) {
		out = append(out, Slot{
			ID:        uuid.NewString(),
			Date:      date,
			Time:      t.Format(ClockLayout),
			Available: true,
		})
	}
	return out, nil
}
