package slots

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/caspianclinic/booking-platform/internal/observability/metrics"
	"github.com/caspianclinic/booking-platform/pkg/logging"
)

var resolverTracer = otel.Tracer("clinic.internal.slots")

// Resolver answers "which slots can a patient pick on this date" by asking
// an ordered list of providers and applying the advance-booking rule.
type Resolver struct {
	providers []Provider
	leadTime  time.Duration
	location  *time.Location
	logger    *logging.Logger
	metrics   *metrics.BookingMetrics
	now       func() time.Time
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithClock overrides the resolver's time source, used in tests.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) { r.now = now }
}

// WithLocation sets the timezone slot starts are interpreted in.
func WithLocation(loc *time.Location) ResolverOption {
	return func(r *Resolver) { r.location = loc }
}

// WithMetrics attaches booking metrics.
func WithMetrics(m *metrics.BookingMetrics) ResolverOption {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver creates a resolver over the given providers, tried in order.
func NewResolver(providers []Provider, leadTime time.Duration, logger *logging.Logger, opts ...ResolverOption) *Resolver {
	if len(providers) == 0 {
		panic("slots: at least one provider required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	r := &Resolver{
		providers: providers,
		leadTime:  leadTime,
		location:  time.UTC,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the normalized, lead-time-annotated slots for a date.
// Providers are tried in order and the first success wins; an empty result
// is a valid outcome, not a reason to fall through. ErrNoProviders is
// returned only when every provider failed.
func (r *Resolver) Resolve(ctx context.Context, date string) ([]ResolvedSlot, error) {
	ctx, span := resolverTracer.Start(ctx, "slots.resolve")
	defer span.End()
	span.SetAttributes(attribute.String("clinic.slot_date", date))

	if !ValidDate(date) {
		return nil, ErrInvalidDate
	}

	var lastErr error
	for _, p := range r.providers {
		started := r.now()
		listed, err := p.SlotsForDate(ctx, date)
		r.metrics.ObserveSlotResolveLatency(p.Name(), r.now().Sub(started).Seconds())
		if err != nil {
			r.metrics.ObserveSlotRequest(p.Name(), "error")
			r.logger.Warn("slot provider failed", "provider", p.Name(), "date", date, "error", err)
			lastErr = err
			continue
		}
		r.metrics.ObserveSlotRequest(p.Name(), "ok")
		return r.annotate(date, listed), nil
	}

	span.RecordError(lastErr)
	return nil, ErrNoProviders
}

// annotate normalizes times and applies the advance-booking rule. Slots the
// backend reported unavailable and slots inside the lead-time window are
// both unselectable, but carry distinct reasons so the UI can render them
// differently.
func (r *Resolver) annotate(date string, listed []Slot) []ResolvedSlot {
	cutoff := r.now().In(r.location).Add(r.leadTime)
	out := make([]ResolvedSlot, 0, len(listed))
	for _, s := range listed {
		if clock, ok := NormalizeClock(s.Time); ok {
			s.Time = clock
		}
		resolved := ResolvedSlot{Slot: s, Selectable: s.Available}
		if !s.Available {
			resolved.DisabledReason = DisabledUnavailable
		}
		if start, err := SlotStart(date, s.Time, r.location); err == nil {
			if start.Before(cutoff) && resolved.DisabledReason == "" {
				resolved.Selectable = false
				resolved.DisabledReason = DisabledLeadTime
			}
		}
		out = append(out, resolved)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}
