package slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name  string
	slots []Slot
	err   error
	calls int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) SlotsForDate(ctx context.Context, date string) ([]Slot, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.slots, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestResolvePrimaryProviderWins(t *testing.T) {
	primary := &stubProvider{name: "table", slots: []Slot{
		{ID: "a", Date: "2025-06-10", Time: "09:00:00", Available: true},
		{ID: "b", Date: "2025-06-10", Time: "2:30 PM", Available: true},
	}}
	fallback := &stubProvider{name: "rules"}
	now := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
	r := NewResolver([]Provider{primary, fallback}, 2*time.Hour, nil, WithClock(fixedClock(now)))

	resolved, err := r.Resolve(context.Background(), "2025-06-10")
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, "09:00", resolved[0].Time)
	assert.Equal(t, "14:30", resolved[1].Time)
	assert.True(t, resolved[0].Selectable)
	assert.True(t, resolved[1].Selectable)
	assert.Zero(t, fallback.calls, "fallback should not run when primary succeeds")
}

func TestResolveFallsBackAndNormalizesIdentically(t *testing.T) {
	primary := &stubProvider{name: "table", err: errors.New("table offline")}
	fallback := &stubProvider{name: "rules", slots: []Slot{
		{ID: "a", Date: "2025-06-10", Time: "09:00", Available: true},
	}}
	now := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
	r := NewResolver([]Provider{primary, fallback}, 2*time.Hour, nil, WithClock(fixedClock(now)))

	resolved, err := r.Resolve(context.Background(), "2025-06-10")
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "09:00", resolved[0].Time)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestResolveAllProvidersFailing(t *testing.T) {
	r := NewResolver([]Provider{
		&stubProvider{name: "table", err: errors.New("down")},
		&stubProvider{name: "rules", err: errors.New("also down")},
	}, 2*time.Hour, nil)

	_, err := r.Resolve(context.Background(), "2025-06-10")
	assert.ErrorIs(t, err, ErrNoProviders)
}

func TestResolveEmptyIsNotAnError(t *testing.T) {
	primary := &stubProvider{name: "table"}
	fallback := &stubProvider{name: "rules", slots: []Slot{{Time: "09:00", Available: true}}}
	r := NewResolver([]Provider{primary, fallback}, 2*time.Hour, nil)

	resolved, err := r.Resolve(context.Background(), "2025-06-10")
	require.NoError(t, err)
	assert.Empty(t, resolved)
	assert.Zero(t, fallback.calls, "an empty primary result must not trigger the fallback")
}

func TestResolveAppliesLeadTimeRule(t *testing.T) {
	primary := &stubProvider{name: "table", slots: []Slot{
		{ID: "soon", Date: "2025-06-10", Time: "09:00", Available: true},
		{ID: "later", Date: "2025-06-10", Time: "11:00", Available: true},
		{ID: "taken", Date: "2025-06-10", Time: "12:00", Available: false},
	}}
	// 08:00 on the slot day: the 09:00 slot is inside the 2h window.
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	r := NewResolver([]Provider{primary}, 2*time.Hour, nil, WithClock(fixedClock(now)))

	resolved, err := r.Resolve(context.Background(), "2025-06-10")
	require.NoError(t, err)
	require.Len(t, resolved, 3)

	assert.False(t, resolved[0].Selectable)
	assert.Equal(t, DisabledLeadTime, resolved[0].DisabledReason)

	assert.True(t, resolved[1].Selectable)
	assert.Empty(t, resolved[1].DisabledReason)

	assert.False(t, resolved[2].Selectable)
	assert.Equal(t, DisabledUnavailable, resolved[2].DisabledReason)
}

func TestResolveLeadTimeOverridesServerAvailability(t *testing.T) {
	primary := &stubProvider{name: "table", slots: []Slot{
		{ID: "soon", Date: "2025-06-10", Time: "08:30", Available: true},
	}}
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	r := NewResolver([]Provider{primary}, 2*time.Hour, nil, WithClock(fixedClock(now)))

	resolved, err := r.Resolve(context.Background(), "2025-06-10")
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.False(t, resolved[0].Selectable, "server-available slot inside the window must be disabled")
}

func TestResolveMalformedTimesSurviveAnnotation(t *testing.T) {
	primary := &stubProvider{name: "table", slots: []Slot{
		{ID: "odd", Date: "2025-06-10", Time: "half past nine", Available: true},
	}}
	now := time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC)
	r := NewResolver([]Provider{primary}, 2*time.Hour, nil, WithClock(fixedClock(now)))

	resolved, err := r.Resolve(context.Background(), "2025-06-10")
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "half past nine", resolved[0].Time, "raw string kept when unparseable")
}

func TestResolveRejectsInvalidDate(t *testing.T) {
	r := NewResolver([]Provider{&stubProvider{name: "table"}}, 2*time.Hour, nil)
	_, err := r.Resolve(context.Background(), "not-a-date")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
