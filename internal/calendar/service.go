package calendar

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/caspianclinic/booking-platform/internal/appointments"
	"github.com/caspianclinic/booking-platform/pkg/logging"
)

var calendarTracer = otel.Tracer("clinic.internal.calendar")

// AppointmentLister is the fallback source when the joined query fails.
type AppointmentLister interface {
	ListBetween(ctx context.Context, from, to string) ([]*appointments.Appointment, error)
}

// Service fetches the calendar grid, degrading to an appointment-derived
// view when the joined query is unavailable.
type Service struct {
	repo   Repository
	appts  AppointmentLister
	logger *logging.Logger
}

// NewService constructs a calendar service. repo may be nil, in which case
// every fetch uses the fallback.
func NewService(repo Repository, appts AppointmentLister, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, appts: appts, logger: logger}
}

// Fetch returns the grid for [start, end]. The primary source is the joined
// slot/appointment query; if it fails the grid is rebuilt from the plain
// appointment list so the admin view stays usable, just without free slots.
func (s *Service) Fetch(ctx context.Context, start, end string) ([]Entry, error) {
	ctx, span := calendarTracer.Start(ctx, "calendar.fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("clinic.range_start", start),
		attribute.String("clinic.range_end", end),
	)

	if s.repo != nil {
		entries, err := s.repo.ListRange(ctx, start, end)
		if err == nil {
			return entries, nil
		}
		span.RecordError(err)
		s.logger.Warn("calendar query failed, deriving from appointments", "error", err)
	}

	listed, err := s.appts.ListBetween(ctx, start, end)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	out := make([]Entry, 0, len(listed))
	for _, a := range listed {
		if a.Status == appointments.StatusCancelled {
			continue
		}
		out = append(out, Entry{
			Date:          a.Date,
			Time:          a.Time,
			Available:     false,
			Status:        string(a.Status),
			AppointmentID: a.ID,
			PatientName:   a.Name,
		})
	}
	return out, nil
}
