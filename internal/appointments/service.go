package appointments

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/caspianclinic/booking-platform/internal/observability/metrics"
	"github.com/caspianclinic/booking-platform/pkg/logging"
)

var appointmentsTracer = otel.Tracer("clinic.internal.appointments")

// Notifier receives appointment lifecycle events. Failures are logged and
// never fail the triggering operation.
type Notifier interface {
	AppointmentCreated(ctx context.Context, appt *Appointment) error
	AppointmentStatusChanged(ctx context.Context, appt *Appointment, from Status) error
}

// Service owns appointment business rules on top of the repository.
type Service struct {
	repo     Repository
	notifier Notifier
	logger   *logging.Logger
	metrics  *metrics.BookingMetrics
}

// NewService constructs an appointments service. notifier and m may be nil.
func NewService(repo Repository, notifier Notifier, logger *logging.Logger, m *metrics.BookingMetrics) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, notifier: notifier, logger: logger, metrics: m}
}

// Create books a new appointment with status pending.
func (s *Service) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("clinic.slot_date", req.Date),
		attribute.String("clinic.service_type", req.ServiceType),
	)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	appt, err := s.repo.Create(ctx, req)
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			s.metrics.ObserveBookingConflict()
		}
		span.RecordError(err)
		return nil, err
	}

	s.metrics.ObserveAppointmentCreated(appt.ServiceType)
	s.logger.Info("appointment created",
		"id", appt.ID, "date", appt.Date, "time", appt.Time, "service_type", appt.ServiceType)

	if s.notifier != nil {
		if err := s.notifier.AppointmentCreated(ctx, appt); err != nil {
			s.logger.Warn("create notification failed", "id", appt.ID, "error", err)
		}
	}
	return appt, nil
}

// GetByID fetches one appointment.
func (s *Service) GetByID(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus applies a guarded status transition. The condition travels
// into the UPDATE itself, so two racing admin actions cannot interleave into
// an illegal state; the loser gets ErrStaleStatus or ErrNotFound and
// reconciles against server truth.
func (s *Service) UpdateStatus(ctx context.Context, id string, to Status) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.update_status")
	defer span.End()
	span.SetAttributes(
		attribute.String("clinic.appointment_id", id),
		attribute.String("clinic.target_status", string(to)),
	)

	if !to.Valid() {
		return nil, ErrInvalidStatus
	}
	sources := TransitionSources(to)
	if len(sources) == 0 {
		return nil, ErrIllegalTransition
	}

	// Existence check first so "already deleted" and "illegal transition"
	// surface as different failures.
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !CanTransition(current.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current.Status, to)
	}

	appt, err := s.repo.UpdateStatus(ctx, id, to, sources)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.metrics.ObserveStatusTransition(string(current.Status), string(to))
	s.logger.Info("appointment status changed", "id", id, "from", current.Status, "to", to)

	if s.notifier != nil {
		if err := s.notifier.AppointmentStatusChanged(ctx, appt, current.Status); err != nil {
			s.logger.Warn("status notification failed", "id", id, "error", err)
		}
	}
	return appt, nil
}

// Delete removes an appointment. ErrNotFound propagates so the transport
// layer can present it as a benign already-deleted outcome.
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.delete")
	defer span.End()
	span.SetAttributes(attribute.String("clinic.appointment_id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
		}
		return err
	}
	s.logger.Info("appointment deleted", "id", id)
	return nil
}

// Search finds a patient's appointments by partial name and phone.
func (s *Service) Search(ctx context.Context, name, phone string) ([]*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.search")
	defer span.End()
	return s.repo.Search(ctx, name, phone)
}

// Stats aggregates appointment counts by status.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

// ListBetween returns appointments within a date range.
func (s *Service) ListBetween(ctx context.Context, from, to string) ([]*Appointment, error) {
	return s.repo.ListBetween(ctx, from, to)
}
