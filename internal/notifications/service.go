package notifications

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/caspianclinic/booking-platform/internal/appointments"
	"github.com/caspianclinic/booking-platform/internal/notify"
	"github.com/caspianclinic/booking-platform/pkg/logging"
)

// Service records notifications for appointment lifecycle events and,
// when an email sender is configured, mirrors them to the patient's inbox.
// It satisfies the appointments.Notifier interface.
type Service struct {
	repo   Repository
	email  notify.EmailSender
	logger *logging.Logger
	tracer trace.Tracer
}

// NewService creates a notification service. email may be nil.
func NewService(repo Repository, email notify.EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:   repo,
		email:  email,
		logger: logger,
		tracer: otel.Tracer("notifications.service"),
	}
}

// Create records an arbitrary notification, e.g. one authored by an admin.
func (s *Service) Create(ctx context.Context, req *CreateNotificationRequest) (*Notification, error) {
	ctx, span := s.tracer.Start(ctx, "notifications.Create")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	n, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("notification.id", n.ID))
	return n, nil
}

// ListByUser returns the newest notifications for one user.
func (s *Service) ListByUser(ctx context.Context, userEmail string, limit int) ([]*Notification, error) {
	if userEmail == "" {
		return nil, ErrMissingUser
	}
	return s.repo.ListByUser(ctx, userEmail, limit)
}

// UnreadCount returns how many unread notifications a user has.
func (s *Service) UnreadCount(ctx context.Context, userEmail string) (int64, error) {
	if userEmail == "" {
		return 0, ErrMissingUser
	}
	return s.repo.UnreadCount(ctx, userEmail)
}

// MarkRead flags a notification as read.
func (s *Service) MarkRead(ctx context.Context, id string) (*Notification, error) {
	return s.repo.MarkRead(ctx, id)
}

// AppointmentCreated records a booking-received notification for the patient.
func (s *Service) AppointmentCreated(ctx context.Context, appt *appointments.Appointment) error {
	ctx, span := s.tracer.Start(ctx, "notifications.AppointmentCreated")
	defer span.End()

	req := &CreateNotificationRequest{
		UserEmail: appt.Email,
		Title:     "Appointment request received",
		Message: fmt.Sprintf("Your %s appointment on %s at %s is pending confirmation.",
			appt.ServiceType, appt.Date, appt.Time),
		Type:          TypeInfo,
		Category:      "appointment",
		AppointmentID: appt.ID,
	}
	if _, err := s.repo.Create(ctx, req); err != nil {
		return fmt.Errorf("notifications: record created: %w", err)
	}

	s.sendEmail(ctx, appt.Email, appt.Name, req.Title, req.Message)
	return nil
}

// AppointmentStatusChanged records a status-transition notification.
func (s *Service) AppointmentStatusChanged(ctx context.Context, appt *appointments.Appointment, from appointments.Status) error {
	ctx, span := s.tracer.Start(ctx, "notifications.AppointmentStatusChanged")
	defer span.End()

	title, typ := statusCopy(appt.Status)
	req := &CreateNotificationRequest{
		UserEmail: appt.Email,
		Title:     title,
		Message: fmt.Sprintf("Your %s appointment on %s at %s is now %s.",
			appt.ServiceType, appt.Date, appt.Time, appt.Status),
		Type:          typ,
		Category:      "appointment",
		AppointmentID: appt.ID,
	}
	if _, err := s.repo.Create(ctx, req); err != nil {
		return fmt.Errorf("notifications: record status change: %w", err)
	}

	s.sendEmail(ctx, appt.Email, appt.Name, req.Title, req.Message)
	return nil
}

// sendEmail mirrors a notification to email. Delivery failures are logged,
// never surfaced: the in-app record is the source of truth.
func (s *Service) sendEmail(ctx context.Context, to, toName, subject, body string) {
	if s.email == nil {
		return
	}
	msg := notify.EmailMessage{To: to, ToName: toName, Subject: subject, Body: body}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Warn("notification email failed", "to", to, "subject", subject, "error", err)
	}
}

func statusCopy(to appointments.Status) (string, Type) {
	switch to {
	case appointments.StatusConfirmed:
		return "Appointment confirmed", TypeSuccess
	case appointments.StatusCancelled:
		return "Appointment cancelled", TypeWarning
	case appointments.StatusCompleted:
		return "Appointment completed", TypeSuccess
	default:
		return "Appointment updated", TypeInfo
	}
}

var _ appointments.Notifier = (*Service)(nil)
