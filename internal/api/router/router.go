// Package router assembles the HTTP surface of the booking platform.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/caspianclinic/booking-platform/internal/appointments"
	"github.com/caspianclinic/booking-platform/internal/auth"
	"github.com/caspianclinic/booking-platform/internal/calendar"
	httpmiddleware "github.com/caspianclinic/booking-platform/internal/http/middleware"
	"github.com/caspianclinic/booking-platform/internal/notifications"
	"github.com/caspianclinic/booking-platform/internal/slots"
	"github.com/caspianclinic/booking-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger               *logging.Logger
	AppointmentsHandler  *appointments.Handler
	SlotsHandler         *slots.Handler
	CalendarHandler      *calendar.Handler
	NotificationsHandler *notifications.Handler
	AuthHandler          *auth.Handler
	AuthService          httpmiddleware.SessionValidator
	MetricsHandler       http.Handler
	CORSAllowedOrigins   []string
	RateLimitPerSecond   float64
	RateLimitBurst       int
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitPerSecond > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	// Public endpoints.
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.AuthHandler != nil {
			public.Route("/api/auth", func(r chi.Router) {
				r.Post("/register", cfg.AuthHandler.Register)
				r.Post("/login", cfg.AuthHandler.Login)
				r.Post("/logout", cfg.AuthHandler.Logout)
				r.Get("/me", cfg.AuthHandler.Me)
			})
		}
		if cfg.AppointmentsHandler != nil {
			public.Post("/api/appointments", cfg.AppointmentsHandler.Create)
			public.Get("/api/appointments/search", cfg.AppointmentsHandler.Search)
		}
		if cfg.SlotsHandler != nil {
			public.Get("/api/slots", cfg.SlotsHandler.GetAvailableSlots)
			public.Get("/api/slots/legacy", cfg.SlotsHandler.GetAvailableSlotsLegacy)
		}
		if cfg.NotificationsHandler != nil {
			public.Route("/api/notifications", func(r chi.Router) {
				r.Get("/", cfg.NotificationsHandler.List)
				r.Get("/unread", cfg.NotificationsHandler.UnreadCount)
				r.Post("/{id}/read", cfg.NotificationsHandler.MarkRead)
			})
		}
	})

	// Admin routes behind session auth.
	if cfg.AuthService != nil {
		r.Route("/api/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.Authenticate(cfg.AuthService))
			admin.Use(httpmiddleware.RequireAdmin)

			if cfg.AppointmentsHandler != nil {
				admin.Get("/appointments", cfg.AppointmentsHandler.List)
				admin.Get("/appointments/{id}", cfg.AppointmentsHandler.Get)
				admin.Patch("/appointments/{id}/status", cfg.AppointmentsHandler.UpdateStatus)
				admin.Delete("/appointments/{id}", cfg.AppointmentsHandler.Delete)
				admin.Get("/stats", cfg.AppointmentsHandler.GetStats)
			}
			if cfg.CalendarHandler != nil {
				admin.Get("/calendar", cfg.CalendarHandler.Get)
			}
			if cfg.SlotsHandler != nil {
				admin.Post("/slots/generate", cfg.SlotsHandler.GenerateSlots)
			}
			if cfg.NotificationsHandler != nil {
				admin.Post("/notifications", cfg.NotificationsHandler.Create)
			}
		})
	}

	return r
}
