package notifications

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caspianclinic/booking-platform/pkg/logging"
)

// Handler exposes the notification feed over HTTP.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates a notifications handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ListResponse wraps a user's feed.
type ListResponse struct {
	Notifications []*Notification `json:"notifications"`
}

// List handles GET /api/notifications?user=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	out, err := h.svc.ListByUser(r.Context(), user, 50)
	if err != nil {
		h.writeServiceError(w, err, "list notifications")
		return
	}
	if out == nil {
		out = []*Notification{}
	}
	writeJSON(w, http.StatusOK, ListResponse{Notifications: out})
}

// UnreadCount handles GET /api/notifications/unread?user=
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	count, err := h.svc.UnreadCount(r.Context(), user)
	if err != nil {
		h.writeServiceError(w, err, "unread count")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

// MarkRead handles POST /api/notifications/{id}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n, err := h.svc.MarkRead(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "mark read")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Create handles POST /api/admin/notifications
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	n, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err, "create notification")
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrMissingUser), errors.Is(err, ErrMissingTitle), errors.Is(err, ErrInvalidType):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "notification not found")
	default:
		h.logger.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
