package appointments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/caspianclinic/booking-platform/internal/slots"
	"github.com/caspianclinic/booking-platform/pkg/logging"
)

// Handler handles HTTP requests for appointments.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates an appointments handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// Create handles POST /api/appointments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appt, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err, "failed to create appointment")
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

// Get handles GET /api/admin/appointments/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	appt, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "failed to load appointment")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// UpdateStatusRequest is the body for a status transition.
type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

// UpdateStatus handles PATCH /api/admin/appointments/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appt, err := h.svc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeServiceError(w, err, "failed to update status")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// Delete handles DELETE /api/admin/appointments/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err, "failed to delete appointment")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Appointments []*Appointment `json:"appointments"`
	Count        int            `json:"count"`
}

// Search handles GET /api/appointments/search?name=&phone=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	phone := r.URL.Query().Get("phone")
	if name == "" || phone == "" {
		writeError(w, http.StatusBadRequest, "name and phone are required")
		return
	}

	found, err := h.svc.Search(r.Context(), name, phone)
	if err != nil {
		h.logger.Error("appointment search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if found == nil {
		found = []*Appointment{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Appointments: found, Count: len(found)})
}

// GetStats handles GET /api/admin/appointments/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.logger.Error("appointment stats failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ListResponse wraps a date-ranged appointment listing.
type ListResponse struct {
	Appointments []*Appointment `json:"appointments"`
	Count        int            `json:"count"`
}

// List handles GET /api/admin/appointments?from=&to=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if !slots.ValidDate(from) || !slots.ValidDate(to) {
		writeError(w, http.StatusBadRequest, "from and to are required, use YYYY-MM-DD")
		return
	}

	listed, err := h.svc.ListBetween(r.Context(), from, to)
	if err != nil {
		h.logger.Error("appointment list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if listed == nil {
		listed = []*Appointment{}
	}
	writeJSON(w, http.StatusOK, ListResponse{Appointments: listed, Count: len(listed)})
}

// writeServiceError maps domain errors onto HTTP status codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeError(w, http.StatusBadRequest, verrs.Error())
	case errors.Is(err, ErrInvalidTime), errors.Is(err, ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrSlotTaken):
		writeError(w, http.StatusConflict, ErrSlotTaken.Error())
	case errors.Is(err, ErrIllegalTransition), errors.Is(err, ErrStaleStatus):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error(fallback, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
