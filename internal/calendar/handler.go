package calendar

import (
	"encoding/json"
	"net/http"

	"github.com/caspianclinic/booking-platform/internal/slots"
	"github.com/caspianclinic/booking-platform/pkg/logging"
)

// Handler serves the admin calendar grid.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates a calendar handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Response is the calendar payload.
type Response struct {
	Start   string  `json:"start"`
	End     string  `json:"end"`
	Entries []Entry `json:"entries"`
}

// Get handles GET /api/admin/calendar?start=&end=
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if !slots.ValidDate(start) || !slots.ValidDate(end) || end < start {
		http.Error(w, `{"error": "start and end are required, use YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}

	entries, err := h.svc.Fetch(r.Context(), start, end)
	if err != nil {
		h.logger.Error("calendar fetch failed", "start", start, "end", end, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Response{Start: start, End: end, Entries: entries})
}
