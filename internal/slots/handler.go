package slots

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/caspianclinic/booking-platform/pkg/logging"
)

// Handler handles HTTP requests for slot availability.
type Handler struct {
	resolver  *Resolver
	legacy    *Resolver
	generator *Generator
	logger    *logging.Logger
}

// NewHandler creates a slots handler. legacy serves the rule-derived
// fallback endpoint older clients still call; it may equal resolver.
func NewHandler(resolver, legacy *Resolver, generator *Generator, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if legacy == nil {
		legacy = resolver
	}
	return &Handler{resolver: resolver, legacy: legacy, generator: generator, logger: logger}
}

// SlotsResponse is the payload for slot availability endpoints.
type SlotsResponse struct {
	Date  string         `json:"date"`
	Slots []ResolvedSlot `json:"slots"`
}

// GetAvailableSlots handles GET /api/slots?date=YYYY-MM-DD
func (h *Handler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.resolver)
}

// GetAvailableSlotsLegacy handles GET /api/slots/legacy?date=YYYY-MM-DD
func (h *Handler) GetAvailableSlotsLegacy(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.legacy)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, resolver *Resolver) {
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, `{"error": "date is required"}`, http.StatusBadRequest)
		return
	}

	resolved, err := resolver.Resolve(r.Context(), date)
	switch {
	case errors.Is(err, ErrInvalidDate):
		http.Error(w, `{"error": "invalid date, use YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error("slot resolution failed", "date", date, "error", err)
		http.Error(w, `{"error": "slot availability unavailable"}`, http.StatusBadGateway)
		return
	}

	if resolved == nil {
		resolved = []ResolvedSlot{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(SlotsResponse{Date: date, Slots: resolved})
}

// GenerateRequest is the payload for the admin slot generation endpoint.
type GenerateRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GenerateResponse reports how many slots a generation run inserted.
type GenerateResponse struct {
	Inserted int `json:"inserted"`
}

// GenerateSlots handles POST /api/admin/slots/generate
func (h *Handler) GenerateSlots(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		http.Error(w, `{"error": "slot generation disabled"}`, http.StatusNotImplemented)
		return
	}
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	inserted, err := h.generator.Generate(r.Context(), req.From, req.To)
	switch {
	case errors.Is(err, ErrInvalidDate):
		http.Error(w, `{"error": "invalid date range, use YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error("slot generation failed", "from", req.From, "to", req.To, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(GenerateResponse{Inserted: inserted})
}
