package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oakcrest-health/kiosk/internal/observability/metrics"
	"github.com/oakcrest-health/kiosk/pkg/logging"
)

// Handler handles HTTP requests for appointment status changes
type Handler struct {
	transitions *TransitionService
	metrics     *metrics.KioskMetrics
	logger      *logging.Logger
}

// NewHandler creates a new appointments handler
func NewHandler(transitions *TransitionService, m *metrics.KioskMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		transitions: transitions,
		metrics:     m,
		logger:      logger,
	}
}

type statusChangeRequest struct {
	Status string `json:"status"`
}

type statusChangeResponse struct {
	ID int64 `json:"id"`
}

// ChangeStatus applies a staff-initiated status change.
// POST /appointments/{appointmentID}/status
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	idRaw := chi.URLParam(r, "appointmentID")
	id, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "valid appointment id required")
		return
	}

	var req statusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "valid appointment id and status required")
		return
	}

	apt, err := h.transitions.ApplyStatusChange(r.Context(), id, Status(req.Status), time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatusChange):
			h.metrics.ObserveStatusChange(req.Status, "rejected")
			writeError(w, http.StatusBadRequest, "status invalid")
		case errors.Is(err, ErrAppointmentNotFound):
			h.metrics.ObserveStatusChange(req.Status, "rejected")
			writeError(w, http.StatusNotFound, "appointment not found")
		default:
			h.metrics.ObserveStatusChange(req.Status, "failed")
			h.logger.Error("status change failed", "id", id, "status", req.Status, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.metrics.ObserveStatusChange(req.Status, "ok")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusChangeResponse{ID: apt.ID})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
