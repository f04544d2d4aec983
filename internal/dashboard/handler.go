package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oakcrest-health/kiosk/pkg/logging"
)

// Handler serves the assembled dashboard as JSON.
type Handler struct {
	svc      *Service
	gatherer prometheus.Gatherer
	logger   *logging.Logger
}

func NewHandler(svc *Service, gatherer prometheus.Gatherer, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handler{
		svc:      svc,
		gatherer: gatherer,
		logger:   logger.Component("dashboard"),
	}
}

// GetDashboard returns the kiosk view for the current moment.
// GET /dashboard
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Build(r.Context(), time.Now().UTC())
	if err != nil {
		h.logger.Error("failed to build dashboard", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	view.SyncLatency = snapshotSyncLatency(h.gatherer)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(view)
}
