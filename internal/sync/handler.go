package sync

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/oakcrest-health/kiosk/pkg/logging"
)

// Handler triggers a sync of today's schedule on demand. The kiosk front end
// calls this on load; there is no background scheduler.
type Handler struct {
	syncer *Syncer
	logger *logging.Logger
}

func NewHandler(syncer *Syncer, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		syncer: syncer,
		logger: logger.Component("sync"),
	}
}

// TriggerSync pulls today's appointments from the scheduling API.
// POST /sync
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	res, err := h.syncer.SyncDay(r.Context(), time.Now().UTC())
	if err != nil {
		h.logger.Error("sync run failed", "error", err)
		http.Error(w, `{"error":"upstream fetch failed"}`, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}
