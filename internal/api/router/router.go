package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/oakcrest-health/kiosk/internal/appointments"
	"github.com/oakcrest-health/kiosk/internal/dashboard"
	httpmiddleware "github.com/oakcrest-health/kiosk/internal/http/middleware"
	"github.com/oakcrest-health/kiosk/internal/sync"
	"github.com/oakcrest-health/kiosk/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	DashboardHandler   *dashboard.Handler
	AppointmentHandler *appointments.Handler
	SyncHandler        *sync.Handler
	MetricsHandler     http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.DashboardHandler != nil {
		r.Get("/dashboard", cfg.DashboardHandler.GetDashboard)
	}
	if cfg.SyncHandler != nil {
		r.Post("/sync", cfg.SyncHandler.TriggerSync)
	}
	if cfg.AppointmentHandler != nil {
		r.Post("/appointments/{appointmentID}/status", cfg.AppointmentHandler.ChangeStatus)
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
