package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakcrest-health/kiosk/internal/api/router"
	"github.com/oakcrest-health/kiosk/internal/app/bootstrap"
	"github.com/oakcrest-health/kiosk/internal/appointments"
	appconfig "github.com/oakcrest-health/kiosk/internal/config"
	"github.com/oakcrest-health/kiosk/internal/dashboard"
	"github.com/oakcrest-health/kiosk/internal/drchrono"
	"github.com/oakcrest-health/kiosk/internal/observability/metrics"
	"github.com/oakcrest-health/kiosk/internal/patients"
	kiosksync "github.com/oakcrest-health/kiosk/internal/sync"
	"github.com/oakcrest-health/kiosk/pkg/logging"
)

func main() {
	// Load .env for local development; the environment wins in deployment.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting kiosk API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	storage, err := bootstrap.BuildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	apiClient, err := drchrono.New(drchrono.Config{
		BaseURL: cfg.DrchronoBaseURL,
		Tokens:  drchrono.NewStaticTokenProvider(cfg.DrchronoAccessToken),
		Timeout: cfg.DrchronoTimeout,
	})
	if err != nil {
		logger.Error("failed to initialize drchrono client", "error", err)
		os.Exit(1)
	}

	kioskMetrics := metrics.NewKioskMetrics(prometheus.DefaultRegisterer)

	var doctorCache *dashboard.DoctorCache
	if redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true); redisClient != nil {
		doctorCache = dashboard.NewDoctorCache(redisClient, cfg.DoctorCacheTTL)
	}

	patientService := patients.NewService(storage.Patients, logger)
	ingestor := appointments.NewIngestor(storage.Appointments, patientService, apiClient, logger)
	transitions := appointments.NewTransitionService(storage.Appointments, apiClient, logger)
	syncer := kiosksync.NewSyncer(apiClient, ingestor, kioskMetrics, cfg.DoctorID, logger)
	dashboardService := dashboard.NewService(storage.Appointments, patientService, apiClient, doctorCache, cfg.DoctorID, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		DashboardHandler:   dashboard.NewHandler(dashboardService, prometheus.DefaultGatherer, logger),
		AppointmentHandler: appointments.NewHandler(transitions, kioskMetrics, logger),
		SyncHandler:        kiosksync.NewHandler(syncer, logger),
		MetricsHandler:     promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
