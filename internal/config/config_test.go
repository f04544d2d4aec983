package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.DrchronoBaseURL != "https://drchrono.com/api" {
		t.Errorf("DrchronoBaseURL = %q", cfg.DrchronoBaseURL)
	}
	if cfg.DrchronoTimeout != 30*time.Second {
		t.Errorf("DrchronoTimeout = %v, want 30s", cfg.DrchronoTimeout)
	}
	if cfg.DoctorCacheTTL != 15*time.Minute {
		t.Errorf("DoctorCacheTTL = %v, want 15m", cfg.DoctorCacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DRCHRONO_BASE_URL", "https://sandbox.drchrono.com/api/")
	t.Setenv("DRCHRONO_TIMEOUT", "5s")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("DOCTOR_ID", "204312")

	cfg := Load()

	if cfg.Port != "9191" {
		t.Errorf("Port = %q, want 9191", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.DrchronoBaseURL != "https://sandbox.drchrono.com/api" {
		t.Errorf("DrchronoBaseURL = %q, trailing slash should be trimmed", cfg.DrchronoBaseURL)
	}
	if cfg.DrchronoTimeout != 5*time.Second {
		t.Errorf("DrchronoTimeout = %v, want 5s", cfg.DrchronoTimeout)
	}
	if !cfg.RedisTLS {
		t.Error("RedisTLS should be true")
	}
	if cfg.DoctorID != "204312" {
		t.Errorf("DoctorID = %q", cfg.DoctorID)
	}
}

func TestGetEnvAsDurationInvalid(t *testing.T) {
	t.Setenv("DRCHRONO_TIMEOUT", "not-a-duration")
	cfg := Load()
	if cfg.DrchronoTimeout != 30*time.Second {
		t.Errorf("invalid duration should fall back to default, got %v", cfg.DrchronoTimeout)
	}
}
