package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// drchrono API access
	DrchronoBaseURL     string
	DrchronoAccessToken string
	DrchronoTimeout     time.Duration

	// DoctorID selects whose schedule the kiosk displays. Empty means the
	// first doctor returned by the API (single-doctor practices).
	DoctorID string

	// DoctorCacheTTL bounds how long the cached doctor profile is served
	// before re-fetching from the API.
	DoctorCacheTTL time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		DrchronoBaseURL:     strings.TrimSuffix(getEnv("DRCHRONO_BASE_URL", "https://drchrono.com/api"), "/"),
		DrchronoAccessToken: getEnv("DRCHRONO_ACCESS_TOKEN", ""),
		DrchronoTimeout:     getEnvAsDuration("DRCHRONO_TIMEOUT", 30*time.Second),

		DoctorID: getEnv("DOCTOR_ID", ""),

		DoctorCacheTTL: getEnvAsDuration("DOCTOR_CACHE_TTL", 15*time.Minute),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
