package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/oakcrest-health/kiosk/internal/appointments"
	appconfig "github.com/oakcrest-health/kiosk/internal/config"
	"github.com/oakcrest-health/kiosk/internal/patients"
	"github.com/oakcrest-health/kiosk/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// Storage bundles the repositories the kiosk runs on. Pool is nil when
// running on the in-memory fallback.
type Storage struct {
	Pool         *pgxpool.Pool
	Patients     patients.Repository
	Appointments appointments.Repository
}

// Close releases the database pool, if any.
func (s *Storage) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// BuildStorage connects to Postgres when DATABASE_URL is set, falling back
// to in-memory repositories for local development.
func BuildStorage(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*Storage, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		return &Storage{
			Patients:     patients.NewInMemoryRepository(),
			Appointments: appointments.NewInMemoryRepository(),
		}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: ping database: %w", err)
	}

	return &Storage{
		Pool:         pool,
		Patients:     patients.NewPostgresRepository(pool),
		Appointments: appointments.NewPostgresRepository(pool),
	}, nil
}
