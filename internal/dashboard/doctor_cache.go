package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oakcrest-health/kiosk/internal/drchrono"
)

const doctorKey = "kiosk:doctor:profile"

// DoctorCache keeps the practice's doctor profile in Redis so the dashboard
// does not hit the scheduling API on every render.
type DoctorCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewDoctorCache(client *redis.Client, ttl time.Duration) *DoctorCache {
	if client == nil {
		panic("dashboard: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &DoctorCache{redis: client, ttl: ttl}
}

// Get returns the cached doctor, or nil on a cache miss.
func (c *DoctorCache) Get(ctx context.Context) (*drchrono.DoctorRecord, error) {
	data, err := c.redis.Get(ctx, doctorKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("dashboard: failed to load doctor profile: %w", err)
	}

	var doc drchrono.DoctorRecord
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("dashboard: failed to decode doctor profile: %w", err)
	}
	return &doc, nil
}

// Set stores the doctor profile with the cache's TTL.
func (c *DoctorCache) Set(ctx context.Context, doc *drchrono.DoctorRecord) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("dashboard: failed to marshal doctor profile: %w", err)
	}
	if err := c.redis.Set(ctx, doctorKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("dashboard: failed to persist doctor profile: %w", err)
	}
	return nil
}
