package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/garment-mes/scantrack-service/pkg/logging"
)

// keyPrefix namespaces guard keys so the service can share a Redis
// instance with other tenants.
const keyPrefix = "scantrack:dedup:"

// opTimeout bounds each Redis call; the guard must never stall a scan.
const opTimeout = 500 * time.Millisecond

// ScanGuard is the Redis-backed dedup guard, used when scan terminals hit
// more than one service replica. Expiry is handled by Redis key TTLs.
// The guard fails open: if Redis is unreachable, scans proceed and the
// duplicate window is lost until it returns.
type ScanGuard struct {
	client *redis.Client
	logger *logging.Logger
}

// Config holds the Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

func NewScanGuard(config *Config, logger *logging.Logger) *ScanGuard {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
	return &ScanGuard{client: client, logger: logger}
}

// IsDuplicate reports whether key is inside its suppression window.
func (g *ScanGuard) IsDuplicate(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	exists, err := g.client.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		g.logger.WithError(err).Warn("dedup guard lookup failed, allowing scan", "key", key)
		return false
	}
	return exists > 0
}

// MarkRecent records key for ttl.
func (g *ScanGuard) MarkRecent(key string, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := g.client.Set(ctx, keyPrefix+key, 1, ttl).Err(); err != nil {
		g.logger.WithError(err).Warn("dedup guard mark failed", "key", key)
	}
}

// HealthCheck pings Redis for the readiness probe.
func (g *ScanGuard) HealthCheck(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (g *ScanGuard) Close() error {
	return g.client.Close()
}
