package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vistaluz/catalog-search/internal/domain"
)

// snapshotKey is the Redis key holding the last applied snapshot.
const snapshotKey = "catalog:snapshot"

// SnapshotCache persists the last applied snapshot in Redis so a
// restarting instance can warm up before the first live snapshot is
// delivered. It is strictly best-effort: cache failures are logged and
// otherwise ignored.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// cachedSnapshot is the stored envelope; SavedAt lets operators judge
// staleness when debugging.
type cachedSnapshot struct {
	SavedAt  time.Time        `json:"saved_at"`
	Products []domain.Product `json:"products"`
}

// NewSnapshotCache creates a snapshot cache and verifies connectivity.
func NewSnapshotCache(ctx context.Context, addr, password string, db int, ttl time.Duration, logger *slog.Logger) (*SnapshotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &SnapshotCache{client: client, ttl: ttl, logger: logger}, nil
}

// Save stores the snapshot, replacing any previous one.
func (c *SnapshotCache) Save(ctx context.Context, products []domain.Product) {
	data, err := json.Marshal(cachedSnapshot{
		SavedAt:  time.Now().UTC(),
		Products: products,
	})
	if err != nil {
		c.logger.WarnContext(ctx, "marshal snapshot for cache failed", slog.String("error", err.Error()))
		return
	}

	if err := c.client.Set(ctx, snapshotKey, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache snapshot write failed", slog.String("error", err.Error()))
	}
}

// Load returns the cached snapshot, or (nil, false) when none is stored
// or the stored value is unreadable.
func (c *SnapshotCache) Load(ctx context.Context) ([]domain.Product, bool) {
	data, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "cache snapshot read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	var cached cachedSnapshot
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.WarnContext(ctx, "cached snapshot is corrupt, ignoring", slog.String("error", err.Error()))
		return nil, false
	}

	return cached.Products, true
}

// Ping reports Redis connectivity, for readiness checks.
func (c *SnapshotCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying Redis connection.
func (c *SnapshotCache) Close() error {
	return c.client.Close()
}
