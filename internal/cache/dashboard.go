package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/stockwise/internal/config"
	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/redis/go-redis/v9"
)

const dashboardSection = "dashboard"

// DashboardCache stores computed dashboard metrics between stock-changing events.
type DashboardCache interface {
	Get(ctx context.Context) (*domain.DashboardMetrics, bool, error)
	Set(ctx context.Context, metrics *domain.DashboardMetrics) error
	Invalidate(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

// NewDashboardCache returns a redis-backed cache when caching is enabled and a
// no-op cache otherwise.
func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisDashboardCache{client: client, ttl: ttl}, nil
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func metricsKey() string {
	return namespacedKey(dashboardSection, "metrics")
}

func (c *redisDashboardCache) Get(ctx context.Context) (*domain.DashboardMetrics, bool, error) {
	payload, err := c.client.Get(ctx, metricsKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var metrics domain.DashboardMetrics
	if err := json.Unmarshal(payload, &metrics); err != nil {
		return nil, false, fmt.Errorf("decode dashboard metrics cache: %w", err)
	}

	return &metrics, true, nil
}

func (c *redisDashboardCache) Set(ctx context.Context, metrics *domain.DashboardMetrics) error {
	payload, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("encode dashboard metrics cache: %w", err)
	}

	if err := c.client.Set(ctx, metricsKey(), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisDashboardCache) Invalidate(ctx context.Context) error {
	return invalidateSection(ctx, c.client, dashboardSection)
}

func (c *noopDashboardCache) Get(context.Context) (*domain.DashboardMetrics, bool, error) {
	return nil, false, nil
}

func (c *noopDashboardCache) Set(context.Context, *domain.DashboardMetrics) error {
	return nil
}

func (c *noopDashboardCache) Invalidate(context.Context) error {
	return nil
}
