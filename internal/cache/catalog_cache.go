package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CatalogCache holds the active service listing between catalog edits. Reads
// that miss (or fail) fall through to the database.
type CatalogCache interface {
	GetActiveServices(ctx context.Context) ([]domain.Service, bool)
	SetActiveServices(ctx context.Context, services []domain.Service)
	Invalidate(ctx context.Context)
}

const activeServicesKey = "catalog:active_services"

type redisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCatalogCache builds a Redis-backed catalog cache.
func NewRedisCatalogCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) CatalogCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisCatalogCache{client: client, ttl: ttl, logger: logger}
}

func (c *redisCatalogCache) GetActiveServices(ctx context.Context) ([]domain.Service, bool) {
	payload, err := c.client.Get(ctx, activeServicesKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("catalog cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var services []domain.Service
	if err := json.Unmarshal(payload, &services); err != nil {
		c.logger.Warn("catalog cache payload corrupt; dropping", zap.Error(err))
		c.Invalidate(ctx)
		return nil, false
	}
	return services, true
}

func (c *redisCatalogCache) SetActiveServices(ctx context.Context, services []domain.Service) {
	payload, err := json.Marshal(services)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, activeServicesKey, payload, c.ttl).Err(); err != nil {
		c.logger.Debug("catalog cache write failed", zap.Error(err))
	}
}

func (c *redisCatalogCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, activeServicesKey).Err(); err != nil {
		c.logger.Debug("catalog cache invalidate failed", zap.Error(err))
	}
}

type noopCatalogCache struct{}

// NewNoopCatalogCache is used when Redis is not configured.
func NewNoopCatalogCache() CatalogCache {
	return noopCatalogCache{}
}

func (noopCatalogCache) GetActiveServices(context.Context) ([]domain.Service, bool) { return nil, false }
func (noopCatalogCache) SetActiveServices(context.Context, []domain.Service)       {}
func (noopCatalogCache) Invalidate(context.Context)                                {}
