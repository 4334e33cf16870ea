package repository

import (
	"context"
	"encoding/json"
	"time"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/platform/cache"
	"leadflow_backend/platform/logger"
)

const statusCacheKey = "leadflow:statuses:active"

// CachedStatusCatalog keeps the active status list in a shared cache.
// Cache failures fall through to the underlying catalog.
type CachedStatusCatalog struct {
	next  StatusCatalog
	cache cache.Cache
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedStatusCatalog(next StatusCatalog, c cache.Cache, ttl time.Duration, log *logger.Logger) *CachedStatusCatalog {
	return &CachedStatusCatalog{next: next, cache: c, ttl: ttl, log: log}
}

func (c *CachedStatusCatalog) ListStatusDefinitions(ctx context.Context) ([]domain.StatusDefinition, error) {
	raw, ok, err := c.cache.Get(ctx, statusCacheKey)
	if err != nil {
		c.log.Warn("status cache read failed", "error", err)
	}
	if ok {
		var defs []domain.StatusDefinition
		if err := json.Unmarshal(raw, &defs); err == nil {
			return defs, nil
		}
	}

	defs, err := c.next.ListStatusDefinitions(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(defs); err == nil {
		if err := c.cache.Set(ctx, statusCacheKey, payload, c.ttl); err != nil {
			c.log.Warn("status cache write failed", "error", err)
		}
	}
	return defs, nil
}

func (c *CachedStatusCatalog) UpsertStatusDefinitions(ctx context.Context, defs []domain.StatusDefinition) error {
	if err := c.next.UpsertStatusDefinitions(ctx, defs); err != nil {
		return err
	}
	return c.cache.Delete(ctx, statusCacheKey)
}

var _ StatusCatalog = (*CachedStatusCatalog)(nil)
