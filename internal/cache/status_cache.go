// Package cache keeps per-organization status catalogs in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hrumbles/candidate-pipeline/internal/domain"
	"github.com/hrumbles/candidate-pipeline/internal/pipeline"
	"github.com/hrumbles/candidate-pipeline/internal/repository"
)

const keyPrefix = "pipeline:statuses"

// StatusCache wraps a StatusRepository and caches ListStatuses results.
// Redis failures fall through to the delegate; each Redis round trip is
// bounded by opTimeout so a hung server cannot stall a lookup.
type StatusCache struct {
	delegate  repository.StatusRepository
	client    *redis.Client
	ttl       time.Duration
	opTimeout time.Duration
	logger    *zap.Logger
}

// NewStatusCache decorates delegate. A nil client disables caching and a
// non-positive opTimeout leaves Redis calls bound only by the caller's context.
func NewStatusCache(delegate repository.StatusRepository, client *redis.Client, ttl, opTimeout time.Duration, logger *zap.Logger) *StatusCache {
	return &StatusCache{delegate: delegate, client: client, ttl: ttl, opTimeout: opTimeout, logger: logger}
}

func (c *StatusCache) redisCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.opTimeout)
}

// Key returns the cache key of a scope.
func Key(scope domain.Scope) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, scope.OrganizationID, scope.Pipeline)
}

func (c *StatusCache) ListStatuses(ctx context.Context, scope domain.Scope) ([]domain.StatusDefinition, error) {
	if c.client == nil || c.ttl <= 0 {
		return c.delegate.ListStatuses(ctx, scope)
	}

	key := Key(scope)
	getCtx, cancel := c.redisCtx(ctx)
	raw, err := c.client.Get(getCtx, key).Bytes()
	cancel()
	switch {
	case err == nil:
		var defs []domain.StatusDefinition
		if err := json.Unmarshal(raw, &defs); err == nil {
			return defs, nil
		}
		c.logger.Warn("discarding undecodable status cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("status cache read failed", zap.String("key", key), zap.Error(err))
	}

	defs, err := c.delegate.ListStatuses(ctx, scope)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(defs); err == nil {
		setCtx, cancel := c.redisCtx(ctx)
		if err := c.client.Set(setCtx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("status cache write failed", zap.String("key", key), zap.Error(err))
		}
		cancel()
	}
	return defs, nil
}

func (c *StatusCache) GetByID(ctx context.Context, scope domain.Scope, id string) (*domain.StatusDefinition, error) {
	return c.delegate.GetByID(ctx, scope, id)
}

func (c *StatusCache) ListTransitionRules(ctx context.Context, scope domain.Scope) ([]pipeline.TransitionRule, error) {
	return c.delegate.ListTransitionRules(ctx, scope)
}

// Invalidate drops the cached catalog of a scope.
func (c *StatusCache) Invalidate(ctx context.Context, scope domain.Scope) error {
	if c.client == nil {
		return nil
	}
	delCtx, cancel := c.redisCtx(ctx)
	defer cancel()
	return c.client.Del(delCtx, Key(scope)).Err()
}
