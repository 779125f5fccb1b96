package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/domain"
)

const generationKey = "leads:gen"

// QueryKey identifies one cached lead listing. Day pins period buckets to the
// local calendar date so that a cached "today" never outlives its day.
type QueryKey struct {
	Period domain.Period
	Limit  int
	Day    string
}

// LeadCache caches lead listings in Redis. Every insert bumps a generation
// counter, so entries written before the insert are never read again.
// A nil *LeadCache is a valid, disabled cache.
type LeadCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewLeadCache returns nil when client is nil.
func NewLeadCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *LeadCache {
	if client == nil {
		return nil
	}
	return &LeadCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached listing for key. Redis failures count as a miss.
func (c *LeadCache) Get(ctx context.Context, key QueryKey) ([]domain.Lead, bool) {
	if c == nil {
		return nil, false
	}
	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.Debug("lead cache generation lookup failed", zap.Error(err))
		return nil, false
	}
	raw, err := c.client.Get(ctx, entryKey(gen, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Debug("lead cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var leads []domain.Lead
	if err := json.Unmarshal(raw, &leads); err != nil {
		c.logger.Warn("lead cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return leads, true
}

// Set stores a listing under the current generation.
func (c *LeadCache) Set(ctx context.Context, key QueryKey, leads []domain.Lead) {
	if c == nil {
		return
	}
	gen, err := c.generation(ctx)
	if err != nil {
		return
	}
	raw, err := json.Marshal(leads)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, entryKey(gen, key), raw, c.ttl).Err(); err != nil {
		c.logger.Debug("lead cache write failed", zap.Error(err))
	}
}

// Invalidate retires every cached listing.
func (c *LeadCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.logger.Warn("lead cache invalidation failed", zap.Error(err))
	}
}

func (c *LeadCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func entryKey(gen int64, key QueryKey) string {
	return fmt.Sprintf("leads:q:%d:%s:%d:%s", gen, key.Period, key.Limit, key.Day)
}
