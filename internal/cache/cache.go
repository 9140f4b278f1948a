// Package cache provides a read-through query result cache. Identical
// concurrent misses are collapsed so only one search runs per key.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gcbaptista/go-retrieval-engine/internal/logger"
	"github.com/gcbaptista/go-retrieval-engine/internal/metrics"
	"github.com/gcbaptista/go-retrieval-engine/services"
)

const keyPrefix = "search:"

// QueryCache caches paged search responses. A QueryCache without a Store is
// disabled and always computes.
type QueryCache struct {
	store   Store
	ttl     time.Duration
	group   singleflight.Group
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a QueryCache over store. store may be nil.
func New(store Store, ttl time.Duration, m *metrics.Metrics) *QueryCache {
	return &QueryCache{
		store:   store,
		ttl:     ttl,
		logger:  logger.WithComponent("query-cache"),
		metrics: m,
	}
}

// Enabled reports whether a backing store is configured.
func (c *QueryCache) Enabled() bool {
	return c != nil && c.store != nil
}

// Key identifies one paged search against one corpus generation.
type Key struct {
	Generation string
	Model      string
	Page       int
	PageSize   int
	Spelling   bool
	Query      string
}

// String hashes the key. The query is hashed verbatim because responses echo it
// back in their spelling diagnostics.
func (k Key) String() string {
	raw := fmt.Sprintf("%s|%s|page=%d|size=%d|spelling=%t|%s",
		k.Generation, strings.ToLower(k.Model), k.Page, k.PageSize, k.Spelling, k.Query)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}

// Get looks up key. Store and decoding failures count as misses.
func (c *QueryCache) Get(ctx context.Context, key string) (services.PagedResponse, bool) {
	if !c.Enabled() {
		return services.PagedResponse{}, false
	}
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.metrics.ObserveCache(false)
		return services.PagedResponse{}, false
	}
	var response services.PagedResponse
	if err := json.Unmarshal(data, &response); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.metrics.ObserveCache(false)
		return services.PagedResponse{}, false
	}
	c.metrics.ObserveCache(true)
	c.logger.Debug("cache hit", "key", key)
	return response, true
}

// Set stores response under key. Failures are logged, not returned.
func (c *QueryCache) Set(ctx context.Context, key string, response services.PagedResponse) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(response)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached response for key or runs compute and caches
// its result. The boolean reports a cache hit. Errors from compute are not cached.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	key string,
	compute func() (services.PagedResponse, error),
) (services.PagedResponse, bool, error) {
	if !c.Enabled() {
		response, err := compute()
		return response, false, err
	}
	if response, ok := c.Get(ctx, key); ok {
		return response, true, nil
	}

	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		response, err := compute()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, key, response)
		return response, nil
	})
	if err != nil {
		return services.PagedResponse{}, false, err
	}
	return val.(services.PagedResponse), false, nil
}

// Invalidate drops every cached search response.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	deleted, err := c.store.DeleteByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}
