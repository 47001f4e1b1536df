// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/olegiv/shopnav/internal/model"
)

const navigationKeyPrefix = "nav:public:"

// NavigationLoader builds the storefront menu for one placement.
type NavigationLoader func(ctx context.Context, placement model.Placement) ([]model.PublicNode, error)

// NavigationCache serves rendered storefront menus per placement.
// Concurrent misses for the same placement share a single rebuild.
type NavigationCache struct {
	backend Cacher
	ttl     time.Duration
	logger  *slog.Logger
	group   singleflight.Group

	// generation is bumped by Invalidate so a rebuild that raced with a
	// mutation does not store a stale tree.
	generation atomic.Int64

	hits   atomic.Int64
	misses atomic.Int64
}

// NewNavigationCache wraps backend. A zero ttl uses the backend default.
func NewNavigationCache(backend Cacher, ttl time.Duration, logger *slog.Logger) *NavigationCache {
	return &NavigationCache{
		backend: backend,
		ttl:     ttl,
		logger:  logger,
	}
}

func navigationKey(p model.Placement) string {
	return navigationKeyPrefix + string(p)
}

// Get returns the menu for placement, calling load on a miss.
// Backend failures are logged and degrade to calling load directly.
func (c *NavigationCache) Get(ctx context.Context, placement model.Placement, load NavigationLoader) ([]model.PublicNode, error) {
	key := navigationKey(placement)

	if data, err := c.backend.Get(ctx, key); err == nil {
		var nodes []model.PublicNode
		if err := json.Unmarshal(data, &nodes); err == nil {
			c.hits.Add(1)
			return nodes, nil
		}
		c.logger.Warn("discarding undecodable navigation cache entry", "category", "cache", "key", key)
	} else if err != ErrCacheMiss {
		c.logger.Warn("navigation cache read failed", "category", "cache", "key", key, "error", err)
	}
	c.misses.Add(1)

	v, err, _ := c.group.Do(key, func() (any, error) {
		gen := c.generation.Load()
		nodes, err := load(ctx, placement)
		if err != nil {
			return nil, err
		}
		if gen == c.generation.Load() {
			c.store(ctx, key, nodes)
		}
		return nodes, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.PublicNode), nil
}

// Warm rebuilds and stores every placement.
func (c *NavigationCache) Warm(ctx context.Context, load NavigationLoader) error {
	for _, p := range model.Placements {
		nodes, err := load(ctx, p)
		if err != nil {
			return err
		}
		c.store(ctx, navigationKey(p), nodes)
	}
	return nil
}

func (c *NavigationCache) store(ctx context.Context, key string, nodes []model.PublicNode) {
	data, err := json.Marshal(nodes)
	if err != nil {
		c.logger.Warn("encoding navigation cache entry", "category", "cache", "key", key, "error", err)
		return
	}
	if err := c.backend.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("navigation cache write failed", "category", "cache", "key", key, "error", err)
	}
}

// Invalidate drops every cached placement.
func (c *NavigationCache) Invalidate(ctx context.Context) {
	c.generation.Add(1)
	if err := c.backend.DeleteByPrefix(ctx, navigationKeyPrefix); err != nil {
		c.logger.Warn("navigation cache invalidation failed", "category", "cache", "error", err)
	}
}

// Stats returns hit and miss counts of the navigation lookups.
func (c *NavigationCache) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	return Stats{Hits: hits, Misses: misses, HitRate: hitRate(hits, misses)}
}

// ResetStats zeroes the counters.
func (c *NavigationCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
}

var _ StatsProvider = (*NavigationCache)(nil)
