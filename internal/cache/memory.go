// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryCache is the single-process Cacher. Values are copied on the way in
// and out so callers can never alias cached bytes.
type MemoryCache struct {
	mu         sync.Mutex
	items      map[string]memoryItem
	bytes      int64
	defaultTTL time.Duration
	maxSize    int // 0 = unlimited
	closed     bool
	stop       chan struct{}

	hits, misses, sets int64
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

func (it memoryItem) expired(now time.Time) bool {
	return now.After(it.expiresAt)
}

// MemoryCacheOptions configures the memory cache.
type MemoryCacheOptions struct {
	DefaultTTL      time.Duration
	MaxSize         int           // Maximum number of entries (0 = unlimited)
	CleanupInterval time.Duration // Interval for expired entry cleanup (0 = no cleanup)
}

// NewMemoryCache creates a memory cache. A positive CleanupInterval starts a
// sweeper goroutine that Close stops.
func NewMemoryCache(opts MemoryCacheOptions) *MemoryCache {
	c := &MemoryCache{
		items:      make(map[string]memoryItem),
		defaultTTL: opts.DefaultTTL,
		maxSize:    opts.MaxSize,
		stop:       make(chan struct{}),
	}
	if opts.CleanupInterval > 0 {
		go c.sweep(opts.CleanupInterval)
	}
	return c
}

// NewSimpleMemoryCache creates an unbounded memory cache with just a TTL.
func NewSimpleMemoryCache(ttl time.Duration) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{DefaultTTL: ttl, CleanupInterval: time.Minute})
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Get returns a copy of the value under key.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrCacheClosed
	}

	it, ok := c.items[key]
	if ok && it.expired(time.Now()) {
		c.removeLocked(key)
		ok = false
	}
	if !ok {
		c.misses++
		return nil, ErrCacheMiss
	}
	c.hits++
	return cloneBytes(it.value), nil
}

// Set stores value under key. A zero ttl uses the default. When the cache is
// full and key is new, the entry closest to expiry makes room.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}

	if _, exists := c.items[key]; !exists && c.maxSize > 0 && len(c.items) >= c.maxSize {
		c.purgeExpiredLocked(time.Now())
		if len(c.items) >= c.maxSize {
			c.evictSoonestLocked()
		}
	}

	c.removeLocked(key)
	c.items[key] = memoryItem{value: cloneBytes(value), expiresAt: time.Now().Add(ttl)}
	c.bytes += int64(len(value))
	c.sets++
	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}
	c.removeLocked(key)
	return nil
}

// DeleteByPrefix removes every key starting with prefix.
func (c *MemoryCache) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			c.removeLocked(key)
		}
	}
	return nil
}

// Clear empties the cache.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}
	c.items = make(map[string]memoryItem)
	c.bytes = 0
	return nil
}

// Has reports whether key holds an unexpired value. It does not count as a
// hit or miss.
func (c *MemoryCache) Has(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, ErrCacheClosed
	}
	it, ok := c.items[key]
	if ok && it.expired(time.Now()) {
		c.removeLocked(key)
		return false, nil
	}
	return ok, nil
}

// Close stops the sweeper. Further calls fail with ErrCacheClosed.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.stop)
	}
	return nil
}

// Stats returns current cache statistics.
func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:    c.hits,
		Misses:  c.misses,
		Sets:    c.sets,
		Items:   len(c.items),
		HitRate: hitRate(c.hits, c.misses),
		Size:    c.bytes,
	}
}

// ResetStats zeroes the counters.
func (c *MemoryCache) ResetStats() {
	c.mu.Lock()
	c.hits, c.misses, c.sets = 0, 0, 0
	c.mu.Unlock()
}

func (c *MemoryCache) removeLocked(key string) {
	if it, ok := c.items[key]; ok {
		c.bytes -= int64(len(it.value))
		delete(c.items, key)
	}
}

func (c *MemoryCache) purgeExpiredLocked(now time.Time) {
	for key, it := range c.items {
		if it.expired(now) {
			c.removeLocked(key)
		}
	}
}

func (c *MemoryCache) evictSoonestLocked() {
	var (
		victim  string
		soonest time.Time
		found   bool
	)
	for key, it := range c.items {
		if !found || it.expiresAt.Before(soonest) {
			victim, soonest, found = key, it.expiresAt, true
		}
	}
	if found {
		c.removeLocked(victim)
	}
}

func (c *MemoryCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.purgeExpiredLocked(time.Now())
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

var (
	_ Cacher        = (*MemoryCache)(nil)
	_ StatsProvider = (*MemoryCache)(nil)
)
