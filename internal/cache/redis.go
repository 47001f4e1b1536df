// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatch is the COUNT hint passed to SCAN when walking a key prefix.
const scanBatch = 200

// RedisCache is the shared Cacher used when several shopnav instances run
// behind one Redis. Every key is namespaced with prefix.
type RedisCache struct {
	rdb        *redis.Client
	prefix     string
	defaultTTL time.Duration
	closed     atomic.Bool

	hits, misses, sets atomic.Int64
}

// RedisCacheOptions configures NewRedisCache. Zero durations and sizes keep
// the go-redis defaults.
type RedisCacheOptions struct {
	URL            string // redis://[user:pass@]host:port/db
	Prefix         string
	DefaultTTL     time.Duration
	PoolSize       int
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// DefaultRedisCacheOptions returns the options used by NewRedisCacheFromURL.
func DefaultRedisCacheOptions() RedisCacheOptions {
	return RedisCacheOptions{
		Prefix:         "shopnav:",
		DefaultTTL:     time.Hour,
		PoolSize:       10,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    3 * time.Second,
		WriteTimeout:   3 * time.Second,
	}
}

// NewRedisCache connects to Redis and verifies the connection with PING.
func NewRedisCache(opts RedisCacheOptions) (*RedisCache, error) {
	if opts.URL == "" {
		return nil, errors.New("cache: redis URL is required")
	}
	ro, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("cache: parse redis URL: %w", err)
	}
	setIfPositive(&ro.PoolSize, opts.PoolSize)
	setIfPositive(&ro.DialTimeout, opts.ConnectTimeout)
	setIfPositive(&ro.ReadTimeout, opts.ReadTimeout)
	setIfPositive(&ro.WriteTimeout, opts.WriteTimeout)

	rdb := redis.NewClient(ro)

	pingTimeout := ro.DialTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}

	return &RedisCache{rdb: rdb, prefix: opts.Prefix, defaultTTL: opts.DefaultTTL}, nil
}

// NewRedisCacheFromURL is NewRedisCache with default options. An empty prefix
// or a zero TTL keeps the default.
func NewRedisCacheFromURL(url, prefix string, defaultTTL time.Duration) (*RedisCache, error) {
	opts := DefaultRedisCacheOptions()
	opts.URL = url
	if prefix != "" {
		opts.Prefix = prefix
	}
	setIfPositive(&opts.DefaultTTL, defaultTTL)
	return NewRedisCache(opts)
}

func setIfPositive[T int | time.Duration](dst *T, v T) {
	if v > 0 {
		*dst = v
	}
}

func (c *RedisCache) key(k string) string { return c.prefix + k }

func (c *RedisCache) open() error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return nil
}

// Get returns the value under key or ErrCacheMiss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := c.open(); err != nil {
		return nil, err
	}
	b, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.misses.Add(1)
		return nil, ErrCacheMiss
	case err != nil:
		return nil, err
	}
	c.hits.Add(1)
	return b, nil
}

// Set stores value with ttl, or the default TTL when ttl is zero.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.open(); err != nil {
		return err
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	if err := c.rdb.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return err
	}
	c.sets.Add(1)
	return nil
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.open(); err != nil {
		return err
	}
	return c.rdb.Del(ctx, c.key(key)).Err()
}

// DeleteByPrefix removes every key under prefix, relative to the cache prefix.
func (c *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	if err := c.open(); err != nil {
		return err
	}
	return c.unlinkMatching(ctx, c.key(prefix))
}

// Clear removes every key in this cache's namespace.
func (c *RedisCache) Clear(ctx context.Context) error {
	if err := c.open(); err != nil {
		return err
	}
	return c.unlinkMatching(ctx, c.prefix)
}

// unlinkMatching walks the keyspace with SCAN, never KEYS, and unlinks
// matches in batches.
func (c *RedisCache) unlinkMatching(ctx context.Context, prefix string) error {
	batch := make([]string, 0, scanBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := c.rdb.Unlink(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}

	it := c.rdb.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()
	for it.Next(ctx) {
		batch = append(batch, it.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := it.Err(); err != nil {
		return err
	}
	return flush()
}

func (c *RedisCache) countMatching(ctx context.Context, prefix string) int {
	n := 0
	it := c.rdb.Scan(ctx, 0, prefix+"*", 1000).Iterator()
	for it.Next(ctx) {
		n++
	}
	return n
}

// Has reports whether key exists.
func (c *RedisCache) Has(ctx context.Context, key string) (bool, error) {
	if err := c.open(); err != nil {
		return false, err
	}
	n, err := c.rdb.Exists(ctx, c.key(key)).Result()
	return n > 0, err
}

// Ping checks the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.open(); err != nil {
		return err
	}
	return c.rdb.Ping(ctx).Err()
}

// Close releases the connection pool. It is safe to call more than once.
func (c *RedisCache) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.rdb.Close()
}

// Stats reports this process's hit and miss counters. Items is a SCAN count
// of the namespace, so it is approximate and includes other instances' keys.
func (c *RedisCache) Stats() Stats {
	st := Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Sets:   c.sets.Load(),
	}
	st.HitRate = hitRate(st.Hits, st.Misses)
	if c.open() == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		st.Items = c.countMatching(ctx, c.prefix)
	}
	return st
}

// ResetStats zeroes the local counters.
func (c *RedisCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
}

var (
	_ Cacher        = (*RedisCache)(nil)
	_ StatsProvider = (*RedisCache)(nil)
)
