// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/olegiv/shopnav/internal/model"
)

func newTestNavigationCache() (*NavigationCache, *MemoryCache) {
	backend := newTestMemoryCache(0)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewNavigationCache(backend, time.Minute, logger), backend
}

func countingLoader(calls *atomic.Int64) NavigationLoader {
	return func(_ context.Context, p model.Placement) ([]model.PublicNode, error) {
		calls.Add(1)
		return []model.PublicNode{{ID: string(p), Name: "Protein", Children: []model.PublicNode{}}}, nil
	}
}

func TestNavigationCache_HitAfterMiss(t *testing.T) {
	nc, backend := newTestNavigationCache()
	defer func() { _ = backend.Close() }()
	ctx := context.Background()

	var calls atomic.Int64
	load := countingLoader(&calls)

	for i := 0; i < 3; i++ {
		nodes, err := nc.Get(ctx, model.PlacementHeader, load)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if len(nodes) != 1 || nodes[0].ID != "header" {
			t.Fatalf("nodes = %+v", nodes)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("loader called %d times, want 1", calls.Load())
	}
	if s := nc.Stats(); s.Hits != 2 || s.Misses != 1 {
		t.Errorf("stats = %+v, want 2 hits 1 miss", s)
	}
}

func TestNavigationCache_PlacementsAreSeparate(t *testing.T) {
	nc, backend := newTestNavigationCache()
	defer func() { _ = backend.Close() }()
	ctx := context.Background()

	var calls atomic.Int64
	load := countingLoader(&calls)
	_, _ = nc.Get(ctx, model.PlacementHeader, load)
	footer, _ := nc.Get(ctx, model.PlacementFooter, load)

	if footer[0].ID != "footer" {
		t.Errorf("footer served %q", footer[0].ID)
	}
	if calls.Load() != 2 {
		t.Errorf("loader called %d times, want 2", calls.Load())
	}
}

func TestNavigationCache_Invalidate(t *testing.T) {
	nc, backend := newTestNavigationCache()
	defer func() { _ = backend.Close() }()
	ctx := context.Background()

	var calls atomic.Int64
	load := countingLoader(&calls)
	if err := nc.Warm(ctx, load); err != nil {
		t.Fatalf("Warm: %v", err)
	}
	if calls.Load() != int64(len(model.Placements)) {
		t.Fatalf("Warm called loader %d times", calls.Load())
	}

	nc.Invalidate(ctx)
	_, _ = nc.Get(ctx, model.PlacementMobile, load)
	if calls.Load() != int64(len(model.Placements))+1 {
		t.Errorf("Get after Invalidate should reload, calls = %d", calls.Load())
	}
}

func TestNavigationCache_LoaderError(t *testing.T) {
	nc, backend := newTestNavigationCache()
	defer func() { _ = backend.Close() }()

	boom := errors.New("boom")
	_, err := nc.Get(context.Background(), model.PlacementHeader, func(context.Context, model.Placement) ([]model.PublicNode, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if has, _ := backend.Has(context.Background(), navigationKey(model.PlacementHeader)); has {
		t.Error("failed load must not be cached")
	}
}

func TestNavigationCache_ConcurrentMissesShareLoad(t *testing.T) {
	nc, backend := newTestNavigationCache()
	defer func() { _ = backend.Close() }()
	ctx := context.Background()

	var calls atomic.Int64
	release := make(chan struct{})
	load := func(_ context.Context, p model.Placement) ([]model.PublicNode, error) {
		calls.Add(1)
		<-release
		return []model.PublicNode{{ID: string(p)}}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = nc.Get(ctx, model.PlacementHeader, load)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	// Late goroutines may miss the shared call and hit the stored entry instead.
	if calls.Load() < 1 || calls.Load() > 2 {
		t.Errorf("loader called %d times, want the calls to be shared", calls.Load())
	}
}

func TestNavigationCache_StaleRebuildNotStored(t *testing.T) {
	nc, backend := newTestNavigationCache()
	defer func() { _ = backend.Close() }()
	ctx := context.Background()

	load := func(ctx context.Context, p model.Placement) ([]model.PublicNode, error) {
		nc.Invalidate(ctx) // a mutation lands while the tree is being built
		return []model.PublicNode{{ID: "stale"}}, nil
	}
	if _, err := nc.Get(ctx, model.PlacementHeader, load); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if has, _ := backend.Has(ctx, navigationKey(model.PlacementHeader)); has {
		t.Error("a rebuild that raced with Invalidate must not be stored")
	}
}
