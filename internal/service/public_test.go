// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/shopnav/internal/cache"
	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/testutil"
	"github.com/olegiv/shopnav/internal/util"
)

func publicNames(nodes []model.PublicNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestPublicTree_Placement(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	protein := mustCreate(t, s, "Protein", nil)
	mustCreate(t, s, "Whey", protein)
	_, err := s.Create(ctx, CreateInput{Name: "Contact", Href: "/contact", ShowInHeader: boolPtr(false), ShowInFooter: boolPtr(true)})
	require.NoError(t, err)

	header, err := s.PublicTree(ctx, model.PlacementHeader)
	require.NoError(t, err)
	assert.Equal(t, []string{"Protein"}, publicNames(header))
	assert.Equal(t, []string{"Whey"}, publicNames(header[0].Children))

	footer, err := s.PublicTree(ctx, model.PlacementFooter)
	require.NoError(t, err)
	assert.Equal(t, []string{"Contact"}, publicNames(footer))
}

func TestPublicTree_EffectiveVisibility(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	protein := mustCreate(t, s, "Protein", nil)
	whey := mustCreate(t, s, "Whey", protein)
	mustCreate(t, s, "Isolate", whey)
	mustCreate(t, s, "Casein", protein)

	_, err := s.ToggleActive(ctx, whey.ID)
	require.NoError(t, err)

	tree, err := s.PublicTree(ctx, model.PlacementHeader)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, []string{"Casein"}, publicNames(tree[0].Children))
}

func TestPublicTree_Rendering(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	s.SetCatalog(&fakeCatalog{products: map[string]model.ProductSummary{
		"p-1": {ID: "p-1", Title: "Gold Whey", Handle: "gold-whey", Price: 49.9},
		"p-2": {ID: "p-2", Title: "Iso Whey", Handle: "iso-whey", Price: 59.9},
	}})

	_, err := s.Create(ctx, CreateInput{
		Name:             "Protein",
		Href:             "/protein",
		Type:             model.TypeMegamenu,
		Description:      "**Premium** protein <script>alert(1)</script>",
		Image:            &model.Image{Src: "/p.png", Alt: "Protein"},
		FeaturedProducts: []string{"p-2", "p-1"},
	})
	require.NoError(t, err)

	tree, err := s.PublicTree(ctx, model.PlacementHeader)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	n := tree[0]

	assert.Contains(t, n.DescriptionHTML, "<strong>Premium</strong>")
	assert.NotContains(t, n.DescriptionHTML, "script")
	require.NotNil(t, n.Image)
	assert.Equal(t, "/p.png", n.Image.Src)
	require.Len(t, n.FeaturedProducts, 2)
	assert.Equal(t, "Iso Whey", n.FeaturedProducts[0].Title)
	assert.Equal(t, "gold-whey", n.FeaturedProducts[1].Handle)
	assert.NotNil(t, n.Children)
}

func TestPublicTree_CacheInvalidatedOnMutation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	backend := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = backend.Close() })
	navCache := cache.NewNavigationCache(backend, time.Minute, testutil.TestLoggerSilent())
	s.SetCache(navCache)

	offers := mustCreate(t, s, "Offers", nil)

	first, err := s.PublicTree(ctx, model.PlacementHeader)
	require.NoError(t, err)
	assert.Equal(t, []string{"Offers"}, publicNames(first))

	_, err = s.PublicTree(ctx, model.PlacementHeader)
	require.NoError(t, err)
	assert.Equal(t, int64(1), navCache.Stats().Hits)

	_, err = s.Update(ctx, offers.ID, Patch{Name: util.Some("Deals")})
	require.NoError(t, err)

	after, err := s.PublicTree(ctx, model.PlacementHeader)
	require.NoError(t, err)
	assert.Equal(t, []string{"Deals"}, publicNames(after))
}

func TestWarmCache(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	assert.NoError(t, s.WarmCache(ctx), "no cache attached is fine")

	backend := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = backend.Close() })
	navCache := cache.NewNavigationCache(backend, time.Minute, testutil.TestLoggerSilent())
	s.SetCache(navCache)
	mustCreate(t, s, "Offers", nil)

	require.NoError(t, s.WarmCache(ctx))
	_, err := s.PublicTree(ctx, model.PlacementMobile)
	require.NoError(t, err)
	assert.Equal(t, int64(1), navCache.Stats().Hits)
	assert.Zero(t, navCache.Stats().Misses)
}
