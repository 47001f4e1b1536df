// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/navtree"
)

// descriptionRenderer turns Markdown descriptions into sanitized HTML.
type descriptionRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func newDescriptionRenderer() *descriptionRenderer {
	return &descriptionRenderer{
		md:     goldmark.New(),
		policy: bluemonday.UGCPolicy(),
	}
}

func (r *descriptionRenderer) render(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(r.policy.Sanitize(buf.String())), nil
}

// PublicTree returns the storefront menu for placement: effectively visible
// entries only, roots limited to those flagged for the placement. Results
// are served from the navigation cache when one is attached.
func (s *NavigationService) PublicTree(ctx context.Context, placement model.Placement) ([]model.PublicNode, error) {
	if s.navCache != nil {
		return s.navCache.Get(ctx, placement, s.buildPublicTree)
	}
	return s.buildPublicTree(ctx, placement)
}

// WarmCache rebuilds every cached placement.
func (s *NavigationService) WarmCache(ctx context.Context) error {
	if s.navCache == nil {
		return nil
	}
	return s.navCache.Warm(ctx, s.buildPublicTree)
}

func (s *NavigationService) buildPublicTree(ctx context.Context, placement model.Placement) ([]model.PublicNode, error) {
	entries, err := s.queries.LoadEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading entries: %w", err)
	}

	tree := navtree.Filter(navtree.Build(entries), func(n navtree.Node) bool { return n.IsActive })
	roots := make([]navtree.Node, 0, len(tree))
	for _, n := range tree {
		if placement.Shows(n.Display) {
			roots = append(roots, n)
		}
	}

	products := s.resolveProducts(ctx, roots)
	return s.publicNodes(roots, products), nil
}

// resolveProducts fetches summaries for every featured product in tree.
// Catalog failures are logged and leave the summaries out.
func (s *NavigationService) resolveProducts(ctx context.Context, tree []navtree.Node) map[string]model.ProductSummary {
	if s.catalog == nil {
		return nil
	}
	var ids []string
	seen := map[string]bool{}
	for _, e := range navtree.Flatten(tree) {
		if !e.Type.SupportsMerchandising() {
			continue
		}
		for _, id := range e.FeaturedProducts {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	found, err := s.catalog.Products(ctx, ids)
	if err != nil {
		s.logger.Warn("featured product lookup failed", "category", model.EventCategoryNavigation, "error", err)
		return nil
	}
	out := make(map[string]model.ProductSummary, len(found))
	for _, p := range found {
		out[p.ID] = p
	}
	return out
}

func (s *NavigationService) publicNodes(nodes []navtree.Node, products map[string]model.ProductSummary) []model.PublicNode {
	out := make([]model.PublicNode, 0, len(nodes))
	for _, n := range nodes {
		pn := model.PublicNode{
			ID:           n.ID,
			Name:         n.Name,
			Href:         n.Href,
			Slug:         n.Slug,
			Type:         n.Type,
			Icon:         n.Icon,
			Badge:        n.Badge,
			BadgeColor:   n.BadgeColor,
			CSSClass:     n.CSSClass,
			OpenInNewTab: n.OpenInNewTab,
			Children:     s.publicNodes(n.Children, products),
		}

		desc, err := s.renderer.render(n.Description)
		if err != nil {
			s.logger.Warn("rendering description", "category", model.EventCategoryNavigation, "id", n.ID, "error", err)
		}
		pn.DescriptionHTML = desc

		if n.Type.SupportsMerchandising() {
			if n.Image != nil {
				img := *n.Image
				pn.Image = &img
			}
			for _, id := range n.FeaturedProducts {
				if p, ok := products[id]; ok {
					pn.FeaturedProducts = append(pn.FeaturedProducts, p)
				}
			}
		}
		out = append(out, pn)
	}
	return out
}
