// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the navigation business logic: validation,
// structural edits, ordering and the storefront view.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/shopnav/internal/cache"
	"github.com/olegiv/shopnav/internal/metrics"
	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/navtree"
	"github.com/olegiv/shopnav/internal/store"
	"github.com/olegiv/shopnav/internal/util"
)

// copySuffix is appended to the name of a duplicated entry.
const copySuffix = " (Copy)"

// ProductCatalog looks up featured products.
type ProductCatalog interface {
	Products(ctx context.Context, ids []string) ([]model.ProductSummary, error)
	Missing(ctx context.Context, ids []string) ([]string, error)
}

// ListOptions filters list results.
type ListOptions struct {
	// ActiveOnly drops inactive entries together with their subtrees.
	ActiveOnly bool
}

// DeleteResult reports a cascade delete.
type DeleteResult struct {
	Deleted int `json:"deleted"`
}

// NavigationService manages the navigation collection.
type NavigationService struct {
	db       *sql.DB
	queries  *store.Queries
	logger   *slog.Logger
	navCache *cache.NavigationCache
	catalog  ProductCatalog
	metrics  *metrics.Metrics
	renderer *descriptionRenderer
}

// NewNavigationService creates a NavigationService without cache, catalog
// or metrics; attach those with the setters.
func NewNavigationService(db *sql.DB, logger *slog.Logger) *NavigationService {
	return &NavigationService{
		db:       db,
		queries:  store.New(db),
		logger:   logger,
		renderer: newDescriptionRenderer(),
	}
}

// SetCache attaches the storefront navigation cache.
func (s *NavigationService) SetCache(c *cache.NavigationCache) {
	s.navCache = c
}

// SetCatalog attaches the product catalog used to verify and resolve
// featured products.
func (s *NavigationService) SetCatalog(c ProductCatalog) {
	s.catalog = c
}

// SetMetrics attaches the mutation counters.
func (s *NavigationService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// mutated finishes a successful mutation: cache, metrics and log.
func (s *NavigationService) mutated(ctx context.Context, op, msg string, attrs ...any) {
	if s.navCache != nil {
		s.navCache.Invalidate(ctx)
	}
	s.metrics.Mutation(op)
	s.logger.Info(msg, append([]any{"category", model.EventCategoryNavigation}, attrs...)...)
}

// rejected records a failed mutation and passes err through.
func (s *NavigationService) rejected(op string, err error) error {
	if reason := rejectionReason(err); reason != "" {
		s.metrics.Rejected(op, reason)
	}
	return err
}

// Get returns one entry.
func (s *NavigationService) Get(ctx context.Context, id string) (*model.Entry, error) {
	e, err := s.queries.LoadEntry(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading entry: %w", err)
	}
	return &e, nil
}

// ListTree returns the nested collection.
func (s *NavigationService) ListTree(ctx context.Context, opts ListOptions) ([]navtree.Node, error) {
	entries, err := s.queries.LoadEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading entries: %w", err)
	}
	tree := navtree.Build(entries)
	if opts.ActiveOnly {
		tree = navtree.Filter(tree, func(n navtree.Node) bool { return n.IsActive })
	}
	return tree, nil
}

// ListFlat returns every entry in tree pre-order: each parent followed by
// its children in sibling order.
func (s *NavigationService) ListFlat(ctx context.Context, opts ListOptions) ([]model.Entry, error) {
	tree, err := s.ListTree(ctx, opts)
	if err != nil {
		return nil, err
	}
	return navtree.Flatten(tree), nil
}

// Entries returns the stored collection unordered, for callers that do
// their own layout.
func (s *NavigationService) Entries(ctx context.Context) ([]model.Entry, error) {
	entries, err := s.queries.LoadEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading entries: %w", err)
	}
	return entries, nil
}

// Create validates in and stores it as the last child of its parent.
func (s *NavigationService) Create(ctx context.Context, in CreateInput) (*model.Entry, error) {
	e := in.entry()
	if err := validateEntry(&e); err != nil {
		return nil, s.rejected(metrics.OpCreate, err)
	}
	if err := s.verifyProducts(ctx, e.FeaturedProducts); err != nil {
		return nil, s.rejected(metrics.OpCreate, err)
	}

	var created model.Entry
	err := store.ExecTx(ctx, s.db, func(q *store.Queries) error {
		if e.Parent != nil {
			if _, err := q.GetNavigationItem(ctx, *e.Parent); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return invalid("parent", "parent entry does not exist")
				}
				return fmt.Errorf("loading parent: %w", err)
			}
		}
		slug, err := uniqueSlug(ctx, q, e.Name, "")
		if err != nil {
			return err
		}
		e.Slug = slug

		created, err = q.InsertNavigationItem(ctx, e, nil)
		if err != nil {
			return fmt.Errorf("inserting entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.rejected(metrics.OpCreate, err)
	}

	s.mutated(ctx, metrics.OpCreate, "navigation item created", "id", created.ID, "name", created.Name)
	return &created, nil
}

// Update applies a partial update. A parent change appends the entry to its
// new sibling group and is rejected when it would create a cycle.
func (s *NavigationService) Update(ctx context.Context, id string, p Patch) (*model.Entry, error) {
	if p.IsEmpty() {
		return nil, s.rejected(metrics.OpUpdate, &ValidationError{Message: "at least one field must be provided"})
	}
	if p.FeaturedProducts.Set() {
		normalized := model.Entry{Merchandising: model.Merchandising{FeaturedProducts: p.FeaturedProducts.Value}}
		normalizeEntry(&normalized)
		if err := s.verifyProducts(ctx, normalized.FeaturedProducts); err != nil {
			return nil, s.rejected(metrics.OpUpdate, err)
		}
	}

	var updated model.Entry
	err := store.ExecTx(ctx, s.db, func(q *store.Queries) error {
		current, err := q.LoadEntry(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(id)
		}
		if err != nil {
			return fmt.Errorf("loading entry: %w", err)
		}

		next := current.Clone()
		if err := p.apply(&next); err != nil {
			return err
		}
		if next.Type != current.Type && !next.Type.SupportsMerchandising() && !p.setsMerchandising() {
			next.Merchandising = model.Merchandising{FeaturedProducts: []string{}}
		}
		if err := validateEntry(&next); err != nil {
			return err
		}

		if next.ParentID() != current.ParentID() {
			if err := checkNewParent(ctx, q, id, next.Parent); err != nil {
				return err
			}
			pos, err := q.NextPosition(ctx, next.Parent)
			if err != nil {
				return fmt.Errorf("computing position: %w", err)
			}
			next.Order = pos
		}

		if next.Name != current.Name {
			slug, err := uniqueSlug(ctx, q, next.Name, id)
			if err != nil {
				return err
			}
			next.Slug = slug
		}

		updated, err = q.SaveEntry(ctx, next)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(id)
		}
		if err != nil {
			return fmt.Errorf("saving entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.rejected(metrics.OpUpdate, err)
	}

	s.mutated(ctx, metrics.OpUpdate, "navigation item updated", "id", id)
	return &updated, nil
}

// checkNewParent rejects a parent that is missing, the entry itself or one
// of its descendants.
func checkNewParent(ctx context.Context, q *store.Queries, id string, parent *string) error {
	if parent == nil {
		return nil
	}
	if *parent == id {
		return invalid("parent", "an entry cannot be its own parent")
	}
	entries, err := q.LoadEntries(ctx)
	if err != nil {
		return fmt.Errorf("loading entries: %w", err)
	}
	found := false
	for _, e := range entries {
		if e.ID == *parent {
			found = true
			break
		}
	}
	if !found {
		return invalid("parent", "parent entry does not exist")
	}
	if navtree.IsAncestor(id, *parent, entries) {
		return invalid("parent", "an entry cannot be moved under its own descendant")
	}
	return nil
}

// DescendantCount returns how many entries a delete of id would also remove.
func (s *NavigationService) DescendantCount(ctx context.Context, id string) (int, error) {
	entries, err := s.queries.LoadEntries(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading entries: %w", err)
	}
	for _, e := range entries {
		if e.ID == id {
			return navtree.CountDescendants(id, entries), nil
		}
	}
	return 0, notFound(id)
}

// Delete removes id and all its descendants in one transaction, children
// before parents. Siblings keep their order values.
func (s *NavigationService) Delete(ctx context.Context, id string) (DeleteResult, error) {
	var result DeleteResult
	err := store.ExecTx(ctx, s.db, func(q *store.Queries) error {
		entries, err := q.LoadEntries(ctx)
		if err != nil {
			return fmt.Errorf("loading entries: %w", err)
		}
		exists := false
		for _, e := range entries {
			if e.ID == id {
				exists = true
				break
			}
		}
		if !exists {
			return notFound(id)
		}

		doomed := navtree.Descendants(id, entries)
		for _, d := range doomed {
			if _, err := q.DeleteNavigationItem(ctx, d.ID); err != nil {
				return fmt.Errorf("deleting %s: %w", d.ID, err)
			}
		}
		n, err := q.DeleteNavigationItem(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting %s: %w", id, err)
		}
		if n == 0 {
			return notFound(id)
		}
		result.Deleted = len(doomed) + 1
		return nil
	})
	if err != nil {
		return DeleteResult{}, s.rejected(metrics.OpDelete, err)
	}

	s.mutated(ctx, metrics.OpDelete, "navigation item deleted", "id", id, "removed", result.Deleted)
	return result, nil
}

// Duplicate copies one entry (not its children) as the last sibling, with
// " (Copy)" appended to the name.
func (s *NavigationService) Duplicate(ctx context.Context, id string) (*model.Entry, error) {
	var created model.Entry
	err := store.ExecTx(ctx, s.db, func(q *store.Queries) error {
		src, err := q.LoadEntry(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(id)
		}
		if err != nil {
			return fmt.Errorf("loading entry: %w", err)
		}

		dup := src.Clone()
		dup.ID = ""
		dup.Name = copyName(src.Name)
		dup.CreatedAt = time.Time{}
		dup.UpdatedAt = time.Time{}
		slug, err := uniqueSlug(ctx, q, dup.Name, "")
		if err != nil {
			return err
		}
		dup.Slug = slug

		created, err = q.InsertNavigationItem(ctx, dup, nil)
		if err != nil {
			return fmt.Errorf("inserting copy: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.rejected(metrics.OpDuplicate, err)
	}

	s.mutated(ctx, metrics.OpDuplicate, "navigation item duplicated", "id", created.ID, "source", id)
	return &created, nil
}

// copyName appends the copy suffix, trimming the original so the result
// stays within the name limit.
func copyName(name string) string {
	runes := []rune(name)
	limit := model.MaxNameLength - len([]rune(copySuffix))
	if len(runes) > limit {
		name = strings.TrimSpace(string(runes[:limit]))
	}
	return name + copySuffix
}

// ToggleActive flips isActive on one entry. Descendants are not touched;
// they disappear from the storefront through effective visibility.
func (s *NavigationService) ToggleActive(ctx context.Context, id string) (*model.Entry, error) {
	var updated model.Entry
	err := store.ExecTx(ctx, s.db, func(q *store.Queries) error {
		e, err := q.LoadEntry(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(id)
		}
		if err != nil {
			return fmt.Errorf("loading entry: %w", err)
		}
		e.IsActive = !e.IsActive
		updated, err = q.SaveEntry(ctx, e)
		if err != nil {
			return fmt.Errorf("saving entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.rejected(metrics.OpToggle, err)
	}

	s.mutated(ctx, metrics.OpToggle, "navigation item toggled", "id", id, "active", updated.IsActive)
	return &updated, nil
}

// verifyProducts rejects product ids the catalog does not know. Without a
// catalog the references are stored unverified.
func (s *NavigationService) verifyProducts(ctx context.Context, ids []string) error {
	if s.catalog == nil || len(ids) == 0 {
		return nil
	}
	missing, err := s.catalog.Missing(ctx, ids)
	if err != nil {
		return fmt.Errorf("verifying featured products: %w", err)
	}
	if len(missing) > 0 {
		return invalid("featuredProducts", "unknown products: "+strings.Join(missing, ", "))
	}
	return nil
}

// uniqueSlug derives a slug from name that no entry other than excludeID uses.
func uniqueSlug(ctx context.Context, q *store.Queries, name, excludeID string) (string, error) {
	slug, err := util.UniqueSlug(util.Slugify(name), func(candidate string) (bool, error) {
		return q.SlugTaken(ctx, candidate, excludeID)
	})
	if err != nil {
		return "", fmt.Errorf("generating slug: %w", err)
	}
	return slug, nil
}
