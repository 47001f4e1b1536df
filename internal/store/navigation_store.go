// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/shopnav/internal/model"
)

// ToEntry converts a row and its featured product ids into a domain entry.
func ToEntry(row NavigationItem, featured []string) model.Entry {
	e := model.Entry{
		ID:          row.ID,
		Name:        row.Name,
		Href:        row.Href,
		Slug:        row.Slug,
		Type:        model.EntryType(row.Type),
		Order:       int(row.Position),
		IsActive:    row.IsActive,
		Icon:        row.Icon,
		Badge:       row.Badge,
		BadgeColor:  row.BadgeColor,
		Description: row.Description,
		CSSClass:    row.CssClass,
		Display: model.Display{
			ShowInHeader: row.ShowInHeader,
			ShowInFooter: row.ShowInFooter,
			ShowInMobile: row.ShowInMobile,
			OpenInNewTab: row.OpenInNewTab,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		Seq:       row.Seq,
	}
	if row.ParentID.Valid {
		p := row.ParentID.String
		e.Parent = &p
	}
	if row.ImageSrc.Valid && row.ImageSrc.String != "" {
		e.Image = &model.Image{Src: row.ImageSrc.String, Alt: row.ImageAlt.String}
	}
	e.FeaturedProducts = append([]string{}, featured...)
	return e
}

// NullParent converts an optional parent id into its column value.
func NullParent(parent *string) sql.NullString {
	if parent == nil || *parent == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *parent, Valid: true}
}

func imageColumns(img *model.Image) (src, alt sql.NullString) {
	if img == nil || img.Src == "" {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: img.Src, Valid: true}, sql.NullString{String: img.Alt, Valid: img.Alt != ""}
}

// LoadEntry returns one entry with its featured products.
func (q *Queries) LoadEntry(ctx context.Context, id string) (model.Entry, error) {
	row, err := q.GetNavigationItem(ctx, id)
	if err != nil {
		return model.Entry{}, err
	}
	featured, err := q.ListFeaturedProducts(ctx, id)
	if err != nil {
		return model.Entry{}, fmt.Errorf("loading featured products: %w", err)
	}
	return ToEntry(row, productIDs(featured)), nil
}

// LoadEntries returns the whole collection, roots first and siblings in order.
func (q *Queries) LoadEntries(ctx context.Context) ([]model.Entry, error) {
	rows, err := q.ListNavigationItems(ctx)
	if err != nil {
		return nil, err
	}
	featured, err := q.ListAllFeaturedProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading featured products: %w", err)
	}
	byItem := make(map[string][]string)
	for _, f := range featured {
		byItem[f.ItemID] = append(byItem[f.ItemID], f.ProductID)
	}

	entries := make([]model.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, ToEntry(row, byItem[row.ID]))
	}
	return entries, nil
}

// LoadSiblings returns the entries sharing parent, sorted by order then insertion.
// Featured products are not loaded.
func (q *Queries) LoadSiblings(ctx context.Context, parent *string) ([]model.Entry, error) {
	rows, err := q.ListNavigationItemsByParent(ctx, NullParent(parent))
	if err != nil {
		return nil, err
	}
	entries := make([]model.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, ToEntry(row, nil))
	}
	return entries, nil
}

// NextPosition returns the order a new last child of parent gets.
func (q *Queries) NextPosition(ctx context.Context, parent *string) (int, error) {
	max, err := q.GetMaxNavigationPosition(ctx, NullParent(parent))
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

// InsertNavigationItem stores e under a fresh id. A nil position appends the
// entry after its last sibling. Call it inside ExecTx so the position
// lookup and the insert see the same siblings.
func (q *Queries) InsertNavigationItem(ctx context.Context, e model.Entry, position *int) (model.Entry, error) {
	pos := 0
	if position != nil {
		pos = *position
	} else {
		next, err := q.NextPosition(ctx, e.Parent)
		if err != nil {
			return model.Entry{}, fmt.Errorf("computing position: %w", err)
		}
		pos = next
	}

	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}
	imgSrc, imgAlt := imageColumns(e.Image)

	row, err := q.CreateNavigationItem(ctx, CreateNavigationItemParams{
		ID:           uuid.NewString(),
		Name:         e.Name,
		Href:         e.Href,
		Slug:         e.Slug,
		Type:         string(e.Type),
		ParentID:     NullParent(e.Parent),
		Position:     int64(pos),
		IsActive:     e.IsActive,
		Icon:         e.Icon,
		Badge:        e.Badge,
		BadgeColor:   e.BadgeColor,
		Description:  e.Description,
		ImageSrc:     imgSrc,
		ImageAlt:     imgAlt,
		CssClass:     e.CSSClass,
		ShowInHeader: e.ShowInHeader,
		ShowInFooter: e.ShowInFooter,
		ShowInMobile: e.ShowInMobile,
		OpenInNewTab: e.OpenInNewTab,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	})
	if err != nil {
		return model.Entry{}, err
	}
	if err := q.ReplaceFeaturedProducts(ctx, row.ID, e.FeaturedProducts); err != nil {
		return model.Entry{}, fmt.Errorf("storing featured products: %w", err)
	}
	return ToEntry(row, e.FeaturedProducts), nil
}

// SaveEntry writes every mutable field of e, featured products included.
// It returns sql.ErrNoRows when the entry does not exist.
func (q *Queries) SaveEntry(ctx context.Context, e model.Entry) (model.Entry, error) {
	imgSrc, imgAlt := imageColumns(e.Image)
	row, err := q.UpdateNavigationItem(ctx, UpdateNavigationItemParams{
		ID:           e.ID,
		Name:         e.Name,
		Href:         e.Href,
		Slug:         e.Slug,
		Type:         string(e.Type),
		ParentID:     NullParent(e.Parent),
		Position:     int64(e.Order),
		IsActive:     e.IsActive,
		Icon:         e.Icon,
		Badge:        e.Badge,
		BadgeColor:   e.BadgeColor,
		Description:  e.Description,
		ImageSrc:     imgSrc,
		ImageAlt:     imgAlt,
		CssClass:     e.CSSClass,
		ShowInHeader: e.ShowInHeader,
		ShowInFooter: e.ShowInFooter,
		ShowInMobile: e.ShowInMobile,
		OpenInNewTab: e.OpenInNewTab,
		UpdatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return model.Entry{}, err
	}
	if err := q.ReplaceFeaturedProducts(ctx, row.ID, e.FeaturedProducts); err != nil {
		return model.Entry{}, fmt.Errorf("storing featured products: %w", err)
	}
	return ToEntry(row, e.FeaturedProducts), nil
}

// SetPosition changes the order of one entry, returning sql.ErrNoRows when
// it does not exist.
func (q *Queries) SetPosition(ctx context.Context, id string, position int) error {
	n, err := q.UpdateNavigationItemPosition(ctx, UpdateNavigationItemPositionParams{
		ID:        id,
		Position:  int64(position),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SlugTaken reports whether another entry than excludeID already uses slug.
func (q *Queries) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	n, err := q.NavigationSlugExists(ctx, slug, excludeID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func productIDs(rows []FeaturedProduct) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ProductID)
	}
	return ids
}
