// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const navigationItemColumns = `id, rowid, name, href, slug, type, parent_id, position, is_active,
    icon, badge, badge_color, description, image_src, image_alt, css_class,
    show_in_header, show_in_footer, show_in_mobile, open_in_new_tab, created_at, updated_at`

const navigationItemOrder = `position ASC, created_at ASC, rowid ASC`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNavigationItem(row rowScanner) (NavigationItem, error) {
	var i NavigationItem
	err := row.Scan(
		&i.ID,
		&i.Seq,
		&i.Name,
		&i.Href,
		&i.Slug,
		&i.Type,
		&i.ParentID,
		&i.Position,
		&i.IsActive,
		&i.Icon,
		&i.Badge,
		&i.BadgeColor,
		&i.Description,
		&i.ImageSrc,
		&i.ImageAlt,
		&i.CssClass,
		&i.ShowInHeader,
		&i.ShowInFooter,
		&i.ShowInMobile,
		&i.OpenInNewTab,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) queryNavigationItems(ctx context.Context, query string, args ...any) ([]NavigationItem, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []NavigationItem
	for rows.Next() {
		i, err := scanNavigationItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getNavigationItem = `SELECT ` + navigationItemColumns + `
FROM navigation_items WHERE id = ?`

// GetNavigationItem returns one item; sql.ErrNoRows when it does not exist.
func (q *Queries) GetNavigationItem(ctx context.Context, id string) (NavigationItem, error) {
	return scanNavigationItem(q.db.QueryRowContext(ctx, getNavigationItem, id))
}

const listNavigationItems = `SELECT ` + navigationItemColumns + `
FROM navigation_items
ORDER BY parent_id IS NOT NULL, parent_id, ` + navigationItemOrder

// ListNavigationItems returns every item, roots first, siblings in order.
func (q *Queries) ListNavigationItems(ctx context.Context) ([]NavigationItem, error) {
	return q.queryNavigationItems(ctx, listNavigationItems)
}

const listRootNavigationItems = `SELECT ` + navigationItemColumns + `
FROM navigation_items WHERE parent_id IS NULL
ORDER BY ` + navigationItemOrder

const listChildNavigationItems = `SELECT ` + navigationItemColumns + `
FROM navigation_items WHERE parent_id = ?
ORDER BY ` + navigationItemOrder

// ListNavigationItemsByParent returns the children of parentID in sibling order.
// An invalid parentID lists the root items.
func (q *Queries) ListNavigationItemsByParent(ctx context.Context, parentID sql.NullString) ([]NavigationItem, error) {
	if !parentID.Valid {
		return q.queryNavigationItems(ctx, listRootNavigationItems)
	}
	return q.queryNavigationItems(ctx, listChildNavigationItems, parentID.String)
}

const getMaxNavigationPosition = `SELECT MAX(position) FROM navigation_items
WHERE (parent_id IS NULL AND ?1 IS NULL) OR parent_id = ?1`

// GetMaxNavigationPosition returns the highest sibling position under parentID,
// invalid when the parent has no children yet.
func (q *Queries) GetMaxNavigationPosition(ctx context.Context, parentID sql.NullString) (sql.NullInt64, error) {
	var max sql.NullInt64
	err := q.db.QueryRowContext(ctx, getMaxNavigationPosition, parentID).Scan(&max)
	return max, err
}

const createNavigationItem = `INSERT INTO navigation_items (
    id, name, href, slug, type, parent_id, position, is_active,
    icon, badge, badge_color, description, image_src, image_alt, css_class,
    show_in_header, show_in_footer, show_in_mobile, open_in_new_tab, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + navigationItemColumns

// CreateNavigationItemParams holds the columns of a new item.
type CreateNavigationItemParams struct {
	ID           string
	Name         string
	Href         string
	Slug         string
	Type         string
	ParentID     sql.NullString
	Position     int64
	IsActive     bool
	Icon         string
	Badge        string
	BadgeColor   string
	Description  string
	ImageSrc     sql.NullString
	ImageAlt     sql.NullString
	CssClass     string
	ShowInHeader bool
	ShowInFooter bool
	ShowInMobile bool
	OpenInNewTab bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateNavigationItem inserts a row as given.
func (q *Queries) CreateNavigationItem(ctx context.Context, arg CreateNavigationItemParams) (NavigationItem, error) {
	row := q.db.QueryRowContext(ctx, createNavigationItem,
		arg.ID,
		arg.Name,
		arg.Href,
		arg.Slug,
		arg.Type,
		arg.ParentID,
		arg.Position,
		arg.IsActive,
		arg.Icon,
		arg.Badge,
		arg.BadgeColor,
		arg.Description,
		arg.ImageSrc,
		arg.ImageAlt,
		arg.CssClass,
		arg.ShowInHeader,
		arg.ShowInFooter,
		arg.ShowInMobile,
		arg.OpenInNewTab,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanNavigationItem(row)
}

const updateNavigationItem = `UPDATE navigation_items SET
    name = ?, href = ?, slug = ?, type = ?, parent_id = ?, position = ?, is_active = ?,
    icon = ?, badge = ?, badge_color = ?, description = ?, image_src = ?, image_alt = ?,
    css_class = ?, show_in_header = ?, show_in_footer = ?, show_in_mobile = ?,
    open_in_new_tab = ?, updated_at = ?
WHERE id = ?
RETURNING ` + navigationItemColumns

// UpdateNavigationItemParams holds the full set of mutable columns.
type UpdateNavigationItemParams struct {
	ID           string
	Name         string
	Href         string
	Slug         string
	Type         string
	ParentID     sql.NullString
	Position     int64
	IsActive     bool
	Icon         string
	Badge        string
	BadgeColor   string
	Description  string
	ImageSrc     sql.NullString
	ImageAlt     sql.NullString
	CssClass     string
	ShowInHeader bool
	ShowInFooter bool
	ShowInMobile bool
	OpenInNewTab bool
	UpdatedAt    time.Time
}

// UpdateNavigationItem rewrites an item; sql.ErrNoRows when it does not exist.
func (q *Queries) UpdateNavigationItem(ctx context.Context, arg UpdateNavigationItemParams) (NavigationItem, error) {
	row := q.db.QueryRowContext(ctx, updateNavigationItem,
		arg.Name,
		arg.Href,
		arg.Slug,
		arg.Type,
		arg.ParentID,
		arg.Position,
		arg.IsActive,
		arg.Icon,
		arg.Badge,
		arg.BadgeColor,
		arg.Description,
		arg.ImageSrc,
		arg.ImageAlt,
		arg.CssClass,
		arg.ShowInHeader,
		arg.ShowInFooter,
		arg.ShowInMobile,
		arg.OpenInNewTab,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanNavigationItem(row)
}

const updateNavigationItemPosition = `UPDATE navigation_items SET position = ?, updated_at = ? WHERE id = ?`

// UpdateNavigationItemPositionParams holds a position change.
type UpdateNavigationItemPositionParams struct {
	ID        string
	Position  int64
	UpdatedAt time.Time
}

// UpdateNavigationItemPosition changes only the position of an item and
// reports how many rows were touched.
func (q *Queries) UpdateNavigationItemPosition(ctx context.Context, arg UpdateNavigationItemPositionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateNavigationItemPosition, arg.Position, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteNavigationItem = `DELETE FROM navigation_items WHERE id = ?`

// DeleteNavigationItem removes a single row and reports how many rows were removed.
func (q *Queries) DeleteNavigationItem(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteNavigationItem, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteAllNavigationItems = `DELETE FROM navigation_items`

// DeleteAllNavigationItems empties the collection. SQLite checks the
// parent_id foreign key at the end of the statement, so order does not matter.
func (q *Queries) DeleteAllNavigationItems(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllNavigationItems)
	return err
}

const navigationSlugExists = `SELECT COUNT(*) FROM navigation_items WHERE slug = ? AND id != ?`

// NavigationSlugExists counts items other than excludeID using slug.
func (q *Queries) NavigationSlugExists(ctx context.Context, slug, excludeID string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, navigationSlugExists, slug, excludeID).Scan(&count)
	return count, err
}

const countNavigationItems = `SELECT COUNT(*) FROM navigation_items`

// CountNavigationItems returns the size of the collection.
func (q *Queries) CountNavigationItems(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countNavigationItems).Scan(&count)
	return count, err
}

const listFeaturedProducts = `SELECT item_id, product_id, position
FROM navigation_featured_products WHERE item_id = ? ORDER BY position`

// ListFeaturedProducts returns the featured products of one item in order.
func (q *Queries) ListFeaturedProducts(ctx context.Context, itemID string) ([]FeaturedProduct, error) {
	return q.queryFeaturedProducts(ctx, listFeaturedProducts, itemID)
}

const listAllFeaturedProducts = `SELECT item_id, product_id, position
FROM navigation_featured_products ORDER BY item_id, position`

// ListAllFeaturedProducts returns every featured product reference.
func (q *Queries) ListAllFeaturedProducts(ctx context.Context) ([]FeaturedProduct, error) {
	return q.queryFeaturedProducts(ctx, listAllFeaturedProducts)
}

func (q *Queries) queryFeaturedProducts(ctx context.Context, query string, args ...any) ([]FeaturedProduct, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []FeaturedProduct
	for rows.Next() {
		var i FeaturedProduct
		if err := rows.Scan(&i.ItemID, &i.ProductID, &i.Position); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteFeaturedProducts = `DELETE FROM navigation_featured_products WHERE item_id = ?`

const insertFeaturedProduct = `INSERT INTO navigation_featured_products (item_id, product_id, position) VALUES (?, ?, ?)`

// ReplaceFeaturedProducts swaps the featured product list of an item.
func (q *Queries) ReplaceFeaturedProducts(ctx context.Context, itemID string, productIDs []string) error {
	if _, err := q.db.ExecContext(ctx, deleteFeaturedProducts, itemID); err != nil {
		return err
	}
	for i, pid := range productIDs {
		if _, err := q.db.ExecContext(ctx, insertFeaturedProduct, itemID, pid, i); err != nil {
			return err
		}
	}
	return nil
}
