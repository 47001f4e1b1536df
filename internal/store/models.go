// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// NavigationItem is a row of the navigation_items table.
type NavigationItem struct {
	ID           string
	Seq          int64
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

// FeaturedProduct is a row of the navigation_featured_products table.
type FeaturedProduct struct {
	ItemID    string
	ProductID string
	Position  int64
}

// Event is a row of the events table.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}
