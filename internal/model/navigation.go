// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types shared across shopnav packages.
package model

import (
	"time"
)

// EntryType is the kind of a navigation entry.
type EntryType string

// Navigation entry types
const (
	TypeCategory    EntryType = "category"
	TypeSubcategory EntryType = "subcategory"
	TypeLink        EntryType = "link"
	TypeMegamenu    EntryType = "megamenu"
)

// ValidTypes contains all valid entry types.
var ValidTypes = []EntryType{TypeCategory, TypeSubcategory, TypeLink, TypeMegamenu}

// DefaultBadgeColor is used when an entry has a badge but no explicit colour.
const DefaultBadgeColor = "#1B198F"

// Field limits
const (
	MaxNameLength        = 100
	MaxBadgeLength       = 20
	MaxDescriptionLength = 200
)

// IsValidType checks if a type value is valid.
func IsValidType(t EntryType) bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}

// SupportsMerchandising reports whether entries of this type may carry
// a hero image and featured products.
func (t EntryType) SupportsMerchandising() bool {
	return t == TypeCategory || t == TypeMegamenu
}

// Image is a hero image attached to a category or mega-menu entry.
type Image struct {
	Src string `json:"src" yaml:"src"`
	Alt string `json:"alt" yaml:"alt"`
}

// Merchandising is the payload only category and megamenu entries carry.
type Merchandising struct {
	Image            *Image   `json:"image,omitempty"`
	FeaturedProducts []string `json:"featuredProducts"`
}

// IsZero reports whether no merchandising data is set.
func (m Merchandising) IsZero() bool {
	return (m.Image == nil || m.Image.Src == "") && len(m.FeaturedProducts) == 0
}

// Clone returns a deep copy.
func (m Merchandising) Clone() Merchandising {
	out := Merchandising{FeaturedProducts: append([]string{}, m.FeaturedProducts...)}
	if m.Image != nil {
		img := *m.Image
		out.Image = &img
	}
	return out
}

// Display holds the independent placement flags of an entry.
type Display struct {
	ShowInHeader bool `json:"showInHeader"`
	ShowInFooter bool `json:"showInFooter"`
	ShowInMobile bool `json:"showInMobile"`
	OpenInNewTab bool `json:"openInNewTab"`
}

// DefaultDisplay returns the flags a new entry gets when none are given.
func DefaultDisplay() Display {
	return Display{ShowInHeader: true, ShowInMobile: true}
}

// Entry is one navigation menu item.
type Entry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Href        string    `json:"href"`
	Slug        string    `json:"slug"`
	Type        EntryType `json:"type"`
	Parent      *string   `json:"parent"`
	Order       int       `json:"order"`
	IsActive    bool      `json:"isActive"`
	Icon        string    `json:"icon,omitempty"`
	Badge       string    `json:"badge,omitempty"`
	BadgeColor  string    `json:"badgeColor,omitempty"`
	Description string    `json:"description,omitempty"`
	CSSClass    string    `json:"cssClass,omitempty"`
	Display
	Merchandising
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Seq is the store insertion sequence used to break order ties.
	Seq int64 `json:"-"`
}

// IsRoot reports whether the entry sits at the top level.
func (e *Entry) IsRoot() bool {
	return e.Parent == nil
}

// ParentID returns the parent id or "" for root entries.
func (e *Entry) ParentID() string {
	if e.Parent == nil {
		return ""
	}
	return *e.Parent
}

// SameParent reports whether two entries are siblings.
func (e *Entry) SameParent(o *Entry) bool {
	return e.ParentID() == o.ParentID()
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	out := e
	if e.Parent != nil {
		p := *e.Parent
		out.Parent = &p
	}
	out.Merchandising = e.Merchandising.Clone()
	return out
}

// Less orders siblings by Order, ties broken by insertion.
func Less(a, b *Entry) bool {
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.Seq < b.Seq
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
