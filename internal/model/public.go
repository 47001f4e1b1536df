// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "fmt"

// Placement selects which storefront area a public menu is built for.
type Placement string

// Storefront placements
const (
	PlacementHeader Placement = "header"
	PlacementFooter Placement = "footer"
	PlacementMobile Placement = "mobile"
)

// Placements lists every placement, in cache warm-up order.
var Placements = []Placement{PlacementHeader, PlacementFooter, PlacementMobile}

// ParsePlacement maps a query value to a placement; "" means header.
func ParsePlacement(s string) (Placement, error) {
	switch Placement(s) {
	case "", PlacementHeader:
		return PlacementHeader, nil
	case PlacementFooter, PlacementMobile:
		return Placement(s), nil
	default:
		return "", fmt.Errorf("unknown placement %q", s)
	}
}

// Shows reports whether d places an entry in p.
func (p Placement) Shows(d Display) bool {
	switch p {
	case PlacementFooter:
		return d.ShowInFooter
	case PlacementMobile:
		return d.ShowInMobile
	default:
		return d.ShowInHeader
	}
}

// ProductSummary is the storefront view of a featured product.
type ProductSummary struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Handle string  `json:"handle"`
	Image  string  `json:"image,omitempty"`
	Price  float64 `json:"price"`
}

// PublicNode is one entry of the storefront menu.
type PublicNode struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Href             string           `json:"href"`
	Slug             string           `json:"slug"`
	Type             EntryType        `json:"type"`
	Icon             string           `json:"icon,omitempty"`
	Badge            string           `json:"badge,omitempty"`
	BadgeColor       string           `json:"badgeColor,omitempty"`
	DescriptionHTML  string           `json:"descriptionHtml,omitempty"`
	CSSClass         string           `json:"cssClass,omitempty"`
	OpenInNewTab     bool             `json:"openInNewTab"`
	Image            *Image           `json:"image,omitempty"`
	FeaturedProducts []ProductSummary `json:"featuredProducts,omitempty"`
	Children         []PublicNode     `json:"children"`
}
