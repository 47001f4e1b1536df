// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer provides import/export of the navigation collection as a
// nested JSON or YAML document.
package transfer

import (
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/shopnav/internal/model"
)

// ExportVersion is the current version of the export format.
const ExportVersion = "1.0"

// Format is a document encoding.
type Format string

// Supported formats
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat returns the format named by s. Empty means JSON; "yml" is
// accepted as YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// ContentType returns the MIME type for documents in this format.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// ExportData is the complete export document.
type ExportData struct {
	Version    string        `json:"version" yaml:"version"`
	ExportedAt time.Time     `json:"exportedAt" yaml:"exportedAt"`
	Entries    []ExportEntry `json:"entries" yaml:"entries"`
}

// ExportEntry is one navigation entry with its children in order. Ids and
// positions are not exported; the list order is the sibling order.
// Nil flags take the defaults a newly created entry gets.
type ExportEntry struct {
	Name             string        `json:"name" yaml:"name"`
	Href             string        `json:"href" yaml:"href"`
	Slug             string        `json:"slug,omitempty" yaml:"slug,omitempty"`
	Type             string        `json:"type,omitempty" yaml:"type,omitempty"`
	IsActive         *bool         `json:"isActive,omitempty" yaml:"isActive,omitempty"`
	Icon             string        `json:"icon,omitempty" yaml:"icon,omitempty"`
	Badge            string        `json:"badge,omitempty" yaml:"badge,omitempty"`
	BadgeColor       string        `json:"badgeColor,omitempty" yaml:"badgeColor,omitempty"`
	Description      string        `json:"description,omitempty" yaml:"description,omitempty"`
	CSSClass         string        `json:"cssClass,omitempty" yaml:"cssClass,omitempty"`
	Image            *model.Image  `json:"image,omitempty" yaml:"image,omitempty"`
	ShowInHeader     *bool         `json:"showInHeader,omitempty" yaml:"showInHeader,omitempty"`
	ShowInFooter     *bool         `json:"showInFooter,omitempty" yaml:"showInFooter,omitempty"`
	ShowInMobile     *bool         `json:"showInMobile,omitempty" yaml:"showInMobile,omitempty"`
	OpenInNewTab     bool          `json:"openInNewTab,omitempty" yaml:"openInNewTab,omitempty"`
	FeaturedProducts []string      `json:"featuredProducts,omitempty" yaml:"featuredProducts,omitempty"`
	Children         []ExportEntry `json:"children,omitempty" yaml:"children,omitempty"`
}

// Count returns the number of entries in the document at any depth.
func (d *ExportData) Count() int {
	return countEntries(d.Entries)
}

func countEntries(entries []ExportEntry) int {
	n := len(entries)
	for _, e := range entries {
		n += countEntries(e.Children)
	}
	return n
}

// ImportOptions configures an import.
type ImportOptions struct {
	// DryRun validates and counts without writing.
	DryRun bool `json:"dryRun"`
	// Replace deletes the existing collection first.
	Replace bool `json:"replace"`
	// RequireEmpty refuses to import into a non-empty collection.
	RequireEmpty bool `json:"requireEmpty"`
}

// ImportError describes one problem found in a document. Path locates the
// entry, e.g. "entries[1].children[0]".
type ImportError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e ImportError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// ImportResult reports what an import did.
type ImportResult struct {
	DryRun   bool          `json:"dryRun"`
	Created  int           `json:"created"`
	Replaced int           `json:"replaced"`
	Errors   []ImportError `json:"errors,omitempty"`
}

// NotEmptyError is returned when RequireEmpty is set and entries exist.
type NotEmptyError struct {
	Count int
}

func (e *NotEmptyError) Error() string {
	return fmt.Sprintf("navigation already contains %d entries", e.Count)
}
