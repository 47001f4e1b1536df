// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/navtree"
	"github.com/olegiv/shopnav/internal/store"
)

// Exporter handles exporting the navigation collection.
type Exporter struct {
	store  *store.Queries
	logger *slog.Logger
}

// NewExporter creates a new Exporter instance.
func NewExporter(queries *store.Queries, logger *slog.Logger) *Exporter {
	return &Exporter{
		store:  queries,
		logger: logger,
	}
}

// Export builds the nested document from the stored entries.
func (e *Exporter) Export(ctx context.Context) (*ExportData, error) {
	entries, err := e.store.LoadEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading entries: %w", err)
	}

	tree := navtree.Build(entries)
	if dropped := len(entries) - len(navtree.Flatten(tree)); dropped > 0 {
		e.logger.Warn("export skipped entries unreachable from a root", "count", dropped)
	}

	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Entries:    ExportNodes(tree),
	}, nil
}

// ExportTo writes the document to w.
func (e *Exporter) ExportTo(ctx context.Context, w io.Writer, format Format) error {
	data, err := e.Export(ctx)
	if err != nil {
		return err
	}
	return Encode(w, data, format)
}

// ExportNodes converts a built tree into document entries.
func ExportNodes(nodes []navtree.Node) []ExportEntry {
	out := make([]ExportEntry, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, exportEntry(n))
	}
	return out
}

func exportEntry(n navtree.Node) ExportEntry {
	active := n.IsActive
	header, footer, mobile := n.ShowInHeader, n.ShowInFooter, n.ShowInMobile
	out := ExportEntry{
		Name:         n.Name,
		Href:         n.Href,
		Slug:         n.Slug,
		Type:         string(n.Type),
		IsActive:     &active,
		Icon:         n.Icon,
		Badge:        n.Badge,
		BadgeColor:   n.BadgeColor,
		Description:  n.Description,
		CSSClass:     n.CSSClass,
		ShowInHeader: &header,
		ShowInFooter: &footer,
		ShowInMobile: &mobile,
		OpenInNewTab: n.OpenInNewTab,
	}
	if n.Image != nil && n.Image.Src != "" {
		img := *n.Image
		out.Image = &img
	}
	if len(n.FeaturedProducts) > 0 {
		out.FeaturedProducts = append([]string{}, n.FeaturedProducts...)
	}
	if len(n.Children) > 0 {
		out.Children = ExportNodes(n.Children)
	}
	return out
}

// ToEntry converts a document entry into an unsaved model entry without
// its children. Missing flags get the defaults of a new entry.
func (x ExportEntry) ToEntry() model.Entry {
	display := model.DefaultDisplay()
	if x.ShowInHeader != nil {
		display.ShowInHeader = *x.ShowInHeader
	}
	if x.ShowInFooter != nil {
		display.ShowInFooter = *x.ShowInFooter
	}
	if x.ShowInMobile != nil {
		display.ShowInMobile = *x.ShowInMobile
	}
	display.OpenInNewTab = x.OpenInNewTab

	e := model.Entry{
		Name:        x.Name,
		Href:        x.Href,
		Slug:        x.Slug,
		Type:        model.EntryType(x.Type),
		IsActive:    x.IsActive == nil || *x.IsActive,
		Icon:        x.Icon,
		Badge:       x.Badge,
		BadgeColor:  x.BadgeColor,
		Description: x.Description,
		CSSClass:    x.CSSClass,
		Display:     display,
	}
	if e.Type == "" {
		e.Type = model.TypeLink
	}
	if x.Image != nil {
		img := *x.Image
		e.Image = &img
	}
	e.FeaturedProducts = append([]string{}, x.FeaturedProducts...)
	return e
}
