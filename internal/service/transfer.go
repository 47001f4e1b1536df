// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/olegiv/shopnav/internal/metrics"
	"github.com/olegiv/shopnav/internal/transfer"
)

// Export returns the collection as a nested document.
func (s *NavigationService) Export(ctx context.Context) (*transfer.ExportData, error) {
	return transfer.NewExporter(s.queries, s.logger).Export(ctx)
}

// Import validates data and loads it in one transaction. Each entry goes
// through the same validation as Create.
func (s *NavigationService) Import(ctx context.Context, data *transfer.ExportData, opts transfer.ImportOptions) (*transfer.ImportResult, error) {
	result, err := s.runImport(ctx, data, opts)
	if err != nil {
		return result, s.rejected(metrics.OpImport, err)
	}
	if !opts.DryRun {
		s.mutated(ctx, metrics.OpImport, "navigation imported", "created", result.Created, "replaced", result.Replaced)
	}
	return result, nil
}

// Seed loads the default storefront navigation into an empty collection.
// A non-empty collection is left alone and reported as a conflict.
func (s *NavigationService) Seed(ctx context.Context) (*transfer.ImportResult, error) {
	data, err := transfer.DefaultNavigation()
	if err != nil {
		return nil, fmt.Errorf("loading default navigation: %w", err)
	}
	result, err := s.runImport(ctx, data, transfer.ImportOptions{RequireEmpty: true})
	if err != nil {
		return nil, s.rejected(metrics.OpSeed, err)
	}
	s.mutated(ctx, metrics.OpSeed, "navigation seeded", "created", result.Created)
	return result, nil
}

// SeedIfEmpty seeds only when the collection is empty and reports whether
// it did.
func (s *NavigationService) SeedIfEmpty(ctx context.Context) (bool, error) {
	_, err := s.Seed(ctx)
	if errors.Is(err, ErrConflict) {
		return false, nil
	}
	return err == nil, err
}

func (s *NavigationService) runImport(ctx context.Context, data *transfer.ExportData, opts transfer.ImportOptions) (*transfer.ImportResult, error) {
	importer := transfer.NewImporter(s.db, s.logger)
	importer.SetEntryCheck(validateEntry)

	result, err := importer.Import(ctx, data, opts)
	var notEmpty *transfer.NotEmptyError
	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, transfer.ErrInvalidDocument):
		fields := make(map[string]string, len(result.Errors))
		for _, ie := range result.Errors {
			key := ie.Path
			if key == "" {
				key = "document"
			}
			fields[key] = ie.Message
		}
		return result, &ValidationError{Message: "Import validation failed", Fields: fields}
	case errors.As(err, &notEmpty):
		return nil, conflict("navigation already contains %d entries", notEmpty.Count)
	default:
		return nil, err
	}
}

// Count returns the number of stored entries.
func (s *NavigationService) Count(ctx context.Context) (int, error) {
	n, err := s.queries.CountNavigationItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return int(n), nil
}
