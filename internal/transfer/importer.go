// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/store"
	"github.com/olegiv/shopnav/internal/util"
)

// MaxDepth is the deepest nesting an imported document may have.
const MaxDepth = 16

// ErrInvalidDocument is returned by Import when validation finds problems;
// the details are in ImportResult.Errors.
var ErrInvalidDocument = errors.New("validation failed")

// EntryCheck normalizes and validates one entry before it is stored.
type EntryCheck func(e *model.Entry) error

// Importer handles importing a navigation document.
type Importer struct {
	db     *sql.DB
	logger *slog.Logger
	check  EntryCheck
}

// NewImporter creates a new Importer instance.
func NewImporter(db *sql.DB, logger *slog.Logger) *Importer {
	return &Importer{
		db:     db,
		logger: logger,
	}
}

// SetEntryCheck installs the per-entry validation used by Validate and Import.
func (i *Importer) SetEntryCheck(fn EntryCheck) {
	i.check = fn
}

// Validate checks the document without making changes.
func (i *Importer) Validate(data *ExportData) []ImportError {
	var importErrors []ImportError

	if data.Version == "" {
		importErrors = append(importErrors, ImportError{Message: "missing version field"})
	} else if data.Version != ExportVersion {
		importErrors = append(importErrors, ImportError{
			Message: fmt.Sprintf("unsupported version %q", data.Version),
		})
	}

	var walk func(entries []ExportEntry, prefix string, depth int)
	walk = func(entries []ExportEntry, prefix string, depth int) {
		for idx, x := range entries {
			path := fmt.Sprintf("%s[%d]", prefix, idx)
			if depth > MaxDepth {
				importErrors = append(importErrors, ImportError{
					Path:    path,
					Message: fmt.Sprintf("nesting deeper than %d levels", MaxDepth),
				})
				continue
			}
			e := x.ToEntry()
			if err := i.checkEntry(&e); err != nil {
				importErrors = append(importErrors, ImportError{Path: path, Message: err.Error()})
			}
			walk(x.Children, path+".children", depth+1)
		}
	}
	walk(data.Entries, "entries", 1)

	return importErrors
}

func (i *Importer) checkEntry(e *model.Entry) error {
	if i.check != nil {
		return i.check(e)
	}
	switch {
	case e.Name == "":
		return errors.New("name is required")
	case e.Href == "":
		return errors.New("href is required")
	case !model.IsValidType(e.Type):
		return fmt.Errorf("invalid type %q", e.Type)
	}
	return nil
}

// Import validates data and inserts the whole tree in one transaction. The
// import rolls back on any error.
func (i *Importer) Import(ctx context.Context, data *ExportData, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{DryRun: opts.DryRun}

	if errs := i.Validate(data); len(errs) > 0 {
		result.Errors = errs
		return result, ErrInvalidDocument
	}

	if opts.DryRun {
		result.Created = data.Count()
		return result, nil
	}

	err := store.ExecTx(ctx, i.db, func(q *store.Queries) error {
		existing, err := q.CountNavigationItems(ctx)
		if err != nil {
			return fmt.Errorf("counting entries: %w", err)
		}
		if opts.RequireEmpty && existing > 0 {
			return &NotEmptyError{Count: int(existing)}
		}
		if opts.Replace && existing > 0 {
			if err := q.DeleteAllNavigationItems(ctx); err != nil {
				return fmt.Errorf("clearing entries: %w", err)
			}
			result.Replaced = int(existing)
		}
		return i.importEntries(ctx, q, data.Entries, nil, result)
	})
	if err != nil {
		return nil, err
	}

	i.logger.Info("navigation imported", "created", result.Created, "replaced", result.Replaced)
	return result, nil
}

// ImportFromReader decodes a document from r and imports it.
func (i *Importer) ImportFromReader(ctx context.Context, r io.Reader, format Format, opts ImportOptions) (*ImportResult, error) {
	data, err := Decode(r, format)
	if err != nil {
		return nil, err
	}
	return i.Import(ctx, data, opts)
}

func (i *Importer) importEntries(ctx context.Context, queries *store.Queries, entries []ExportEntry, parent *string, result *ImportResult) error {
	for idx, x := range entries {
		e := x.ToEntry()
		if err := i.checkEntry(&e); err != nil {
			return fmt.Errorf("entry %q: %w", x.Name, err)
		}
		e.Parent = parent

		base := e.Slug
		if !util.IsValidSlug(base) {
			base = util.Slugify(e.Name)
		}
		slug, err := util.UniqueSlug(base, func(s string) (bool, error) {
			return queries.SlugTaken(ctx, s, "")
		})
		if err != nil {
			return fmt.Errorf("entry %q: %w", x.Name, err)
		}
		e.Slug = slug

		pos := idx
		created, err := queries.InsertNavigationItem(ctx, e, &pos)
		if err != nil {
			return fmt.Errorf("inserting %q: %w", x.Name, err)
		}
		result.Created++

		if len(x.Children) > 0 {
			if err := i.importEntries(ctx, queries, x.Children, &created.ID, result); err != nil {
				return err
			}
		}
	}
	return nil
}
