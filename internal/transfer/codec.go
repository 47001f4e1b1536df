// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// MaxDocumentSize bounds how much Decode reads.
const MaxDocumentSize = 5 << 20

// ErrDocumentTooLarge is returned when a document exceeds MaxDocumentSize.
var ErrDocumentTooLarge = errors.New("document too large")

// Encode writes data to w in the given format.
func Encode(w io.Writer, data *ExportData, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// Decode reads one document from r.
func Decode(r io.Reader, format Format) (*ExportData, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if len(raw) > MaxDocumentSize {
		return nil, ErrDocumentTooLarge
	}

	var data ExportData
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatJSON, "":
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return &data, nil
}
