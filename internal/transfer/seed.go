// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"bytes"
	_ "embed"
)

//go:embed default_navigation.yaml
var defaultNavigation []byte

// DefaultNavigation returns the storefront's starter navigation.
func DefaultNavigation() (*ExportData, error) {
	return Decode(bytes.NewReader(defaultNavigation), FormatYAML)
}
