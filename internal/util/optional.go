// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"bytes"
	"encoding/json"
)

// Optional tracks presence and value of a JSON field for partial updates:
//   - Present=false: field absent (leave unchanged)
//   - Present=true, Null=true: field is JSON null (clear)
//   - Present=true, Null=false: Value holds the new value
type Optional[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// Some returns a present, non-null Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: v}
}

// Null returns a present Optional set to null.
func Null[T any]() Optional[T] {
	return Optional[T]{Present: true, Null: true}
}

// Set reports whether the field carries a non-null value.
func (o Optional[T]) Set() bool {
	return o.Present && !o.Null
}

// Or returns the value when set, otherwise def.
func (o Optional[T]) Or(def T) T {
	if o.Set() {
		return o.Value
	}
	return def
}

// UnmarshalJSON implements json.Unmarshaler.
// It is only called when the field is present in the document.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(bytes.TrimSpace(data)) == "null" {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON implements json.Marshaler. Absent and null both encode as null;
// pair the field with omitzero to drop absent values.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// IsZero reports whether the field is absent, for omitzero.
func (o Optional[T]) IsZero() bool {
	return !o.Present
}
