// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// HTTPError is implemented by errors that map to an HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors, matched with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// NotFoundError indicates the referenced entry does not exist. Message, when
// set, replaces the generated text.
type NotFoundError struct {
	Resource string
	ID       string
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Resource == "" {
		return fmt.Sprintf("navigation item %s not found", e.ID)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// StatusCode implements HTTPError.
func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// Is allows errors.Is(err, ErrNotFound).
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError indicates invalid input. Fields maps JSON field names to
// messages when the failure is tied to specific fields.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// StatusCode implements HTTPError.
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// Is allows errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError indicates the request clashes with the stored state, such as
// a stale reorder or seeding a non-empty collection.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// StatusCode implements HTTPError.
func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// Is allows errors.Is(err, ErrConflict).
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func notFound(id string) error {
	return &NotFoundError{ID: id}
}

func invalid(field, msg string) error {
	return &ValidationError{Message: "Validation failed", Fields: map[string]string{field: msg}}
}

func conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// StatusCode returns the HTTP status for err, 500 for unknown errors.
func StatusCode(err error) int {
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// rejectionReason names the error class for metrics.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return ""
	}
}
