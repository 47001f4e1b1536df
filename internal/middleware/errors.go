// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, rate limiting and request handling.
package middleware

import (
	"encoding/json"
	"net/http"
)

// errorEnvelope mirrors the API's failure response.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteAPIError writes a JSON failure envelope.
func WriteAPIError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: message})
}
