// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the navigation API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/olegiv/shopnav/internal/service"
)

// maxBodyBytes bounds JSON request bodies outside of import.
const maxBodyBytes = 1 << 20

// Envelope is the shape of every API response.
type Envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONSuccess writes a success envelope around data.
func writeJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, Envelope{Success: true, Data: data})
}

// writeJSONError writes a failure envelope.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, Envelope{Error: message})
}

// writeServiceError maps a service error to its status code. Unexpected
// errors are logged and answered with a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := service.StatusCode(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSONError(w, status, "Internal Server Error")
		return
	}

	env := Envelope{Error: err.Error()}
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		env.Error = ve.Message
		env.Fields = ve.Fields
	}
	writeJSON(w, status, env)
}

// decodeJSON reads a JSON body into dst, rejecting unknown fields and
// trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
