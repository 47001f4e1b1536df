// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import (
	"fmt"
	"net/http"

	"github.com/olegiv/shopnav/internal/service"
)

// maxErrorBody caps how much of an unexpected response is kept.
const maxErrorBody = 4 * 1024

// TransportError reports a response that did not carry a JSON envelope,
// such as an HTML error page from a proxy.
type TransportError struct {
	StatusCode  int
	ContentType string
	Body        string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("unexpected response: status %d, content type %q", e.StatusCode, e.ContentType)
}

// APIError is an envelope error whose status has no domain error.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// envelopeError turns a failure envelope back into the error the server
// started from.
func envelopeError(status int, env envelope) error {
	msg := env.Error
	if msg == "" {
		msg = http.StatusText(status)
	}
	switch status {
	case http.StatusBadRequest:
		return &service.ValidationError{Message: msg, Fields: env.Fields}
	case http.StatusNotFound:
		return &service.NotFoundError{Message: msg}
	case http.StatusConflict:
		return &service.ConflictError{Message: msg}
	default:
		return &APIError{StatusCode: status, Message: msg}
	}
}
