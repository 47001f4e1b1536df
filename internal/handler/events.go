// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/service"
)

// EventsHandler serves the event log.
type EventsHandler struct {
	events *service.EventService
	logger *slog.Logger
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(events *service.EventService, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{events: events, logger: logger}
}

// EventView is an event with its metadata flattened for display.
type EventView struct {
	model.Event
	Details string `json:"details,omitempty"`
}

// EventsResponse is one page of the event log.
type EventsResponse struct {
	Events []EventView `json:"events"`
	Total  int64       `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// formatMetadata converts JSON metadata to readable text format.
// Example: {"path":"/api/admin/navigation","error":"not found"} -> "error: not found, path: /api/admin/navigation"
func formatMetadata(metadata string) string {
	if metadata == "" || metadata == "{}" {
		return ""
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(metadata), &data); err != nil {
		return metadata
	}
	if len(data) == 0 {
		return ""
	}

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		var strValue string
		switch v := data[key].(type) {
		case string:
			strValue = v
		case float64:
			strValue = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			strValue = strconv.FormatBool(v)
		default:
			if b, err := json.Marshal(v); err == nil {
				strValue = string(b)
			}
		}
		parts = append(parts, key+": "+strValue)
	}
	return strings.Join(parts, ", ")
}

// List handles GET /api/admin/events?limit=&offset=, newest first.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	page, err := h.events.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	resp := EventsResponse{
		Events: make([]EventView, 0, len(page.Events)),
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	for _, e := range page.Events {
		resp.Events = append(resp.Events, EventView{Event: e, Details: formatMetadata(e.Metadata)})
	}
	writeJSONSuccess(w, http.StatusOK, resp)
}
