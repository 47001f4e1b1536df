// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/store"
)

// Event list paging bounds.
const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

// EventService provides the audit event log.
type EventService struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB, logger *slog.Logger) *EventService {
	return &EventService{
		queries: store.New(db),
		logger:  logger,
	}
}

// LogEvent creates a new event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, metadata map[string]any) error {
	metadataJSON := "{}"
	if metadata != nil {
		jsonBytes, err := json.Marshal(metadata)
		if err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		Metadata:  metadataJSON,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("failed to log event", "error", err)
		return err
	}

	return nil
}

// LogInfo logs an info-level event.
func (s *EventService) LogInfo(ctx context.Context, category, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, category, message, metadata)
}

// LogWarning logs a warning-level event.
func (s *EventService) LogWarning(ctx context.Context, category, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelWarning, category, message, metadata)
}

// LogError logs an error-level event.
func (s *EventService) LogError(ctx context.Context, category, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelError, category, message, metadata)
}

// EventPage is one page of the event log, newest first.
type EventPage struct {
	Events []model.Event `json:"events"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// List returns a page of events. Out-of-range limits are clamped.
func (s *EventService) List(ctx context.Context, limit, offset int) (EventPage, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.queries.ListEvents(ctx, store.ListEventsParams{Limit: int64(limit), Offset: int64(offset)})
	if err != nil {
		return EventPage{}, fmt.Errorf("listing events: %w", err)
	}
	total, err := s.queries.CountEvents(ctx)
	if err != nil {
		return EventPage{}, fmt.Errorf("counting events: %w", err)
	}

	page := EventPage{Events: make([]model.Event, 0, len(rows)), Total: total, Limit: limit, Offset: offset}
	for _, r := range rows {
		page.Events = append(page.Events, model.Event{
			ID:        r.ID,
			Level:     r.Level,
			Category:  r.Category,
			Message:   r.Message,
			Metadata:  r.Metadata,
			CreatedAt: r.CreatedAt,
		})
	}
	return page, nil
}

// DeleteOldEvents removes events older than the specified duration and
// returns how many were removed.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	return s.queries.DeleteEventsBefore(ctx, cutoff)
}
