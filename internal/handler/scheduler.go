// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/shopnav/internal/middleware"
	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/scheduler"
	"github.com/olegiv/shopnav/internal/service"
)

// SchedulerHandler exposes the maintenance jobs to admins.
type SchedulerHandler struct {
	sched  *scheduler.Scheduler
	events *service.EventService
	logger *slog.Logger
}

// NewSchedulerHandler creates a new SchedulerHandler. events may be nil.
func NewSchedulerHandler(sched *scheduler.Scheduler, events *service.EventService, logger *slog.Logger) *SchedulerHandler {
	return &SchedulerHandler{sched: sched, events: events, logger: logger}
}

// ScheduleRequest is the body of a schedule update.
type ScheduleRequest struct {
	Schedule string `json:"schedule"`
}

func (h *SchedulerHandler) audit(r *http.Request, message string, meta map[string]any) {
	if h.events == nil {
		return
	}
	if staff := middleware.GetStaff(r); staff != nil {
		meta["by"] = staff.Subject
	}
	if err := h.events.LogInfo(r.Context(), model.EventCategorySystem, message, meta); err != nil {
		h.logger.Warn("failed to record scheduler event", "error", err)
	}
}

// List handles GET /api/admin/jobs.
func (h *SchedulerHandler) List(w http.ResponseWriter, _ *http.Request) {
	writeJSONSuccess(w, http.StatusOK, h.sched.List())
}

// TriggerNow handles POST /api/admin/jobs/{name}/run.
func (h *SchedulerHandler) TriggerNow(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.sched.TriggerNow(r.Context(), name); err != nil {
		h.logger.Error("failed to trigger job", "error", err, "name", name)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.audit(r, "Job manually triggered: "+name, map[string]any{"name": name})
	writeJSONSuccess(w, http.StatusOK, map[string]string{"name": name})
}

// UpdateSchedule handles PUT /api/admin/jobs/{name}.
func (h *SchedulerHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name := chi.URLParam(r, "name")
	schedule := strings.TrimSpace(req.Schedule)

	var err error
	if schedule == "" {
		err = h.sched.ResetSchedule(name)
	} else {
		err = h.sched.UpdateSchedule(name, schedule)
	}
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.audit(r, "Schedule updated: "+name, map[string]any{"name": name, "schedule": schedule})
	writeJSONSuccess(w, http.StatusOK, h.sched.List())
}
