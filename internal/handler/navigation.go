// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/shopnav/internal/model"
	"github.com/olegiv/shopnav/internal/navview"
	"github.com/olegiv/shopnav/internal/service"
	"github.com/olegiv/shopnav/internal/transfer"
)

// NavigationHandler serves the navigation admin API and the storefront menu.
type NavigationHandler struct {
	nav    *service.NavigationService
	logger *slog.Logger
}

// NewNavigationHandler creates a new NavigationHandler.
func NewNavigationHandler(nav *service.NavigationService, logger *slog.Logger) *NavigationHandler {
	return &NavigationHandler{nav: nav, logger: logger}
}

// MoveRequest is the body of a move call.
type MoveRequest struct {
	Direction string `json:"direction"`
}

// ReorderRequest is the body of a reorder call.
type ReorderRequest struct {
	Items []service.OrderUpdate `json:"items"`
}

// CountResponse carries a descendant count.
type CountResponse struct {
	Count int `json:"count"`
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

// List handles GET /api/admin/navigation. The nested tree is returned unless
// flat=true is given; activeOnly=true drops inactive subtrees.
func (h *NavigationHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := service.ListOptions{ActiveOnly: queryBool(r, "activeOnly")}

	if queryBool(r, "flat") {
		entries, err := h.nav.ListFlat(r.Context(), opts)
		if err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}
		writeJSONSuccess(w, http.StatusOK, entries)
		return
	}

	tree, err := h.nav.ListTree(r.Context(), opts)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, tree)
}

// Get handles GET /api/admin/navigation/{id}.
func (h *NavigationHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.nav.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, e)
}

// Create handles POST /api/admin/navigation.
func (h *NavigationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateInput
	if !decodeJSON(w, r, &in) {
		return
	}
	e, err := h.nav.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSONSuccess(w, http.StatusCreated, e)
}

// Update handles PUT and PATCH /api/admin/navigation/{id}. Any subset of fields may be sent.
func (h *NavigationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p service.Patch
	if !decodeJSON(w, r, &p) {
		return
	}
	e, err := h.nav.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, e)
}

// Delete handles DELETE /api/admin/navigation/{id}, removing the whole subtree.
func (h *NavigationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.nav.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, res)
}

// Descendants handles GET /api/admin/navigation/{id}/descendants.
func (h *NavigationHandler) Descendants(w http.ResponseWriter, r *http.Request) {
	n, err := h.nav.DescendantCount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, CountResponse{Count: n})
}

// Move handles POST /api/admin/navigation/{id}/move.
func (h *NavigationHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.nav.Move(r.Context(), chi.URLParam(r, "id"), service.Direction(req.Direction))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, res)
}

// Duplicate handles POST /api/admin/navigation/{id}/duplicate.
func (h *NavigationHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	e, err := h.nav.Duplicate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSONSuccess(w, http.StatusCreated, e)
}

// Toggle handles POST /api/admin/navigation/{id}/toggle.
func (h *NavigationHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	e, err := h.nav.ToggleActive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, e)
}

// Reorder handles POST /api/admin/navigation/reorder, an atomic swap of two
// siblings' orders.
func (h *NavigationHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	entries, err := h.nav.Reorder(r.Context(), req.Items)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, entries)
}

// View handles GET /api/admin/navigation/view and returns the rows of the
// admin list for the given mode, search and expansion.
func (h *NavigationHandler) View(w http.ResponseWriter, r *http.Request) {
	entries, err := h.nav.Entries(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	q := r.URL.Query()
	st := navview.NewState()
	st.Mode = navview.ParseMode(q.Get("mode"))
	st.Query = q.Get("q")
	if queryBool(r, "expandAll") {
		st.ExpandAll(entries)
	} else {
		for _, id := range strings.Split(q.Get("expanded"), ",") {
			if id = strings.TrimSpace(id); id != "" {
				st.Expanded[id] = true
			}
		}
	}

	writeJSONSuccess(w, http.StatusOK, navview.Render(entries, *st))
}

// Seed handles POST /api/admin/navigation/seed.
func (h *NavigationHandler) Seed(w http.ResponseWriter, r *http.Request) {
	res, err := h.nav.Seed(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSONSuccess(w, http.StatusCreated, res)
}

// Export handles GET /api/admin/navigation/export?format=json|yaml and
// returns the raw document as a download.
func (h *NavigationHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := transfer.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.nav.Export(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	filename := fmt.Sprintf("navigation-%s.%s", time.Now().UTC().Format("20060102-150405"), format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := transfer.Encode(w, data, format); err != nil {
		h.logger.Error("failed to write export", "error", err)
	}
}

// Import handles POST /api/admin/navigation/import. The body is a JSON or
// YAML document; replace=true swaps out the current collection and
// dryRun=true only validates.
func (h *NavigationHandler) Import(w http.ResponseWriter, r *http.Request) {
	format, err := transfer.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := transfer.Decode(r.Body, format)
	if err != nil {
		if errors.Is(err, transfer.ErrDocumentTooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "Document too large")
			return
		}
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := transfer.ImportOptions{
		Replace: queryBool(r, "replace"),
		DryRun:  queryBool(r, "dryRun"),
	}
	res, err := h.nav.Import(r.Context(), data, opts)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	status := http.StatusCreated
	if res.DryRun {
		status = http.StatusOK
	}
	writeJSONSuccess(w, status, res)
}

// Public handles GET /api/navigation?placement=header|footer|mobile.
func (h *NavigationHandler) Public(w http.ResponseWriter, r *http.Request) {
	placement, err := model.ParsePlacement(r.URL.Query().Get("placement"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	tree, err := h.nav.PublicTree(r.Context(), placement)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, tree)
}
