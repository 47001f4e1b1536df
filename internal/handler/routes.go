// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/olegiv/shopnav/internal/middleware"
)

// publicMaxAge is the browser cache lifetime of the storefront menu, in seconds.
const publicMaxAge = 60

// Deps wires the router. Metrics, Jobs and RateLimiter are optional.
type Deps struct {
	Logger         *slog.Logger
	Navigation     *NavigationHandler
	Events         *EventsHandler
	Health         *HealthHandler
	Jobs           *SchedulerHandler
	Verifier       middleware.TokenVerifier
	RateLimiter    *middleware.IPRateLimiter
	Metrics        http.Handler
	CORSOrigins    []string
	RequestTimeout time.Duration
	IsDevelopment  bool
}

// NewRouter builds the HTTP routes.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	if d.RequestTimeout > 0 {
		r.Use(middleware.Timeout(d.RequestTimeout))
	}
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(d.IsDevelopment)))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Health and metrics
	r.Get(RouteHealth, d.Health.Health)
	r.Get(RouteHealthLive, d.Health.Liveness)
	r.Get(RouteHealthReady, d.Health.Readiness)
	if d.Metrics != nil {
		r.Method(http.MethodGet, RouteMetrics, d.Metrics)
	}

	// Storefront
	r.With(middleware.PublicCache(publicMaxAge)).Get(RoutePublicNavigation, d.Navigation.Public)

	// Admin API
	r.Route(RouteAdmin, func(r chi.Router) {
		if len(d.CORSOrigins) > 0 {
			r.Use(cors.New(cors.Options{
				AllowedOrigins:   d.CORSOrigins,
				AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
				AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
				AllowCredentials: true,
			}).Handler)
		}
		r.Use(middleware.NoStore)
		r.Use(middleware.StaffAuth(d.Verifier))
		if d.RateLimiter != nil {
			r.Use(middleware.MutationsOnly(d.RateLimiter.Middleware()))
		}

		r.Route(RouteNavigation, func(r chi.Router) {
			nav := d.Navigation
			r.Get(RouteRoot, nav.List)
			r.Post(RouteRoot, nav.Create)
			r.Get(RouteSuffixView, nav.View)
			r.Get(RouteSuffixExport, nav.Export)
			r.Post(RouteSuffixReorder, nav.Reorder)
			r.With(middleware.RequireAdmin).Post(RouteSuffixSeed, nav.Seed)
			r.With(middleware.RequireAdmin).Post(RouteSuffixImport, nav.Import)

			r.Get(RouteParamID, nav.Get)
			r.Put(RouteParamID, nav.Update)
			r.Patch(RouteParamID, nav.Update)
			r.Delete(RouteParamID, nav.Delete)
			r.Get(RouteParamID+RouteSuffixDescendants, nav.Descendants)
			r.Post(RouteParamID+RouteSuffixMove, nav.Move)
			r.Post(RouteParamID+RouteSuffixDuplicate, nav.Duplicate)
			r.Post(RouteParamID+RouteSuffixToggle, nav.Toggle)
		})

		r.Get(RouteEvents, d.Events.List)
		r.Get(RouteHealth, d.Health.Details)

		if d.Jobs != nil {
			r.Route(RouteJobs, func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get(RouteRoot, d.Jobs.List)
				r.Post(RouteSuffixTrigger, d.Jobs.TriggerNow)
				r.Put("/{name}", d.Jobs.UpdateSchedule)
			})
		}
	})

	return r
}
