// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"

	// RoutePublicNavigation serves the storefront menu.
	RoutePublicNavigation = "/api/navigation"
	// RouteAdmin prefixes every admin route.
	RouteAdmin = "/api/admin"
	// RouteNavigation is the navigation admin route.
	RouteNavigation = "/navigation"
	// RouteEvents is the event log admin route.
	RouteEvents = "/events"
	// RouteJobs is the scheduled jobs admin route.
	RouteJobs = "/jobs"

	// RouteSuffixDescendants is the suffix for descendant count routes.
	RouteSuffixDescendants = "/descendants"
	// RouteSuffixMove is the suffix for move routes.
	RouteSuffixMove = "/move"
	// RouteSuffixDuplicate is the suffix for duplicate routes.
	RouteSuffixDuplicate = "/duplicate"
	// RouteSuffixToggle is the suffix for toggle routes.
	RouteSuffixToggle = "/toggle"
	// RouteSuffixReorder is the suffix for reorder routes.
	RouteSuffixReorder = "/reorder"
	// RouteSuffixView is the suffix for the admin view.
	RouteSuffixView = "/view"
	// RouteSuffixSeed is the suffix for seed routes.
	RouteSuffixSeed = "/seed"
	// RouteSuffixExport is the suffix for export routes.
	RouteSuffixExport = "/export"
	// RouteSuffixImport is the suffix for import routes.
	RouteSuffixImport = "/import"
	// RouteSuffixTrigger is the suffix for manual job runs.
	RouteSuffixTrigger = "/{name}/run"

	// RouteHealth is the health check route.
	RouteHealth = "/health"
	// RouteHealthLive is the liveness route.
	RouteHealthLive = "/health/live"
	// RouteHealthReady is the readiness route.
	RouteHealthReady = "/health/ready"
	// RouteMetrics is the Prometheus route.
	RouteMetrics = "/metrics"
)

// Log messages shared between handlers.
const (
	// LogCacheInit is logged once the navigation cache backend is chosen.
	LogCacheInit = "navigation cache initialized"
)
