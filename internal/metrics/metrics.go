// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics exposes shopnav's Prometheus instruments.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Mutation operation labels.
const (
	OpCreate    = "create"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpMove      = "move"
	OpReorder   = "reorder"
	OpDuplicate = "duplicate"
	OpToggle    = "toggle"
	OpSeed      = "seed"
	OpImport    = "import"
)

// CacheStatsFunc reports cumulative cache hits and misses.
type CacheStatsFunc func() (hits, misses int64)

// Metrics holds the registry and the counters recorded by the service.
type Metrics struct {
	registry  *prometheus.Registry
	mutations *prometheus.CounterVec
	rejected  *prometheus.CounterVec
}

// New creates a private registry with Go and process collectors and the
// navigation counters registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopnav_navigation_mutations_total",
			Help: "Successful navigation mutations by operation.",
		}, []string{"operation"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopnav_navigation_rejected_total",
			Help: "Navigation mutations rejected by validation, lookup or conflict checks.",
		}, []string{"operation", "reason"}),
	}
	reg.MustRegister(m.mutations, m.rejected)
	return m
}

// Mutation records a successful mutation. Safe on a nil receiver.
func (m *Metrics) Mutation(op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op).Inc()
}

// Rejected records a mutation refused with reason (validation, not_found,
// conflict). Safe on a nil receiver.
func (m *Metrics) Rejected(op, reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(op, reason).Inc()
}

// RegisterCache exposes hit and miss counters read from stats on scrape.
func (m *Metrics) RegisterCache(stats CacheStatsFunc) {
	m.registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "shopnav_navigation_cache_hits_total",
			Help: "Public navigation lookups served from cache.",
		}, func() float64 {
			hits, _ := stats()
			return float64(hits)
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "shopnav_navigation_cache_misses_total",
			Help: "Public navigation lookups that rebuilt the tree.",
		}, func() float64 {
			_, misses := stats()
			return float64(misses)
		}),
	)
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
