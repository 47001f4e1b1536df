// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the service's periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job names
const (
	JobPruneEvents = "prune-events"
	JobWarmCache   = "warm-navigation-cache"
)

// Default schedules
const (
	DefaultPruneSchedule = "0 3 * * *"
	DefaultWarmSchedule  = "*/15 * * * *"
)

// jobTimeout bounds a single run.
const jobTimeout = 2 * time.Minute

// EventPruner deletes event log entries older than a cutoff.
type EventPruner interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error)
}

// CacheWarmer rebuilds the public navigation cache.
type CacheWarmer interface {
	WarmCache(ctx context.Context) error
}

type registeredJob struct {
	name        string
	description string
	defaultSpec string
	spec        string
	entryID     cron.EntryID
	run         func(ctx context.Context) error
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DefaultSchedule string    `json:"defaultSchedule"`
	Schedule        string    `json:"schedule"`
	IsOverridden    bool      `json:"isOverridden"`
	LastRun         time.Time `json:"lastRun,omitzero"`
	NextRun         time.Time `json:"nextRun,omitzero"`
}

// Scheduler owns a cron instance and the jobs registered on it.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	parser cron.Parser

	mu   sync.RWMutex
	jobs map[string]*registeredJob
}

// New creates a new scheduler instance.
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
		parser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		jobs:   make(map[string]*registeredJob),
	}
}

// Register adds a job under name. Registering the same name twice is an error.
func (s *Scheduler) Register(name, description, spec string, run func(ctx context.Context) error) error {
	if _, err := s.parser.Parse(spec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("job already registered: %s", name)
	}

	job := &registeredJob{
		name:        name,
		description: description,
		defaultSpec: spec,
		spec:        spec,
		run:         run,
	}
	id, err := s.cron.AddFunc(spec, s.wrap(job))
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", name, err)
	}
	job.entryID = id
	s.jobs[name] = job

	s.logger.Debug("registered scheduled job", "name", name, "schedule", spec)
	return nil
}

// RegisterEventPruning schedules deletion of events older than retention.
func (s *Scheduler) RegisterEventPruning(p EventPruner, retention time.Duration, spec string) error {
	return s.Register(JobPruneEvents, "Delete event log entries past retention", spec, func(ctx context.Context) error {
		n, err := p.DeleteOldEvents(ctx, retention)
		if err != nil {
			return err
		}
		if n > 0 {
			s.logger.Info("pruned old events", "count", n, "retention", retention)
		}
		return nil
	})
}

// RegisterCacheWarming schedules a rebuild of the public navigation cache.
func (s *Scheduler) RegisterCacheWarming(w CacheWarmer, spec string) error {
	return s.Register(JobWarmCache, "Rebuild cached storefront navigation", spec, w.WarmCache)
}

func (s *Scheduler) wrap(job *registeredJob) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := job.run(ctx); err != nil {
			s.logger.Error("scheduled job failed", "job", job.name, "error", err)
		}
	}
}

// Start begins running registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// List returns all registered jobs sorted by name.
func (s *Scheduler) List() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]JobInfo, 0, len(s.jobs))
	for _, job := range s.jobs {
		entry := s.cron.Entry(job.entryID)
		result = append(result, JobInfo{
			Name:            job.name,
			Description:     job.description,
			DefaultSchedule: job.defaultSpec,
			Schedule:        job.spec,
			IsOverridden:    job.spec != job.defaultSpec,
			LastRun:         entry.Prev,
			NextRun:         entry.Next,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// TriggerNow runs a job immediately on the caller's goroutine.
func (s *Scheduler) TriggerNow(ctx context.Context, name string) error {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("job not found: %s", name)
	}

	s.logger.Info("manually triggering job", "name", name)
	return job.run(ctx)
}

// UpdateSchedule replaces a job's cron entry with one on spec.
func (s *Scheduler) UpdateSchedule(name, spec string) error {
	if _, err := s.parser.Parse(spec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("job not found: %s", name)
	}

	s.cron.Remove(job.entryID)
	id, err := s.cron.AddFunc(spec, s.wrap(job))
	if err != nil {
		fallbackID, fallbackErr := s.cron.AddFunc(job.spec, s.wrap(job))
		if fallbackErr != nil {
			return fmt.Errorf("critical: failed to restore schedule after update failure: %w (original: %w)", fallbackErr, err)
		}
		job.entryID = fallbackID
		return fmt.Errorf("failed to apply new schedule: %w", err)
	}
	job.entryID = id
	job.spec = spec

	s.logger.Info("updated job schedule", "name", name, "schedule", spec)
	return nil
}

// ResetSchedule restores a job's default schedule.
func (s *Scheduler) ResetSchedule(name string) error {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job not found: %s", name)
	}
	if job.spec == job.defaultSpec {
		return nil
	}
	return s.UpdateSchedule(name, job.defaultSpec)
}
