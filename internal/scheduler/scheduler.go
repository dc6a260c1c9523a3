// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the server's periodic maintenance jobs.
package scheduler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/parish-go/internal/cache"
	"github.com/olegiv/parish-go/internal/model"
	"github.com/olegiv/parish-go/internal/store"
)

// Default schedules.
const (
	ReadingsRetentionSchedule = "@daily"
	EventLogRetentionSchedule = "@weekly"
)

// EventLogRetention is how long event log rows are kept.
const EventLogRetention = 180 * 24 * time.Hour

// Config controls which jobs are registered.
type Config struct {
	// ReadingsRetentionDays prunes older readings daily. Zero disables the job.
	ReadingsRetentionDays int
}

// Scheduler owns a cron instance and the maintenance jobs.
type Scheduler struct {
	db     *sql.DB
	cache  cache.Cacher
	cfg    Config
	cron   *cron.Cron
	logger *slog.Logger
	now    func() time.Time
}

// New creates a scheduler. cache may be nil.
func New(db *sql.DB, c cache.Cacher, cfg Config, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		db:     db,
		cache:  c,
		cfg:    cfg,
		cron:   cron.New(),
		logger: logger,
		now:    time.Now,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.cfg.ReadingsRetentionDays > 0 {
		if _, err := s.cron.AddFunc(ReadingsRetentionSchedule, s.runJob("readings retention", s.PruneReadings)); err != nil {
			return fmt.Errorf("adding readings job: %w", err)
		}
	}
	if _, err := s.cron.AddFunc(EventLogRetentionSchedule, s.runJob("event log retention", s.PruneEventLog)); err != nil {
		return fmt.Errorf("adding event log job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Jobs returns the next run time of each registered job.
func (s *Scheduler) Jobs() []time.Time {
	entries := s.cron.Entries()
	next := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		next = append(next, e.Next)
	}
	return next
}

func (s *Scheduler) runJob(name string, fn func(context.Context) (int64, error)) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		start := s.now()
		removed, err := fn(ctx)
		if err != nil {
			s.logger.Error("scheduler job failed", "job", name, "error", err, "category", model.LogCategoryScheduler)
			return
		}
		s.logger.Info("scheduler job finished", "job", name, "removed", removed, "took", s.now().Sub(start))
	}
}

// PruneReadings deletes readings dated before the retention cutoff and
// drops cached readings when anything was removed.
func (s *Scheduler) PruneReadings(ctx context.Context) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -s.cfg.ReadingsRetentionDays).Format(time.DateOnly)

	removed, err := store.New(s.db).DeleteReadingsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting readings before %s: %w", cutoff, err)
	}
	if removed == 0 {
		return 0, nil
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPrefix(ctx, cache.PrefixReadings); err != nil {
			s.logger.Warn("failed to invalidate readings cache", "error", err)
		}
	}
	s.record(ctx, "Old readings removed", map[string]any{"removed": removed, "before": cutoff})
	return removed, nil
}

// PruneEventLog deletes event log rows older than EventLogRetention.
func (s *Scheduler) PruneEventLog(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-EventLogRetention)
	removed, err := store.New(s.db).DeleteEventLogBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting event log before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return removed, nil
}

// record writes an info row to the event log; the slog handler only
// persists warnings and errors.
func (s *Scheduler) record(ctx context.Context, message string, metadata map[string]any) {
	meta, _ := json.Marshal(metadata)
	_, err := store.New(s.db).CreateEventLog(ctx, store.CreateEventLogParams{
		Level:     model.LogLevelInfo,
		Category:  model.LogCategoryScheduler,
		Message:   message,
		Metadata:  string(meta),
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("failed to record scheduler event", "error", err)
	}
}
