// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/dev-profiles/internal/config"
	"github.com/MKhiriev/dev-profiles/internal/logger"
)

// GitHubSyncWorker periodically refreshes GitHub snapshots that are older
// than the configured age, a batch at a time.
type GitHubSyncWorker struct {
	syncer GitHubSyncer

	interval   time.Duration
	batch      int
	staleAfter time.Duration
	now        func() time.Time

	logger *logger.Logger
}

func NewGitHubSyncWorker(syncer GitHubSyncer, cfg config.Workers, logger *logger.Logger) *GitHubSyncWorker {
	return &GitHubSyncWorker{
		syncer:     syncer,
		interval:   cfg.GitHubSyncInterval,
		batch:      cfg.GitHubSyncBatch,
		staleAfter: cfg.GitHubStaleAfter,
		now:        time.Now,
		logger:     logger,
	}
}

// Run ticks every interval until ctx is cancelled. A zero interval or batch
// disables the worker. Sync failures are logged and never stop the loop.
func (w *GitHubSyncWorker) Run(ctx context.Context) error {
	if w.interval <= 0 || w.batch <= 0 {
		w.logger.Info().Msg("github sync worker disabled")
		return nil
	}

	w.logger.Info().
		Dur("interval", w.interval).
		Int("batch", w.batch).
		Dur("stale_after", w.staleAfter).
		Msg("github sync worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("github sync worker stopped")
			return nil
		case <-ticker.C:
			w.syncOnce(ctx)
		}
	}
}

func (w *GitHubSyncWorker) syncOnce(ctx context.Context) {
	start := w.now()

	synced, err := w.syncer.SyncStale(ctx, start.Add(-w.staleAfter), w.batch)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Err(err).Str("func", "*GitHubSyncWorker.syncOnce").Msg("github sync batch failed")
		}
		return
	}

	if synced > 0 {
		w.logger.Info().Int("synced", synced).Dur("took", time.Since(start)).Msg("github snapshots refreshed")
	}
}
