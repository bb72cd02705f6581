// Package scheduler wires up the cron job that periodically scrapes all
// configured job boards and refreshes embedding coverage afterwards.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"jobmatch/internal/match"
	"jobmatch/internal/scraper"
)

// Scheduler wraps robfig/cron and manages the scrape + reindex loop.
type Scheduler struct {
	cron    *cron.Cron
	worker  *scraper.Worker
	indexer *match.Indexer
	spec    string // cron spec, e.g. "@every 6h"
	logger  *zap.Logger
}

// New creates a Scheduler that fires every intervalHours hours.
func New(worker *scraper.Worker, indexer *match.Indexer, intervalHours int, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cron.DefaultLogger)),
		worker:  worker,
		indexer: indexer,
		spec:    fmt.Sprintf("@every %dh", intervalHours),
		logger:  logger,
	}
}

// Start registers the job and starts the scheduler. Also runs one cycle
// immediately so the corpus is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("cron started", zap.String("spec", s.spec))

	go s.runCycle(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("cron stopped")
}

// runCycle scrapes every board, then embeds whatever the cycle brought in.
func (s *Scheduler) runCycle(ctx context.Context) {
	s.logger.Info("scrape cycle started")

	stats := s.worker.Run(ctx)
	s.logger.Info("scrape cycle complete",
		zap.Int("inserted", stats.Inserted),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("filtered", stats.Filtered),
		zap.Int("failed", stats.Failed))

	processed, err := s.indexer.GenerateMissing(ctx, match.DefaultBatchSize, false)
	if err != nil {
		s.logger.Error("post-scrape reindex failed", zap.Error(err))
		return
	}
	s.logger.Info("post-scrape reindex complete", zap.Int("embedded", processed))
}
