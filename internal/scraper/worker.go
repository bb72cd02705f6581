package scraper

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jobmatch/internal/store"
)

// scrapedEvent is published to Redis after every scrape cycle so downstream
// consumers (index maintenance, UIs) can react without polling.
const scrapedEvent = "EVENT_JOBS_SCRAPED"

// Worker runs a full scrape cycle across all configured scrapers. It
// deduplicates by URL via the job store's insert-or-ignore and publishes a
// summary event when done; one failing site never blocks the others.
type Worker struct {
	jobs     store.JobStore
	rdb      *redis.Client
	scrapers []Scraper
	exclude  []string
	logger   *zap.Logger
}

// NewWorker constructs a Worker. rdb may be nil when events are not wanted.
func NewWorker(jobs store.JobStore, rdb *redis.Client, scrapers []Scraper, exclude []string, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{jobs: jobs, rdb: rdb, scrapers: scrapers, exclude: exclude, logger: logger}
}

// CycleStats summarises one scrape cycle.
type CycleStats struct {
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Filtered   int `json:"filtered"`
	Failed     int `json:"failed"`
}

// Run executes one scrape cycle over every scraper.
func (w *Worker) Run(ctx context.Context) CycleStats {
	var total CycleStats

	for _, s := range w.scrapers {
		stats, err := w.scrapeOne(ctx, s)
		if err != nil {
			w.logger.Warn("scrape failed", zap.String("source", s.Source()), zap.Error(err))
			total.Failed++
			continue
		}
		w.logger.Info("scrape done",
			zap.String("source", s.Source()),
			zap.Int("inserted", stats.Inserted),
			zap.Int("duplicates", stats.Duplicates),
			zap.Int("filtered", stats.Filtered))
		total.Inserted += stats.Inserted
		total.Duplicates += stats.Duplicates
		total.Filtered += stats.Filtered
	}

	w.publish(ctx, total)
	return total
}

func (w *Worker) scrapeOne(ctx context.Context, s Scraper) (CycleStats, error) {
	var stats CycleStats

	results, err := s.Scrape(ctx)
	if err != nil {
		return stats, err
	}

	for _, job := range results {
		if ContainsExcludedTerm(job.Title, job.Company, job.Description, w.exclude) {
			stats.Filtered++
			continue
		}

		_, inserted, err := w.jobs.InsertJobIfAbsent(ctx, job)
		if err != nil {
			w.logger.Warn("job insert failed", zap.String("url", job.URL), zap.Error(err))
			continue
		}
		if inserted {
			stats.Inserted++
		} else {
			stats.Duplicates++
		}
	}

	return stats, nil
}

// publish emits the cycle summary to Redis. Non-fatal: scraping succeeded
// whether or not anyone hears about it.
func (w *Worker) publish(ctx context.Context, stats CycleStats) {
	if w.rdb == nil {
		return
	}
	payload, _ := json.Marshal(stats)
	if err := w.rdb.Publish(ctx, scrapedEvent, payload).Err(); err != nil {
		w.logger.Warn("publish EVENT_JOBS_SCRAPED failed", zap.Error(err))
	}
}
