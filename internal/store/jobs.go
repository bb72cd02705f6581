package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobmatch/internal/model"
)

// Jobs is the pgx-backed JobStore.
type Jobs struct {
	pool *pgxpool.Pool
}

// NewJobs returns a JobStore backed by the given pool.
func NewJobs(pool *pgxpool.Pool) *Jobs {
	return &Jobs{pool: pool}
}

// Setup creates the jobs table if it does not exist.
func (s *Jobs) Setup(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS jobs (
			id          BIGSERIAL PRIMARY KEY,
			source      TEXT NOT NULL,
			title       TEXT NOT NULL,
			company     TEXT,
			location    TEXT,
			description TEXT,
			url         TEXT NOT NULL UNIQUE,
			scraped_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			is_active   BOOLEAN NOT NULL DEFAULT TRUE
		)`)
	if err != nil {
		return fmt.Errorf("create jobs table: %w", err)
	}
	return nil
}

// InsertJobIfAbsent inserts a scraped job, skipping duplicates by URL.
func (s *Jobs) InsertJobIfAbsent(ctx context.Context, job model.ScrapedJob) (int64, bool, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO jobs (source, title, company, location, description, url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (url) DO NOTHING
		 RETURNING id`,
		job.Source, job.Title, job.Company, job.Location, job.Description, job.URL,
	).Scan(&id)
	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("insert job: %w", err)
	}
	return id, true, nil
}

// CountActiveJobs returns the number of active job rows.
func (s *Jobs) CountActiveJobs(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM jobs WHERE is_active = TRUE`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active jobs: %w", err)
	}
	return n, nil
}
