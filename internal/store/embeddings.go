package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"jobmatch/internal/model"
)

// Embeddings is the pgx-backed EmbeddingStore using pgvector.
type Embeddings struct {
	pool *pgxpool.Pool
}

// NewEmbeddings returns an EmbeddingStore backed by the given pool.
func NewEmbeddings(pool *pgxpool.Pool) *Embeddings {
	return &Embeddings{pool: pool}
}

// Setup enables the vector extension and creates the job_embeddings table
// plus the cosine similarity index. Everything is IF NOT EXISTS so repeated
// calls are harmless; failure here means embeddings cannot be stored at all.
func (s *Embeddings) Setup(ctx context.Context, dim int) error {
	if _, err := s.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("enable pgvector extension (is pgvector installed?): %w", err)
	}

	if _, err := s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS job_embeddings (
			job_id      BIGINT PRIMARY KEY REFERENCES jobs(id) ON DELETE CASCADE,
			full_text   TEXT NOT NULL,
			skills_text TEXT,
			embedding   vector(%d) NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, dim)); err != nil {
		return fmt.Errorf("create job_embeddings table: %w", err)
	}

	if _, err := s.pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS job_embeddings_embedding_idx
		ON job_embeddings
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`); err != nil {
		return fmt.Errorf("create embedding index: %w", err)
	}

	return nil
}

// InsertIfAbsent stores one embedding, no-op when the job already has one.
func (s *Embeddings) InsertIfAbsent(ctx context.Context, emb model.JobEmbedding) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO job_embeddings (job_id, full_text, skills_text, embedding)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (job_id) DO NOTHING`,
		emb.JobID, emb.FullText, emb.SkillsText, pgvector.NewVector(emb.Embedding),
	)
	if err != nil {
		return fmt.Errorf("insert embedding for job %d: %w", emb.JobID, err)
	}
	return nil
}

// InsertBatch stores a group of embeddings atomically.
func (s *Embeddings) InsertBatch(ctx context.Context, embs []model.JobEmbedding) error {
	if len(embs) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, emb := range embs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_embeddings (job_id, full_text, skills_text, embedding)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (job_id) DO NOTHING`,
			emb.JobID, emb.FullText, emb.SkillsText, pgvector.NewVector(emb.Embedding),
		); err != nil {
			return fmt.Errorf("batch insert embedding for job %d: %w", emb.JobID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// DeleteAll removes every embedding row.
func (s *Embeddings) DeleteAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM job_embeddings`); err != nil {
		return fmt.Errorf("delete embeddings: %w", err)
	}
	return nil
}

// JobsMissingEmbeddings returns active jobs without an embedding, most
// recently scraped first.
func (s *Embeddings) JobsMissingEmbeddings(ctx context.Context, limit int) ([]model.Job, error) {
	q := `
		SELECT j.id, j.source, j.title, COALESCE(j.company, ''), COALESCE(j.location, ''),
		       COALESCE(j.description, ''), j.url, j.scraped_at, j.is_active
		FROM jobs j
		LEFT JOIN job_embeddings je ON j.id = je.job_id
		WHERE je.job_id IS NULL AND j.is_active = TRUE
		ORDER BY j.scraped_at DESC`

	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.pool.Query(ctx, q+` LIMIT $1`, limit)
	} else {
		rows, err = s.pool.Query(ctx, q)
	}
	if err != nil {
		return nil, fmt.Errorf("query jobs missing embeddings: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		var j model.Job
		if err := rows.Scan(
			&j.ID, &j.Source, &j.Title, &j.Company, &j.Location,
			&j.Description, &j.URL, &j.ScrapedAt, &j.IsActive,
		); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// Nearest returns up to limit active jobs by ascending cosine distance to
// the query vector. Similarity is 1 - cosine distance; ties break on the
// lower job ID so ordering stays deterministic.
func (s *Embeddings) Nearest(ctx context.Context, query []float32, limit int) ([]VectorHit, error) {
	vec := pgvector.NewVector(query)
	rows, err := s.pool.Query(ctx, `
		SELECT j.id, j.source, j.title, COALESCE(j.company, ''), COALESCE(j.location, ''),
		       COALESCE(j.description, ''), j.url, j.scraped_at, j.is_active,
		       COALESCE(je.skills_text, ''),
		       1 - (je.embedding <=> $1) AS similarity
		FROM jobs j
		JOIN job_embeddings je ON j.id = je.job_id
		WHERE j.is_active = TRUE
		ORDER BY je.embedding <=> $1, j.id
		LIMIT $2`,
		vec, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("nearest query: %w", err)
	}
	defer rows.Close()

	var hits []VectorHit
	for rows.Next() {
		var h VectorHit
		if err := rows.Scan(
			&h.Job.ID, &h.Job.Source, &h.Job.Title, &h.Job.Company, &h.Job.Location,
			&h.Job.Description, &h.Job.URL, &h.Job.ScrapedAt, &h.Job.IsActive,
			&h.SkillsText, &h.Similarity,
		); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// CountEmbeddings returns the number of embedding rows.
func (s *Embeddings) CountEmbeddings(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM job_embeddings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count embeddings: %w", err)
	}
	return n, nil
}
