// Package store implements PostgreSQL persistence for jobs and their
// embeddings. The interfaces here are the seams the matching engine depends
// on; tests substitute in-memory fakes.
package store

import (
	"context"

	"jobmatch/internal/model"
)

// VectorHit is one nearest-neighbour result: the job row joined with its
// embedding snapshot and the cosine similarity against the query vector.
type VectorHit struct {
	Job        model.Job
	SkillsText string
	Similarity float64
}

// JobStore reads and writes the jobs table. Inserts are idempotent on URL;
// nothing in the matching engine ever mutates a job row.
type JobStore interface {
	// InsertJobIfAbsent inserts a scraped job unless its URL already exists.
	// Returns the inserted row's ID and true, or 0 and false on a duplicate.
	InsertJobIfAbsent(ctx context.Context, job model.ScrapedJob) (int64, bool, error)

	// CountActiveJobs returns the number of active job rows.
	CountActiveJobs(ctx context.Context) (int, error)
}

// EmbeddingStore persists job embeddings. The job_id uniqueness constraint
// is the sole concurrency guard: duplicate generation races resolve to
// insert-or-ignore, never an error.
type EmbeddingStore interface {
	// Setup creates the vector extension, the job_embeddings table with the
	// given dimension, and the similarity index, all IF NOT EXISTS. Failure
	// is fatal to any operation that needs to store embeddings.
	Setup(ctx context.Context, dim int) error

	// InsertIfAbsent stores one embedding, silently doing nothing when the
	// job already has one.
	InsertIfAbsent(ctx context.Context, emb model.JobEmbedding) error

	// InsertBatch stores a group of embeddings in a single transaction.
	// The batch commits or rolls back as a whole, independently of any
	// other batch. Rows whose job already has an embedding are ignored.
	InsertBatch(ctx context.Context, embs []model.JobEmbedding) error

	// DeleteAll removes every embedding row (force regeneration).
	DeleteAll(ctx context.Context) error

	// JobsMissingEmbeddings returns active jobs without an embedding,
	// most recently scraped first. limit <= 0 means no limit.
	JobsMissingEmbeddings(ctx context.Context, limit int) ([]model.Job, error)

	// Nearest returns up to limit active jobs ordered by ascending cosine
	// distance to the query vector, ties broken by lower job ID.
	Nearest(ctx context.Context, query []float32, limit int) ([]VectorHit, error)

	// CountEmbeddings returns the number of embedding rows.
	CountEmbeddings(ctx context.Context) (int, error)
}
