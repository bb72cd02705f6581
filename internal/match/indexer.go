package match

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"jobmatch/internal/encode"
	"jobmatch/internal/model"
	"jobmatch/internal/store"
)

// DefaultBatchSize groups embedding inserts for throughput during bulk
// generation.
const DefaultBatchSize = 100

// Indexer keeps the embedding store eventually consistent with the jobs
// table. Generation is lazy and idempotent: rerunning only processes jobs
// that still lack an embedding.
type Indexer struct {
	enc    encode.Encoder
	embs   store.EmbeddingStore
	logger *zap.Logger
}

// NewIndexer returns an Indexer using the shared encoder instance.
func NewIndexer(enc encode.Encoder, embs store.EmbeddingStore, logger *zap.Logger) *Indexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{enc: enc, embs: embs, logger: logger}
}

// GenerateMissing embeds every active job that lacks an embedding, most
// recently scraped first, committing in independent atomic batches. With
// force, all existing embeddings are deleted first.
//
// Store setup failure (missing vector extension) aborts the whole run;
// a single job failing to embed is logged and skipped, and a failed batch
// does not roll back earlier batches. Returns the number of committed rows.
func (ix *Indexer) GenerateMissing(ctx context.Context, batchSize int, force bool) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	if err := ix.embs.Setup(ctx, ix.enc.Dimension()); err != nil {
		return 0, fmt.Errorf("embedding store setup: %w", err)
	}

	if force {
		ix.logger.Info("clearing existing embeddings")
		if err := ix.embs.DeleteAll(ctx); err != nil {
			return 0, fmt.Errorf("clear embeddings: %w", err)
		}
	}

	jobs, err := ix.embs.JobsMissingEmbeddings(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("query jobs missing embeddings: %w", err)
	}
	if len(jobs) == 0 {
		ix.logger.Info("all jobs already have embeddings")
		return 0, nil
	}

	ix.logger.Info("generating embeddings", zap.Int("jobs", len(jobs)))

	var (
		batch     []model.JobEmbedding
		committed int
		failed    int
	)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := ix.embs.InsertBatch(ctx, batch); err != nil {
			ix.logger.Warn("embedding batch failed", zap.Int("size", len(batch)), zap.Error(err))
			failed += len(batch)
		} else {
			committed += len(batch)
		}
		batch = batch[:0]
	}

	for _, job := range jobs {
		emb, err := ix.embed(ctx, job)
		if err != nil {
			ix.logger.Warn("embedding generation failed", zap.Int64("jobId", job.ID), zap.Error(err))
			failed++
			continue
		}
		batch = append(batch, emb)
		if len(batch) >= batchSize {
			flush()
		}
	}
	flush()

	ix.logger.Info("embedding generation done",
		zap.Int("committed", committed), zap.Int("failed", failed))
	return committed, nil
}

// EnsureCoverage embeds up to cap active jobs lacking an embedding, one at
// a time. Invoked inline from latency-sensitive match calls, so every error
// is absorbed and logged; callers needing full coverage run GenerateMissing
// out of band. Returns the number of embeddings generated.
func (ix *Indexer) EnsureCoverage(ctx context.Context, cap int) int {
	jobs, err := ix.embs.JobsMissingEmbeddings(ctx, cap)
	if err != nil {
		ix.logger.Warn("coverage query failed", zap.Error(err))
		return 0
	}

	var generated int
	for _, job := range jobs {
		emb, err := ix.embed(ctx, job)
		if err != nil {
			ix.logger.Warn("coverage embedding failed", zap.Int64("jobId", job.ID), zap.Error(err))
			continue
		}
		if err := ix.embs.InsertIfAbsent(ctx, emb); err != nil {
			ix.logger.Warn("coverage insert failed", zap.Int64("jobId", job.ID), zap.Error(err))
			continue
		}
		generated++
	}
	return generated
}

// embed canonicalizes one job and encodes its full text.
func (ix *Indexer) embed(ctx context.Context, job model.Job) (model.JobEmbedding, error) {
	fullText, skillsText := Canonicalize(job)

	vec, err := ix.enc.Embed(ctx, fullText)
	if err != nil {
		return model.JobEmbedding{}, err
	}

	return model.JobEmbedding{
		JobID:      job.ID,
		FullText:   fullText,
		SkillsText: skillsText,
		Embedding:  vec,
	}, nil
}
