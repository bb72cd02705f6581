package match_test

import (
	"context"
	"fmt"

	"jobmatch/internal/model"
	"jobmatch/internal/store"
)

// fakeEncoder returns canned vectors by exact text, falling back to a unit
// vector, and records every text it was asked to encode.
type fakeEncoder struct {
	vecs   map[string][]float32
	errOn  map[string]bool
	calls  []string
	failAt int // fail the nth Embed call (1-based), 0 = never
}

func newFakeEncoder() *fakeEncoder {
	return &fakeEncoder{vecs: map[string][]float32{}, errOn: map[string]bool{}}
}

func (f *fakeEncoder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls = append(f.calls, text)
	if f.failAt > 0 && len(f.calls) == f.failAt {
		return nil, fmt.Errorf("encoder down")
	}
	if f.errOn[text] {
		return nil, fmt.Errorf("cannot encode %q", text)
	}
	if v, ok := f.vecs[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEncoder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEncoder) Dimension() int { return 3 }

// fakeEmbStore is an in-memory EmbeddingStore. Nearest ignores the query
// vector and returns the canned hits, mirroring how tests control ordering
// and similarity directly.
type fakeEmbStore struct {
	missing []model.Job
	hits    []store.VectorHit
	rows    map[int64]model.JobEmbedding

	setupErr      error
	insertErr     bool
	failBatches   map[int]bool // fail the nth InsertBatch call (1-based)
	batchCalls    int
	deleteAllHits int
	lastLimit     int
}

func newFakeEmbStore() *fakeEmbStore {
	return &fakeEmbStore{rows: map[int64]model.JobEmbedding{}, failBatches: map[int]bool{}}
}

func (f *fakeEmbStore) Setup(context.Context, int) error { return f.setupErr }

func (f *fakeEmbStore) InsertIfAbsent(_ context.Context, emb model.JobEmbedding) error {
	if f.insertErr {
		return fmt.Errorf("insert failed")
	}
	if _, exists := f.rows[emb.JobID]; !exists {
		f.rows[emb.JobID] = emb
	}
	f.dropMissing(emb.JobID)
	return nil
}

func (f *fakeEmbStore) InsertBatch(_ context.Context, embs []model.JobEmbedding) error {
	f.batchCalls++
	if f.failBatches[f.batchCalls] {
		return fmt.Errorf("batch %d failed", f.batchCalls)
	}
	for _, emb := range embs {
		if _, exists := f.rows[emb.JobID]; !exists {
			f.rows[emb.JobID] = emb
		}
		f.dropMissing(emb.JobID)
	}
	return nil
}

func (f *fakeEmbStore) DeleteAll(context.Context) error {
	f.deleteAllHits++
	f.rows = map[int64]model.JobEmbedding{}
	return nil
}

func (f *fakeEmbStore) JobsMissingEmbeddings(_ context.Context, limit int) ([]model.Job, error) {
	f.lastLimit = limit
	jobs := f.missing
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return append([]model.Job{}, jobs...), nil
}

func (f *fakeEmbStore) Nearest(_ context.Context, _ []float32, limit int) ([]store.VectorHit, error) {
	hits := f.hits
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return append([]store.VectorHit{}, hits...), nil
}

func (f *fakeEmbStore) CountEmbeddings(context.Context) (int, error) { return len(f.rows), nil }

func (f *fakeEmbStore) dropMissing(jobID int64) {
	for i, j := range f.missing {
		if j.ID == jobID {
			f.missing = append(f.missing[:i], f.missing[i+1:]...)
			return
		}
	}
}
