package match

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"jobmatch/internal/encode"
	"jobmatch/internal/model"
	"jobmatch/internal/store"
)

// Strategy selects how matches are scored.
type Strategy string

const (
	StrategyVector  Strategy = "vector"
	StrategyKeyword Strategy = "keyword"
	StrategyHybrid  Strategy = "hybrid"
)

// ParseStrategy converts a raw string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(s)
	switch st {
	case StrategyVector, StrategyKeyword, StrategyHybrid:
		return st, nil
	}
	return "", fmt.Errorf("unknown match strategy %q", s)
}

// ensureCoverageCap bounds how many missing embeddings a match call will
// generate inline. Match calls are latency-sensitive and must not encode an
// unbounded backlog; full coverage belongs to GenerateMissing.
const ensureCoverageCap = 100

// Matcher ranks active jobs against a caller-supplied skill list.
type Matcher struct {
	enc     encode.Encoder
	embs    store.EmbeddingStore
	indexer *Indexer
	logger  *zap.Logger
}

// NewMatcher returns a Matcher sharing the process-wide encoder.
func NewMatcher(enc encode.Encoder, embs store.EmbeddingStore, indexer *Indexer, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{enc: enc, embs: embs, indexer: indexer, logger: logger}
}

// Params carries the per-call knobs for Match.
type Params struct {
	TopK                int
	SimilarityThreshold float64 // vector strategy only
	VectorWeight        float64 // hybrid strategy only
	KeywordWeight       float64 // hybrid strategy only
}

// Match dispatches to the scoring strategy. The keyword strategy is hybrid
// scoring with all weight on keywords; note it still only considers the
// 2×topK vector-nearest jobs, not the whole corpus.
func (m *Matcher) Match(ctx context.Context, skills []string, strategy Strategy, p Params) ([]model.MatchResult, error) {
	switch strategy {
	case StrategyVector:
		return m.FindByVector(ctx, skills, p.TopK, p.SimilarityThreshold)
	case StrategyKeyword:
		return m.FindHybrid(ctx, skills, p.TopK, 0, 1)
	case StrategyHybrid:
		return m.FindHybrid(ctx, skills, p.TopK, p.VectorWeight, p.KeywordWeight)
	}
	return nil, fmt.Errorf("unknown match strategy %q", strategy)
}

// FindByVector ranks jobs by cosine similarity between the combined skill
// embedding and each job's stored vector, keeping only those at or above
// threshold. An empty skill list deterministically yields no matches and
// never reaches the encoder.
func (m *Matcher) FindByVector(ctx context.Context, skills []string, topK int, threshold float64) ([]model.MatchResult, error) {
	if len(skills) == 0 {
		return []model.MatchResult{}, nil
	}

	m.indexer.EnsureCoverage(ctx, ensureCoverageCap)

	vec, err := encode.EmbedSkills(ctx, m.enc, skills)
	if err != nil {
		return nil, fmt.Errorf("embed skills: %w", err)
	}

	hits, err := m.embs.Nearest(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]model.MatchResult, 0, len(hits))
	for _, h := range hits {
		if h.Similarity < threshold {
			continue
		}
		r := newResult(h)
		r.MatchPercentage = h.Similarity * 100
		results = append(results, r)
	}
	return results, nil
}

// FindHybrid blends vector similarity with keyword overlap over a candidate
// pool of the 2×topK vector-nearest jobs. Weights are caller-supplied and
// not required to sum to 1; the combined score is not normalized.
func (m *Matcher) FindHybrid(ctx context.Context, skills []string, topK int, vectorWeight, keywordWeight float64) ([]model.MatchResult, error) {
	if len(skills) == 0 {
		return []model.MatchResult{}, nil
	}

	m.indexer.EnsureCoverage(ctx, ensureCoverageCap)

	vec, err := encode.EmbedSkills(ctx, m.enc, skills)
	if err != nil {
		return nil, fmt.Errorf("embed skills: %w", err)
	}

	hits, err := m.embs.Nearest(ctx, vec, topK*2)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	lowered := make([]string, len(skills))
	for i, s := range skills {
		lowered[i] = strings.ToLower(strings.TrimSpace(s))
	}

	results := make([]model.MatchResult, 0, len(hits))
	for _, h := range hits {
		r := newResult(h)
		r.KeywordScore = keywordScore(h.Job.Description, lowered)
		r.CombinedScore = vectorWeight*h.Similarity + keywordWeight*r.KeywordScore
		r.MatchPercentage = r.CombinedScore * 100
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].CombinedScore != results[j].CombinedScore {
			return results[i].CombinedScore > results[j].CombinedScore
		}
		return results[i].JobID < results[j].JobID
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// keywordScore is the fraction of skills appearing as substrings of the
// lowercased description. Zero when the skill list is empty.
func keywordScore(description string, loweredSkills []string) float64 {
	if len(loweredSkills) == 0 {
		return 0
	}
	descLower := strings.ToLower(description)
	var matched int
	for _, s := range loweredSkills {
		if s != "" && strings.Contains(descLower, s) {
			matched++
		}
	}
	return float64(matched) / float64(len(loweredSkills))
}

// newResult copies display fields out of a vector hit.
func newResult(h store.VectorHit) model.MatchResult {
	return model.MatchResult{
		JobID:            h.Job.ID,
		Source:           h.Job.Source,
		Title:            h.Job.Title,
		Company:          h.Job.Company,
		Location:         h.Job.Location,
		Description:      h.Job.Description,
		URL:              h.Job.URL,
		ScrapedAt:        h.Job.ScrapedAt,
		SkillsText:       h.SkillsText,
		VectorSimilarity: h.Similarity,
	}
}
