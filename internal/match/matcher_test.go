package match_test

import (
	"context"
	"testing"
	"time"

	"jobmatch/internal/match"
	"jobmatch/internal/model"
	"jobmatch/internal/store"
)

func hit(id int64, title, description string, sim float64) store.VectorHit {
	return store.VectorHit{
		Job: model.Job{
			ID:          id,
			Title:       title,
			Description: description,
			URL:         "https://example.com/" + title,
			ScrapedAt:   time.Now(),
			IsActive:    true,
		},
		SkillsText: description,
		Similarity: sim,
	}
}

func newMatcher(embs *fakeEmbStore) (*match.Matcher, *fakeEncoder) {
	enc := newFakeEncoder()
	indexer := match.NewIndexer(enc, embs, nil)
	return match.NewMatcher(enc, embs, indexer, nil), enc
}

func TestFindByVector_EmptySkillsShortCircuits(t *testing.T) {
	embs := newFakeEmbStore()
	m, enc := newMatcher(embs)

	results, err := m.FindByVector(context.Background(), nil, 10, 0.3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
	if len(enc.calls) != 0 {
		t.Errorf("encoder should not be called for an empty skill list, got %d calls", len(enc.calls))
	}
}

func TestFindByVector_ThresholdAboveMaxReturnsEmpty(t *testing.T) {
	embs := newFakeEmbStore()
	embs.hits = []store.VectorHit{
		hit(1, "A", "go backend", 0.95),
		hit(2, "B", "react frontend", 0.90),
	}
	m, _ := newMatcher(embs)

	results, err := m.FindByVector(context.Background(), []string{"Go"}, 10, 1.1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("threshold 1.1 should filter everything, got %d results", len(results))
	}
}

func TestFindByVector_OrderingAndScores(t *testing.T) {
	embs := newFakeEmbStore()
	embs.hits = []store.VectorHit{
		hit(7, "A", "python django", 0.9),
		hit(3, "B", "go services", 0.6),
		hit(9, "C", "excel reports", 0.2),
	}
	m, _ := newMatcher(embs)

	results, err := m.FindByVector(context.Background(), []string{"Python"}, 10, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results above threshold, got %d", len(results))
	}
	if results[0].JobID != 7 || results[1].JobID != 3 {
		t.Errorf("unexpected order: %d, %d", results[0].JobID, results[1].JobID)
	}
	if results[0].MatchPercentage != 90 {
		t.Errorf("MatchPercentage = %v, want 90", results[0].MatchPercentage)
	}
	if results[0].VectorSimilarity != 0.9 {
		t.Errorf("VectorSimilarity = %v, want 0.9", results[0].VectorSimilarity)
	}
}

func TestFindByVector_EmbedsCombinedSkillSentence(t *testing.T) {
	embs := newFakeEmbStore()
	m, enc := newMatcher(embs)

	if _, err := m.FindByVector(context.Background(), []string{"Python", "Django"}, 5, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enc.calls) != 1 {
		t.Fatalf("expected one encoder call, got %d", len(enc.calls))
	}
	if enc.calls[0] != "Professional skills: Python, Django" {
		t.Errorf("embedded text = %q", enc.calls[0])
	}
}

func TestFindHybrid_PureVectorMatchesVectorOrder(t *testing.T) {
	embs := newFakeEmbStore()
	embs.hits = []store.VectorHit{
		hit(1, "A", "python django postgresql", 0.9),
		hit(2, "B", "react typescript", 0.7),
		hit(3, "C", "devops kubernetes", 0.5),
	}
	m, _ := newMatcher(embs)
	ctx := context.Background()
	skills := []string{"Python"}

	vector, err := m.FindByVector(ctx, skills, 3, 0)
	if err != nil {
		t.Fatalf("FindByVector: %v", err)
	}
	hybrid, err := m.FindHybrid(ctx, skills, 3, 1, 0)
	if err != nil {
		t.Fatalf("FindHybrid: %v", err)
	}

	if len(vector) != len(hybrid) {
		t.Fatalf("result counts differ: %d vs %d", len(vector), len(hybrid))
	}
	for i := range vector {
		if vector[i].JobID != hybrid[i].JobID {
			t.Errorf("rank %d: vector order %d, hybrid order %d", i, vector[i].JobID, hybrid[i].JobID)
		}
	}
}

func TestFindHybrid_PureKeywordRanksFullOverlapFirst(t *testing.T) {
	embs := newFakeEmbStore()
	// Vector similarity deliberately favours the job with zero keyword overlap.
	embs.hits = []store.VectorHit{
		hit(1, "NoOverlap", "we use excel and powerpoint all day", 0.99),
		hit(2, "AllSkills", "looking for python and django experience", 0.10),
	}
	m, _ := newMatcher(embs)

	results, err := m.FindHybrid(context.Background(), []string{"Python", "Django"}, 2, 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].JobID != 2 {
		t.Errorf("job containing every skill should rank first, got job %d", results[0].JobID)
	}
	if results[0].KeywordScore != 1 {
		t.Errorf("full overlap KeywordScore = %v, want 1", results[0].KeywordScore)
	}
	if results[1].KeywordScore != 0 {
		t.Errorf("no overlap KeywordScore = %v, want 0", results[1].KeywordScore)
	}
}

func TestFindHybrid_CombinedScoreAndTruncation(t *testing.T) {
	embs := newFakeEmbStore()
	embs.hits = []store.VectorHit{
		hit(1, "A", "python django", 0.8), // keyword 1.0
		hit(2, "B", "python only", 0.6),   // keyword 0.5
		hit(3, "C", "nothing here", 0.4),  // keyword 0.0
	}
	m, _ := newMatcher(embs)

	results, err := m.FindHybrid(context.Background(), []string{"Python", "Django"}, 2, 0.7, 0.3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("topK=2 should truncate to 2 results, got %d", len(results))
	}

	wantTop := 0.7*0.8 + 0.3*1.0
	if diff := results[0].CombinedScore - wantTop; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("top CombinedScore = %v, want %v", results[0].CombinedScore, wantTop)
	}
	if results[0].MatchPercentage != results[0].CombinedScore*100 {
		t.Errorf("MatchPercentage not scaled from combined score")
	}
}

func TestFindHybrid_WeightsNotNormalized(t *testing.T) {
	embs := newFakeEmbStore()
	embs.hits = []store.VectorHit{hit(1, "A", "python", 0.5)}
	m, _ := newMatcher(embs)

	results, err := m.FindHybrid(context.Background(), []string{"Python"}, 1, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].CombinedScore != 1.0 {
		t.Errorf("CombinedScore = %v, want 1.0 (weights are taken as-is)", results[0].CombinedScore)
	}
}

func TestFindHybrid_TieBreaksOnLowerJobID(t *testing.T) {
	embs := newFakeEmbStore()
	embs.hits = []store.VectorHit{
		hit(9, "A", "python", 0.5),
		hit(2, "B", "python", 0.5),
	}
	m, _ := newMatcher(embs)

	results, err := m.FindHybrid(context.Background(), []string{"Python"}, 2, 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].JobID != 2 {
		t.Errorf("tie should break on lower job ID, got %d first", results[0].JobID)
	}
}

func TestMatch_StrategyDispatch(t *testing.T) {
	embs := newFakeEmbStore()
	embs.hits = []store.VectorHit{
		hit(1, "A", "python django", 0.9),
		hit(2, "B", "excel", 0.8),
	}
	m, _ := newMatcher(embs)
	ctx := context.Background()
	p := match.Params{TopK: 2, SimilarityThreshold: 0.85, VectorWeight: 0.7, KeywordWeight: 0.3}

	vector, err := m.Match(ctx, []string{"Python"}, match.StrategyVector, p)
	if err != nil {
		t.Fatalf("vector strategy: %v", err)
	}
	if len(vector) != 1 || vector[0].JobID != 1 {
		t.Errorf("vector strategy should apply the threshold, got %v", vector)
	}

	keyword, err := m.Match(ctx, []string{"Python"}, match.StrategyKeyword, p)
	if err != nil {
		t.Fatalf("keyword strategy: %v", err)
	}
	if keyword[0].JobID != 1 {
		t.Errorf("keyword strategy should rank the overlapping job first, got %d", keyword[0].JobID)
	}

	if _, err := m.Match(ctx, []string{"Python"}, match.Strategy("fuzzy"), p); err == nil {
		t.Error("unknown strategy should error")
	}
}

func TestParseStrategy(t *testing.T) {
	for _, valid := range []string{"vector", "keyword", "hybrid"} {
		if _, err := match.ParseStrategy(valid); err != nil {
			t.Errorf("ParseStrategy(%q) returned error: %v", valid, err)
		}
	}
	if _, err := match.ParseStrategy("semantic"); err == nil {
		t.Error("ParseStrategy(\"semantic\") should error")
	}
}

func TestFindByVector_GeneratesMissingEmbeddingsFirst(t *testing.T) {
	embs := newFakeEmbStore()
	embs.missing = []model.Job{
		{ID: 5, Title: "New Job", Company: "Acme", Description: "go services"},
	}
	m, _ := newMatcher(embs)

	if _, err := m.FindByVector(context.Background(), []string{"Go"}, 5, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := embs.rows[5]; !ok {
		t.Error("match call should have generated the missing embedding")
	}
}
