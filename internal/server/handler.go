// Package server implements the HTTP API for jobmatch.
//
// Routes:
//
//	GET  /health    → liveness probe
//	GET  /stats     → active job count and embedding coverage
//	POST /match     → ranked matches for a skill list
//	POST /explain   → per-skill relevance against one job text
//	POST /recommend → skill-gap recommendations
//	POST /reindex   → generate missing embeddings (optionally force)
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jobmatch/internal/match"
	"jobmatch/internal/store"
)

const requestTimeout = 120 * time.Second

// reindexedEvent is published after a successful reindex request.
const reindexedEvent = "EVENT_EMBEDDINGS_REINDEXED"

// Handler holds shared dependencies for all routes.
type Handler struct {
	matcher *match.Matcher
	indexer *match.Indexer
	jobs    store.JobStore
	embs    store.EmbeddingStore
	rdb     *redis.Client
	logger  *zap.Logger
}

// NewHandler returns a configured Handler. rdb may be nil.
func NewHandler(matcher *match.Matcher, indexer *match.Indexer, jobs store.JobStore, embs store.EmbeddingStore, rdb *redis.Client, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{matcher: matcher, indexer: indexer, jobs: jobs, embs: embs, rdb: rdb, logger: logger}
}

// RegisterRoutes mounts all routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/stats", h.handleStats)
	mux.HandleFunc("/match", h.handleMatch)
	mux.HandleFunc("/explain", h.handleExplain)
	mux.HandleFunc("/recommend", h.handleRecommend)
	mux.HandleFunc("/reindex", h.handleReindex)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "jobmatch"})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	active, err := h.jobs.CountActiveJobs(ctx)
	if err != nil {
		h.logger.Error("stats: count jobs", zap.Error(err))
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	embedded, err := h.embs.CountEmbeddings(ctx)
	if err != nil {
		h.logger.Error("stats: count embeddings", zap.Error(err))
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"activeJobs": active,
		"embedded":   embedded,
		"missing":    active - embedded,
	})
}

type matchRequest struct {
	Skills              []string `json:"skills"`
	Strategy            string   `json:"strategy"`
	TopK                int      `json:"topK"`
	SimilarityThreshold *float64 `json:"similarityThreshold"`
	VectorWeight        *float64 `json:"vectorWeight"`
	KeywordWeight       *float64 `json:"keywordWeight"`
}

func (h *Handler) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	strategy := match.StrategyHybrid
	if req.Strategy != "" {
		var err error
		strategy, err = match.ParseStrategy(req.Strategy)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	params := match.Params{
		TopK:                50,
		SimilarityThreshold: 0.3,
		VectorWeight:        0.7,
		KeywordWeight:       0.3,
	}
	if req.TopK > 0 {
		params.TopK = req.TopK
	}
	if req.SimilarityThreshold != nil {
		params.SimilarityThreshold = *req.SimilarityThreshold
	}
	if req.VectorWeight != nil {
		params.VectorWeight = *req.VectorWeight
	}
	if req.KeywordWeight != nil {
		params.KeywordWeight = *req.KeywordWeight
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	results, err := h.matcher.Match(ctx, req.Skills, strategy, params)
	if err != nil {
		h.logger.Error("match failed", zap.Error(err))
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"matches": results, "count": len(results)})
}

type explainRequest struct {
	Skills  []string `json:"skills"`
	JobText string   `json:"jobText"`
	TopN    int      `json:"topN"`
}

func (h *Handler) handleExplain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req explainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.JobText == "" {
		jsonError(w, "jobText is required", http.StatusBadRequest)
		return
	}
	if req.TopN <= 0 {
		req.TopN = 5
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	explanation, err := h.matcher.ExplainMatch(ctx, req.Skills, req.JobText, req.TopN)
	if err != nil {
		h.logger.Error("explain failed", zap.Error(err))
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, explanation)
}

type recommendRequest struct {
	Skills   []string `json:"skills"`
	PoolSize int      `json:"poolSize"`
}

func (h *Handler) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.PoolSize <= 0 {
		req.PoolSize = 50
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	recs, err := h.matcher.RecommendSkills(ctx, req.Skills, req.PoolSize)
	if err != nil {
		h.logger.Error("recommend failed", zap.Error(err))
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, recs)
}

type reindexRequest struct {
	BatchSize int  `json:"batchSize"`
	Force     bool `json:"force"`
}

func (h *Handler) handleReindex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req reindexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.BatchSize <= 0 {
		req.BatchSize = match.DefaultBatchSize
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	processed, err := h.indexer.GenerateMissing(ctx, req.BatchSize, req.Force)
	if err != nil {
		h.logger.Error("reindex failed", zap.Error(err))
		jsonError(w, "reindex failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.publishReindexed(ctx, processed)
	writeJSON(w, http.StatusOK, map[string]int{"processed": processed})
}

// publishReindexed emits a non-fatal Redis event after reindexing.
func (h *Handler) publishReindexed(ctx context.Context, processed int) {
	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(map[string]int{"processed": processed})
	if err := h.rdb.Publish(ctx, reindexedEvent, payload).Err(); err != nil {
		h.logger.Warn("publish EVENT_EMBEDDINGS_REINDEXED failed", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
