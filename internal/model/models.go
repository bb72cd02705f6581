// Package model defines shared data structures for jobmatch.
package model

import "time"

// Job mirrors a row in the jobs table. Rows are created by the scraping
// pipeline and read-only everywhere else; deduplication happens on URL.
type Job struct {
	ID          int64
	Source      string
	Title       string
	Company     string
	Location    string
	Description string
	URL         string
	ScrapedAt   time.Time
	IsActive    bool
}

// JobEmbedding mirrors a row in the job_embeddings table. At most one row
// exists per job; the text snapshots are frozen at generation time and do
// not track later changes to the underlying job row.
type JobEmbedding struct {
	JobID      int64
	FullText   string
	SkillsText string
	Embedding  []float32
	CreatedAt  time.Time
}

// ScrapedJob is a normalised offer produced by a site scraper, before it
// has been assigned a database ID.
type ScrapedJob struct {
	Source      string `json:"source"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// MatchResult is one ranked job returned by a matching operation. It is
// produced fresh on every call and never persisted.
type MatchResult struct {
	JobID            int64     `json:"jobId"`
	Source           string    `json:"source"`
	Title            string    `json:"title"`
	Company          string    `json:"company"`
	Location         string    `json:"location"`
	Description      string    `json:"description"`
	URL              string    `json:"url"`
	ScrapedAt        time.Time `json:"scrapedAt"`
	SkillsText       string    `json:"skillsText"`
	VectorSimilarity float64   `json:"vectorSimilarity"`
	KeywordScore     float64   `json:"keywordScore,omitempty"`
	CombinedScore    float64   `json:"combinedScore,omitempty"`
	MatchPercentage  float64   `json:"matchPercentage"`
}

// SkillRelevance scores one CV skill against a single job description.
// Relevance is cosine similarity rescaled to 0-100.
type SkillRelevance struct {
	Skill     string  `json:"skill"`
	Relevance float64 `json:"relevance"`
}

// Explanation is the result of explaining a match: the individually most
// and least relevant skills from the caller's list.
type Explanation struct {
	MostRelevant  []SkillRelevance `json:"mostRelevant"`
	LeastRelevant []SkillRelevance `json:"leastRelevant"`
}

// SkillRecommendation is one catalog skill worth learning, with how often
// it was mentioned across the analysed job pool.
type SkillRecommendation struct {
	Skill      string  `json:"skill"`
	Mentions   int     `json:"mentions"`
	Percentage float64 `json:"percentage"`
}

// Recommendations bundles skill recommendations with the size of the job
// pool they were derived from. JobsAnalyzed of zero is a valid result, not
// an error.
type Recommendations struct {
	Recommendations []SkillRecommendation `json:"recommendations"`
	JobsAnalyzed    int                   `json:"jobsAnalyzed"`
}
