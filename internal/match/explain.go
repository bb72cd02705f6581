package match

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"jobmatch/internal/model"
)

// recommendThreshold casts a wide net: the recommendation pool intentionally
// includes loosely related jobs.
const recommendThreshold = 0.2

// maxRecommendations caps the returned recommendation list.
const maxRecommendations = 15

// skillCatalog is the fixed set of well-known technologies checked by
// RecommendSkills.
var skillCatalog = []string{
	"Python", "JavaScript", "TypeScript", "Java", "C++", "Go", "Rust",
	"React", "Angular", "Vue", "Node.js", "Django", "Flask", "Spring",
	"PostgreSQL", "MongoDB", "Redis", "MySQL",
	"AWS", "Azure", "GCP", "Docker", "Kubernetes",
	"Machine Learning", "Data Science", "AI", "Deep Learning",
	"REST API", "GraphQL", "Microservices",
	"Git", "CI/CD", "Agile", "Scrum",
}

// ExplainMatch scores each skill individually against a single job text.
// Unlike ranking, explanation needs per-skill attribution, so skills are
// embedded one by one instead of as a combined sentence.
func (m *Matcher) ExplainMatch(ctx context.Context, skills []string, jobText string, topN int) (model.Explanation, error) {
	if len(skills) == 0 {
		return model.Explanation{
			MostRelevant:  []model.SkillRelevance{},
			LeastRelevant: []model.SkillRelevance{},
		}, nil
	}

	skillVecs, err := m.enc.EmbedBatch(ctx, skills)
	if err != nil {
		return model.Explanation{}, fmt.Errorf("embed skills: %w", err)
	}

	jobVec, err := m.enc.Embed(ctx, Truncate(jobText, fullTextCap))
	if err != nil {
		return model.Explanation{}, fmt.Errorf("embed job text: %w", err)
	}

	scored := make([]model.SkillRelevance, len(skills))
	for i, skill := range skills {
		scored[i] = model.SkillRelevance{
			Skill:     skill,
			Relevance: round1(Cosine(skillVecs[i], jobVec) * 100),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Relevance > scored[j].Relevance
	})

	n := topN
	if n > len(scored) {
		n = len(scored)
	}

	return model.Explanation{
		MostRelevant:  append([]model.SkillRelevance{}, scored[:n]...),
		LeastRelevant: append([]model.SkillRelevance{}, scored[len(scored)-n:]...),
	}, nil
}

// RecommendSkills suggests catalog skills the CV lacks, ranked by how often
// they appear across the descriptions of jobs similar to the CV. Mentions
// are raw substring counts, not de-duplicated per job. An empty candidate
// pool yields JobsAnalyzed 0, not an error.
func (m *Matcher) RecommendSkills(ctx context.Context, cvSkills []string, poolSize int) (model.Recommendations, error) {
	matches, err := m.FindByVector(ctx, cvSkills, poolSize, recommendThreshold)
	if err != nil {
		return model.Recommendations{}, err
	}
	if len(matches) == 0 {
		return model.Recommendations{
			Recommendations: []model.SkillRecommendation{},
			JobsAnalyzed:    0,
		}, nil
	}

	var sb strings.Builder
	for _, j := range matches {
		if j.Description == "" {
			continue
		}
		sb.WriteString(Truncate(j.Description, skillsTextCap))
		sb.WriteString(" ")
	}
	allText := strings.ToLower(sb.String())

	have := make(map[string]bool, len(cvSkills))
	for _, s := range cvSkills {
		have[strings.ToLower(s)] = true
	}

	var recs []model.SkillRecommendation
	for _, skill := range skillCatalog {
		if have[strings.ToLower(skill)] {
			continue
		}
		count := strings.Count(allText, strings.ToLower(skill))
		if count == 0 {
			continue
		}
		recs = append(recs, model.SkillRecommendation{
			Skill:      skill,
			Mentions:   count,
			Percentage: float64(count) / float64(len(matches)) * 100,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Mentions > recs[j].Mentions
	})
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	if recs == nil {
		recs = []model.SkillRecommendation{}
	}

	return model.Recommendations{
		Recommendations: recs,
		JobsAnalyzed:    len(matches),
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
