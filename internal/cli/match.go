package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jobmatch/internal/match"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank stored jobs against a skill list",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMatch(cmd)
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Score each skill individually against a job description",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runExplain(cmd)
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Suggest skills worth learning based on similar job postings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRecommend(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd, explainCmd, recommendCmd)

	matchCmd.Flags().StringSlice("skills", nil, "CV skills (comma separated)")
	matchCmd.Flags().String("strategy", "hybrid", "scoring strategy: vector, keyword or hybrid")
	matchCmd.Flags().Int("top-k", 50, "maximum number of matches")
	matchCmd.Flags().Float64("threshold", 0.3, "minimum vector similarity (vector strategy)")
	matchCmd.Flags().Float64("vector-weight", 0.7, "vector similarity weight (hybrid strategy)")
	matchCmd.Flags().Float64("keyword-weight", 0.3, "keyword overlap weight (hybrid strategy)")

	explainCmd.Flags().StringSlice("skills", nil, "CV skills (comma separated)")
	explainCmd.Flags().String("job-text", "", "job description text to explain against")
	explainCmd.Flags().Int("top-n", 5, "number of most/least relevant skills to show")

	recommendCmd.Flags().StringSlice("skills", nil, "CV skills (comma separated)")
	recommendCmd.Flags().Int("pool-size", 50, "number of similar jobs to analyse")
}

func runMatch(cmd *cobra.Command) error {
	ctx := context.Background()

	skills, _ := cmd.Flags().GetStringSlice("skills")
	strategyStr, _ := cmd.Flags().GetString("strategy")
	topK, _ := cmd.Flags().GetInt("top-k")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	vw, _ := cmd.Flags().GetFloat64("vector-weight")
	kw, _ := cmd.Flags().GetFloat64("keyword-weight")

	strategy, err := match.ParseStrategy(strategyStr)
	if err != nil {
		return err
	}

	a, err := newApplication(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.matcher.Match(ctx, skills, strategy, match.Params{
		TopK:                topK,
		SimilarityThreshold: threshold,
		VectorWeight:        vw,
		KeywordWeight:       kw,
	})
	if err != nil {
		return err
	}

	return printJSON(results)
}

func runExplain(cmd *cobra.Command) error {
	ctx := context.Background()

	skills, _ := cmd.Flags().GetStringSlice("skills")
	jobText, _ := cmd.Flags().GetString("job-text")
	topN, _ := cmd.Flags().GetInt("top-n")

	if jobText == "" {
		return fmt.Errorf("--job-text is required")
	}

	a, err := newApplication(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	explanation, err := a.matcher.ExplainMatch(ctx, skills, jobText, topN)
	if err != nil {
		return err
	}

	return printJSON(explanation)
}

func runRecommend(cmd *cobra.Command) error {
	ctx := context.Background()

	skills, _ := cmd.Flags().GetStringSlice("skills")
	poolSize, _ := cmd.Flags().GetInt("pool-size")

	a, err := newApplication(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	recs, err := a.matcher.RecommendSkills(ctx, skills, poolSize)
	if err != nil {
		return err
	}

	return printJSON(recs)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
