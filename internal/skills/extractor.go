// Package skills extracts skill tokens from CV text with an LLM call.
package skills

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const extractPrompt = "Extract professional skills from this CV text. " +
	"Return only a list in the format: ['skill1', 'skill2', 'skill3']\n\nCV Text:\n%s"

// Extractor calls an OpenAI-compatible chat endpoint to pull skill tokens
// out of free CV text.
type Extractor struct {
	client *openai.Client
	model  string
}

// Config configures the Extractor.
type Config struct {
	APIKey  string
	BaseURL string // optional OpenAI-compatible router
	Model   string
}

// New constructs an Extractor. A missing API key is configuration-fatal.
func New(cfg Config) (*Extractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for skill extraction")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("extraction model is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	return &Extractor{client: &client, model: cfg.Model}, nil
}

// Extract sends the CV text to the model and parses the returned skill list.
func (e *Extractor) Extract(ctx context.Context, cvText string) ([]string, error) {
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(fmt.Sprintf(extractPrompt, cvText)),
		},
		MaxTokens:   openai.Int(700),
		Temperature: openai.Float(0.3),
	})
	if err != nil {
		return nil, fmt.Errorf("skill extraction request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("skill extraction: empty response")
	}

	return ParseSkills(resp.Choices[0].Message.Content), nil
}

var (
	listPattern   = regexp.MustCompile(`(?s)\[(.*?)\]`)
	quotedPattern = regexp.MustCompile(`["']([^"']+)["']`)
	linePrefix    = regexp.MustCompile(`^[-*•\d.)\s]+`)
)

// ParseSkills pulls skill tokens out of a model response. It prefers a
// bracketed quoted list; failing that it falls back to one-skill-per-line
// with common bullet prefixes stripped.
func ParseSkills(response string) []string {
	if m := listPattern.FindStringSubmatch(response); m != nil {
		var skills []string
		for _, q := range quotedPattern.FindAllStringSubmatch(m[1], -1) {
			if s := strings.TrimSpace(q[1]); s != "" {
				skills = append(skills, s)
			}
		}
		if len(skills) > 0 {
			return skills
		}
	}

	var skills []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(linePrefix.ReplaceAllString(strings.TrimSpace(line), ""))
		// Skip prose: a skill token is short and has no trailing colon.
		if line == "" || strings.HasSuffix(line, ":") || len(line) > 60 {
			continue
		}
		skills = append(skills, line)
	}
	return skills
}
