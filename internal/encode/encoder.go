// Package encode turns free text into fixed-length embedding vectors.
//
// The production implementation calls an OpenAI-compatible embeddings API.
// The Encoder is constructed once at startup and shared by reference; it is
// read-only after construction and safe for concurrent use.
package encode

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// skillsPrefix frames a bare skill list as a natural-language sentence so
// that context words shape the vector the same way they do for a job
// description.
const skillsPrefix = "Professional skills: "

// Encoder converts text into a fixed-dimension vector.
type Encoder interface {
	// Embed encodes a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch encodes several texts in one call, preserving order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension is the vector length, constant for the life of the store.
	Dimension() int
}

// SkillsSentence combines a skill list into the single sentence that gets
// embedded. Skills are never embedded independently and averaged.
func SkillsSentence(skills []string) string {
	return skillsPrefix + strings.Join(skills, ", ")
}

// EmbedSkills encodes a skill list as one combined sentence.
func EmbedSkills(ctx context.Context, enc Encoder, skills []string) ([]float32, error) {
	return enc.Embed(ctx, SkillsSentence(skills))
}

// OpenAI is an Encoder backed by the OpenAI embeddings API (or any
// OpenAI-compatible endpoint via a custom base URL).
type OpenAI struct {
	client *openai.Client
	model  string
}

// OpenAIConfig configures the OpenAI encoder.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // optional custom endpoint
	Model   string // default: text-embedding-3-small
}

// NewOpenAI constructs the encoder. A missing API key is configuration-fatal:
// no embedding can ever be produced without it.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for embeddings")
	}
	model := cfg.Model
	if model == "" {
		model = "text-embedding-3-small"
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	return &OpenAI{client: &client, model: model}, nil
}

// Embed encodes a single text.
func (e *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch encodes several texts in one API call.
func (e *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings response has %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	result := make([][]float32, len(texts))
	for _, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		result[d.Index] = vec
	}
	return result, nil
}

// Dimension returns the embedding dimension for the configured model.
func (e *OpenAI) Dimension() int {
	switch e.model {
	case "text-embedding-3-large":
		return 3072
	default:
		// text-embedding-3-small, text-embedding-ada-002
		return 1536
	}
}
