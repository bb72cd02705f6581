// Package config loads and validates runtime configuration at startup.
// Fail-fast: if a required variable is missing, callers exit.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for jobmatch.
type Config struct {
	Port        string `mapstructure:"port"`
	DatabaseURL string `mapstructure:"database-url"`
	RedisURL    string `mapstructure:"redis-url"`

	// Embedding / LLM endpoint. BaseURL defaults to the OpenAI API but may
	// point at any OpenAI-compatible router.
	OpenAIAPIKey   string `mapstructure:"openai-api-key"`
	OpenAIBaseURL  string `mapstructure:"openai-base-url"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	ExtractModel   string `mapstructure:"extract-model"`

	ScrapeIntervalHours int `mapstructure:"scrape-interval-hours"`
}

// env var → viper key bindings.
var envBindings = map[string]string{
	"port":                  "JOBMATCH_PORT",
	"database-url":          "DATABASE_URL",
	"redis-url":             "REDIS_URL",
	"openai-api-key":        "OPENAI_API_KEY",
	"openai-base-url":       "OPENAI_BASE_URL",
	"embedding-model":       "EMBEDDING_MODEL",
	"extract-model":         "EXTRACT_MODEL",
	"scrape-interval-hours": "SCRAPE_INTERVAL_HOURS",
}

// Load reads environment variables through viper and returns a validated
// Config. DATABASE_URL is the only hard requirement; everything else has a
// usable default or is validated lazily by the component that needs it.
func Load() (*Config, error) {
	v := viper.New()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	v.SetDefault("port", "8080")
	v.SetDefault("embedding-model", "text-embedding-3-small")
	v.SetDefault("extract-model", "gpt-4o-mini")
	v.SetDefault("scrape-interval-hours", 6)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.ScrapeIntervalHours < 1 {
		return nil, fmt.Errorf("SCRAPE_INTERVAL_HOURS must be a positive integer, got %d", cfg.ScrapeIntervalHours)
	}

	return &cfg, nil
}
