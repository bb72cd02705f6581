package encode_test

import (
	"testing"

	"jobmatch/internal/encode"
)

func TestSkillsSentence(t *testing.T) {
	tests := []struct {
		name   string
		skills []string
		want   string
	}{
		{
			name:   "multiple skills",
			skills: []string{"Python", "Django", "PostgreSQL"},
			want:   "Professional skills: Python, Django, PostgreSQL",
		},
		{
			name:   "single skill",
			skills: []string{"Go"},
			want:   "Professional skills: Go",
		},
		{
			name:   "empty list still carries the prefix",
			skills: nil,
			want:   "Professional skills: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encode.SkillsSentence(tt.skills); got != tt.want {
				t.Errorf("SkillsSentence(%v) = %q, want %q", tt.skills, got, tt.want)
			}
		})
	}
}

func TestNewOpenAI_RequiresAPIKey(t *testing.T) {
	if _, err := encode.NewOpenAI(encode.OpenAIConfig{}); err == nil {
		t.Fatal("expected an error for a missing API key")
	}
}

func TestOpenAI_Dimension(t *testing.T) {
	tests := []struct {
		model string
		want  int
	}{
		{"text-embedding-3-small", 1536},
		{"text-embedding-3-large", 3072},
		{"text-embedding-ada-002", 1536},
		{"", 1536},
	}

	for _, tt := range tests {
		enc, err := encode.NewOpenAI(encode.OpenAIConfig{APIKey: "test-key", Model: tt.model})
		if err != nil {
			t.Fatalf("NewOpenAI(%q): %v", tt.model, err)
		}
		if got := enc.Dimension(); got != tt.want {
			t.Errorf("Dimension() for model %q = %d, want %d", tt.model, got, tt.want)
		}
	}
}
