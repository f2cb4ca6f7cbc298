package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderOllama, config.Provider)
	assert.Equal(t, "http://localhost:11434", config.Endpoint)
	assert.Equal(t, "llama3.2:1b", config.Model)
	assert.Equal(t, 120*time.Second, config.Timeout)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantModel string
		wantErr   bool
	}{
		{name: "empty defaults to ollama", config: Config{}, wantModel: DefaultModel},
		{name: "gemini default model", config: Config{Provider: ProviderGemini}, wantModel: "gemini-2.5-flash"},
		{name: "explicit model kept", config: Config{Provider: ProviderOllama, Model: "phi3"}, wantModel: "phi3"},
		{name: "unknown provider", config: Config{Provider: "openai"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Normalize()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, tt.config.Model)
			assert.Equal(t, DefaultTimeout, tt.config.Timeout)
		})
	}
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel("custom-model")

	// Original should be unchanged
	assert.Equal(t, DefaultModel, config.Model)
	assert.Equal(t, "custom-model", newConfig.Model)
	assert.Equal(t, config.Endpoint, newConfig.Endpoint)
}

func TestProviderConstants(t *testing.T) {
	assert.Equal(t, Provider("ollama"), ProviderOllama)
	assert.Equal(t, Provider("gemini"), ProviderGemini)
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt("  You are a career advisor.  ", DashboardSummarySchema())

	assert.Contains(t, prompt, "You are a career advisor.\n\n")
	assert.Contains(t, prompt, `"topCareer": {"title"`)
	assert.Contains(t, prompt, "(required)")
	assert.Contains(t, prompt, "Return ONLY valid JSON")

	jobs := BuildSystemPrompt("List jobs.", JobListingsSchema())
	assert.Contains(t, jobs, "[{\n")
	assert.Contains(t, jobs, "}]\n")
}
