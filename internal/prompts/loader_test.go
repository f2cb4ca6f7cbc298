package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(AdvisorFile, KeyAssessment)
	require.NoError(t, err)
	assert.Contains(t, prompt, "career guidance system")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(AdvisorFile, "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestAdvisorKeysPresent(t *testing.T) {
	keys, err := List(AdvisorFile)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyAssessment, KeyChat, KeySummary, KeyJobs}, keys)
}

func TestAdvisor_FillsRole(t *testing.T) {
	prompt, err := Advisor(KeyJobs, map[string]string{"Role": "Data Analyst", "Count": "5"})
	require.NoError(t, err)
	assert.Contains(t, prompt, `for the role "Data Analyst"`)
	assert.Contains(t, prompt, "Generate 5 realistic")
	assert.NotContains(t, prompt, "{{.")
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		expected string
	}{
		{
			name:     "all placeholders",
			template: "Jobs for {{.Role}} in {{.City}}",
			data:     map[string]string{"Role": "UX Designer", "City": "Pune"},
			expected: "Jobs for UX Designer in Pune",
		},
		{
			name:     "unknown placeholder kept",
			template: "Hello {{.Name}} {{.Missing}}",
			data:     map[string]string{"Name": "Sam"},
			expected: "Hello Sam {{.Missing}}",
		},
		{
			name:     "nil data",
			template: "static",
			expected: "static",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.template, tt.data))
		})
	}
}
