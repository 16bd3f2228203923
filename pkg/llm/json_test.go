package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripSearchArtifacts(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "citation markers removed",
			input:    `freeCodeCamp[1] is a good resource[2]`,
			expected: `freeCodeCamp is a good resource`,
		},
		{
			name:     "inline links replaced with label",
			input:    `See [MDN Web Docs](https://developer.mozilla.org) for details`,
			expected: `See MDN Web Docs for details`,
		},
		{
			name:     "both artifact kinds",
			input:    `[freeCodeCamp](https://freecodecamp.org)[3] teaches JavaScript[4]`,
			expected: `freeCodeCamp teaches JavaScript`,
		},
		{
			name:     "clean text untouched",
			input:    `{"skills": []}`,
			expected: `{"skills": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripSearchArtifacts(tt.input))
		})
	}
}

func TestExtractCandidateJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "fenced json block",
			input:    "Here is the data:\n```json\n{\"titulo\": \"Trilha\"}\n```\nHope that helps!",
			expected: `{"titulo": "Trilha"}`,
		},
		{
			name:     "fenced block without label",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "braces inside prose",
			input:    `The roadmap is {"skills": [{"name": "SQL"}]} as requested.`,
			expected: `{"skills": [{"name": "SQL"}]}`,
		},
		{
			name:     "raw json passthrough",
			input:    `{"skills": []}`,
			expected: `{"skills": []}`,
		},
		{
			name:     "no json at all returns trimmed text",
			input:    "  sorry, I cannot help with that  ",
			expected: "sorry, I cannot help with that",
		},
		{
			name:     "citation markers inside json stripped",
			input:    `{"title": "Node.js Guide", "platform": "MDN"}[1]`,
			expected: `{"title": "Node.js Guide", "platform": "MDN"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractCandidateJSON(tt.input))
		})
	}
}
