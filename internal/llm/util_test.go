package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "upper case tag",
			input:    "```JSON\n[1, 2]\n```",
			expected: `[1, 2]`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "tag on the same line as content",
			input:    "```json{\"a\": 1}```",
			expected: `{"a": 1}`,
		},
		{
			name:     "unterminated fence",
			input:    "```json\n{\"a\": 1}",
			expected: `{"a": 1}`,
		},
		{
			name:     "plain JSON untouched",
			input:    `  {"key": "value"}  `,
			expected: `{"key": "value"}`,
		},
		{
			name:     "prose untouched",
			input:    "Here you go: [1]",
			expected: "Here you go: [1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestPreviewLines(t *testing.T) {
	text := "first\n\n  second  \nthird\nfourth"
	assert.Equal(t, "first | second", PreviewLines(text, 2))
	assert.Equal(t, "first | second | third | fourth", PreviewLines(text, 10))
	assert.Equal(t, "", PreviewLines("", 3))
}
