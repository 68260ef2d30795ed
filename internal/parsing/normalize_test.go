package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Golang to Go", "Golang", "Go"},
		{"GOLANG to Go", "GOLANG", "Go"},
		{"go lang to Go", "go lang", "Go"},
		{"JS to JavaScript uppercase", "JS", "JavaScript"},
		{"K8s to Kubernetes", "k8s", "Kubernetes"},
		{"nodejs to Node.js", "nodejs", "Node.js"},
		{"postgres to PostgreSQL", "postgres", "PostgreSQL"},
		{"python to Python", "python", "Python"},
		{"PYTHON to Python", "PYTHON", "Python"},
		{"short acronym kept", "API", "API"},
		{"Empty string", "", ""},
		{"Whitespace only", "   ", ""},
		{"Multi-word stays as-is", "Distributed Systems", "Distributed Systems"},
		{"Mixed case single word", "JavaScript", "JavaScript"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSkillName(tt.input))
		})
	}
}

func TestNormalizeSkills(t *testing.T) {
	got := NormalizeSkills([]string{"golang", "Go", " docker ", "", "JS", "javascript", "Kafka"})
	assert.Equal(t, []string{"Go", "Docker", "JavaScript", "Kafka"}, got)

	assert.NotNil(t, NormalizeSkills(nil))
}
