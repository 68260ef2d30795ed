package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-coach/internal/types"
)

func TestPrintQuestion(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintQuestion(types.GeneratedQuestion{
		Question:         "Describe how you would design a rate limiter for a public API that serves many tenants.",
		Type:             types.QuestionTechnical,
		Difficulty:       types.DifficultyMedium,
		TimeLimitMinutes: 5,
	}, 1, 5)
	output := buf.String()

	assert.Contains(t, output, "QUESTION 2/5")
	assert.Contains(t, output, "Type: technical")
	assert.Contains(t, output, "Time: 5 min")
	assert.Contains(t, output, "Describe how you would design a rate limiter")
	assert.Contains(t, output, "many tenants.")
}

func TestPrintEvaluation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintEvaluation(types.AnswerEvaluation{
		TechnicalScore:     8,
		CommunicationScore: 6,
		RelevanceScore:     7,
		OverallScore:       7,
		Feedback:           "Solid answer.",
		Strengths:          []string{"clear structure"},
		Suggestions:        []string{"a", "b", "c", "d", "e", "f", "g"},
	})
	output := buf.String()

	assert.Contains(t, output, "EVALUATION")
	assert.Contains(t, output, "Score: 7.0/10")
	assert.Contains(t, output, "Technical 8.0  Communication 6.0  Relevance 7.0")
	assert.Contains(t, output, "Solid answer.")
	assert.Contains(t, output, "• clear structure")
	assert.Contains(t, output, "... and 2 more")
	assert.NotContains(t, output, "• f")
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	jobMatch := 50.0
	p.PrintReport(&types.AggregateScores{
		Technical:        70,
		Communication:    70,
		Relevance:        70,
		JobMatch:         &jobMatch,
		WeightedOverall:  64,
		PerformanceLevel: types.LevelFair,
		ImprovementAreas: []types.ImprovementArea{
			{Area: "job_match", Score: 50, Gap: 20},
		},
	}, &types.FinalFeedback{
		OverallPerformance: "Reasonable performance.",
		NextSteps:          []string{"Practice system design"},
	})
	output := buf.String()

	assert.Contains(t, output, "INTERVIEW REPORT")
	assert.Contains(t, output, "64.0 (Fair)")
	assert.Contains(t, output, "Job match:     50.0")
	assert.Contains(t, output, "NOT YET (passing score 70)")
	assert.Contains(t, output, "• job_match 50.0 (+20.0 needed)")
	assert.Contains(t, output, "Reasonable performance.")
	assert.Contains(t, output, "• Practice system design")
}

func TestPrintReport_Passing(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintReport(&types.AggregateScores{
		WeightedOverall:  85,
		PerformanceLevel: types.LevelGood,
		Passing:          true,
	}, nil)

	output := buf.String()
	assert.Contains(t, output, "PASS (passing score 70)")
	assert.NotContains(t, output, "Job match")
	assert.NotContains(t, output, "Improvement areas")
}

func TestPrintReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReport(nil, nil)

	assert.Empty(t, buf.String())
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		width int
		want  []string
	}{
		{"fits", "short line", 20, []string{"short line"}},
		{"words", "hello world foo", 10, []string{"hello", "world foo"}},
		{"indent kept", "  • one two three", 10, []string{"  • one", "  two", "  three"}},
		{"long word", "abcdefghijklmnop", 10, []string{"abcdefghij", "klmnop"}},
		{"blank", strings.Repeat(" ", 12), 10, []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrap(tt.line, tt.width))
		})
	}
}

func TestPrintBox_WrapsLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("word ", 30))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Greater(t, len(lines), 5)
	for _, line := range lines[3 : len(lines)-1] {
		assert.True(t, strings.HasPrefix(line, "│ "))
		assert.True(t, strings.HasSuffix(line, " │"))
	}
}
