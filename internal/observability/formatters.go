// Package observability provides formatted output utilities for the practice CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-coach/internal/scoring"
	"github.com/jonathan/interview-coach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for interactive sessions
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. Long lines wrap.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, boxWidth-4) {
			fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, wrapped)
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// wrap splits line on spaces so no piece exceeds width; single words longer
// than width are cut. Leading indentation is repeated on continuation lines.
func wrap(line string, width int) []string {
	if len(line) <= width {
		return []string{line}
	}
	indent := line[:len(line)-len(strings.TrimLeft(line, " "))]

	var out []string
	current := indent
	for _, word := range strings.Fields(line) {
		for len(indent)+len(word) > width {
			if strings.TrimSpace(current) != "" {
				out = append(out, current)
			}
			cut := width - len(indent)
			out = append(out, indent+word[:cut])
			word = word[cut:]
			current = indent
		}
		switch {
		case strings.TrimSpace(current) == "":
			current = indent + word
		case len(current)+1+len(word) <= width:
			current += " " + word
		default:
			out = append(out, current)
			current = indent + word
		}
	}
	if strings.TrimSpace(current) != "" {
		out = append(out, current)
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintQuestion outputs one interview question with its metadata.
func (p *Printer) PrintQuestion(q types.GeneratedQuestion, index, total int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Type: %s   Difficulty: %s   Time: %d min\n\n", q.Type, q.Difficulty, q.TimeLimitMinutes))
	sb.WriteString(q.Question)

	p.printBox(fmt.Sprintf("QUESTION %d/%d", index+1, total), sb.String())
}

// PrintEvaluation outputs the scores and feedback for one answer.
func (p *Printer) PrintEvaluation(e types.AnswerEvaluation) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score: %.1f/10\n", e.OverallScore))
	sb.WriteString(fmt.Sprintf("Technical %.1f  Communication %.1f  Relevance %.1f\n",
		e.TechnicalScore, e.CommunicationScore, e.RelevanceScore))
	if e.Feedback != "" {
		sb.WriteString("\n" + e.Feedback + "\n")
	}
	if len(e.Strengths) > 0 || len(e.Suggestions) > 0 {
		sb.WriteString("\n")
	}
	writeList(&sb, "Strengths", e.Strengths)
	writeList(&sb, "Suggestions", e.Suggestions)

	p.printBox("EVALUATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReport outputs the aggregate scores and final feedback of a completed session.
func (p *Printer) PrintReport(scores *types.AggregateScores, feedback *types.FinalFeedback) {
	if scores == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall:       %.1f (%s)\n", scores.WeightedOverall, scores.PerformanceLevel))
	sb.WriteString(fmt.Sprintf("Technical:     %.1f\n", scores.Technical))
	sb.WriteString(fmt.Sprintf("Communication: %.1f\n", scores.Communication))
	sb.WriteString(fmt.Sprintf("Relevance:     %.1f\n", scores.Relevance))
	if scores.JobMatch != nil {
		sb.WriteString(fmt.Sprintf("Job match:     %.1f\n", *scores.JobMatch))
	}
	if scores.Passing {
		sb.WriteString(fmt.Sprintf("Result:        PASS (passing score %.0f)\n", scoring.PassingScore))
	} else {
		sb.WriteString(fmt.Sprintf("Result:        NOT YET (passing score %.0f)\n", scoring.PassingScore))
	}

	if len(scores.ImprovementAreas) > 0 {
		sb.WriteString("\nImprovement areas:\n")
		for _, area := range scores.ImprovementAreas {
			sb.WriteString(fmt.Sprintf("  • %s %.1f (+%.1f needed)\n", area.Area, area.Score, area.Gap))
		}
	}

	if feedback != nil {
		if feedback.OverallPerformance != "" {
			sb.WriteString("\n" + feedback.OverallPerformance + "\n")
		}
		if len(feedback.NextSteps) > 0 {
			sb.WriteString("\n")
			writeList(&sb, "Next steps", feedback.NextSteps)
		}
	}

	p.printBox("INTERVIEW REPORT", strings.TrimSuffix(sb.String(), "\n"))
}
