// Package prompts holds the interview prompt templates. Templates live in an
// embedded JSON file keyed by name and use {{.Key}} placeholders.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed interview.json
var interviewJSON []byte

// Template keys
const (
	KeyQuestionList     = "question-list"
	KeyQuestionFreeForm = "question-list-freeform"
	KeyQuestionSingle   = "question-single"
	KeyEvaluation       = "answer-evaluation"
	KeyEvaluationField  = "answer-evaluation-field"
	KeyFeedback         = "final-feedback"
	KeyFeedbackField    = "final-feedback-field"
)

var placeholderPattern = regexp.MustCompile(`\{\{\.([A-Za-z][A-Za-z0-9]*)\}\}`)

var (
	loadOnce  sync.Once
	templates map[string]string
	loadErr   error
)

func load() (map[string]string, error) {
	loadOnce.Do(func() {
		templates, loadErr = parseTemplates(interviewJSON)
	})
	return templates, loadErr
}

func parseTemplates(data []byte) (map[string]string, error) {
	var out map[string]string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse prompt templates: %w", err)
	}
	return out, nil
}

// Get returns the raw template for key
func Get(key string) (string, error) {
	all, err := load()
	if err != nil {
		return "", err
	}
	tmpl, ok := all[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found", key)
	}
	return tmpl, nil
}

// Keys returns every template key in sorted order
func Keys() ([]string, error) {
	all, err := load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Placeholders lists the distinct placeholder names in tmpl in order of first use
func Placeholders(tmpl string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range placeholderPattern.FindAllStringSubmatch(tmpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Format fills {{.Key}} placeholders from data in a single pass, so values that
// themselves contain placeholders are not expanded. Unknown placeholders are kept.
func Format(tmpl string, data map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholderPattern.FindStringSubmatch(m)[1]
		if v, ok := data[name]; ok {
			return v
		}
		return m
	})
}

// Render fills the template for key. Every placeholder must have a value.
func Render(key string, data map[string]string) (string, error) {
	tmpl, err := Get(key)
	if err != nil {
		return "", err
	}

	var missing []string
	for _, name := range Placeholders(tmpl) {
		if _, ok := data[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %q: no value for %s", key, strings.Join(missing, ", "))
	}
	return Format(tmpl, data), nil
}
