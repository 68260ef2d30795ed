package parsing

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/jonathan/interview-coach/internal/scoring"
	"github.com/jonathan/interview-coach/internal/types"
)

var leadingNumberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// decodeInto decodes a generic JSON document into out with weak typing:
// numeric strings become numbers, scalars become single-element lists and
// lists assigned to text fields are joined.
func decodeInto(doc any, out any) error {
	cfg := &mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       joinListToString,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(doc)
}

func joinListToString(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String || from.Kind() != reflect.Slice {
		return data, nil
	}
	items, ok := data.([]any)
	if !ok {
		return data, nil
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "; "), nil
}

// coerceRequiredNumber replaces obj[key] with a float64, accepting strings like "7" or "8/10"
func coerceRequiredNumber(obj map[string]any, key string) error {
	n, ok := toNumber(obj[key])
	if !ok {
		return fmt.Errorf("%s is not numeric: %v", key, obj[key])
	}
	obj[key] = n
	return nil
}

// coerceOptionalNumber is like coerceRequiredNumber but drops values it cannot read
func coerceOptionalNumber(obj map[string]any, key string) {
	if _, present := obj[key]; !present {
		return
	}
	if n, ok := toNumber(obj[key]); ok {
		obj[key] = n
		return
	}
	delete(obj, key)
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
		return ParseItemNumber(s)
	default:
		return 0, false
	}
}

// NormalizeQuestion trims text, folds enums onto their closed sets and fills defaults
func NormalizeQuestion(q types.GeneratedQuestion) types.GeneratedQuestion {
	q.Question = strings.TrimSpace(q.Question)
	q.Type = types.NormalizeQuestionType(strings.ToLower(strings.TrimSpace(string(q.Type))))
	q.Difficulty = types.NormalizeDifficulty(strings.ToLower(strings.TrimSpace(string(q.Difficulty))))
	q.ExpectedKeywords = cleanList(q.ExpectedKeywords)
	if q.TimeLimitMinutes < 1 {
		q.TimeLimitMinutes = types.DefaultTimeLimitMinutes
	}
	return q
}

// NormalizeEvaluation clamps scores into range and recomputes the derived overall score
func NormalizeEvaluation(e types.AnswerEvaluation) types.AnswerEvaluation {
	e.TechnicalScore = scoring.Clamp(e.TechnicalScore, types.MinAnswerScore, types.MaxAnswerScore)
	e.CommunicationScore = scoring.Clamp(e.CommunicationScore, types.MinAnswerScore, types.MaxAnswerScore)
	e.RelevanceScore = scoring.Clamp(e.RelevanceScore, types.MinAnswerScore, types.MaxAnswerScore)
	e.OverallScore = scoring.OverallPerAnswer(e.TechnicalScore, e.CommunicationScore, e.RelevanceScore)
	e.Feedback = strings.TrimSpace(e.Feedback)
	e.Strengths = cleanList(e.Strengths)
	e.Weaknesses = cleanList(e.Weaknesses)
	e.Suggestions = cleanList(e.Suggestions)
	return e
}

// NormalizeFeedback trims text and replaces missing lists with empty ones
func NormalizeFeedback(f types.FinalFeedback) types.FinalFeedback {
	f.OverallPerformance = strings.TrimSpace(f.OverallPerformance)
	f.TechnicalStrengths = cleanList(f.TechnicalStrengths)
	f.CommunicationStrengths = cleanList(f.CommunicationStrengths)
	f.ImprovementAreas = cleanList(f.ImprovementAreas)
	f.Recommendations = cleanList(f.Recommendations)
	f.NextSteps = cleanList(f.NextSteps)
	return f
}

// NormalizeResume canonicalizes skill names and fills defaults
func NormalizeResume(r types.ResumeExtraction) types.ResumeExtraction {
	r.Skills = NormalizeSkills(r.Skills)
	r.Technologies = NormalizeSkills(r.Technologies)
	r.JobTitles = cleanList(r.JobTitles)
	r.Companies = cleanList(r.Companies)
	r.Strengths = cleanList(r.Strengths)
	r.Summary = strings.TrimSpace(r.Summary)
	r.EducationLevel = strings.TrimSpace(r.EducationLevel)
	if r.ExperienceYears < 0 {
		r.ExperienceYears = 0
	}
	return r
}

// cleanList trims entries, drops empty ones and never returns nil
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
