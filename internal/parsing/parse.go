// Package parsing turns loosely formatted model output into validated structured values.
//
// Nothing in this package panics or trusts raw model numbers: every value is
// located, decoded, validated against its schema, coerced and clamped before it
// is handed to callers. Failures come back as *ParseFailure.
package parsing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/types"
)

// Value is a validated result of one of the supported kinds. Exactly one payload field is set.
type Value struct {
	Kind       schemas.Kind
	Questions  []types.GeneratedQuestion
	Evaluation *types.AnswerEvaluation
	Feedback   *types.FinalFeedback
	Resume     *types.ResumeExtraction
}

// Parse extracts a value of the given kind from raw model text.
// An unsupported kind returns *schemas.SchemaMisconfigurationError; anything
// wrong with the text itself returns *ParseFailure.
func Parse(raw string, kind schemas.Kind) (*Value, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	doc, err := decodeContainer(raw, kind)
	if err != nil {
		return nil, err
	}

	return FromDocument(kind, doc)
}

// ParseQuestions parses a question list
func ParseQuestions(raw string) ([]types.GeneratedQuestion, error) {
	v, err := Parse(raw, schemas.KindQuestionList)
	if err != nil {
		return nil, err
	}
	return v.Questions, nil
}

// ParseEvaluation parses a single answer evaluation
func ParseEvaluation(raw string) (*types.AnswerEvaluation, error) {
	v, err := Parse(raw, schemas.KindAnswerEvaluation)
	if err != nil {
		return nil, err
	}
	return v.Evaluation, nil
}

// ParseFeedback parses end-of-session feedback
func ParseFeedback(raw string) (*types.FinalFeedback, error) {
	v, err := Parse(raw, schemas.KindFinalFeedback)
	if err != nil {
		return nil, err
	}
	return v.Feedback, nil
}

// ParseResume parses résumé extraction output
func ParseResume(raw string) (*types.ResumeExtraction, error) {
	v, err := Parse(raw, schemas.KindResumeExtraction)
	if err != nil {
		return nil, err
	}
	return v.Resume, nil
}

// decodeContainer locates the outer JSON value and decodes it, retrying once
// on the content of a fenced code block when the first span does not decode.
func decodeContainer(raw string, kind schemas.Kind) (any, error) {
	open, closeCh := kind.Container()

	var failure *ParseFailure
	if span, ok := locateSpan(raw, open, closeCh); ok {
		var doc any
		err := json.Unmarshal([]byte(span), &doc)
		if err == nil {
			return doc, nil
		}
		failure = &ParseFailure{Kind: kind, Stage: StageDecode, Message: "located span is not valid JSON", Cause: err}
	}

	if fenced, ok := fencedBlock(raw); ok {
		if span, ok := locateSpan(fenced, open, closeCh); ok {
			var doc any
			if err := json.Unmarshal([]byte(span), &doc); err == nil {
				return doc, nil
			}
		}
	}

	if failure == nil {
		failure = &ParseFailure{
			Kind:    kind,
			Stage:   StageLocate,
			Message: fmt.Sprintf("no %c...%c span in response", open, closeCh),
		}
	}
	return nil, failure
}

// locateSpan returns the text from the first opening bracket to the last closing bracket
func locateSpan(text string, open, closeCh byte) (string, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(text, closeCh)
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// fencedBlock returns the body of the first ``` fenced block, if any
func fencedBlock(text string) (string, bool) {
	idx := strings.Index(text, "```")
	if idx < 0 {
		return "", false
	}
	return llm.CleanJSONBlock(text[idx:]), true
}

// FromDocument validates and coerces an already-decoded JSON document.
// It is shared by the structured parser and by callers that assemble a
// document field by field.
func FromDocument(kind schemas.Kind, doc any) (*Value, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	switch kind {
	case schemas.KindQuestionList:
		return questionsFromDocument(doc)
	case schemas.KindAnswerEvaluation:
		return evaluationFromDocument(doc)
	case schemas.KindFinalFeedback:
		return feedbackFromDocument(doc)
	default:
		return resumeFromDocument(doc)
	}
}

func questionsFromDocument(doc any) (*Value, error) {
	kind := schemas.KindQuestionList
	items, ok := doc.([]any)
	if !ok {
		return nil, &ParseFailure{Kind: kind, Stage: StageValidate, Message: "expected a JSON array"}
	}

	// Items without question text are dropped rather than failing the whole list.
	usable := make([]any, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if text, ok := obj["question"].(string); !ok || strings.TrimSpace(text) == "" {
			continue
		}
		coerceOptionalNumber(obj, "time_limit_minutes")
		usable = append(usable, obj)
	}

	if err := validate(kind, usable); err != nil {
		return nil, err
	}

	var questions []types.GeneratedQuestion
	if err := decodeInto(usable, &questions); err != nil {
		return nil, &ParseFailure{Kind: kind, Stage: StageCoerce, Message: "question fields have unexpected types", Cause: err}
	}

	for i := range questions {
		questions[i] = NormalizeQuestion(questions[i])
	}

	return &Value{Kind: kind, Questions: questions}, nil
}

func evaluationFromDocument(doc any) (*Value, error) {
	kind := schemas.KindAnswerEvaluation
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &ParseFailure{Kind: kind, Stage: StageValidate, Message: "expected a JSON object"}
	}

	if err := validate(kind, obj); err != nil {
		return nil, err
	}

	for _, key := range []string{"technical_score", "communication_score", "relevance_score"} {
		if err := coerceRequiredNumber(obj, key); err != nil {
			return nil, &ParseFailure{Kind: kind, Stage: StageCoerce, Message: err.Error()}
		}
	}
	// overall_score is always derived
	delete(obj, "overall_score")

	var eval types.AnswerEvaluation
	if err := decodeInto(obj, &eval); err != nil {
		return nil, &ParseFailure{Kind: kind, Stage: StageCoerce, Message: "evaluation fields have unexpected types", Cause: err}
	}

	normalized := NormalizeEvaluation(eval)
	return &Value{Kind: kind, Evaluation: &normalized}, nil
}

func feedbackFromDocument(doc any) (*Value, error) {
	kind := schemas.KindFinalFeedback
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &ParseFailure{Kind: kind, Stage: StageValidate, Message: "expected a JSON object"}
	}

	if err := validate(kind, obj); err != nil {
		return nil, err
	}

	var feedback types.FinalFeedback
	if err := decodeInto(obj, &feedback); err != nil {
		return nil, &ParseFailure{Kind: kind, Stage: StageCoerce, Message: "feedback fields have unexpected types", Cause: err}
	}

	normalized := NormalizeFeedback(feedback)
	return &Value{Kind: kind, Feedback: &normalized}, nil
}

func resumeFromDocument(doc any) (*Value, error) {
	kind := schemas.KindResumeExtraction
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &ParseFailure{Kind: kind, Stage: StageValidate, Message: "expected a JSON object"}
	}

	if err := validate(kind, obj); err != nil {
		return nil, err
	}
	coerceOptionalNumber(obj, "experience_years")

	var resume types.ResumeExtraction
	if err := decodeInto(obj, &resume); err != nil {
		return nil, &ParseFailure{Kind: kind, Stage: StageCoerce, Message: "resume fields have unexpected types", Cause: err}
	}

	normalized := NormalizeResume(resume)
	return &Value{Kind: kind, Resume: &normalized}, nil
}

func validate(kind schemas.Kind, doc any) error {
	if err := schemas.ValidateValue(kind, doc); err != nil {
		return &ParseFailure{Kind: kind, Stage: StageValidate, Message: "response does not match schema", Cause: err}
	}
	return nil
}
