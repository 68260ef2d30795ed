package schemas

import (
	"embed"
	"fmt"
)

//go:embed defs/*.schema.json
var schemaFiles embed.FS

// Kind identifies the expected shape of one structured generation
type Kind string

// Supported schema kinds
const (
	KindQuestionList     Kind = "question_list"
	KindAnswerEvaluation Kind = "answer_evaluation"
	KindFinalFeedback    Kind = "final_feedback"
	KindResumeExtraction Kind = "resume_extraction"
)

// Kinds lists every supported kind in a stable order
var Kinds = []Kind{KindQuestionList, KindAnswerEvaluation, KindFinalFeedback, KindResumeExtraction}

// SchemaMisconfigurationError is returned when a caller asks for a kind that does not exist.
// It is a programming error and is never retried.
type SchemaMisconfigurationError struct {
	Kind    Kind
	Message string
}

func (e *SchemaMisconfigurationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("schema misconfiguration (%q): %s", string(e.Kind), e.Message)
	}
	return fmt.Sprintf("schema misconfiguration: unsupported kind %q", string(e.Kind))
}

// Validate reports whether k is one of the supported kinds
func (k Kind) Validate() error {
	switch k {
	case KindQuestionList, KindAnswerEvaluation, KindFinalFeedback, KindResumeExtraction:
		return nil
	default:
		return &SchemaMisconfigurationError{Kind: k}
	}
}

// Container returns the outer JSON bracket a response of this kind must use
func (k Kind) Container() (open, closeCh byte) {
	if k == KindQuestionList {
		return '[', ']'
	}
	return '{', '}'
}

// IsList reports whether the kind decodes to a JSON array
func (k Kind) IsList() bool {
	return k == KindQuestionList
}

func (k Kind) String() string {
	return string(k)
}

// Schema returns the raw JSON Schema document for a kind
func Schema(k Kind) (string, error) {
	if err := k.Validate(); err != nil {
		return "", err
	}
	data, err := schemaFiles.ReadFile("defs/" + string(k) + ".schema.json")
	if err != nil {
		return "", &SchemaLoadError{Kind: k, Message: "embedded schema missing", Cause: err}
	}
	return string(data), nil
}
