package parsing

import (
	"fmt"

	"github.com/jonathan/interview-coach/internal/schemas"
)

// Stage names the parser step that rejected a response
type Stage string

// Parser stages
const (
	StageLocate   Stage = "locate"
	StageDecode   Stage = "decode"
	StageValidate Stage = "validate"
	StageCoerce   Stage = "coerce"
)

// ParseFailure represents model output that could not be turned into a value of the requested kind
type ParseFailure struct {
	Kind    schemas.Kind
	Stage   Stage
	Message string
	Cause   error
}

func (e *ParseFailure) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse %s failed at %s: %s: %v", e.Kind, e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse %s failed at %s: %s", e.Kind, e.Stage, e.Message)
}

func (e *ParseFailure) Unwrap() error {
	return e.Cause
}
