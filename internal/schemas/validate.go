package schemas

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// FieldError is one schema violation at a JSON path
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document
type ValidationError struct {
	Kind   Kind
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	parts := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("%s does not match schema: %s", ve.Kind, strings.Join(parts, "; "))
}

// SchemaLoadError means an embedded schema, or the document handed to it, could not be loaded
type SchemaLoadError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("schema %s: %s", e.Kind, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// compiled schemas are built once per kind
var compiled sync.Map

func compiledSchema(k Kind) (*gojsonschema.Schema, error) {
	if s, ok := compiled.Load(k); ok {
		return s.(*gojsonschema.Schema), nil
	}

	raw, err := Schema(k)
	if err != nil {
		return nil, err
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, &SchemaLoadError{Kind: k, Message: "invalid embedded schema", Cause: err}
	}
	actual, _ := compiled.LoadOrStore(k, s)
	return actual.(*gojsonschema.Schema), nil
}

// ValidateValue validates an already-decoded JSON value against the schema for k.
// Violations are returned as *ValidationError.
func ValidateValue(k Kind, doc any) error {
	s, err := compiledSchema(k)
	if err != nil {
		return err
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &SchemaLoadError{Kind: k, Message: "document could not be loaded", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Kind: k, Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}
