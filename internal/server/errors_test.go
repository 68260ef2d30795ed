package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/types"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "file", Message: "required"}
	assert.Equal(t, "validation error: file - required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	validatorErr := (&types.AnalyzeResumeRequest{}).Validate()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", &ErrValidation{Field: "f"}, http.StatusBadRequest},
		{"validator field errors", validatorErr, http.StatusBadRequest},
		{"not found", &interview.NotFoundError{ID: "x"}, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", &interview.NotFoundError{ID: "x"}), http.StatusNotFound},
		{"invalid transition", &interview.InvalidTransitionError{Operation: "start", From: interview.StatusCompleted}, http.StatusConflict},
		{"invalid index", &interview.InvalidAnswerIndexError{Got: 2, Expected: 0}, http.StatusConflict},
		{"too large", fmt.Errorf("%w: 11 MB", ingestion.ErrTooLarge), http.StatusRequestEntityTooLarge},
		{"unsupported", ingestion.ErrUnsupportedType, http.StatusUnsupportedMediaType},
		{"empty", ingestion.ErrEmptyDocument, http.StatusUnprocessableEntity},
		{"fetch", &ingestion.FetchError{URL: "u", Message: "HTTP status 500"}, http.StatusBadGateway},
		{"timeout", fmt.Errorf("evaluate answer: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"listing unsupported", interview.ErrListingUnsupported, http.StatusNotImplemented},
		{"schema", &schemas.SchemaMisconfigurationError{Kind: "bogus"}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
