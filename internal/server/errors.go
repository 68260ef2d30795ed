package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/interview"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		fieldErrs     validator.ValidationErrors
		transitionErr *interview.InvalidTransitionError
		indexErr      *interview.InvalidAnswerIndexError
		fetchErr      *ingestion.FetchError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.Is(err, interview.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &transitionErr), errors.As(err, &indexErr):
		return http.StatusConflict
	case errors.Is(err, ingestion.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ingestion.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ingestion.ErrEmptyDocument):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ingestion.ErrBlockedAddress):
		return http.StatusBadRequest
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, interview.ErrListingUnsupported):
		return http.StatusNotImplemented
	default:
		// includes schema misconfiguration
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status and writes it. Server errors are logged and
// their detail withheld from the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		s.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		s.errorResponse(w, status, http.StatusText(status))
		return
	}
	s.errorResponse(w, status, err.Error())
}
