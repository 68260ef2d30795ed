package interview

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every *NotFoundError
var ErrNotFound = errors.New("session not found")

// NotFoundError is returned when no session has the given id
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session %s not found", e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidTransitionError is returned when an operation is not legal in the session's current status.
// The session is left unchanged.
type InvalidTransitionError struct {
	Operation string
	From      Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a session that is %s", e.Operation, e.From)
}

// InvalidAnswerIndexError is returned for an out-of-order or duplicate answer.
// The session is left unchanged.
type InvalidAnswerIndexError struct {
	Got      int
	Expected int
}

func (e *InvalidAnswerIndexError) Error() string {
	return fmt.Sprintf("answer index %d is not the current question (expected %d)", e.Got, e.Expected)
}
