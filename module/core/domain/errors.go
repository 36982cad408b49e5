package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced dispatch, person or notification does not exist.
	ErrNotFound = errors.New("not found")

	// ErrOwnership means the actor is not the assigned driver or does not hold
	// the role required for the operation.
	ErrOwnership = errors.New("not authorized for this operation")

	// ErrInvalidCoordinate means a latitude or longitude is outside its valid range.
	ErrInvalidCoordinate = errors.New("coordinate out of range")
)

// StateError is returned when an operation is attempted in a trip status
// that forbids it. Callers must re-fetch current state; the operation is
// never retried automatically.
type StateError struct {
	Op     string
	Status TripStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: invalid in trip status %q", e.Op, e.Status)
}

func NewStateError(op string, status TripStatus) *StateError {
	return &StateError{Op: op, Status: status}
}
