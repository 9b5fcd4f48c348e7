package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidBox and ErrInvalidRating signal programmer or config errors;
	// they are never expected from valid input.
	ErrInvalidBox    = errors.New("box out of range")
	ErrInvalidRating = errors.New("invalid rating")

	// ErrScopeNotFound means the deck or folder does not exist, is deleted,
	// or is not owned by the user.
	ErrScopeNotFound = errors.New("scope not found")

	// ErrCardNotDueForReview and ErrOutOfOrderSubmission are session-protocol
	// violations: the client's view of the session is stale.
	ErrCardNotDueForReview  = errors.New("card not due for review")
	ErrOutOfOrderSubmission = errors.New("out-of-order submission")

	// ErrDailyLimitExceeded is returned when a card is force-reviewed past
	// the remaining daily allowance.
	ErrDailyLimitExceeded = errors.New("daily limit exceeded")

	// ErrNothingToUndo is returned when no live rating event exists for the user.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrSessionNotFound is returned when a session id does not resolve to a
	// live in-memory session for the user.
	ErrSessionNotFound = errors.New("session not found")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s — %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
