package domain

import (
	"errors"
	"strings"
)

var (
	// ErrUnauthenticated is returned when a request carries no valid identity token
	ErrUnauthenticated = errors.New("not authorized, token missing or invalid")

	// ErrForbidden is returned when the principal's role is not accepted
	ErrForbidden = errors.New("forbidden: insufficient role")

	// ErrValidation marks client input that failed validation
	ErrValidation = errors.New("validation failed")

	// ErrJobNotFound is returned when a job cannot be found in the database
	ErrJobNotFound = errors.New("job not found")

	// ErrFeedbackNotFound is returned when a feedback entry cannot be found
	ErrFeedbackNotFound = errors.New("feedback not found")
)

// ValidationError lists the problems found in client input. Its message is
// safe to return to the client.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a ValidationError with the given problems
func NewValidationError(problems ...string) error {
	return &ValidationError{Problems: problems}
}
