package common

import (
	"errors"
	"fmt"
)

// Domain errors - use errors.Is() to check
var (
	// Generic errors
	ErrInternal   = errors.New("internal error")
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")

	// Request errors
	ErrNoFile           = fmt.Errorf("no file uploaded: %w", ErrBadRequest)
	ErrRejectedQuestion = fmt.Errorf("question is not a recognised medical question: %w", ErrBadRequest)
	ErrFileTooLarge     = fmt.Errorf("file too large: %w", ErrBadRequest)

	// Upstream errors
	ErrGateway = errors.New("ai gateway error")

	// Validation errors
	ErrValidation = errors.New("validation error")
)

// ValidationError represents a validation error with field details
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is implements errors.Is for ValidationError
func (e ValidationError) Is(target error) bool {
	return target == ErrValidation || target == ErrBadRequest
}

// WrapInternal wraps an error as an internal error with context
func WrapInternal(operation string, err error) error {
	return fmt.Errorf("%s: %w", operation, errors.Join(ErrInternal, err))
}

// WrapGateway tags a provider failure so handlers can tell it apart from
// local errors. The provider message is kept as the error text.
func WrapGateway(err error) error {
	if err == nil {
		return nil
	}
	return &GatewayError{Err: err}
}

type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string { return e.Err.Error() }

func (e *GatewayError) Unwrap() []error { return []error{ErrGateway, e.Err} }

// IsBadRequest checks if error should be reported as a client error
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

// IsGateway checks if error came from the AI provider
func IsGateway(err error) bool {
	return errors.Is(err, ErrGateway)
}

// IsValidation checks if error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
