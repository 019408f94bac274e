package service

import (
	"errors"
	"fmt"
)

// ErrValidationFailed is wrapped by every error caused by bad input. Such
// errors are detected before any repository or storage call.
var ErrValidationFailed = errors.New("validation failed")

// validationError wraps ErrValidationFailed with a message.
func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

// invalid wraps cause so callers can match both ErrValidationFailed and cause.
func invalid(cause error) error {
	return fmt.Errorf("%w: %w", ErrValidationFailed, cause)
}

// IsValidation reports whether err came from input validation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}
