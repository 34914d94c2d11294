package features

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidInput matches every ValidationError via errors.Is.
	ErrInvalidInput = errors.New("invalid input")

	ErrMissingField = errors.New("missing required field")
	ErrInvalidValue = errors.New("invalid value")
	ErrOutOfRange   = errors.New("value out of range")
)

type ValidationError struct {
	Fields []string
	reason error
}

func newValidationError(reason error, fields ...string) ValidationError {
	return ValidationError{Fields: fields, reason: reason}
}

func (e ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.reason.Error()
	}
	return strings.Join(e.Fields, ", ") + ": " + e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
