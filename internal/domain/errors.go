package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyExpired is returned for any mutation against a story whose
	// visible window has ended.
	ErrAlreadyExpired = errors.New("story already expired")

	// ErrUnknownOption is returned when a vote names an option the poll does
	// not offer.
	ErrUnknownOption = errors.New("unknown poll option")

	// ErrEmptyText is returned when a question response trims to nothing.
	ErrEmptyText = errors.New("response text is empty")
)

// ValidationError reports why a draft failed composition rules. Always
// recoverable by fixing the input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid story draft: %s", e.Reason)
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a draft validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
