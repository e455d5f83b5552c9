package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is wrapped by lookups that hit no row.
var ErrNotFound = errors.New("not found")

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Value   string
	Allowed []string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("Invalid %s: %s. Must be one of: %s", e.Field, e.Value, strings.Join(e.Allowed, ", "))
	}
	return fmt.Sprintf("invalid %s", e.Field)
}

// Invalid builds a ValidationError with a free-form message.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFound wraps ErrNotFound with the entity kind, e.g. "item not found".
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
