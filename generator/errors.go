package generator

import (
	"errors"
	"fmt"
)

// ErrInvalid is matched by every ValidationError via errors.Is.
var ErrInvalid = errors.New("invalid input")

// ValidationError reports a malformed URL or color before any I/O happens.
type ValidationError struct {
	Label string // what was being validated, e.g. "GitHub" or "color"
	Value string
	Kind  string // "URL" for URL failures, empty otherwise
}

func (e *ValidationError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("%s is not valid: %q", e.Label, e.Value)
	}
	return fmt.Sprintf("%s %s is not valid: %q", e.Label, e.Kind, e.Value)
}

// Is lets errors.Is(err, ErrInvalid) match any validation failure.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}
