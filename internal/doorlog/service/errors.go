package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports missing fields on an access-event insert.
// Index is the position of the offending element in a batch, or -1 for a
// single insert.
type ValidationError struct {
	Index  int
	Fields []string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("missing fields: %s", strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("event at index %d is incomplete: missing %s", e.Index, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InBatch reports whether the error came from a batch element.
func (e *ValidationError) InBatch() bool { return e.Index >= 0 }
