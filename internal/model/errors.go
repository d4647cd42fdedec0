package model

import (
	"errors"
	"strings"
)

// Err* identify the kind of a conversion failure.
var (
	ErrDepthExceeded  = errors.New("heading depth exceeded")
	ErrInvalidNesting = errors.New("invalid heading nesting")
	ErrMissingTitle   = errors.New("missing title heading")
	ErrNoSource       = errors.New("no input source")
)

// StructureError reports that the heading structure of a document cannot be
// converted. Violations holds every problem found, not just the first.
type StructureError struct {
	Kind       error
	Violations []string
}

// NewStructureError creates a StructureError of the given kind.
func NewStructureError(kind error, violations ...string) *StructureError {
	return &StructureError{Kind: kind, Violations: violations}
}

func (e *StructureError) Error() string {
	if len(e.Violations) == 0 {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ":\n" + strings.Join(e.Violations, "\n")
}

func (e *StructureError) Unwrap() error {
	return e.Kind
}

// InputError reports that there is nothing to convert.
type InputError struct {
	Kind error
	Hint string
}

func (e *InputError) Error() string {
	if e.Hint == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + "\n" + e.Hint
}

func (e *InputError) Unwrap() error {
	return e.Kind
}
