package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound covers both an absent entity and an entity owned by a
	// different user. The two cases must stay indistinguishable to callers.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned for per-owner uniqueness violations, such as a
	// duplicate invoice number.
	ErrConflict = errors.New("conflict")
)

// ValidationError reports every offending field by name so clients can show
// per-field messages.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

// OrNil returns nil when no field failed, so callers can write
// `return v.OrNil()` at the end of a validation pass.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("validation failed:")
	for _, f := range names {
		fmt.Fprintf(&b, " %s: %s;", f, e.Fields[f])
	}
	return strings.TrimSuffix(b.String(), ";")
}
