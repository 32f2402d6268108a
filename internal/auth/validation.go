package auth

import (
	"fmt"
	"sort"
	"strings"
)

// FieldErrors accumulates validation problems keyed by input field, mirroring
// the form contract the API exposes: every problem with a request is
// collected and returned in one response, never just the first.
type FieldErrors map[string][]string

// Add appends a message to the given field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// HasErrors reports whether any field has a problem recorded.
func (fe FieldErrors) HasErrors() bool {
	return len(fe) > 0
}

// Error implements the error interface with a deterministic summary.
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(fe[field], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
