// Package apperr defines the error taxonomy shared across the pipeline.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingConfig marks a required configuration value that was not
	// supplied via the config file or environment.
	ErrMissingConfig = errors.New("missing configuration")

	// ErrNotFound marks a requested document that does not exist.
	ErrNotFound = errors.New("not found")
)

// StructuralError reports a draft field of the wrong fundamental kind, e.g.
// a labels section that is not an object. The hydrator defaults missing
// fields, but it never repairs a field whose kind it cannot trust.
type StructuralError struct {
	Field string // dotted path of the offending field
	Want  string // expected kind, e.g. "object" or "list"
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("draft field %q is not a %s", e.Field, e.Want)
}

// previewLimit bounds how much raw generator output a ParseError carries.
const previewLimit = 500

// ParseError reports generator output that is not valid JSON after fence
// stripping. It keeps a bounded preview of the raw text for debugging.
type ParseError struct {
	Cause   error
	Preview string
}

// NewParseError builds a ParseError, truncating raw to the preview limit.
func NewParseError(cause error, raw string) *ParseError {
	preview := raw
	if len(preview) > previewLimit {
		preview = preview[:previewLimit] + "..."
	}
	return &ParseError{Cause: cause, Preview: preview}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse generator output: %v (output was: %s)", e.Cause, e.Preview)
}

func (e *ParseError) Unwrap() error { return e.Cause }
