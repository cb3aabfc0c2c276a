package search

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPattern is returned when compiling an empty pattern.
	ErrEmptyPattern = errors.New("empty search pattern")

	// ErrCanceled is returned when a scan is aborted by its context.
	ErrCanceled = errors.New("search canceled")
)

// PatternError reports a pattern that cannot be compiled.
type PatternError struct {
	Pattern    string
	Underlying error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Underlying)
}

func (e *PatternError) Unwrap() error {
	return e.Underlying
}

// canceledError matches both ErrCanceled and the context error that caused it.
type canceledError struct {
	cause error
}

// Canceled wraps a context error so that it matches ErrCanceled as well.
func Canceled(cause error) error {
	return &canceledError{cause: cause}
}

func (e *canceledError) Error() string {
	return fmt.Sprintf("%v: %v", ErrCanceled, e.cause)
}

func (e *canceledError) Unwrap() []error {
	return []error{ErrCanceled, e.cause}
}
