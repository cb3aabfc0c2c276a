// Package search implements substring search over immutable byte buffers.
//
// Two algorithms share the Algorithm contract: a bit-parallel matcher for
// patterns that fit in a 64-bit state word and a shift-table matcher for
// longer patterns. New picks between them by pattern length.
package search

import (
	"context"
	"fmt"
)

// MaxBitParallelLength is the longest pattern routed to the bit-parallel
// algorithm. It is fixed rather than derived from the host word size so that
// algorithm selection is the same everywhere.
const MaxBitParallelLength = 64

// DefaultCheckInterval is the number of scanned bytes between two
// cancellation checks.
const DefaultCheckInterval = 64 * 1024

// Span is a half-open byte range [Offset, Offset+Length) within a buffer.
type Span struct {
	Offset int
	Length int
}

// End returns the offset just past the span.
func (s Span) End() int {
	return s.Offset + s.Length
}

// Within reports whether the span lies inside a buffer of n bytes.
func (s Span) Within(n int) bool {
	return s.Offset >= 0 && s.Length >= 0 && s.Offset+s.Length <= n
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Offset, s.End())
}

// Options control how a pattern is matched.
type Options struct {
	MatchCase bool
}

// Algorithm finds every occurrence of a compiled pattern in a buffer.
// Implementations are immutable after construction and safe for concurrent use.
type Algorithm interface {
	// SearchAll returns all matches in ascending offset order, overlapping
	// matches included. A canceled scan returns no spans and an error
	// matching ErrCanceled.
	SearchAll(ctx context.Context, data []byte) ([]Span, error)

	// Pattern returns the pattern as given to New.
	Pattern() string

	// Len returns the pattern length in bytes.
	Len() int

	// MatchCase reports whether matching is case-sensitive.
	MatchCase() bool
}

// Option configures an Algorithm.
type Option func(*config)

type config struct {
	checkInterval int
}

// WithCheckInterval sets how many bytes are scanned between cancellation
// checks. Values below 1 keep the default.
func WithCheckInterval(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.checkInterval = n
		}
	}
}

// New compiles pattern into the algorithm suited to its length.
func New(pattern string, opts Options, options ...Option) (Algorithm, error) {
	if len(pattern) == 0 {
		return nil, &PatternError{Pattern: pattern, Underlying: ErrEmptyPattern}
	}

	cfg := config{checkInterval: DefaultCheckInterval}
	for _, o := range options {
		o(&cfg)
	}

	if len(pattern) <= MaxBitParallelLength {
		return newBitParallel(pattern, opts, cfg), nil
	}
	return newShiftTable(pattern, opts, cfg), nil
}

// checkpoint polls ctx when a scan starts and then every interval bytes.
type checkpoint struct {
	ctx      context.Context
	interval int
	next     int
}

func newCheckpoint(ctx context.Context, interval int) checkpoint {
	return checkpoint{ctx: ctx, interval: interval}
}

// reached returns a non-nil error once pos has crossed the next check
// boundary and the context is done.
func (c *checkpoint) reached(pos int) error {
	if pos < c.next {
		return nil
	}
	for c.next <= pos {
		c.next += c.interval
	}
	if err := c.ctx.Err(); err != nil {
		return Canceled(err)
	}
	return nil
}
