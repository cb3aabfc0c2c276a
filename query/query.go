// Package query describes compound searches: a main pattern plus auxiliary
// terms that must occur before or after each main match.
package query

import (
	"errors"
	"fmt"

	"github.com/mhr3/filescan/search"
)

var (
	// ErrEmptyQuery is returned for a query without a main pattern.
	ErrEmptyQuery = errors.New("empty query")

	// ErrInvalidScope is returned for an unknown Scope value.
	ErrInvalidScope = errors.New("invalid scope")
)

// Scope bounds the region in which auxiliary entries are looked up.
type Scope uint8

const (
	// ScopeLine limits auxiliary entries to the line holding the main match.
	ScopeLine Scope = iota
	// ScopeBuffer lets auxiliary entries occur anywhere in the buffer.
	ScopeBuffer
)

func (s Scope) String() string {
	switch s {
	case ScopeLine:
		return "line"
	case ScopeBuffer:
		return "buffer"
	default:
		return fmt.Sprintf("Scope(%d)", uint8(s))
	}
}

// ParseScope converts "line" or "buffer" to a Scope.
func ParseScope(s string) (Scope, error) {
	switch s {
	case "line", "":
		return ScopeLine, nil
	case "buffer":
		return ScopeBuffer, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidScope, s)
	}
}

// Entry is a single literal term of a query.
type Entry struct {
	Text string
}

// Query is a main entry plus the auxiliary entries that must precede or
// follow every retained main match. All entries share Options.
type Query struct {
	Main    Entry
	Before  []Entry
	After   []Entry
	Options search.Options
	Scope   Scope
}

// Compound reports whether the query has auxiliary entries.
func (q *Query) Compound() bool {
	return len(q.Before) > 0 || len(q.After) > 0
}

// Validate checks that the query can be compiled.
func (q *Query) Validate() error {
	if q.Main.Text == "" {
		return ErrEmptyQuery
	}
	for _, entries := range [][]Entry{q.Before, q.After} {
		for _, e := range entries {
			if e.Text == "" {
				return &search.PatternError{Pattern: e.Text, Underlying: search.ErrEmptyPattern}
			}
		}
	}
	if q.Scope > ScopeBuffer {
		return fmt.Errorf("%w: %v", ErrInvalidScope, q.Scope)
	}
	return nil
}
