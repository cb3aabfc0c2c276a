package query

import (
	"bytes"
	"cmp"
	"context"
	"slices"

	"github.com/mhr3/filescan/ascii"
	"github.com/mhr3/filescan/search"
)

// Text is read-only access to the searched buffer. Slice returns a view of
// [start, end) without copying and panics when the range is out of bounds.
// LineRange returns the line around pos, for pos in [0, Len()], as [start,
// end): start follows the previous '\n' and end is the next '\n' or Len().
type Text interface {
	Len() int
	Slice(start, end int) []byte
	LineRange(pos int) (start, end int)
}

// spansPerCheck is how many spans Apply filters between context checks.
const spansPerCheck = 256

type role uint8

const (
	before role = iota
	after
)

type auxEntry struct {
	pattern []byte
	role    role
	rank    uint16
}

// Filter keeps main matches whose auxiliary entries occur in the same
// region. It never mutates the text and is safe for concurrent use.
type Filter struct {
	text      Text
	scope     Scope
	matchCase bool
	entries   []auxEntry // rarest first
}

// NewFilter prepares q's auxiliary entries for lookups in text.
func NewFilter(text Text, q *Query) *Filter {
	f := &Filter{
		text:      text,
		scope:     q.Scope,
		matchCase: q.Options.MatchCase,
	}
	add := func(entries []Entry, r role) {
		for _, e := range dedupe(entryTexts(entries), f.matchCase) {
			f.entries = append(f.entries, auxEntry{
				pattern: []byte(e.Text),
				role:    r,
				rank:    ascii.PatternRank(e.Text, f.matchCase),
			})
		}
	}
	add(q.Before, before)
	add(q.After, after)

	slices.SortStableFunc(f.entries, func(a, b auxEntry) int {
		return cmp.Compare(a.rank, b.rank)
	})
	return f
}

func entryTexts(entries []Entry) []string {
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Text
	}
	return texts
}

// Keep reports whether every Before entry occurs in the region ending at the
// start of span and every After entry in the region starting at its end.
func (f *Filter) Keep(span search.Span) bool {
	return f.keep(span, make([]cursor, len(f.entries)))
}

// Apply filters spans in place, preserving their order. A canceled context
// aborts with an error matching search.ErrCanceled.
//
// Spans are expected in ascending offset order, as SearchAll returns them;
// then every entry scans each byte of the text a bounded number of times.
func (f *Filter) Apply(ctx context.Context, spans []search.Span) ([]search.Span, error) {
	cursors := make([]cursor, len(f.entries))
	kept := spans[:0]
	for i, s := range spans {
		if i%spansPerCheck == 0 {
			if err := ctx.Err(); err != nil {
				return nil, search.Canceled(err)
			}
		}
		if f.keep(s, cursors) {
			kept = append(kept, s)
		}
	}
	return kept, nil
}

func (f *Filter) keep(span search.Span, cursors []cursor) bool {
	if len(f.entries) == 0 {
		return true
	}
	lo, hi := f.region(span)
	for i, e := range f.entries {
		from, limit := lo, span.Offset
		if e.role == after {
			from, limit = span.End(), hi
		}
		if f.next(e.pattern, &cursors[i], from, limit) < 0 {
			return false
		}
	}
	return true
}

func (f *Filter) region(span search.Span) (lo, hi int) {
	if f.scope == ScopeBuffer {
		return 0, f.text.Len()
	}
	lo, _ = f.text.LineRange(span.Offset)
	_, hi = f.text.LineRange(span.End())
	return lo, hi
}

// cursor caches the last lookup of one entry: the first occurrence at or
// after from, or -1 when none ends by to.
type cursor struct {
	valid    bool
	from, to int
	found    int
}

// next returns the first occurrence of pattern at or after from that ends
// by limit, or -1.
func (f *Filter) next(pattern []byte, c *cursor, from, limit int) int {
	m := len(pattern)
	start := from
	if c.valid && from >= c.from {
		switch {
		case c.found >= from:
			if c.found+m <= limit {
				return c.found
			}
			return -1
		case c.found < 0 && limit <= c.to:
			return -1
		case c.found < 0 && from < c.to:
			// Nothing starts in [c.from, c.to-m].
			start = max(from, c.to-m+1)
		}
	}
	if limit-start < m {
		return -1
	}

	*c = cursor{valid: true, from: from, to: limit, found: -1}
	if i := f.index(f.text.Slice(start, limit), pattern); i >= 0 {
		c.found = start + i
	}
	return c.found
}

func (f *Filter) index(view, pattern []byte) int {
	if f.matchCase {
		return bytes.Index(view, pattern)
	}
	return ascii.IndexFold(view, pattern)
}
