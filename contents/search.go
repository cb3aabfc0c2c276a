package contents

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mhr3/filescan/lineindex"
	"github.com/mhr3/filescan/query"
	"github.com/mhr3/filescan/search"
)

// Request is a compiled query. It is immutable and meant to be reused
// across every buffer the query runs against.
type Request struct {
	Query     *query.Query
	Algorithm search.Algorithm
}

// Compile validates q and selects the search algorithm for its main entry.
func Compile(q *query.Query, opts ...search.Option) (*Request, error) {
	if q == nil {
		return nil, query.ErrEmptyQuery
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	algo, err := search.New(q.Main.Text, q.Options, opts...)
	if err != nil {
		return nil, err
	}
	return &Request{Query: q, Algorithm: algo}, nil
}

// Extract is a line extract together with its text.
type Extract struct {
	lineindex.Extract
	Text string
}

// Search returns the matches of req in ascending offset order. When the query
// has auxiliary entries only matches satisfying all of them are returned.
func (c *Contents) Search(ctx context.Context, req *Request) ([]search.Span, error) {
	data, done, err := c.lease.acquire()
	if err != nil {
		return nil, err
	}
	defer done()

	if req.Algorithm.Len() > len(data) {
		return nil, nil
	}

	spans, err := req.Algorithm.SearchAll(ctx, data)
	if err != nil {
		return nil, err
	}
	checkSpans(spans, req.Algorithm.Len(), len(data))

	if req.Query.Compound() {
		total := len(spans)
		spans, err = query.NewFilter(text{data: data, lines: c.lineIndex(data)}, req.Query).Apply(ctx, spans)
		if err != nil {
			return nil, err
		}
		c.logger.Debug("filtered matches",
			slog.String("pattern", req.Algorithm.Pattern()),
			slog.Int("before", total),
			slog.Int("after", len(spans)))
	}

	c.logger.Debug("searched buffer",
		slog.String("pattern", req.Algorithm.Pattern()),
		slog.String("algorithm", algorithmName(req.Algorithm)),
		slog.Int64("bytes", c.size),
		slog.Int("matches", len(spans)))
	return spans, nil
}

// Extracts returns one extract per span that resolves to a line, in input
// order. Unresolvable spans are skipped.
func (c *Contents) Extracts(spans []search.Span) ([]Extract, error) {
	data, done, err := c.lease.acquire()
	if err != nil {
		return nil, err
	}
	defer done()

	lines := c.lineIndex(data).ExtractAll(spans, c.extent)
	out := make([]Extract, len(lines))
	for i, e := range lines {
		out[i] = Extract{Extract: e, Text: string(data[e.Start:e.End])}
	}
	if dropped := len(spans) - len(out); dropped > 0 {
		c.logger.Debug("dropped unresolvable spans", slog.Int("count", dropped))
	}
	return out, nil
}

// checkSpans panics when an algorithm produced a span that does not fit the
// buffer.
func checkSpans(spans []search.Span, length, size int) {
	for _, s := range spans {
		if s.Length != length || !s.Within(size) {
			panic(fmt.Sprintf("contents: span %v out of bounds for %d-byte buffer", s, size))
		}
	}
}

func algorithmName(a search.Algorithm) string {
	switch a.(type) {
	case *search.BitParallel:
		return "bit-parallel"
	case *search.ShiftTable:
		return "shift-table"
	default:
		return fmt.Sprintf("%T", a)
	}
}
