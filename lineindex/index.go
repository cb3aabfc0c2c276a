// Package lineindex maps byte offsets of a buffer to lines and cuts bounded
// context extracts around matches.
package lineindex

import (
	"bytes"
	"slices"

	"github.com/mhr3/filescan/search"
)

// DefaultMaxTextExtent is the number of bytes an extract may reach to either
// side of its span.
const DefaultMaxTextExtent = 50

// Index is the line table of a buffer. It holds offsets only, never the
// buffer itself, and is immutable once built and safe for concurrent use.
type Index struct {
	size   int
	starts []int
	ends   []int // content end of each line, terminator and '\r' excluded
}

// Extract is a line-clamped window [Start, End) around a span. Line is
// 0-based and Column is the span offset relative to the line start.
type Extract struct {
	Line   int
	Column int
	Start  int
	End    int
}

// Build scans data once and records offset 0 plus the offset following
// every '\n'.
func Build(data []byte) *Index {
	lines := 1 + bytes.Count(data, []byte{'\n'})
	x := &Index{
		size:   len(data),
		starts: make([]int, 1, lines),
		ends:   make([]int, 0, lines),
	}
	for pos := 0; ; {
		i := bytes.IndexByte(data[pos:], '\n')
		if i < 0 {
			break
		}
		end := pos + i
		if end > pos && data[end-1] == '\r' {
			end--
		}
		x.ends = append(x.ends, end)
		pos += i + 1
		x.starts = append(x.starts, pos)
	}
	x.ends = append(x.ends, len(data))
	return x
}

// LineCount returns the number of entries in the line-start table.
func (x *Index) LineCount() int {
	return len(x.starts)
}

// LineOf returns the line containing pos. It reports false when pos lies
// outside the buffer.
func (x *Index) LineOf(pos int) (int, bool) {
	if pos < 0 || pos >= x.size {
		return 0, false
	}
	return x.lineAt(pos), true
}

func (x *Index) lineAt(pos int) int {
	line, found := slices.BinarySearch(x.starts, pos)
	if !found {
		line--
	}
	return line
}

// LineBounds returns the content of line as [start, end), excluding its
// terminator and a '\r' right before it. line must be in [0, LineCount()).
func (x *Index) LineBounds(line int) (start, end int) {
	return x.starts[line], x.ends[line]
}

// LineRange returns the raw line around pos as [start, end): start follows
// the previous '\n' and end is the next '\n' or the buffer size. A trailing
// '\r' is kept. pos must be in [0, size].
func (x *Index) LineRange(pos int) (start, end int) {
	line := x.lineAt(pos)
	if line+1 == len(x.starts) {
		return x.starts[line], x.size
	}
	return x.starts[line], x.starts[line+1] - 1
}

// Extract resolves span to its line and widens it by up to extent bytes on
// each side without leaving that line. It reports false for spans that do
// not resolve to a line.
func (x *Index) Extract(span search.Span, extent int) (Extract, bool) {
	if !span.Within(x.size) {
		return Extract{}, false
	}
	line, ok := x.LineOf(span.Offset)
	if !ok {
		return Extract{}, false
	}
	extent = max(extent, 0)

	lineStart, lineEnd := x.LineBounds(line)
	start := max(lineStart, span.Offset-extent)
	end := max(min(lineEnd, span.End()+extent), start)
	return Extract{
		Line:   line,
		Column: span.Offset - lineStart,
		Start:  start,
		End:    end,
	}, true
}

// ExtractAll returns one extract per resolvable span, in input order.
// Spans without a line are dropped.
func (x *Index) ExtractAll(spans []search.Span, extent int) []Extract {
	out := make([]Extract, 0, len(spans))
	for _, s := range spans {
		if e, ok := x.Extract(s, extent); ok {
			out = append(out, e)
		}
	}
	return out
}
