package search

import (
	"context"

	"github.com/mhr3/filescan/ascii"
)

// ShiftTable is a Boyer-Moore-Horspool matcher. It compares each window right
// to left and skips ahead by the bad-character distance of the window's last
// byte. It has no pattern length limit and is used for long patterns.
type ShiftTable struct {
	pattern       string
	folded        string // lowercase pattern when matching without case
	matchCase     bool
	shift         [256]int
	checkInterval int
}

func newShiftTable(pattern string, opts Options, cfg config) *ShiftTable {
	m := len(pattern)
	a := &ShiftTable{
		pattern:       pattern,
		folded:        pattern,
		matchCase:     opts.MatchCase,
		checkInterval: cfg.checkInterval,
	}
	if !opts.MatchCase {
		a.folded = ascii.LowerString(pattern)
	}

	for i := range a.shift {
		a.shift[i] = m
	}
	// The last pattern byte is excluded so that every shift is at least 1.
	for i := 0; i < m-1; i++ {
		dist := m - 1 - i
		c := pattern[i]
		if opts.MatchCase {
			a.shift[c] = dist
			continue
		}
		lower, upper := ascii.Fold(c)
		a.shift[lower] = dist
		a.shift[upper] = dist
	}
	return a
}

func (a *ShiftTable) Pattern() string { return a.pattern }
func (a *ShiftTable) Len() int        { return len(a.pattern) }
func (a *ShiftTable) MatchCase() bool { return a.matchCase }

func (a *ShiftTable) SearchAll(ctx context.Context, data []byte) ([]Span, error) {
	m, n := len(a.pattern), len(data)
	if m > n {
		return nil, nil
	}

	var spans []Span
	cp := newCheckpoint(ctx, a.checkInterval)
	for pos := 0; pos <= n-m; {
		if err := cp.reached(pos); err != nil {
			return nil, err
		}

		window := data[pos : pos+m]
		i := m - 1
		if a.matchCase {
			for i >= 0 && window[i] == a.pattern[i] {
				i--
			}
		} else {
			for i >= 0 && ascii.ToLower(window[i]) == a.folded[i] {
				i--
			}
		}
		if i < 0 {
			spans = append(spans, Span{Offset: pos, Length: m})
		}
		pos += a.shift[window[m-1]]
	}
	return spans, nil
}
