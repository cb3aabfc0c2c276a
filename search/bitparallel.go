package search

import (
	"context"

	"github.com/mhr3/filescan/ascii"
)

// BitParallel is a backward nondeterministic DAWG matcher (BNDM) whose
// automaton state lives in a single 64-bit word. Patterns are limited to
// MaxBitParallelLength bytes.
type BitParallel struct {
	pattern       string
	matchCase     bool
	masks         [256]uint64 // byte -> positions in the reversed pattern
	high          uint64      // state bit signalling a recognized prefix
	full          uint64      // one bit per pattern position
	checkInterval int
}

func newBitParallel(pattern string, opts Options, cfg config) *BitParallel {
	m := len(pattern)
	a := &BitParallel{
		pattern:       pattern,
		matchCase:     opts.MatchCase,
		high:          1 << (m - 1),
		full:          ^uint64(0) >> (64 - m),
		checkInterval: cfg.checkInterval,
	}

	for i := 0; i < m; i++ {
		bit := uint64(1) << (m - 1 - i)
		c := pattern[i]
		if opts.MatchCase {
			a.masks[c] |= bit
			continue
		}
		lower, upper := ascii.Fold(c)
		a.masks[lower] |= bit
		a.masks[upper] |= bit
	}
	return a
}

func (a *BitParallel) Pattern() string { return a.pattern }
func (a *BitParallel) Len() int        { return len(a.pattern) }
func (a *BitParallel) MatchCase() bool { return a.matchCase }

// SearchAll reads each window right to left. A set high bit after reading
// the window suffix data[pos+i:pos+m] means that suffix is a prefix of the
// pattern; the smallest such i > 0 is the next safe window start, and i == 0
// is a full match.
func (a *BitParallel) SearchAll(ctx context.Context, data []byte) ([]Span, error) {
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
		last := m
		state := a.full
		for i := m - 1; i >= 0 && state != 0; i-- {
			state &= a.masks[window[i]]
			if state&a.high != 0 {
				if i > 0 {
					last = i
				} else {
					spans = append(spans, Span{Offset: pos, Length: m})
				}
			}
			state = (state << 1) & a.full
		}
		pos += last
	}
	return spans, nil
}
