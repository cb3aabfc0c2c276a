package query

import (
	"strings"

	"github.com/mhr3/filescan/ascii"
	"github.com/mhr3/filescan/search"
)

// Wildcard separates the terms of a query string.
const Wildcard = "*"

// Parse reads a wildcard query such as "foo*bar*baz". The longest term
// becomes the main entry (the first one on ties), terms left of it become
// Before entries and terms right of it After entries. Empty terms are
// ignored and repeated auxiliary terms are kept once.
func Parse(s string, opts search.Options) (*Query, error) {
	var terms []string
	for _, t := range strings.Split(s, Wildcard) {
		if t != "" {
			terms = append(terms, t)
		}
	}
	if len(terms) == 0 {
		return nil, ErrEmptyQuery
	}

	main := 0
	for i, t := range terms {
		if len(t) > len(terms[main]) {
			main = i
		}
	}

	return &Query{
		Main:    Entry{Text: terms[main]},
		Before:  dedupe(terms[:main], opts.MatchCase),
		After:   dedupe(terms[main+1:], opts.MatchCase),
		Options: opts,
		Scope:   ScopeLine,
	}, nil
}

func dedupe(terms []string, matchCase bool) []Entry {
	var entries []Entry
outer:
	for _, t := range terms {
		for _, e := range entries {
			if e.Text == t || !matchCase && ascii.EqualFold(e.Text, t) {
				continue outer
			}
		}
		entries = append(entries, Entry{Text: t})
	}
	return entries
}
