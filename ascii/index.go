package ascii

// IndexFold returns the index of the first case-insensitive occurrence of
// substr in s, or -1. Candidates are located by the rarest byte of substr and
// then verified with EqualFold.
func IndexFold[T string | []byte](s, substr T) int {
	n := len(substr)
	if n == 0 {
		return 0
	} else if n > len(s) {
		return -1
	}

	off := rareOffset(substr)
	lower, upper := Fold(substr[off])
	for i := off; i <= len(s)-n+off; i++ {
		b := s[i]
		if b != lower && b != upper {
			continue
		}
		start := i - off
		if EqualFold(s[start:start+n], substr) {
			return start
		}
	}
	return -1
}

// rareOffset returns the offset of the rarest byte of needle, ignoring case.
// Ties go to the earliest offset.
func rareOffset[T string | []byte](needle T) int {
	best, bestRank := 0, uint16(0xFFFF)
	for i := 0; i < len(needle); i++ {
		if r := caseFoldRank[needle[i]]; r < bestRank {
			best, bestRank = i, r
		}
	}
	return best
}
