package ascii

// lowerTable and upperTable map every byte to its ASCII case-folded form.
// Bytes outside A-Z/a-z map to themselves.
var lowerTable, upperTable [256]byte

func init() {
	for i := range lowerTable {
		b := byte(i)
		lowerTable[i] = b
		upperTable[i] = b
		if b >= 'A' && b <= 'Z' {
			lowerTable[i] = b + 0x20
		}
		if b >= 'a' && b <= 'z' {
			upperTable[i] = b - 0x20
		}
	}
}

// ToLower converts ASCII uppercase to lowercase.
func ToLower(b byte) byte {
	return lowerTable[b]
}

// Fold returns both case variants of a byte.
// For non-letters both results are b.
func Fold(b byte) (lower, upper byte) {
	return lowerTable[b], upperTable[b]
}

// LowerString converts a string to lowercase ASCII.
// The input is returned unchanged when it has no uppercase letters.
func LowerString(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			goto lower
		}
	}
	return s

lower:
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		b[i] = lowerTable[s[i]]
	}
	return string(b)
}

// based on https://graphics.stanford.edu/~seander/bithacks.html#HasBetweenInWord
func hasLowercaseAsciiByte(x uint64) uint64 {
	const mult = ^uint64(0) / 255
	const m, n = 'a' - 1, 'z' + 1

	A := mult * (127 + n)
	B := x & (mult * 127)
	C := ^x
	D := mult * (127 - m)
	return (A - B) & C & (B + D) & (mult * 128)
}

// foldWord uppercases every lowercase ASCII byte packed in x.
func foldWord(x uint64) uint64 {
	mask := hasLowercaseAsciiByte(x)
	mask >>= 2
	return x - mask
}

func load64[T string | []byte](s T) uint64 {
	_ = s[7]
	return uint64(s[0]) | uint64(s[1])<<8 | uint64(s[2])<<16 | uint64(s[3])<<24 |
		uint64(s[4])<<32 | uint64(s[5])<<40 | uint64(s[6])<<48 | uint64(s[7])<<56
}

// EqualFold reports whether a and b are equal under ASCII case folding.
// Non-ASCII bytes must match exactly.
func EqualFold[T string | []byte](a, b T) bool {
	if len(a) != len(b) {
		return false
	}

	for len(a) >= 8 {
		a64, b64 := load64(a), load64(b)
		if a64 != b64 && foldWord(a64) != foldWord(b64) {
			return false
		}
		a, b = a[8:], b[8:]
	}

	for i := 0; i < len(a); i++ {
		if a[i] != b[i] && upperTable[a[i]] != upperTable[b[i]] {
			return false
		}
	}
	return true
}
