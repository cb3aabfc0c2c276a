package ascii

// byteRank is a frequency table for bytes based on corpus analysis.
// Lower rank = rarer byte. Derived from memchr's BYTE_FREQUENCIES table
// (corpus: CIA World Factbook, rustc source, Septuaginta). UTF-8 prefix
// bytes (0xC0-0xFF) are forced to 255.
var byteRank = [256]byte{
	// control characters
	55, 52, 51, 50, 49, 48, 47, 46, 45, 103, 242, 66, 67, 229, 44, 43,
	42, 41, 40, 39, 38, 37, 36, 35, 34, 33, 56, 32, 31, 30, 29, 28,
	// ' ' ... '/'
	255, 148, 164, 149, 136, 160, 155, 173, 221, 222, 134, 122, 232, 202, 215, 224,
	// '0' ... '?'
	208, 220, 204, 187, 183, 179, 177, 168, 178, 200, 226, 195, 154, 184, 174, 126,
	// '@' 'A' ... 'O'
	120, 191, 157, 194, 170, 189, 162, 161, 150, 193, 142, 137, 171, 176, 185, 167,
	// 'P' ... '_'
	186, 112, 175, 192, 188, 156, 140, 143, 123, 133, 128, 147, 138, 146, 114, 223,
	// '`' 'a' ... 'o'
	151, 249, 216, 238, 236, 253, 227, 218, 230, 247, 135, 180, 241, 233, 246, 244,
	// 'p' ... DEL
	231, 139, 245, 243, 251, 235, 201, 196, 240, 214, 152, 182, 205, 181, 127, 27,
	// UTF-8 continuation bytes
	212, 211, 210, 213, 228, 197, 169, 159, 131, 172, 105, 80, 98, 96, 97, 81,
	207, 145, 116, 115, 144, 130, 153, 121, 107, 132, 109, 110, 124, 111, 82, 108,
	118, 141, 113, 129, 119, 125, 165, 117, 92, 106, 83, 72, 99, 93, 65, 79,
	166, 237, 163, 199, 190, 225, 209, 203, 198, 217, 219, 206, 234, 248, 158, 239,
	// UTF-8 prefix bytes
	255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255,
	255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255,
	255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255,
	255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255,
}

// caseFoldRank is byteRank where both cases of a letter carry the sum of
// their ranks, modelling P(upper OR lower).
var caseFoldRank [256]uint16

func init() {
	for b := 0; b < 256; b++ {
		caseFoldRank[b] = uint16(byteRank[b])
	}
	for b := byte('A'); b <= 'Z'; b++ {
		lower := b + 0x20
		sum := uint16(byteRank[b]) + uint16(byteRank[lower])
		caseFoldRank[b] = sum
		caseFoldRank[lower] = sum
	}
}

// ByteRank returns the frequency rank of b; lower is rarer.
// When matchCase is false the rank of a letter covers both of its cases.
func ByteRank(b byte, matchCase bool) uint16 {
	if matchCase {
		return uint16(byteRank[b])
	}
	return caseFoldRank[b]
}

// PatternRank estimates how selective a pattern is: the rank of its rarest
// byte. Patterns with a lower rank are expected to match less often.
func PatternRank(pattern string, matchCase bool) uint16 {
	best := uint16(0xFFFF)
	for i := 0; i < len(pattern); i++ {
		if r := ByteRank(pattern[i], matchCase); r < best {
			best = r
		}
	}
	return best
}
