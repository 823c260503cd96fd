package intent

import "strings"

// punctuation is the ASCII punctuation set.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Normalize strips ASCII punctuation and lowercases the rest. Whitespace is
// left untouched.
func Normalize(text string) string {
	stripped := strings.Map(func(r rune) rune {
		if r < 0x80 && strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, text)
	return strings.ToLower(stripped)
}
