// Package text implements tokenization, vocabulary building, and
// bag-of-words vectorization for short Vietnamese financial phrases.
package text

import (
	"strings"
	"unicode"
)

// Reserved vocabulary indices.
const (
	// PadIndex is reserved for sequence padding.
	PadIndex = 0
	// UnknownIndex is assigned to terms outside the vocabulary.
	UnknownIndex = 1
)

// Tokenize lowercases the input and splits on any run of characters that
// is neither a letter nor a digit. Vietnamese diacritics are letters, so
// "cà phê" tokenizes to ["cà", "phê"]. Empty tokens are dropped.
func Tokenize(s string) []string {
	lower := strings.ToLower(s)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ToSequence maps tokens to vocabulary indices, padding or truncating to
// maxLen. Unknown tokens map to UnknownIndex, padding to PadIndex.
func ToSequence(vocab map[string]int, tokens []string, maxLen int) []int {
	seq := make([]int, maxLen)
	for i := 0; i < maxLen; i++ {
		if i >= len(tokens) {
			seq[i] = PadIndex
			continue
		}
		if idx, ok := vocab[tokens[i]]; ok {
			seq[i] = idx
		} else {
			seq[i] = UnknownIndex
		}
	}
	return seq
}
