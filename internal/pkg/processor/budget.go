package processor

import (
	"fmt"
	"unicode/utf8"
)

// BytesPerToken approximates how many bytes of English text or code make
// up one model token.
const BytesPerToken = 4

// TokensToBytes converts a token budget to a byte budget. tokens <= 0
// means unlimited and yields 0.
func TokensToBytes(tokens int) int {
	if tokens <= 0 {
		return 0
	}
	return tokens * BytesPerToken
}

// Trim keeps the head of text within maxBytes and marks the cut.
// maxBytes <= 0 disables trimming.
func Trim(text string, maxBytes int) (string, bool) {
	if maxBytes <= 0 || len(text) <= maxBytes {
		return text, false
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + fmt.Sprintf("\n… [truncated %d bytes]", len(text)-cut), true
}
