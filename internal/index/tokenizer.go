package index

import (
	"strings"
	"unicode"
)

// Token is one alphanumeric run of a page text. Offset and Length are byte
// positions in the original text; Term is the lowercased form used as the
// index key.
type Token struct {
	Term   string
	Offset int
	Length int
}

// Tokenize splits text into lowercase tokens on non-alphanumeric boundaries.
// No stemming, no stop words - lookups stay literal and predictable.
func Tokenize(text string) []Token {
	var tokens []Token
	start := -1
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, Token{
				Term:   strings.ToLower(text[start:i]),
				Offset: start,
				Length: i - start,
			})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{
			Term:   strings.ToLower(text[start:]),
			Offset: start,
			Length: len(text) - start,
		})
	}
	return tokens
}
