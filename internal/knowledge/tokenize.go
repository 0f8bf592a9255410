package knowledge

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonWord = regexp.MustCompile(`[^\w\s]`)

// Tokenize normalizes raw text into the token form the matcher scores
// against: lowercase, diacritics stripped, punctuation replaced by spaces,
// split on whitespace, tokens of length <= 2 dropped.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)

	// Decompose to NFD and drop combining marks so "café" tokenizes the
	// same as "cafe".
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	if folded, _, err := transform.String(strip, lower); err == nil {
		lower = folded
	}

	lower = nonWord.ReplaceAllString(lower, " ")

	var tokens []string
	for _, w := range strings.Fields(lower) {
		if len(w) > 2 {
			tokens = append(tokens, w)
		}
	}
	return tokens
}
