package extract

import (
	"strings"
	"unicode"
)

// Normalize folds an arbitrary extracted string into its canonical
// identifier form: every rune that is not a letter, digit, underscore or
// whitespace is stripped, the remainder is split on whitespace, each token is
// capitalized (first rune upper, rest lower) and the tokens are concatenated
// without a separator.
//
// Normalization is deterministic and idempotent; an input with no usable
// runes yields the empty string, which the deduplicator later discards.
func Normalize(s string) string {
	var stripped strings.Builder
	stripped.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			stripped.WriteRune(r)
		}
	}

	var b strings.Builder
	for _, token := range strings.Fields(stripped.String()) {
		b.WriteString(capitalize(token))
	}
	return b.String()
}

func capitalize(token string) string {
	runes := []rune(token)
	if len(runes) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteRune(unicode.ToUpper(runes[0]))
	for _, r := range runes[1:] {
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
