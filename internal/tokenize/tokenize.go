// Package tokenize splits an English subtitle line into selectable words.
package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Words splits s at whitespace and punctuation. Apostrophes and hyphens stay
// part of a word when they join two letters or digits ("don't",
// "well-known"); everything else that is not a letter or digit is a
// separator. Empty tokens are dropped.
func Words(s string) []string {
	var words []string
	var b strings.Builder

	flush := func() {
		if b.Len() > 0 {
			words = append(words, b.String())
			b.Reset()
		}
	}

	for i, r := range s {
		switch {
		case isWordRune(r):
			b.WriteRune(r)
		case isJoiner(r) && b.Len() > 0 && nextIsWordRune(s[i+utf8.RuneLen(r):]):
			b.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return words
}

// Join joins selected words into the text sent for translation.
func Join(words []string) string {
	return strings.Join(words, " ")
}

// Select returns the words at the given indexes, in index order, skipping
// indexes that are out of range.
func Select(words []string, indexes []int) []string {
	out := make([]string, 0, len(indexes))
	for _, i := range indexes {
		if i >= 0 && i < len(words) {
			out = append(out, words[i])
		}
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isJoiner(r rune) bool {
	switch r {
	case '\'', '’', '-':
		return true
	}
	return false
}

func nextIsWordRune(rest string) bool {
	r, _ := utf8.DecodeRuneInString(rest)
	return r != utf8.RuneError && isWordRune(r)
}
