package lexicon

import (
	"unicode"
	"unicode/utf8"
)

// isWord reports whether r is a word character for boundary checks: letters,
// numbers, combining marks and connector punctuation. Apostrophes, hyphens and
// other punctuation are boundaries
func isWord(r rune) bool {
	if r == utf8.RuneError || r == 0 {
		return false
	}
	return unicode.IsLetter(r) ||
		unicode.IsNumber(r) ||
		unicode.In(r, unicode.Mn, unicode.Pc)
}

// bounded reports whether text[start:end] is not glued to a neighbouring word.
// Edges of the form that are not word characters need no boundary
func bounded(text string, start, end int) bool {
	if start > 0 {
		first, _ := utf8.DecodeRuneInString(text[start:end])
		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWord(first) && isWord(prev) {
			return false
		}
	}
	if end < len(text) {
		last, _ := utf8.DecodeLastRuneInString(text[start:end])
		next, _ := utf8.DecodeRuneInString(text[end:])
		if isWord(last) && isWord(next) {
			return false
		}
	}
	return true
}
