// Package langhint guesses whether ticket text is Spanish or English so insight
// text can follow the customer's language
package langhint

import (
	"unicode"

	"vortex/internal/core/lexicon"
	"vortex/internal/core/normalize"
)

// Lang codes returned by Detect
const (
	English = "en"
	Spanish = "es"
)

// stopwords are short function words that rarely appear in the other language
var (
	englishWords = []string{
		"the", "and", "is", "my", "your", "with", "since", "very", "we", "would", "like",
		"please", "for", "not", "this", "it", "have", "has", "was", "of", "to",
	}
	spanishWords = []string{
		"el", "la", "los", "las", "y", "es", "mi", "su", "con", "desde", "muy", "nosotros",
		"por", "favor", "para", "no", "esta", "este", "tiene", "fue", "de", "que", "del", "una",
	}

	englishM = lexicon.Flat(englishWords)
	spanishM = lexicon.Flat(spanishWords)
)

// Detect returns a coarse script name (always, when there are letters) and a
// best-effort "es"/"en" code. Lang is empty when the text is too short or ambiguous
func Detect(s string) (script string, lang string) {
	const minLetters = 12

	var latin, other, marked int
	for _, r := range s {
		if !unicode.IsLetter(r) {
			if r == '¿' || r == '¡' {
				marked++
			}
			continue
		}
		if unicode.In(r, unicode.Latin) {
			latin++
			switch r {
			case 'ñ', 'Ñ', 'á', 'é', 'í', 'ó', 'ú', 'Á', 'É', 'Í', 'Ó', 'Ú':
				marked++
			}
			continue
		}
		other++
	}

	switch {
	case latin == 0 && other == 0:
		return "", ""
	case other > latin:
		return "Other", ""
	}
	script = "Latin"
	if latin < minLetters {
		return script, ""
	}

	folded := normalize.Fold(s)
	en := len(englishM.Scan(folded))
	es := len(spanishM.Scan(folded)) + marked

	switch {
	case es > en:
		lang = Spanish
	case en > es:
		lang = English
	}
	return script, lang
}

// Resolve maps a requested locale to a concrete one. "auto" (or empty) uses Detect
// and falls back to def
func Resolve(requested, text, def string) string {
	if requested != "" && requested != "auto" {
		return requested
	}
	if _, lang := Detect(text); lang != "" {
		return lang
	}
	return def
}
