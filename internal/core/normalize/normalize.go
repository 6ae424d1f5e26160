// Package normalize provides the deterministic text projections used by the engine.
//
// Clean is applied once at the engine boundary and keeps the writer's casing
// 1 drop invalid UTF-8 and control characters
// 2 collapse whitespace runs to a single space and trim
//
// Fold is the matching projection used by the gate, lexicon and cue lists
// 1 Clean
// 2 Unicode NFKD decomposition (ligatures, accents split from their base)
// 3 Case folding
// 4 Remove combining marks and format chars (accents, ZWJ, FEFF)
// 5 Width fold fullwidth to ASCII
// 6 NFC recomposition
//
// Digits and punctuation survive both projections; phone numbers and link
// shorteners must stay recognisable after folding
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Mn)), // strip accents split off by NFKD
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
			norm.NFC,
		)
	},
}

// Clean sanitizes s and collapses whitespace without changing case
func Clean(s string) string {
	if s == "" {
		return ""
	}
	return collapseSpaces(Sanitize(s))
}

// Fold returns the case- and accent-insensitive projection of s
func Fold(s string) string {
	s = Clean(s)
	if s == "" {
		return ""
	}

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// the chain only fails on malformed input, which Sanitize already removed
		ns = strings.ToLower(s)
	}

	// NFKD can expand some compatibility forms into spaces (e.g. U+00A8)
	return collapseSpaces(ns)
}

// collapseSpaces converts every whitespace run (line breaks included) to a single
// ASCII space and trims the edges
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
