package insight

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
)

// Outcome is the selected insight and recommendation, with their rule ids
type Outcome struct {
	InsightID        string `json:"insight_id"`
	Insight          string `json:"insight"`
	RecommendationID string `json:"recommendation_id"`
	Recommendation   string `json:"recommendation"`
	Locale           string `json:"locale"`
}

// Selector renders chain results. Immutable after New and safe for concurrent use
type Selector struct {
	uni *ut.UniversalTranslator
}

// New builds a selector with the en and es catalogues
func New() (*Selector, error) {
	uni, err := newTranslator()
	if err != nil {
		return nil, err
	}
	return &Selector{uni: uni}, nil
}

// MustNew is New for package-level defaults and tests; it panics on error
func MustNew() *Selector {
	s, err := New()
	if err != nil {
		panic(err)
	}
	return s
}

// Supports reports whether locale has a catalogue
func (sel *Selector) Supports(locale string) bool {
	_, ok := catalog[strings.ToLower(locale)]
	return ok
}

// Select runs both chains and renders them in locale, falling back to DefaultLocale
func (sel *Selector) Select(s Signals, locale string) Outcome {
	locale = strings.ToLower(locale)
	if !sel.Supports(locale) {
		locale = DefaultLocale
	}
	trans, _ := sel.uni.GetTranslator(locale)

	insightID := InsightID(s)
	recID := RecommendationID(s)
	return Outcome{
		InsightID:        insightID,
		Insight:          render(trans, insightID, s),
		RecommendationID: recID,
		Recommendation:   render(trans, recID, s),
		Locale:           locale,
	}
}

func render(trans ut.Translator, id string, s Signals) string {
	msg, err := trans.T(id, param(id, s, trans)...)
	if err != nil {
		return id
	}
	return msg
}
