// Package sentiment scores ticket text with a bounded weighted-keyword model.
// The weights of every lexicon entry present are summed, squashed with tanh and
// rounded to two decimals
package sentiment

import (
	"math"

	"vortex/internal/core/lexicon"
	"vortex/internal/core/normalize"
	"vortex/internal/core/rulepack"
)

// Match is a lexicon entry that contributed to a score
type Match struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Scorer is immutable and safe for concurrent use
type Scorer struct {
	terms   []rulepack.Term
	matcher *lexicon.Matcher
}

// New builds a scorer over the pack's lexicon
func New(p *rulepack.Pack) *Scorer {
	entries := make([][]string, len(p.Lexicon))
	for i, t := range p.Lexicon {
		entries[i] = t.Forms
	}
	return &Scorer{terms: p.Lexicon, matcher: lexicon.New(entries)}
}

// Score returns a value in [-1, 1]; text without lexicon terms scores exactly 0
func (s *Scorer) Score(text string) float64 {
	score, _ := s.Explain(text)
	return score
}

// Explain returns the score and the entries that produced it, in text order
func (s *Scorer) Explain(text string) (float64, []Match) {
	present := s.matcher.Present(normalize.Fold(text))
	if len(present) == 0 {
		return 0, nil
	}
	sum := 0.0
	matches := make([]Match, 0, len(present))
	for _, id := range present {
		t := s.terms[id]
		sum += t.Weight
		matches = append(matches, Match{Term: t.Term, Weight: t.Weight})
	}
	return Squash(sum), matches
}

// Squash maps any raw sum onto [-1, 1]: odd, monotonic, zero at zero.
// The result is rounded to two decimals
func Squash(sum float64) float64 {
	if math.IsNaN(sum) {
		return 0
	}
	v := math.Round(math.Tanh(sum)*100) / 100
	// Round(-0.004) yields -0; keep the zero sign stable
	if v == 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}
