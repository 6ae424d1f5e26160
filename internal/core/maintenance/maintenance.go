// Package maintenance labels tickets Corrective, Evolutionary or Other from lexical cues
package maintenance

import (
	"vortex/internal/core/lexicon"
	"vortex/internal/core/normalize"
	"vortex/internal/core/rulepack"
)

// Type is the maintenance classification
type Type string

const (
	// Corrective tickets report errors, bugs or outages
	Corrective Type = "Corrective"
	// Evolutionary tickets ask for features or improvements in a positive tone
	Evolutionary Type = "Evolutionary"
	// Other is everything else
	Other Type = "Other"
)

// IsEvolutionary reports whether t is Evolutionary. Churn weighting treats every
// other label as corrective
func (t Type) IsEvolutionary() bool { return t == Evolutionary }

// Classifier is immutable and safe for concurrent use
type Classifier struct {
	evolutionary *lexicon.Matcher
	corrective   *lexicon.Matcher
	minSentiment float64
}

// New builds a classifier over the pack's cue lists and threshold
func New(p *rulepack.Pack) *Classifier {
	return &Classifier{
		evolutionary: lexicon.Flat(p.Evolutionary),
		corrective:   lexicon.Flat(p.Corrective),
		minSentiment: p.EvolutionaryMinSentiment,
	}
}

// Classify picks Evolutionary when an evolutionary cue is present and sentiment is
// strictly above the threshold, else Corrective on a corrective cue, else Other
func (c *Classifier) Classify(text string, sentiment float64) Type {
	folded := normalize.Fold(text)
	if folded == "" {
		return Other
	}
	if sentiment > c.minSentiment && c.evolutionary.Any(folded) {
		return Evolutionary
	}
	if c.corrective.Any(folded) {
		return Corrective
	}
	return Other
}
