// Package gate is the security gate that runs before any masking or scoring.
// A ticket is phishing when a direct signature matches, or when an urgency cue
// and a credential/renewal cue appear in the same text
package gate

import (
	"vortex/internal/core/lexicon"
	"vortex/internal/core/normalize"
	"vortex/internal/core/rulepack"
)

// Reason identifies which rule fired
type Reason string

const (
	// ReasonNone means the ticket is clean
	ReasonNone Reason = ""
	// ReasonSignature means a direct signature matched
	ReasonSignature Reason = "signature"
	// ReasonCoOccurrence means urgency and credential cues appeared together
	ReasonCoOccurrence Reason = "co_occurrence"
)

// Verdict describes the gate decision. SignatureID is set for ReasonSignature
type Verdict struct {
	Phishing    bool
	Reason      Reason
	SignatureID string
}

// Gate is immutable and safe for concurrent use
type Gate struct {
	pack       *rulepack.Pack
	urgency    *lexicon.Matcher
	credential *lexicon.Matcher
}

// New builds a gate over the pack's phishing tables
func New(p *rulepack.Pack) *Gate {
	return &Gate{
		pack:       p,
		urgency:    lexicon.Flat(p.Urgency),
		credential: lexicon.Flat(p.Credential),
	}
}

// IsPhishing reports whether text looks like a phishing attempt
func (g *Gate) IsPhishing(text string) bool {
	return g.Check(text).Phishing
}

// Check evaluates signatures in order, then the co-occurrence rule, returning on the
// first rule that fires
func (g *Gate) Check(text string) Verdict {
	folded := normalize.Fold(text)
	if folded == "" {
		return Verdict{}
	}
	for _, s := range g.pack.Signatures {
		if s.Re.MatchString(folded) {
			return Verdict{Phishing: true, Reason: ReasonSignature, SignatureID: s.ID}
		}
	}
	if g.urgency.Any(folded) && g.credential.Any(folded) {
		return Verdict{Phishing: true, Reason: ReasonCoOccurrence}
	}
	return Verdict{}
}
