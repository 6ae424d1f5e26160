// Package rulepack loads and compiles the engine's lookup tables from the embedded
// rules.json or an operator-supplied rules file (.json, .jsonc, .yaml, .yml).
// It prepares phishing regexes, cue lists, anonymization rules and the sentiment lexicon
package rulepack

import (
	_ "embed"
	"math"
	"regexp"
	"strconv"
	"strings"

	"vortex/internal/core/normalize"
	perr "vortex/internal/platform/errors"
)

//go:embed rules.json
var embedded []byte

// SupportedVersion is the only rules file version understood by Compile
const SupportedVersion = 1

// DefaultEvolutionaryMinSentiment applies when the maintenance block omits the threshold
const DefaultEvolutionaryMinSentiment = 0.4

type rawSignature struct {
	ID      string `json:"id" yaml:"id"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

type rawPhishing struct {
	Signatures []rawSignature `json:"signatures,omitempty" yaml:"signatures,omitempty"`
	Urgency    []string       `json:"urgency,omitempty" yaml:"urgency,omitempty"`
	Credential []string       `json:"credential,omitempty" yaml:"credential,omitempty"`
}

type rawAnonRule struct {
	Category    string   `json:"category" yaml:"category"`
	Placeholder string   `json:"placeholder" yaml:"placeholder"`
	Patterns    []string `json:"patterns" yaml:"patterns"`
}

type rawTerm struct {
	Term     string   `json:"term" yaml:"term"`
	Variants []string `json:"variants,omitempty" yaml:"variants,omitempty"`
	Weight   float64  `json:"weight" yaml:"weight"`
}

type rawMaintenance struct {
	Evolutionary             []string `json:"evolutionary,omitempty" yaml:"evolutionary,omitempty"`
	Corrective               []string `json:"corrective,omitempty" yaml:"corrective,omitempty"`
	EvolutionaryMinSentiment *float64 `json:"evolutionary_min_sentiment,omitempty" yaml:"evolutionary_min_sentiment,omitempty"`
}

// ChurnBlock carries optional overrides for the churn constants. Nil fields keep the
// caller's defaults
type ChurnBlock struct {
	BaseEvolutionary *float64 `json:"base_evolutionary,omitempty" yaml:"base_evolutionary,omitempty"`
	BaseOther        *float64 `json:"base_other,omitempty" yaml:"base_other,omitempty"`
	SentimentCoef    *float64 `json:"sentiment_coef,omitempty" yaml:"sentiment_coef,omitempty"`
	AnniversaryBonus *float64 `json:"anniversary_bonus,omitempty" yaml:"anniversary_bonus,omitempty"`
	VolumeBonus      *float64 `json:"volume_bonus,omitempty" yaml:"volume_bonus,omitempty"`
	VolumeThreshold  *int     `json:"volume_threshold,omitempty" yaml:"volume_threshold,omitempty"`
}

type rawPack struct {
	Version     int             `json:"version" yaml:"version"`
	Meta        map[string]any  `json:"meta,omitempty" yaml:"meta,omitempty"`
	Phishing    *rawPhishing    `json:"phishing,omitempty" yaml:"phishing,omitempty"`
	Anonymize   []rawAnonRule   `json:"anonymize,omitempty" yaml:"anonymize,omitempty"`
	Lexicon     []rawTerm       `json:"lexicon,omitempty" yaml:"lexicon,omitempty"`
	Maintenance *rawMaintenance `json:"maintenance,omitempty" yaml:"maintenance,omitempty"`
	Churn       *ChurnBlock     `json:"churn,omitempty" yaml:"churn,omitempty"`
}

// Signature is a compiled direct phishing indicator. Patterns run against folded text
type Signature struct {
	ID      string
	Pattern string
	Re      *regexp.Regexp
}

// AnonRule masks every match of any of its patterns with Placeholder
type AnonRule struct {
	Category    string
	Placeholder string
	Patterns    []*regexp.Regexp
}

// Term is a sentiment lexicon entry; Forms holds the folded term followed by its
// folded variants
type Term struct {
	Term   string
	Forms  []string
	Weight float64
}

// Pack represents the compiled, read-only tables shared by every engine stage
type Pack struct {
	Version int
	Meta    map[string]any

	// Security gate
	Signatures []Signature
	Urgency    []string // folded
	Credential []string // folded

	// Anonymizer, order preserved
	Anonymize []AnonRule

	// Sentiment lexicon, order preserved
	Lexicon []Term

	// Maintenance cues
	Evolutionary             []string // folded
	Corrective               []string // folded
	EvolutionaryMinSentiment float64

	// Optional churn overrides
	Churn ChurnBlock

	raw rawPack
}

// Load returns the compiled pack from the embedded rules.json
func Load() (*Pack, error) {
	rp, err := decode(embedded, FormatJSON)
	if err != nil {
		return nil, err
	}
	return compile(rp)
}

// MustLoad is Load for package-level defaults and tests; it panics on error
func MustLoad() *Pack {
	p, err := Load()
	if err != nil {
		panic(err)
	}
	return p
}

// Overlay returns a new pack where every section present in data replaces the
// corresponding section of p wholesale. Absent sections are inherited
func (p *Pack) Overlay(data []byte, f Format) (*Pack, error) {
	over, err := decode(data, f)
	if err != nil {
		return nil, err
	}
	merged := p.raw
	if over.Version != 0 {
		merged.Version = over.Version
	}
	if over.Meta != nil {
		merged.Meta = over.Meta
	}
	if over.Phishing != nil {
		ph := *merged.Phishing
		if over.Phishing.Signatures != nil {
			ph.Signatures = over.Phishing.Signatures
		}
		if over.Phishing.Urgency != nil {
			ph.Urgency = over.Phishing.Urgency
		}
		if over.Phishing.Credential != nil {
			ph.Credential = over.Phishing.Credential
		}
		merged.Phishing = &ph
	}
	if over.Anonymize != nil {
		merged.Anonymize = over.Anonymize
	}
	if over.Lexicon != nil {
		merged.Lexicon = over.Lexicon
	}
	if over.Maintenance != nil {
		m := *merged.Maintenance
		if over.Maintenance.Evolutionary != nil {
			m.Evolutionary = over.Maintenance.Evolutionary
		}
		if over.Maintenance.Corrective != nil {
			m.Corrective = over.Maintenance.Corrective
		}
		if over.Maintenance.EvolutionaryMinSentiment != nil {
			m.EvolutionaryMinSentiment = over.Maintenance.EvolutionaryMinSentiment
		}
		merged.Maintenance = &m
	}
	if over.Churn != nil {
		merged.Churn = mergeChurn(merged.Churn, over.Churn)
	}
	return compile(merged)
}

func mergeChurn(base, over *ChurnBlock) *ChurnBlock {
	out := ChurnBlock{}
	if base != nil {
		out = *base
	}
	if over.BaseEvolutionary != nil {
		out.BaseEvolutionary = over.BaseEvolutionary
	}
	if over.BaseOther != nil {
		out.BaseOther = over.BaseOther
	}
	if over.SentimentCoef != nil {
		out.SentimentCoef = over.SentimentCoef
	}
	if over.AnniversaryBonus != nil {
		out.AnniversaryBonus = over.AnniversaryBonus
	}
	if over.VolumeBonus != nil {
		out.VolumeBonus = over.VolumeBonus
	}
	if over.VolumeThreshold != nil {
		out.VolumeThreshold = over.VolumeThreshold
	}
	return &out
}

// compile validates a decoded pack and builds the runtime tables
func compile(rp rawPack) (*Pack, error) {
	if rp.Version != SupportedVersion {
		return nil, perr.RulePackf("rulepack: unsupported rules version %d (want %d)", rp.Version, SupportedVersion)
	}
	if rp.Phishing == nil || len(rp.Phishing.Signatures) == 0 {
		return nil, perr.WithField(perr.RulePackf("rulepack: no phishing signatures"), "phishing.signatures")
	}
	if rp.Maintenance == nil {
		return nil, perr.WithField(perr.RulePackf("rulepack: missing maintenance block"), "maintenance")
	}

	p := &Pack{
		Version:                  rp.Version,
		Meta:                     rp.Meta,
		EvolutionaryMinSentiment: DefaultEvolutionaryMinSentiment,
		raw:                      rp,
	}
	if rp.Churn != nil {
		p.Churn = *rp.Churn
	}
	if v := rp.Maintenance.EvolutionaryMinSentiment; v != nil {
		if *v < -1 || *v > 1 {
			return nil, perr.WithField(perr.RulePackf("rulepack: evolutionary_min_sentiment %v outside [-1,1]", *v), "maintenance.evolutionary_min_sentiment")
		}
		p.EvolutionaryMinSentiment = *v
	}

	for i, s := range rp.Phishing.Signatures {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeRulePack, "rulepack: compile signature %q", s.ID), "phishing.signatures")
		}
		id := strings.TrimSpace(s.ID)
		if id == "" {
			id = "signature_" + strconv.Itoa(i)
		}
		p.Signatures = append(p.Signatures, Signature{ID: id, Pattern: s.Pattern, Re: re})
	}

	var err error
	if p.Urgency, err = foldList(rp.Phishing.Urgency, "phishing.urgency"); err != nil {
		return nil, err
	}
	if p.Credential, err = foldList(rp.Phishing.Credential, "phishing.credential"); err != nil {
		return nil, err
	}
	if p.Evolutionary, err = foldList(rp.Maintenance.Evolutionary, "maintenance.evolutionary"); err != nil {
		return nil, err
	}
	if p.Corrective, err = foldList(rp.Maintenance.Corrective, "maintenance.corrective"); err != nil {
		return nil, err
	}

	if p.Anonymize, err = compileAnon(rp.Anonymize); err != nil {
		return nil, err
	}
	if p.Lexicon, err = compileLexicon(rp.Lexicon); err != nil {
		return nil, err
	}
	return p, nil
}

func compileAnon(rules []rawAnonRule) ([]AnonRule, error) {
	if len(rules) == 0 {
		return nil, perr.WithField(perr.RulePackf("rulepack: no anonymization rules"), "anonymize")
	}
	out := make([]AnonRule, 0, len(rules))
	for _, r := range rules {
		if strings.TrimSpace(r.Placeholder) == "" {
			return nil, perr.WithField(perr.RulePackf("rulepack: rule %q has no placeholder", r.Category), "anonymize")
		}
		if len(r.Patterns) == 0 {
			return nil, perr.WithField(perr.RulePackf("rulepack: rule %q has no patterns", r.Category), "anonymize")
		}
		ar := AnonRule{Category: r.Category, Placeholder: r.Placeholder}
		for _, pat := range r.Patterns {
			re, err := regexp.Compile(pat)
			if err != nil {
				return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeRulePack, "rulepack: compile %s pattern", r.Category), "anonymize")
			}
			ar.Patterns = append(ar.Patterns, re)
		}
		out = append(out, ar)
	}

	// a placeholder that some rule can match would make masking non-idempotent
	for _, holder := range out {
		for _, r := range out {
			for _, re := range r.Patterns {
				if re.MatchString(holder.Placeholder) {
					return nil, perr.WithField(perr.RulePackf("rulepack: placeholder %q is matched by %s pattern %q",
						holder.Placeholder, r.Category, re.String()), "anonymize")
				}
			}
		}
	}
	return out, nil
}

func compileLexicon(terms []rawTerm) ([]Term, error) {
	if len(terms) == 0 {
		return nil, perr.WithField(perr.RulePackf("rulepack: empty sentiment lexicon"), "lexicon")
	}
	out := make([]Term, 0, len(terms))
	for _, t := range terms {
		if math.IsNaN(t.Weight) || math.IsInf(t.Weight, 0) {
			return nil, perr.WithField(perr.RulePackf("rulepack: term %q has non-finite weight", t.Term), "lexicon")
		}
		forms, err := foldList(append([]string{t.Term}, t.Variants...), "lexicon")
		if err != nil {
			return nil, err
		}
		out = append(out, Term{Term: forms[0], Forms: forms, Weight: t.Weight})
	}
	return out, nil
}

// foldList folds and dedupes a cue list, keeping first-seen order
func foldList(in []string, field string) ([]string, error) {
	if len(in) == 0 {
		return nil, perr.WithField(perr.RulePackf("rulepack: %s is empty", field), field)
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		f := normalize.Fold(s)
		if f == "" {
			return nil, perr.WithField(perr.RulePackf("rulepack: blank entry in %s", field), field)
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out, nil
}
