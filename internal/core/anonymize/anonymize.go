// Package anonymize masks personal and credential data in ticket text.
// Rules run in pack order and each replaces every match wholesale with its placeholder
package anonymize

import (
	"vortex/internal/core/rulepack"
)

// Result carries the masked text and how many replacements each category made
type Result struct {
	Text    string
	Applied bool
	Counts  map[string]int
}

// Anonymizer is immutable and safe for concurrent use
type Anonymizer struct {
	rules []rulepack.AnonRule
}

// New builds an anonymizer over the pack's ordered rules
func New(p *rulepack.Pack) *Anonymizer {
	return &Anonymizer{rules: p.Anonymize}
}

// Apply returns the masked text and whether anything was replaced
func (a *Anonymizer) Apply(text string) (string, bool) {
	r := a.Run(text)
	return r.Text, r.Applied
}

// Run masks text and reports per-category counts. Counts is nil when nothing matched
func (a *Anonymizer) Run(text string) Result {
	res := Result{Text: text}
	if text == "" {
		return res
	}
	for _, rule := range a.rules {
		for _, re := range rule.Patterns {
			n := 0
			res.Text = re.ReplaceAllStringFunc(res.Text, func(string) string {
				n++
				return rule.Placeholder
			})
			if n == 0 {
				continue
			}
			if res.Counts == nil {
				res.Counts = make(map[string]int, len(a.rules))
			}
			res.Counts[rule.Category] += n
			res.Applied = true
		}
	}
	return res
}
