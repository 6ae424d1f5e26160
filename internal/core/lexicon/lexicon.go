// Package lexicon matches whole-word cue lists against folded text.
// An entry is a group of equivalent forms (a term and its variants); the matcher
// reports which entries occur, never how often
package lexicon

import (
	"sort"
)

// Hit is a single accepted occurrence of an entry's form
type Hit struct {
	Entry      int
	Form       string
	Start, End int
}

// Matcher is immutable after New and safe for concurrent use
type Matcher struct {
	ac      *acAutomaton
	forms   []string
	entryOf []int
	entries int
}

// New builds a matcher. entries[i] lists the folded forms of entry i; empty forms
// are ignored
func New(entries [][]string) *Matcher {
	m := &Matcher{ac: newAutomaton(), entries: len(entries)}
	for e, forms := range entries {
		for _, f := range forms {
			if f == "" {
				continue
			}
			m.ac.add(f, len(m.forms))
			m.forms = append(m.forms, f)
			m.entryOf = append(m.entryOf, e)
		}
	}
	m.ac.build()
	return m
}

// Flat builds a matcher where every form is its own entry
func Flat(forms []string) *Matcher {
	entries := make([][]string, len(forms))
	for i, f := range forms {
		entries[i] = []string{f}
	}
	return New(entries)
}

// Len returns the number of entries
func (m *Matcher) Len() int { return m.entries }

// Any reports whether any form occurs on word boundaries. It stops at the first hit
func (m *Matcher) Any(text string) bool {
	if text == "" || len(m.forms) == 0 {
		return false
	}
	found := false
	m.ac.scan(text, func(end, id int) bool {
		start := end - len(m.forms[id])
		if bounded(text, start, end) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Scan returns non-overlapping hits, preferring the leftmost then the longest form,
// so "no funciona" consumes the "funciona" inside it
func (m *Matcher) Scan(text string) []Hit {
	if text == "" || len(m.forms) == 0 {
		return nil
	}
	var cands []Hit
	m.ac.scan(text, func(end, id int) bool {
		start := end - len(m.forms[id])
		if bounded(text, start, end) {
			cands = append(cands, Hit{Entry: m.entryOf[id], Form: m.forms[id], Start: start, End: end})
		}
		return true
	})
	if len(cands) == 0 {
		return nil
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Start != cands[j].Start {
			return cands[i].Start < cands[j].Start
		}
		return cands[i].End > cands[j].End
	})
	out := cands[:0]
	lastEnd := -1
	for _, h := range cands {
		if h.Start < lastEnd {
			continue
		}
		out = append(out, h)
		lastEnd = h.End
	}
	return out
}

// Present returns the distinct entries found by Scan in first-seen order
func (m *Matcher) Present(text string) []int {
	hits := m.Scan(text)
	if len(hits) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(hits))
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		if _, ok := seen[h.Entry]; ok {
			continue
		}
		seen[h.Entry] = struct{}{}
		out = append(out, h.Entry)
	}
	return out
}
