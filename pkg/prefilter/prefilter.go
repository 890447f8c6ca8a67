// Package prefilter gates regex rules on cheap literal keyword hits. A
// regex rule that declares keywords only runs when one of them occurs in
// the content; rules without keywords always run.
package prefilter

import (
	"github.com/cloudflare/ahocorasick"
	"github.com/fastmatch/fastmatch/pkg/types"
)

// Prefilter narrows the set of regex rules worth running against a
// buffer. Rules are referenced by their index in the build-time list, so
// callers that assign engine pattern ids positionally (the matcher does)
// can use filter results directly as id offsets.
type Prefilter struct {
	rules     []*types.Rule
	keywords  *ahocorasick.Matcher // nil when no rule declares keywords
	byKeyword [][]int              // keyword slot -> indices of rules needing it
	alwaysOn  []int                // indices of rules without keywords
}

// New creates a prefilter from rules. Pass only regex rules; literal
// patterns go straight to the automaton and never need gating.
func New(rules []*types.Rule) *Prefilter {
	pf := &Prefilter{rules: rules}

	// Inverted index: each distinct keyword gets a slot holding the rule
	// indices that declare it. A keyword shared by several rules is
	// matched once and fans out to all of them.
	slots := make(map[string]int)
	var words [][]byte
	for i, r := range rules {
		if len(r.Keywords) == 0 {
			pf.alwaysOn = append(pf.alwaysOn, i)
			continue
		}
		for _, kw := range r.Keywords {
			slot, ok := slots[kw]
			if !ok {
				slot = len(words)
				slots[kw] = slot
				words = append(words, []byte(kw))
				pf.byKeyword = append(pf.byKeyword, nil)
			}
			pf.byKeyword[slot] = append(pf.byKeyword[slot], i)
		}
	}

	if len(words) > 0 {
		pf.keywords = ahocorasick.NewMatcher(words)
	}
	return pf
}

// FilterIndices returns the indices (in build order) of the rules that
// might match content: rules with a keyword hit plus every rule that
// declares no keywords. The result is sorted by rule index, so repeated
// calls on the same content are deterministic.
func (pf *Prefilter) FilterIndices(content []byte) []int {
	marked := make([]bool, len(pf.rules))
	n := len(pf.alwaysOn)
	for _, i := range pf.alwaysOn {
		marked[i] = true
	}

	if pf.keywords != nil {
		for _, slot := range pf.keywords.Match(content) {
			for _, i := range pf.byKeyword[slot] {
				if !marked[i] {
					marked[i] = true
					n++
				}
			}
		}
	}

	out := make([]int, 0, n)
	for i, ok := range marked {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// Filter returns the candidate rules themselves, in build order.
func (pf *Prefilter) Filter(content []byte) []*types.Rule {
	indices := pf.FilterIndices(content)
	out := make([]*types.Rule, len(indices))
	for i, idx := range indices {
		out[i] = pf.rules[idx]
	}
	return out
}
