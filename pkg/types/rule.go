package types

import (
	"crypto/sha1"
	"encoding/hex"
)

// Rule is a named pattern with metadata, as loaded from a rules file.
// Kind selects the engine: literal rules feed the Aho-Corasick automaton,
// regex rules feed the regex engine.
type Rule struct {
	ID          string   // e.g., "fm.date.iso"
	Name        string   // human-readable name
	Kind        Kind     // literal or regex
	Pattern     string   // the pattern source
	Description string   // optional
	Keywords    []string // literal keywords for prefiltering regex rules
}

// StructuralID computes a stable SHA-1 identifier of the rule's matching
// behavior (kind + pattern), independent of its display metadata.
func (r *Rule) StructuralID() string {
	h := sha1.New()
	h.Write([]byte(r.Kind))
	h.Write([]byte{0})
	h.Write([]byte(r.Pattern))
	return hex.EncodeToString(h.Sum(nil))
}
