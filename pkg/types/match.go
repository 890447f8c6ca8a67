package types

// Kind distinguishes the engine that produced a match.
type Kind string

const (
	// KindLiteral marks a match produced by the Aho-Corasick automaton.
	KindLiteral Kind = "literal"

	// KindRegex marks a match produced by the regex engine.
	KindRegex Kind = "regex"
)

// Order returns the tie-break rank of the kind: literal records sort
// before regex records at equal (start, end).
func (k Kind) Order() int {
	if k == KindLiteral {
		return 0
	}
	return 1
}

// Match is a single detection result.
//
// Start and End are absolute byte offsets measured from the first byte of
// the logical input stream, never relative to a chunk. End == Start + length.
type Match struct {
	Kind      Kind   `json:"kind"`
	PatternID int    `json:"pattern_id"`
	Pattern   string `json:"pattern"` // the source pattern as provided
	Start     int64  `json:"start"`
	End       int64  `json:"end"`

	// Matched holds the actual matched bytes. Populated only for regex
	// matches; literal matches reconstruct trivially from Pattern.
	Matched []byte `json:"matched,omitempty"`

	// Snippet carries optional surrounding context (see ExtractContext).
	Snippet Snippet `json:"snippet,omitempty"`
}

// Snippet contains optional context lines around a match.
type Snippet struct {
	Before []byte `json:"before,omitempty"`
	After  []byte `json:"after,omitempty"`
}

// Less reports whether m sorts before other under the canonical record
// order (start, end, kind order, pattern id).
func (m *Match) Less(other *Match) bool {
	if m.Start != other.Start {
		return m.Start < other.Start
	}
	if m.End != other.End {
		return m.End < other.End
	}
	if m.Kind != other.Kind {
		return m.Kind.Order() < other.Kind.Order()
	}
	return m.PatternID < other.PatternID
}
