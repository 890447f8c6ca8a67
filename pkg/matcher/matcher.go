// Package matcher coordinates the Aho-Corasick automaton and the regex
// engine over one byte region, normalising both result streams into a
// single ordered record sequence with absolute stream offsets.
//
// A Matcher runs in one of two modes fixed at build time: batch (Match
// scans a complete buffer) or streaming (Feed accepts arbitrary-sized
// chunks and emits matches incrementally, including matches that span
// chunk boundaries).
package matcher

import (
	"sort"
	"sync/atomic"

	"github.com/fastmatch/fastmatch/pkg/automaton"
	"github.com/fastmatch/fastmatch/pkg/ringbuffer"
	"github.com/fastmatch/fastmatch/pkg/types"
)

// DefaultMaxRegexLength is the assumed worst-case byte length of a regex
// match for boundary retention. A regex occurrence longer than this may be
// missed when it spans a chunk boundary; literal retention is always
// exact. Raise it via Config.MaxRegexLength for longer expected matches.
const DefaultMaxRegexLength = 256

// Config for matcher initialization.
type Config struct {
	// Literals are the byte patterns for the Aho-Corasick automaton.
	// Pattern ids are indices into this list.
	Literals [][]byte

	// Regexes are the regex pattern sources. Pattern ids are indices into
	// this list. Invalid patterns are dropped, not fatal (see Skipped).
	Regexes []string

	// Streaming selects Feed-based chunked scanning instead of Match.
	Streaming bool

	// BufferCapacity overrides the streaming ring buffer capacity. The
	// effective capacity is never below 2× the longest retained pattern.
	BufferCapacity int

	// MaxRegexLength overrides DefaultMaxRegexLength. Ignored when no
	// regex patterns are configured.
	MaxRegexLength int

	// ContextLines attaches N lines of context around each batch match.
	ContextLines int
}

// Matcher drives both engines over the same byte region. The zero value
// is unbuilt; use New, or Build on the zero value. A Matcher is not safe
// for concurrent mutation; concurrent Match calls on a built batch
// matcher are safe once no Build or Reset is in flight.
type Matcher struct {
	ac *automaton.Automaton // nil when no literal patterns
	re *RegexEngine         // nil when no regex patterns

	streaming    bool
	built        bool
	contextLines int
	regexBound   int // assumed worst-case regex span; 0 = default

	maxPatternLen int // retention requirement: longest literal or assumed regex span
	bufCapacity   int

	buf     *ringbuffer.RingBuffer
	pending []byte // overflow not yet accepted by the ring buffer
	dedup   *Deduplicator

	streamOffset int64 // absolute offset of the buffer's first unread byte
	fedTotal     int64 // bytes ever fed, buffered or not
	totalMatches int64
}

// New creates a Matcher and builds both engines eagerly.
func New(cfg Config) (*Matcher, error) {
	m := &Matcher{
		streaming:    cfg.Streaming,
		contextLines: cfg.ContextLines,
		regexBound:   cfg.MaxRegexLength,
		bufCapacity:  cfg.BufferCapacity,
	}
	if err := m.Build(cfg.Literals, cfg.Regexes); err != nil {
		return nil, err
	}
	return m, nil
}

// Build compiles both engines from the given pattern lists, replacing any
// previous engines atomically: on error the matcher keeps its prior state.
// A rebuild discards all prior automaton state; in streaming mode the
// buffered bytes and stream offsets are preserved, but refeed
// deduplication restarts because pattern ids are reassigned.
func (m *Matcher) Build(literals [][]byte, regexes []string) error {
	var ac *automaton.Automaton
	if len(literals) > 0 {
		var err error
		ac, err = automaton.New(literals)
		if err != nil {
			return err
		}
	}
	var re *RegexEngine
	if len(regexes) > 0 {
		re = NewRegexEngine(regexes)
	}

	m.ac = ac
	m.re = re
	m.built = true
	m.rebuildRetention(m.regexBound)

	if m.streaming {
		capacity := m.bufCapacity
		if capacity <= 0 {
			capacity = ringbuffer.DefaultCapacity
		}
		// Progress through the pending slot needs room beyond the tail.
		if need := 2 * m.maxPatternLen; capacity < need {
			capacity = need
		}
		if m.buf == nil || m.buf.Capacity() < capacity {
			old := []byte(nil)
			if m.buf != nil {
				old = m.buf.Read(0)
			}
			m.buf = ringbuffer.New(capacity)
			m.buf.Write(old)
		}
		if m.dedup == nil {
			m.dedup = NewDeduplicator()
		} else {
			m.dedup.Reset()
		}
	}
	return nil
}

// rebuildRetention recomputes maxPatternLen from the current engines.
// regexBound of 0 means DefaultMaxRegexLength.
func (m *Matcher) rebuildRetention(regexBound int) {
	maxLen := 0
	if m.ac != nil {
		maxLen = m.ac.MaxPatternLen()
	}
	if m.re != nil && m.re.CompiledCount() > 0 {
		if regexBound <= 0 {
			regexBound = DefaultMaxRegexLength
		}
		if regexBound > maxLen {
			maxLen = regexBound
		}
	}
	m.maxPatternLen = maxLen
}

// Match scans one complete buffer and returns all records sorted by
// (start, end, kind, pattern id), literal before regex at ties. No
// scanning state persists between calls.
func (m *Matcher) Match(content []byte) ([]types.Match, error) {
	return m.MatchSubset(content, nil)
}

// MatchSubset behaves like Match but restricts the regex engine to the
// given pattern ids (nil means all). The automaton always runs; literal
// scanning is cheap enough that prefiltering buys nothing.
func (m *Matcher) MatchSubset(content []byte, regexIDs []int) ([]types.Match, error) {
	if !m.built {
		return nil, ErrNotBuilt
	}
	if m.streaming {
		return nil, ErrStreamingMode
	}

	out := m.collect(content, 0, regexIDs)
	if m.contextLines > 0 {
		for i := range out {
			before, after := ExtractContext(content, int(out[i].Start), int(out[i].End), m.contextLines)
			out[i].Snippet = types.Snippet{Before: before, After: after}
		}
	}
	atomic.AddInt64(&m.totalMatches, int64(len(out)))
	return out, nil
}

// collect runs both engines over content, translates offsets by base, and
// returns the records in canonical order.
func (m *Matcher) collect(content []byte, base int64, regexIDs []int) []types.Match {
	var out []types.Match
	if m.ac != nil {
		for _, am := range m.ac.Search(content) {
			out = append(out, types.Match{
				Kind:      types.KindLiteral,
				PatternID: am.PatternID,
				Pattern:   string(m.ac.Pattern(am.PatternID)),
				Start:     base + int64(am.Start),
				End:       base + int64(am.End),
			})
		}
	}
	if m.re != nil {
		for _, rm := range m.re.ScanSubset(content, regexIDs) {
			rm.Start += base
			rm.End += base
			out = append(out, rm)
		}
	}
	sortMatches(out)
	return out
}

// Reset zeroes the match counter and stream offsets and clears the
// streaming buffer. Compiled engines are preserved.
func (m *Matcher) Reset() {
	m.totalMatches = 0
	m.streamOffset = 0
	m.fedTotal = 0
	m.pending = nil
	if m.buf != nil {
		m.buf.Clear()
	}
	if m.dedup != nil {
		m.dedup.Reset()
	}
}

// TotalMatches returns the number of records emitted since creation or
// the last Reset.
func (m *Matcher) TotalMatches() int64 { return atomic.LoadInt64(&m.totalMatches) }

// IsStreaming reports whether the matcher was built for streaming.
func (m *Matcher) IsStreaming() bool { return m.streaming }

// Offset returns the count of bytes ever fed in streaming mode.
func (m *Matcher) Offset() int64 { return m.fedTotal }

// MaxPatternLen returns the boundary-retention requirement in bytes.
func (m *Matcher) MaxPatternLen() int { return m.maxPatternLen }

// Skipped returns the regex patterns dropped at compile time.
func (m *Matcher) Skipped() []*PatternError {
	if m.re == nil {
		return nil
	}
	return m.re.Skipped()
}

// Close releases matcher resources. The pure-Go engines hold nothing
// beyond garbage-collected memory, so Close only exists to keep the
// resource discipline uniform for callers.
func (m *Matcher) Close() error { return nil }

func sortMatches(ms []types.Match) {
	sort.Slice(ms, func(i, j int) bool { return ms[i].Less(&ms[j]) })
}
