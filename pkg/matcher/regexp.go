package matcher

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/fastmatch/fastmatch/pkg/types"
)

// regexTimeout bounds a single pattern's scan to prevent catastrophic
// backtracking from stalling the whole matcher.
const regexTimeout = 5 * time.Second

// RegexEngine compiles a list of regex patterns and enumerates all
// non-overlapping occurrences of each compiled pattern in a byte slice.
// Patterns that fail to compile are dropped and recorded; they never abort
// the build. Offsets in results are byte offsets relative to the scanned
// slice; the Matcher translates them to absolute stream offsets.
type RegexEngine struct {
	patterns []string
	compiled []*regexp2.Regexp // nil where the pattern was dropped
	skipped  []*PatternError
}

// NewRegexEngine compiles the given patterns. Each pattern is tried with
// RE2-compatible syntax first; patterns that do not compile there fall
// back to default mode. Both modes run on the same backtracking engine,
// bounded by regexTimeout. Invalid patterns are recorded in Skipped.
func NewRegexEngine(patterns []string) *RegexEngine {
	e := &RegexEngine{
		patterns: append([]string(nil), patterns...),
		compiled: make([]*regexp2.Regexp, len(patterns)),
	}

	for i, pattern := range patterns {
		re, err := regexp2.Compile(pattern, regexp2.RE2|regexp2.Multiline)
		if err != nil {
			re, err = regexp2.Compile(pattern, regexp2.None)
			if err != nil {
				e.skipped = append(e.skipped, &PatternError{PatternID: i, Pattern: pattern, Err: err})
				continue
			}
		}
		re.MatchTimeout = regexTimeout
		e.compiled[i] = re
	}

	return e
}

// Scan finds all non-overlapping occurrences of every compiled pattern in
// content. Offsets are byte offsets relative to content.
func (e *RegexEngine) Scan(content []byte) []types.Match {
	return e.ScanSubset(content, nil)
}

// ScanSubset behaves like Scan but only runs the patterns whose ids appear
// in ids. A nil ids runs every compiled pattern.
func (e *RegexEngine) ScanSubset(content []byte, ids []int) []types.Match {
	if len(content) == 0 {
		return nil
	}

	runes, byteOff := decodeRunes(content)

	var out []types.Match
	scanOne := func(id int) {
		re := e.compiled[id]
		if re == nil {
			return
		}

		m, err := re.FindRunesMatch(runes)
		if err != nil {
			warnRegex(id, err)
			return
		}
		for m != nil {
			start := byteOff[m.Index]
			end := byteOff[m.Index+m.Length]
			out = append(out, types.Match{
				Kind:      types.KindRegex,
				PatternID: id,
				Pattern:   e.patterns[id],
				Start:     int64(start),
				End:       int64(end),
				Matched:   append([]byte(nil), content[start:end]...),
			})
			m, err = re.FindNextMatch(m)
			if err != nil {
				warnRegex(id, err)
				break
			}
		}
	}

	if ids == nil {
		for id := range e.compiled {
			scanOne(id)
		}
	} else {
		for _, id := range ids {
			if id >= 0 && id < len(e.compiled) {
				scanOne(id)
			}
		}
	}
	return out
}

// Skipped returns the patterns dropped at compile time, in pattern order.
func (e *RegexEngine) Skipped() []*PatternError { return e.skipped }

// PatternCount returns the number of patterns the engine was built from,
// including dropped ones.
func (e *RegexEngine) PatternCount() int { return len(e.patterns) }

// CompiledCount returns the number of patterns that compiled.
func (e *RegexEngine) CompiledCount() int { return len(e.patterns) - len(e.skipped) }

// decodeRunes decodes content into runes plus a rune-index → byte-offset
// table, so engine results (rune offsets) map back to byte offsets.
// Invalid UTF-8 decodes byte-by-byte to RuneError, keeping the table
// aligned with the source.
func decodeRunes(content []byte) ([]rune, []int) {
	runes := make([]rune, 0, len(content))
	byteOff := make([]int, 0, len(content)+1)
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		runes = append(runes, r)
		byteOff = append(byteOff, i)
		i += size
	}
	byteOff = append(byteOff, len(content))
	return runes, byteOff
}

// warnRegex reports a non-fatal per-pattern scan failure. Timeouts and
// engine errors skip the pattern for this buffer only.
func warnRegex(id int, err error) {
	if strings.Contains(err.Error(), "match timeout") {
		fmt.Fprintf(os.Stderr, "[warn] regex pattern %d timeout (skipping pattern for this buffer)\n", id)
		return
	}
	fmt.Fprintf(os.Stderr, "[warn] regex pattern %d error (skipping pattern for this buffer): %v\n", id, err)
}
