// Package fastmatch provides a high-throughput multi-pattern text scanner.
//
// Fastmatch reports every occurrence of a set of literal byte patterns
// (matched with an Aho-Corasick automaton) and regex patterns inside a
// byte stream, in one pass, with absolute byte offsets. It scans in batch
// mode over complete buffers or in streaming mode over arbitrary-sized
// chunks, finding matches that span chunk boundaries.
//
// # Basic Usage
//
// Create a scanner and scan content:
//
//	scanner, err := fastmatch.NewScanner(
//	    fastmatch.WithPatterns("error", "panic"),
//	    fastmatch.WithRegex(`\d{4}-\d{2}-\d{2}`),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer scanner.Close()
//
//	matches, err := scanner.ScanString("error on 2024-01-15")
//	for _, m := range matches {
//	    fmt.Printf("%s %q at [%d,%d)\n", m.Kind, m.Pattern, m.Start, m.End)
//	}
//
// # Streaming
//
// Feed chunks as they arrive; offsets stay absolute across chunks:
//
//	scanner, _ := fastmatch.NewScanner(
//	    fastmatch.WithPatterns("banana"),
//	    fastmatch.WithStreaming(),
//	)
//	scanner.Feed([]byte("bana"))
//	matches, _ := scanner.Feed([]byte("nana")) // banana at [0,6)
//	scanner.Flush()
package fastmatch

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fastmatch/fastmatch/pkg/matcher"
	"github.com/fastmatch/fastmatch/pkg/prefilter"
	"github.com/fastmatch/fastmatch/pkg/rule"
	"github.com/fastmatch/fastmatch/pkg/store"
	"github.com/fastmatch/fastmatch/pkg/types"
)

// Re-export commonly used types so callers can import just
// "github.com/fastmatch/fastmatch" without subpackages.
type (
	// Match represents a single detection result.
	Match = types.Match

	// Rule is a named pattern loaded from a rules file.
	Rule = types.Rule

	// Kind distinguishes literal and regex matches.
	Kind = types.Kind
)

// Re-export the match kinds.
const (
	KindLiteral = types.KindLiteral
	KindRegex   = types.KindRegex
)

// Re-export the mode errors.
var (
	ErrStreamingMode = matcher.ErrStreamingMode
	ErrBatchMode     = matcher.ErrBatchMode
)

// streamSource is the store tag for records emitted by Feed.
const streamSource = "stream"

// readerChunkSize is the chunk size ScanReader feeds from an io.Reader.
const readerChunkSize = 64 * 1024

// DebugLogger receives diagnostic output from the scanner.
type DebugLogger interface {
	Log(format string, args ...interface{})
}

// NoopLogger is a no-op logger.
type NoopLogger struct{}

func (NoopLogger) Log(format string, args ...interface{}) {}

// Scanner wraps the core matcher with rule handling, keyword
// prefiltering, and optional result persistence.
type Scanner struct {
	matcher       *matcher.Matcher
	pf            *prefilter.Prefilter // nil when no rules carry regex patterns
	regexRuleBase int                  // engine pattern id of the first regex rule
	store         store.Store
	logger        DebugLogger
	config        *scannerConfig
	mu            sync.RWMutex
}

// scannerConfig holds scanner configuration.
type scannerConfig struct {
	literals       [][]byte
	regexes        []string
	rules          []*types.Rule
	streaming      bool
	bufferCapacity int
	maxRegexLength int
	contextLines   int
	store          store.Store
	logger         DebugLogger
}

// Option configures a Scanner.
type Option func(*scannerConfig)

// WithPatterns adds literal patterns. Pattern ids are assigned in order.
func WithPatterns(patterns ...string) Option {
	return func(c *scannerConfig) {
		for _, p := range patterns {
			c.literals = append(c.literals, []byte(p))
		}
	}
}

// WithBytePatterns adds literal patterns given as raw bytes.
func WithBytePatterns(patterns ...[]byte) Option {
	return func(c *scannerConfig) {
		c.literals = append(c.literals, patterns...)
	}
}

// WithRegex adds regex patterns. Patterns that fail to compile are
// dropped with a recorded diagnostic, not fatal (see Skipped).
func WithRegex(patterns ...string) Option {
	return func(c *scannerConfig) {
		c.regexes = append(c.regexes, patterns...)
	}
}

// WithRules adds named rules: literal rules feed the automaton, regex
// rules feed the regex engine, and regex rules with keywords are gated by
// the keyword prefilter.
func WithRules(rules []*Rule) Option {
	return func(c *scannerConfig) {
		c.rules = append(c.rules, rules...)
	}
}

// WithStreaming selects streaming mode: Feed/Flush instead of Scan.
func WithStreaming() Option {
	return func(c *scannerConfig) {
		c.streaming = true
	}
}

// WithBufferCapacity overrides the streaming ring buffer capacity.
func WithBufferCapacity(capacity int) Option {
	return func(c *scannerConfig) {
		c.bufferCapacity = capacity
	}
}

// WithMaxRegexLength sets the assumed worst-case regex match length used
// for cross-chunk retention. Default 256.
func WithMaxRegexLength(n int) Option {
	return func(c *scannerConfig) {
		c.maxRegexLength = n
	}
}

// WithContextLines attaches N lines of context around each batch match.
func WithContextLines(lines int) Option {
	return func(c *scannerConfig) {
		c.contextLines = lines
	}
}

// WithStore persists every emitted match record. The store is owned by
// the caller and is not closed by Scanner.Close.
func WithStore(s store.Store) Option {
	return func(c *scannerConfig) {
		c.store = s
	}
}

// WithLogger routes diagnostic output to the given logger.
func WithLogger(l DebugLogger) Option {
	return func(c *scannerConfig) {
		c.logger = l
	}
}

// NewScanner creates a Scanner with the given options.
func NewScanner(opts ...Option) (*Scanner, error) {
	config := &scannerConfig{logger: NoopLogger{}}
	for _, opt := range opts {
		opt(config)
	}

	// Fold rules into the bare pattern lists. Regex rules keep their
	// relative order, so a rule's engine pattern id is the id of the
	// first regex rule plus its prefilter index.
	literals := config.literals
	regexes := config.regexes
	regexRuleBase := len(regexes)
	var regexRules []*types.Rule
	for _, r := range config.rules {
		switch r.Kind {
		case types.KindRegex:
			regexes = append(regexes, r.Pattern)
			regexRules = append(regexRules, r)
		default:
			literals = append(literals, []byte(r.Pattern))
		}
	}

	m, err := matcher.New(matcher.Config{
		Literals:       literals,
		Regexes:        regexes,
		Streaming:      config.streaming,
		BufferCapacity: config.bufferCapacity,
		MaxRegexLength: config.maxRegexLength,
		ContextLines:   config.contextLines,
	})
	if err != nil {
		return nil, fmt.Errorf("creating matcher: %w", err)
	}

	s := &Scanner{
		matcher:       m,
		regexRuleBase: regexRuleBase,
		store:         config.store,
		logger:        config.logger,
		config:        config,
	}
	if len(regexRules) > 0 {
		s.pf = prefilter.New(regexRules)
	}

	s.logger.Log("scanner built: %d literal, %d regex patterns (%d dropped), streaming=%v",
		len(literals), len(regexes), len(m.Skipped()), config.streaming)
	return s, nil
}

// ScanString scans a string and returns all matches.
func (s *Scanner) ScanString(content string) ([]Match, error) {
	return s.ScanBytes([]byte(content))
}

// ScanBytes scans raw bytes and returns all matches, sorted by
// (start, end, kind, pattern id).
func (s *Scanner) ScanBytes(content []byte) ([]Match, error) {
	return s.ScanSource("", content)
}

// ScanSource scans raw bytes and, when a store is configured, persists
// the records under the given source tag.
func (s *Scanner) ScanSource(source string, content []byte) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := s.matcher.MatchSubset(content, s.candidateRegexIDs(content))
	if err != nil {
		return nil, err
	}
	if err := s.persist(source, matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// ScanFile reads and scans a file; records are stored under its path.
func (s *Scanner) ScanFile(path string) ([]Match, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return s.ScanSource(path, content)
}

// Feed delivers one chunk of a stream (streaming mode only) and returns
// the new matches with absolute offsets. An empty chunk flushes.
func (s *Scanner) Feed(chunk []byte) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := s.matcher.Feed(chunk)
	if err != nil {
		return nil, err
	}
	if err := s.persist(streamSource, matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// Flush signals end of stream and returns the remaining matches.
func (s *Scanner) Flush() ([]Match, error) {
	return s.Feed(nil)
}

// ScanReader feeds r through the streaming matcher in 64 KiB chunks,
// flushes at EOF, and returns all matches. Records are stored under the
// given source tag. Streaming mode only.
func (s *Scanner) ScanReader(source string, r io.Reader) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []Match
	buf := make([]byte, readerChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			matches, ferr := s.matcher.Feed(buf[:n])
			if ferr != nil {
				return nil, ferr
			}
			all = append(all, matches...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading stream: %w", err)
		}
	}
	matches, err := s.matcher.Flush()
	if err != nil {
		return nil, err
	}
	all = append(all, matches...)

	if err := s.persist(source, all); err != nil {
		return nil, err
	}
	return all, nil
}

// Reset clears streaming state and the match counter; compiled engines
// are preserved.
func (s *Scanner) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matcher.Reset()
}

// TotalMatches returns the number of matches emitted since creation or
// the last Reset.
func (s *Scanner) TotalMatches() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matcher.TotalMatches()
}

// IsStreaming reports whether the scanner is in streaming mode.
func (s *Scanner) IsStreaming() bool { return s.matcher.IsStreaming() }

// Skipped returns the regex patterns dropped at compile time.
func (s *Scanner) Skipped() []*matcher.PatternError { return s.matcher.Skipped() }

// Close releases scanner resources. A store passed via WithStore stays
// open; it belongs to the caller.
func (s *Scanner) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matcher.Close()
}

// candidateRegexIDs runs the keyword prefilter and maps the surviving
// rule indices to engine pattern ids. nil means "run every regex
// pattern" — bare WithRegex patterns carry no keywords and always run.
func (s *Scanner) candidateRegexIDs(content []byte) []int {
	if s.pf == nil {
		return nil
	}

	indices := s.pf.FilterIndices(content)
	ids := make([]int, 0, s.regexRuleBase+len(indices))
	// Bare regex patterns (ids below the first rule id) always run.
	for i := 0; i < s.regexRuleBase; i++ {
		ids = append(ids, i)
	}
	for _, idx := range indices {
		ids = append(ids, s.regexRuleBase+idx)
	}
	return ids
}

func (s *Scanner) persist(source string, matches []Match) error {
	if s.store == nil {
		return nil
	}
	for i := range matches {
		if err := s.store.AddMatch(source, &matches[i]); err != nil {
			return fmt.Errorf("storing match: %w", err)
		}
	}
	return nil
}

// LoadRulesFromFile loads rules from a YAML file. Use with WithRules:
//
//	rules, err := fastmatch.LoadRulesFromFile("rules.yml")
//	scanner, err := fastmatch.NewScanner(fastmatch.WithRules(rules))
func LoadRulesFromFile(path string) ([]*Rule, error) {
	return rule.NewLoader().LoadRuleFile(path)
}

// LoadRules loads rules from YAML bytes.
func LoadRules(data []byte) ([]*Rule, error) {
	return rule.NewLoader().LoadRules(data)
}
