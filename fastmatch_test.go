package fastmatch

import (
	"bytes"
	"testing"

	"github.com/fastmatch/fastmatch/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_LiteralAndRegex(t *testing.T) {
	scanner, err := NewScanner(
		WithPatterns("error"),
		WithRegex(`\d{4}-\d{2}-\d{2}`),
	)
	require.NoError(t, err)
	defer scanner.Close()

	matches, err := scanner.ScanString("error on 2024-01-15")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, KindLiteral, matches[0].Kind)
	assert.Equal(t, "error", matches[0].Pattern)
	assert.EqualValues(t, 0, matches[0].Start)
	assert.EqualValues(t, 5, matches[0].End)

	assert.Equal(t, KindRegex, matches[1].Kind)
	assert.EqualValues(t, 9, matches[1].Start)
	assert.EqualValues(t, 19, matches[1].End)
	assert.Equal(t, "2024-01-15", string(matches[1].Matched))
}

func TestScanner_StreamingFeed(t *testing.T) {
	scanner, err := NewScanner(WithPatterns("banana"), WithStreaming())
	require.NoError(t, err)
	defer scanner.Close()

	assert.True(t, scanner.IsStreaming())

	first, err := scanner.Feed([]byte("bana"))
	require.NoError(t, err)
	assert.Empty(t, first)

	second, err := scanner.Feed([]byte("nana"))
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.EqualValues(t, 0, second[0].Start)
	assert.EqualValues(t, 6, second[0].End)

	_, err = scanner.Flush()
	require.NoError(t, err)
	assert.EqualValues(t, 1, scanner.TotalMatches())
}

func TestScanner_ModeErrors(t *testing.T) {
	streaming, err := NewScanner(WithPatterns("x"), WithStreaming())
	require.NoError(t, err)
	_, err = streaming.ScanString("x")
	assert.ErrorIs(t, err, ErrStreamingMode)

	batch, err := NewScanner(WithPatterns("x"))
	require.NoError(t, err)
	_, err = batch.Feed([]byte("x"))
	assert.ErrorIs(t, err, ErrBatchMode)
}

func TestScanner_ScanReader(t *testing.T) {
	scanner, err := NewScanner(WithPatterns("needle"), WithStreaming())
	require.NoError(t, err)
	defer scanner.Close()

	// Content larger than one reader chunk, needle straddling nothing.
	content := append(bytes.Repeat([]byte("hay "), 40000), "needle end"...)
	matches, err := scanner.ScanReader("big", bytes.NewReader(content))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.EqualValues(t, len(content)-10, matches[0].Start)
}

func TestScanner_InvalidRegexSoftSkip(t *testing.T) {
	scanner, err := NewScanner(WithRegex(`(`, `foo`))
	require.NoError(t, err)

	require.Len(t, scanner.Skipped(), 1)
	assert.Equal(t, `(`, scanner.Skipped()[0].Pattern)

	matches, err := scanner.ScanString("foo")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "foo", matches[0].Pattern)
}

func TestScanner_RulesAndPrefilter(t *testing.T) {
	rules, err := LoadRules([]byte(`
rules:
  - id: fm.err
    kind: literal
    pattern: error
  - id: fm.aws
    kind: regex
    pattern: 'AKIA[0-9A-Z]{4}'
    keywords: ["AKIA"]
  - id: fm.num
    kind: regex
    pattern: '\d+'
`))
	require.NoError(t, err)

	scanner, err := NewScanner(WithRules(rules))
	require.NoError(t, err)
	defer scanner.Close()

	// Keyword absent: the AKIA rule is prefiltered away, the keywordless
	// number rule still runs.
	matches, err := scanner.ScanString("error 42")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "error", matches[0].Pattern)
	assert.Equal(t, "42", string(matches[1].Matched))

	// Keyword present: the AKIA rule runs and matches.
	matches, err = scanner.ScanString("key AKIA1234")
	require.NoError(t, err)
	found := false
	for _, m := range matches {
		if string(m.Matched) == "AKIA1234" {
			found = true
		}
	}
	assert.True(t, found, "AKIA rule should fire when its keyword is present: %+v", matches)
}

func TestScanner_StorePersistsRecords(t *testing.T) {
	st := store.NewMemory()
	scanner, err := NewScanner(WithPatterns("hit"), WithStore(st))
	require.NoError(t, err)
	defer scanner.Close()

	_, err = scanner.ScanSource("a.log", []byte("hit and hit"))
	require.NoError(t, err)

	stored, err := st.GetMatches("a.log")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.EqualValues(t, 0, stored[0].Start)
	assert.EqualValues(t, 8, stored[1].Start)

	count, err := st.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestScanner_ResetDeterminism(t *testing.T) {
	scanner, err := NewScanner(WithPatterns("x"), WithRegex(`y+`))
	require.NoError(t, err)

	first, err := scanner.ScanString("x yy x")
	require.NoError(t, err)

	scanner.Reset()
	second, err := scanner.ScanString("x yy x")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, len(first), scanner.TotalMatches())
}
