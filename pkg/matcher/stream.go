package matcher

import "github.com/fastmatch/fastmatch/pkg/types"

// Feed delivers one chunk of the input stream and returns the new match
// records, tagged with absolute stream offsets. Chunks may have any size
// and alignment; a literal match spanning chunk boundaries is reported on
// the feed that completes it. A regex match whose start lies in the
// retention tail is held back until a later feed moves its start before
// the tail, or until the flush. An empty chunk flushes: the retention
// tail becomes scannable and the buffer drains.
//
// No byte of input is ever dropped: when a chunk exceeds the ring
// buffer's free space the excess waits in a pending slot and drains as
// buffered bytes are consumed, within this call.
func (m *Matcher) Feed(chunk []byte) ([]types.Match, error) {
	if !m.built {
		return nil, ErrNotBuilt
	}
	if !m.streaming {
		return nil, ErrBatchMode
	}

	flush := len(chunk) == 0
	if !flush {
		m.pending = append(m.pending, chunk...)
		m.fedTotal += int64(len(chunk))
	}

	var out []types.Match
	for {
		if len(m.pending) > 0 {
			n := m.buf.Write(m.pending)
			m.pending = m.pending[n:]
			if len(m.pending) == 0 {
				m.pending = nil
			}
		}

		// The retention tail is the suffix a later chunk could still turn
		// into, or extend into, a match. On the final flush round nothing
		// more is coming and the tail is scannable.
		retain := m.maxPatternLen - 1
		final := flush && len(m.pending) == 0
		if retain < 0 || final {
			retain = 0
		}

		// Scan everything buffered. A literal match is final as soon as
		// the automaton reaches its last byte. A regex match starting
		// inside the tail is deferred: future bytes could lengthen it
		// under leftmost-longest, and the tail is re-scanned next round.
		// Records re-found on a refeed are dropped by the deduplicator.
		window := m.buf.Peek(0)
		tailStart := m.streamOffset + int64(len(window)-retain)
		for _, rec := range m.collect(window, m.streamOffset, nil) {
			if rec.Kind == types.KindRegex && rec.Start >= tailStart {
				continue
			}
			if m.dedup.Seen(&rec) {
				continue
			}
			m.dedup.Add(&rec)
			out = append(out, rec)
		}

		if consume := m.buf.AvailableData() - retain; consume > 0 {
			m.buf.Discard(consume)
			m.streamOffset += int64(consume)
			m.dedup.Prune(m.streamOffset)
		}

		if len(m.pending) == 0 {
			break
		}
	}

	sortMatches(out)
	m.totalMatches += int64(len(out))
	return out, nil
}

// Flush signals end of stream: the retention tail is scanned and the
// buffer drains. Equivalent to Feed(nil).
func (m *Matcher) Flush() ([]types.Match, error) {
	return m.Feed(nil)
}
