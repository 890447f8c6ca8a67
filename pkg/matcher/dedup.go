package matcher

import "github.com/fastmatch/fastmatch/pkg/types"

// dedupKey identifies a match record across chunk refeeds. Absolute
// offsets make the tuple canonical; no hashing is needed.
type dedupKey struct {
	kind      types.Kind
	patternID int
	start     int64
	end       int64
}

// Deduplicator drops match records already emitted by an earlier scan of
// the same stream region. The streaming matcher re-scans its retention
// tail with fresh context on every feed, so records ending inside the tail
// would otherwise surface twice.
type Deduplicator struct {
	seen map[dedupKey]struct{}
}

// NewDeduplicator creates an empty deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[dedupKey]struct{})}
}

// Seen reports whether m was already added.
func (d *Deduplicator) Seen(m *types.Match) bool {
	_, ok := d.seen[keyOf(m)]
	return ok
}

// Add marks m as emitted.
func (d *Deduplicator) Add(m *types.Match) {
	d.seen[keyOf(m)] = struct{}{}
}

// Prune forgets records ending at or before offset. Once the stream has
// consumed past an offset no scan window can produce a record ending
// there, so the entries can never match again.
func (d *Deduplicator) Prune(offset int64) {
	for k := range d.seen {
		if k.end <= offset {
			delete(d.seen, k)
		}
	}
}

// Reset clears the deduplicator for reuse.
func (d *Deduplicator) Reset() {
	clear(d.seen)
}

func keyOf(m *types.Match) dedupKey {
	return dedupKey{kind: m.Kind, patternID: m.PatternID, start: m.Start, end: m.End}
}
