// Package automaton implements an Aho-Corasick automaton for multi-pattern
// byte matching. All literal patterns are recognised in a single
// left-to-right pass: build is O(total pattern bytes), search is
// O(input bytes + matches) independent of pattern count.
//
// Nodes live in a single slice indexed by id, with children and failure
// links stored as integer ids. Failure chains form cycles when expressed
// as pointers (the root's link targets itself); integer ids keep ownership
// flat and make deallocation a single release.
package automaton

import (
	"errors"
	"sort"
)

// State identifies an automaton node. The zero State is the root, which is
// also the start state for a fresh scan.
type State int32

// Root is the start state of every automaton.
const Root State = 0

// ErrEmptyPattern is returned when a build input contains an empty pattern.
var ErrEmptyPattern = errors.New("automaton: empty pattern")

// Match is one literal occurrence: pattern patterns[PatternID] spans
// input[Start:End].
type Match struct {
	PatternID int
	Start     int
	End       int
}

// node is one trie state. children[c] == 0 means no edge on byte c; the
// root is never the target of an edge, so 0 is free to mean "absent".
type node struct {
	children [256]int32
	fail     State
	output   []int32 // pattern ids terminating at or via failure, ascending
	terminal bool
}

// Automaton is an immutable Aho-Corasick automaton. It is safe for
// concurrent searches once built.
type Automaton struct {
	nodes    []node
	patterns [][]byte
	maxLen   int
}

// New builds an automaton over the given patterns. Pattern ids are the
// indices into patterns. Duplicate patterns are tolerated: every duplicate
// id appears in the terminal node's output set. An empty pattern is
// rejected. An empty pattern list yields an automaton that matches nothing.
func New(patterns [][]byte) (*Automaton, error) {
	a := &Automaton{
		nodes:    make([]node, 1, 1+totalLen(patterns)),
		patterns: make([][]byte, len(patterns)),
	}
	for i, p := range patterns {
		if len(p) == 0 {
			return nil, ErrEmptyPattern
		}
		a.patterns[i] = append([]byte(nil), p...)
		if len(p) > a.maxLen {
			a.maxLen = len(p)
		}
	}

	a.buildTrie()
	a.buildFailureLinks()
	return a, nil
}

func totalLen(patterns [][]byte) int {
	n := 0
	for _, p := range patterns {
		n += len(p)
	}
	return n
}

// buildTrie inserts every pattern in input order, creating nodes for
// missing edges and recording the pattern id on its terminal node.
func (a *Automaton) buildTrie() {
	for id, pat := range a.patterns {
		cur := Root
		for _, c := range pat {
			next := a.nodes[cur].children[c]
			if next == 0 {
				next = int32(len(a.nodes))
				a.nodes = append(a.nodes, node{})
				a.nodes[cur].children[c] = next
			}
			cur = State(next)
		}
		a.nodes[cur].terminal = true
		a.nodes[cur].output = append(a.nodes[cur].output, int32(id))
	}
}

// buildFailureLinks runs the BFS pass: depth-1 nodes fail to the root,
// deeper nodes fail to the longest proper suffix of their path that is
// itself a node's path. Output sets are extended with the failure target's
// output in the same pass; targets are strictly shallower, so their sets
// are final when merged.
func (a *Automaton) buildFailureLinks() {
	queue := make([]State, 0, len(a.nodes))

	for c := 0; c < 256; c++ {
		if child := a.nodes[Root].children[c]; child != 0 {
			a.nodes[child].fail = Root
			queue = append(queue, State(child))
		}
	}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for c := 0; c < 256; c++ {
			v := a.nodes[u].children[c]
			if v == 0 {
				continue
			}
			queue = append(queue, State(v))

			f := a.nodes[u].fail
			for f != Root && a.nodes[f].children[c] == 0 {
				f = a.nodes[f].fail
			}
			target := a.nodes[f].children[c]
			if target != 0 && target != v {
				a.nodes[v].fail = State(target)
			} else {
				a.nodes[v].fail = Root
			}

			if failOut := a.nodes[a.nodes[v].fail].output; len(failOut) > 0 {
				a.nodes[v].output = append(a.nodes[v].output, failOut...)
				sort.Slice(a.nodes[v].output, func(i, j int) bool {
					return a.nodes[v].output[i] < a.nodes[v].output[j]
				})
			}
		}
	}
}

// Search scans text from the root state and returns every occurrence of
// every pattern, including overlaps and patterns that are proper prefixes
// or suffixes of other patterns. Matches are ordered by end position, and
// by ascending pattern id at equal end positions.
func (a *Automaton) Search(text []byte) []Match {
	matches, _ := a.SearchFrom(text, Root)
	return matches
}

// SearchFrom scans text starting at the given state and returns the
// matches plus the ending state, enabling continuation across buffer
// refills. Offsets are relative to text; a match whose pattern began in
// bytes consumed before this call has a negative Start.
func (a *Automaton) SearchFrom(text []byte, state State) ([]Match, State) {
	if len(a.nodes) == 1 {
		return nil, Root
	}

	var matches []Match
	cur := state
	for i, b := range text {
		for cur != Root && a.nodes[cur].children[b] == 0 {
			cur = a.nodes[cur].fail
		}
		if next := a.nodes[cur].children[b]; next != 0 {
			cur = State(next)
		}
		for _, id := range a.nodes[cur].output {
			end := i + 1
			matches = append(matches, Match{
				PatternID: int(id),
				Start:     end - len(a.patterns[id]),
				End:       end,
			})
		}
	}
	return matches, cur
}

// Pattern returns the pattern bytes for the given id.
func (a *Automaton) Pattern(id int) []byte { return a.patterns[id] }

// PatternCount returns the number of patterns the automaton was built from.
func (a *Automaton) PatternCount() int { return len(a.patterns) }

// MaxPatternLen returns the length of the longest pattern, 0 when empty.
func (a *Automaton) MaxPatternLen() int { return a.maxLen }

// NodeCount returns the number of trie nodes including the root.
func (a *Automaton) NodeCount() int { return len(a.nodes) }
