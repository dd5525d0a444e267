package sheet

import "github.com/mpetrenko/cellsheet/position"

// reverseIndex maintains, for every position P, the set of positions
// whose cells reference P — the dependency-graph edge set spec.md §3/§4.4
// requires for invalidation. It is adapted from the teacher's
// CellDependencyTree, which stores the same relation as bbolt key
// prefixes so a disk-backed B-tree can answer GetDependants in
// O(log n); here the sheet is entirely in-memory, so the prefix scheme
// becomes a plain map of sets, and the "diff old vs. new dependency
// list" update the teacher's SetDependsOn performs becomes two
// straightforward add/remove passes instead of reconciling byte-string
// key deltas.
type reverseIndex struct {
	dependants map[position.Position]map[position.Position]struct{}
}

func newReverseIndex() *reverseIndex {
	return &reverseIndex{dependants: make(map[position.Position]map[position.Position]struct{})}
}

// update replaces dependant's dependency edges: it was depending on
// oldRefs and now depends on newRefs.
func (idx *reverseIndex) update(dependant position.Position, oldRefs, newRefs []position.Position) {
	for _, pos := range oldRefs {
		idx.removeEdge(pos, dependant)
	}
	for _, pos := range newRefs {
		idx.addEdge(pos, dependant)
	}
}

// remove drops every edge recorded for dependant depending on refs,
// without adding any new ones — used when a cell is cleared.
func (idx *reverseIndex) remove(dependant position.Position, refs []position.Position) {
	idx.update(dependant, refs, nil)
}

func (idx *reverseIndex) addEdge(dependingOn, dependant position.Position) {
	set, ok := idx.dependants[dependingOn]
	if !ok {
		set = make(map[position.Position]struct{})
		idx.dependants[dependingOn] = set
	}
	set[dependant] = struct{}{}
}

func (idx *reverseIndex) removeEdge(dependingOn, dependant position.Position) {
	set, ok := idx.dependants[dependingOn]
	if !ok {
		return
	}
	delete(set, dependant)
	if len(set) == 0 {
		delete(idx.dependants, dependingOn)
	}
}

// dependantsOf returns the positions directly referencing pos, in no
// particular order.
func (idx *reverseIndex) dependantsOf(pos position.Position) []position.Position {
	set := idx.dependants[pos]
	out := make([]position.Position, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	return out
}
