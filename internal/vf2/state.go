package vf2

import (
	"sort"

	"github.com/cx-luo/go-chem/internal/molecule"
)

// frame is one level of the explicit DFS stack (spec.md §9 "Undo via
// stack"): the candidates for queryOrder[level] and which one, if any, is
// currently committed. frame.current doubles as the spec's undos[k]
// entry -- the (queryAtom, current) pair is exactly the (targetSelector,
// targetIdx) rollback record of spec.md §3.2, scoped to this level instead
// of a separate parallel array.
type frame struct {
	queryAtom  int
	candidates []int
	pos        int
	current    int // target atom currently paired with queryAtom, or -1
}

// searchState is the per-Match-call DFS scratch: queryCore/targetCore and
// the frame stack (spec.md §3.2). coreLength is runSearch's level variable,
// not a field here.
type searchState struct {
	query  *molecule.Molecule
	target *molecule.Molecule

	queryOrder   []int
	queryParents []int

	queryCore  []int
	targetCore []int

	frames []frame
}

func newSearchState(query, target *molecule.Molecule, queryOrder, queryParents []int) *searchState {
	qc := make([]int, query.AtomCount)
	tc := make([]int, target.AtomCount)
	for i := range qc {
		qc[i] = -1
	}
	for i := range tc {
		tc[i] = -1
	}
	return &searchState{
		query:        query,
		target:       target,
		queryOrder:   queryOrder,
		queryParents: queryParents,
		queryCore:    qc,
		targetCore:   tc,
		frames:       make([]frame, len(queryOrder)),
	}
}

// sortedCopy returns a sorted ascending copy of xs (spec.md §5's
// deterministic "ascending index order" candidate enumeration).
func sortedCopy(xs []int) []int {
	out := make([]int, len(xs))
	copy(out, xs)
	sort.Ints(out)
	return out
}
