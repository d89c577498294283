package vf2

import (
	"context"
	"math"

	"github.com/cx-luo/go-chem/internal/molecule"
)

// MatchResult is the successful outcome of a Match call (spec.md §6).
type MatchResult struct {
	Score       float64
	AtomMapping []int // query atom index -> target atom index
}

// Match decodes targetBytes, runs the VF2 search against the handle's
// query, and returns a similarity score on success. iterationLimit <= 0
// means effectively unlimited (spec.md §6). On failure the returned error
// is one of ErrNoMatch, ErrLimitExceeded, ErrOutOfMemory, a
// *molecule.DecodeError, or ctx's error when ctx is done during the search.
func (h *Handle) Match(ctx context.Context, targetBytes []byte, iterationLimit int64) (MatchResult, error) {
	target, err := molecule.Decode(targetBytes, molecule.DecodeOptions{
		WithCharges:  h.opts.ChargeMode != ChargeIgnore,
		WithIsotopes: h.opts.IsotopeMode != IsotopeIgnore,
		WithStereo:   h.opts.StereoMode == StereoStrict,
		WithRGroups:  h.opts.WithRGroups,
	})
	if err != nil {
		return MatchResult{}, err
	}

	query := h.query
	queryOrder := h.queryOrder
	queryParents := h.queryParents

	decodeOpts := molecule.DecodeOptions{
		WithCharges:  h.opts.ChargeMode != ChargeIgnore,
		WithIsotopes: h.opts.IsotopeMode != IsotopeIgnore,
		WithStereo:   h.opts.StereoMode == StereoStrict,
		WithRGroups:  h.opts.WithRGroups,
	}

	queryNeedsExt, err := molecule.IsExtendedSearchNeeded(h.queryBytes, decodeOpts)
	if err != nil {
		return MatchResult{}, err
	}
	targetNeedsExt, err := molecule.IsExtendedSearchNeeded(targetBytes, decodeOpts)
	if err != nil {
		return MatchResult{}, err
	}

	if queryNeedsExt || targetNeedsExt {
		extOpts := decodeOpts
		extOpts.Extended = true
		query, err = molecule.Decode(h.queryBytes, extOpts)
		if err != nil {
			return MatchResult{}, err
		}
		if h.restH != nil {
			restH := make([]bool, query.AtomCount)
			copy(restH, h.restH)
			query.RestH = restH
		}
		queryOrder, queryParents = buildOrder(query)

		target, err = molecule.Extend(target)
		if err != nil {
			return MatchResult{}, err
		}
	}

	if !passesPreFilter(h.opts.GraphMode, query, target) {
		return MatchResult{}, ErrNoMatch
	}

	if iterationLimit <= 0 {
		iterationLimit = math.MaxInt64
	}

	st := newSearchState(query, target, queryOrder, queryParents)
	counter := iterationLimit

	mapping, matchErr := runSearch(ctx, st, h.opts, &counter)
	if matchErr != nil {
		return MatchResult{}, matchErr
	}

	if h.opts.StereoMode == StereoStrict {
		if !validateStereo(query, target, mapping, h.opts) {
			return MatchResult{}, ErrNoMatch
		}
	}
	if !validateRestH(query, target, mapping) {
		return MatchResult{}, ErrNoMatch
	}

	return MatchResult{
		Score:       similarityScore(query, target),
		AtomMapping: mapping,
	}, nil
}

// buildOrder is the handle-construction BFS ordering of spec.md §4.2,
// factored out so an extended re-decode of the query can rebuild its own
// order without mutating the Handle.
func buildOrder(q *molecule.Molecule) (order, parents []int) {
	n := q.AtomCount
	const (
		flagUnseen   = 0
		flagFrontier = 1
		flagPlaced   = 2
	)
	flags := make([]int, n)
	parents = make([]int, n)
	for i := range parents {
		parents[i] = -1
	}
	order = make([]int, 0, n)

	for len(order) < n {
		selected := -1
		fallback := -1
		for i := 0; i < n; i++ {
			if selected == -1 && flags[i] == flagFrontier {
				selected = i
				break
			}
			if fallback == -1 && flags[i] == flagUnseen {
				fallback = i
			}
		}
		if selected == -1 {
			selected = fallback
		}

		flags[selected] = flagPlaced
		order = append(order, selected)

		for _, nb := range q.BondedAtomList(selected) {
			if flags[nb] == flagUnseen {
				flags[nb] = flagFrontier
				parents[nb] = selected
			}
		}
	}

	return order, parents
}

// passesPreFilter implements spec.md §4.2 "Pre-filters (fast reject)".
func passesPreFilter(mode GraphMode, query, target *molecule.Molecule) bool {
	if mode == GraphExact {
		return query.HeavyAtomCount == target.HeavyAtomCount &&
			query.HydrogenAtomCount == target.HydrogenAtomCount &&
			query.HeavyBondCount == target.HeavyBondCount &&
			query.HydrogenBondCount == target.HydrogenBondCount
	}
	return query.HeavyAtomCount+query.HydrogenAtomCount <= target.HeavyAtomCount+target.HydrogenAtomCount &&
		query.AtomCount <= target.AtomCount &&
		query.BondCount <= target.BondCount
}

// candidatesFor computes the ascending-order target candidate list for
// queryAtom at a given level: neighbours of the parent's image if the atom
// has a parent in the ordering, else all target atoms (spec.md §4.2 "State
// machine").
func candidatesFor(st *searchState, queryAtom int) []int {
	parent := st.queryParents[queryAtom]
	if parent == -1 {
		all := make([]int, st.target.AtomCount)
		for i := range all {
			all[i] = i
		}
		return all
	}
	parentImage := st.queryCore[parent]
	return sortedCopy(st.target.BondedAtomList(parentImage))
}

// runSearch drives the explicit DFS stack described in spec.md §9 ("Undo
// via stack"): an iterative loop bounded to queryAtomCount frames instead
// of language-level recursion.
func runSearch(ctx context.Context, st *searchState, opts HandleOptions, counter *int64) ([]int, error) {
	n := len(st.queryOrder)
	if n == 0 {
		return []int{}, nil
	}

	st.frames[0] = frame{queryAtom: st.queryOrder[0], candidates: candidatesFor(st, st.queryOrder[0]), current: -1}

	level := 0
	for {
		if level == n {
			mapping := make([]int, n)
			copy(mapping, st.queryCore)
			return mapping, nil
		}

		f := &st.frames[level]
		if f.current != -1 {
			st.queryCore[f.queryAtom] = -1
			st.targetCore[f.current] = -1
			f.current = -1
		}

		found := false
		for f.pos < len(f.candidates) {
			cand := f.candidates[f.pos]
			f.pos++

			if ctx != nil {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				default:
				}
			}

			*counter--
			if *counter <= 0 {
				return nil, ErrLimitExceeded
			}

			if st.targetCore[cand] != -1 {
				continue
			}
			if !isFeasiblePair(st, opts, f.queryAtom, cand) {
				continue
			}

			st.queryCore[f.queryAtom] = cand
			st.targetCore[cand] = f.queryAtom
			f.current = cand
			found = true
			break
		}

		if found {
			level++
			if level < n {
				qa := st.queryOrder[level]
				st.frames[level] = frame{queryAtom: qa, candidates: candidatesFor(st, qa), current: -1}
			}
			continue
		}

		if level == 0 {
			return nil, ErrNoMatch
		}
		level--
	}
}
