package vf2

import (
	"github.com/cx-luo/go-chem/internal/molecule"
)

// GraphMode selects substructure vs exact isomorphism matching.
type GraphMode int

const (
	GraphSubstructure GraphMode = iota
	GraphExact
)

// ChargeMode controls how query/target formal charges are compared.
type ChargeMode int

const (
	ChargeIgnore ChargeMode = iota
	ChargeDefaultAsUncharged
	ChargeDefaultAsAny
)

// IsotopeMode controls how query/target isotope masses are compared.
type IsotopeMode int

const (
	IsotopeIgnore IsotopeMode = iota
	IsotopeDefaultAsStandard
	IsotopeDefaultAsAny
)

// StereoMode controls whether tetrahedral/cis-trans stereo is validated on
// a candidate solution.
type StereoMode int

const (
	StereoIgnore StereoMode = iota
	StereoStrict
)

// HandleOptions are the match-mode flags supplied at handle creation
// (spec.md §6).
type HandleOptions struct {
	GraphMode   GraphMode
	ChargeMode  ChargeMode
	IsotopeMode IsotopeMode
	StereoMode  StereoMode
	WithRGroups bool
}

// Handle is a reusable matcher built from one query molecule, matched
// against many targets (spec.md §3.3). It is single-writer: concurrent
// match calls require Clone or external mutual exclusion.
type Handle struct {
	opts HandleOptions

	queryBytes []byte
	query      *molecule.Molecule
	restH      []bool

	queryOrder   []int // BFS-like traversal order, fixed at construction
	queryParents []int // parent of query atom i in the ordering, or -1
}

// NewHandle decodes the query byte-blob and builds the fixed traversal
// order used by every subsequent Match call (spec.md §4.2 "Query ordering
// construction").
func NewHandle(queryBytes []byte, restH []byte, opts HandleOptions) (*Handle, error) {
	q, err := molecule.Decode(queryBytes, molecule.DecodeOptions{
		WithCharges: opts.ChargeMode != ChargeIgnore,
		WithIsotopes: opts.IsotopeMode != IsotopeIgnore,
		WithStereo:  opts.StereoMode == StereoStrict,
		WithRGroups: opts.WithRGroups,
	})
	if err != nil {
		return nil, err
	}

	h := &Handle{
		opts:       opts,
		queryBytes: queryBytes,
		query:      q,
	}

	if restH != nil {
		h.restH = make([]bool, q.AtomCount)
		for i := 0; i < q.AtomCount && i < len(restH); i++ {
			h.restH[i] = restH[i] != 0
		}
		q.RestH = h.restH
	}

	h.buildQueryOrder()

	return h, nil
}

// Clone returns an independent Handle sharing the same query bytes and
// mode flags, safe to use concurrently with the original (spec.md §5).
func (h *Handle) Clone() (*Handle, error) {
	var restH []byte
	if h.restH != nil {
		restH = make([]byte, len(h.restH))
		for i, v := range h.restH {
			if v {
				restH[i] = 1
			}
		}
	}
	return NewHandle(h.queryBytes, restH, h.opts)
}

// buildQueryOrder implements the three-valued-flag BFS-like construction of
// spec.md §4.2: repeatedly pick the lowest-index frontier atom if any, else
// the lowest-index unseen atom, mark it placed, and promote its unseen
// neighbours to frontier with their parent recorded.
func (h *Handle) buildQueryOrder() {
	n := h.query.AtomCount
	const (
		flagUnseen   = 0
		flagFrontier = 1
		flagPlaced   = 2
	)
	flags := make([]int, n)
	parents := make([]int, n)
	for i := range parents {
		parents[i] = -1
	}
	order := make([]int, 0, n)

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

		for _, nb := range h.query.BondedAtomList(selected) {
			if flags[nb] == flagUnseen {
				flags[nb] = flagFrontier
				parents[nb] = selected
			}
		}
	}

	h.queryOrder = order
	h.queryParents = parents
}

// Query returns the decoded query molecule (read-only during matching).
func (h *Handle) Query() *molecule.Molecule {
	return h.query
}

// Options returns the match-mode flags this handle was built with.
func (h *Handle) Options() HandleOptions {
	return h.opts
}

// EstimatedMemoryBytes returns a rough analytical estimate of the scratch
// this handle's Match calls will touch, grounded on the original source's
// vf2state_mem_size/molecule_mem_size formulas (spec.md §9); it is
// observability data only, Go's allocator does not use it.
func (h *Handle) EstimatedMemoryBytes() int {
	n := h.query.AtomCount
	const atomIdxSize = 2 // int16-equivalent in the wire contract
	const undoSize = 2 * atomIdxSize
	return 3*n*atomIdxSize + n*undoSize
}
