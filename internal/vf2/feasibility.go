package vf2

import (
	"github.com/cx-luo/go-chem/internal/molecule"
)

// isFeasiblePair implements spec.md §4.2 "Feasibility (isFeasiblePair)":
// six short-circuiting gates, in order.
func isFeasiblePair(st *searchState, opts HandleOptions, queryAtom, targetAtom int) bool {
	q, t := st.query, st.target

	if !atomLabelMatches(opts.GraphMode, q, t, queryAtom, targetAtom) {
		return false
	}

	if !chargeMatches(opts, q, t, queryAtom, targetAtom) {
		return false
	}

	if !isotopeMatches(opts, q, t, queryAtom, targetAtom) {
		return false
	}

	if !hydrogenCountMatches(opts, q, t, queryAtom, targetAtom) {
		return false
	}

	if !existingMappingBondsConsistent(st, opts, queryAtom, targetAtom) {
		return false
	}

	if !lookAheadFeasible(st, opts, queryAtom, targetAtom) {
		return false
	}

	return true
}

// atomLabelMatches implements spec.md §4.2 "Atom label matching".
func atomLabelMatches(mode GraphMode, q, t *molecule.Molecule, qi, ti int) bool {
	qn := q.AtomNumber[qi]
	tn := t.AtomNumber[ti]

	if mode == GraphExact {
		return qn == tn
	}

	if qn == molecule.AtomUnknown || tn == molecule.AtomUnknown {
		return false
	}
	if qn == tn || qn == molecule.AtomRGroup {
		return true
	}
	if tn < 0 {
		// Target is itself a pseudo-atom: only Q can match M/X placeholders.
		return qn == molecule.AtomAnyHetero && (tn == molecule.AtomAnyMetal || tn == molecule.AtomAnyHalogen)
	}
	switch qn {
	case molecule.AtomAnyHetero:
		return tn != molecule.ElemC && tn != molecule.ElemH
	case molecule.AtomAnyMetal:
		return molecule.IsMetal(tn)
	case molecule.AtomAnyHalogen:
		return molecule.IsHalogen(tn)
	default:
		return false
	}
}

func chargeMatches(opts HandleOptions, q, t *molecule.Molecule, qi, ti int) bool {
	if opts.ChargeMode == ChargeIgnore {
		return true
	}
	var qc, tc int8
	if q.Charge != nil {
		qc = q.Charge[qi]
	}
	if t.Charge != nil {
		tc = t.Charge[ti]
	}
	if opts.ChargeMode == ChargeDefaultAsAny && qc == 0 {
		return true
	}
	return qc == tc
}

func isotopeMatches(opts HandleOptions, q, t *molecule.Molecule, qi, ti int) bool {
	if opts.IsotopeMode == IsotopeIgnore {
		return true
	}
	var qm, tm int8
	if q.Mass != nil {
		qm = q.Mass[qi]
	}
	if t.Mass != nil {
		tm = t.Mass[ti]
	}
	if opts.IsotopeMode == IsotopeDefaultAsAny && qm == 0 {
		return true
	}
	return qm == tm
}

func hydrogenCountMatches(opts HandleOptions, q, t *molecule.Molecule, qi, ti int) bool {
	qh := int(q.AtomHydrogens[qi])
	th := int(t.AtomHydrogens[ti])
	if opts.GraphMode == GraphExact {
		return qh == th
	}
	if !q.HasPseudoAtom && !t.HasPseudoAtom {
		return qh <= th
	}
	return true
}

// existingMappingBondsConsistent implements spec.md §4.2 point 5: for every
// mapped neighbour of the query atom, the corresponding target bond must
// match; in EXACT mode the symmetric check on the target side is required.
func existingMappingBondsConsistent(st *searchState, opts HandleOptions, qi, ti int) bool {
	q, t := st.query, st.target

	for _, qNb := range q.BondedAtomList(qi) {
		image := st.queryCore[qNb]
		if image == -1 {
			continue
		}
		qBond := q.Bond(qi, qNb)
		tBond := t.Bond(ti, image)
		if tBond < 0 {
			return false
		}
		if !bondMatches(opts.GraphMode, q.BondType[qBond], t.BondType[tBond]) {
			return false
		}
	}

	if opts.GraphMode == GraphExact {
		for _, tNb := range t.BondedAtomList(ti) {
			origin := st.targetCore[tNb]
			if origin == -1 {
				continue
			}
			if q.Bond(qi, origin) < 0 {
				return false
			}
		}
	}

	return true
}

// lookAheadFeasible implements spec.md §4.2 point 6.
func lookAheadFeasible(st *searchState, opts HandleOptions, qi, ti int) bool {
	newQuery := 0
	for _, nb := range st.query.BondedAtomList(qi) {
		if st.queryCore[nb] == -1 {
			newQuery++
		}
	}
	newTarget := 0
	for _, nb := range st.target.BondedAtomList(ti) {
		if st.targetCore[nb] == -1 {
			newTarget++
		}
	}
	if opts.GraphMode == GraphExact {
		return newQuery == newTarget
	}
	return newQuery <= newTarget
}

// bondMatches implements spec.md §4.2 "Bond matching".
func bondMatches(mode GraphMode, qt, tt molecule.BondType) bool {
	if mode == GraphExact {
		return qt == tt
	}
	switch qt {
	case molecule.BondAny:
		return true
	case molecule.BondSingleOrDouble:
		return tt == molecule.BondSingle || tt == molecule.BondDouble
	case molecule.BondSingleOrAromatic:
		return tt == molecule.BondSingle || tt == molecule.BondAromatic
	case molecule.BondDoubleOrAromatic:
		return tt == molecule.BondDouble || tt == molecule.BondAromatic
	default:
		return qt == tt
	}
}

// validateRestH implements spec.md §4.2 "Solution validation — restH": for
// every query atom with the restH flag set, the number of non-hydrogen
// neighbours of its image in the target must not exceed the query count.
func validateRestH(query, target *molecule.Molecule, mapping []int) bool {
	if query.RestH == nil {
		return true
	}
	for qi, flagged := range query.RestH {
		if !flagged {
			continue
		}
		queryNonH := 0
		for _, nb := range query.BondedAtomList(qi) {
			if query.AtomNumber[nb] != molecule.ElemH {
				queryNonH++
			}
		}
		image := mapping[qi]
		targetNonH := 0
		for _, nb := range target.BondedAtomList(image) {
			if target.AtomNumber[nb] != molecule.ElemH {
				targetNonH++
			}
		}
		if targetNonH > queryNonH {
			return false
		}
	}
	return true
}
