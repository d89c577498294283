package vf2

import (
	"sort"

	"github.com/cx-luo/go-chem/internal/molecule"
)

// ligandPad stands in for the original's MAX_ATOM_IDX padding sentinel: it
// is larger than any real 12-bit atom index, so it always sorts last.
const ligandPad = molecule.MaxAtomIdx + 1

// validateStereo implements spec.md §4.2 "Stereo validation": every query
// atom with a defined tetrahedral parity, and every query bond with a
// defined cis/trans configuration, must have its target image preserve it.
func validateStereo(query, target *molecule.Molecule, mapping []int, opts HandleOptions) bool {
	if query.Stereo != nil {
		for atom, qParity := range query.Stereo {
			if qParity == molecule.StereoNone {
				continue
			}
			image := mapping[atom]
			var tParity molecule.TetrahedralStereo
			if target.Stereo != nil {
				tParity = target.Stereo[image]
			}

			needCompare, passWithoutCompare := tetrahedralGate(opts.GraphMode, qParity, tParity)
			if !needCompare {
				if !passWithoutCompare {
					return false
				}
				continue
			}

			var result molecule.TetrahedralStereo
			if isExtendedTetrahedralCentre(query, atom) {
				neighbors := query.BondedAtomList(atom)
				cw1 := walkChain(query, atom, neighbors[0])
				cw2 := walkChain(query, atom, neighbors[1])
				// A terminus with neither 2 nor 3 real ligands (a chain
				// dead end or a >=4 junction) can't be resolved; the
				// original leaves the whole centre unvalidated rather
				// than guess (isomorphism.h's listSize < 4 continue).
				if !cw1.valid || !cw2.valid {
					continue
				}
				p1 := resolvePair(target, mapping, cw1)
				p2 := resolvePair(target, mapping, cw2)
				idx := [4]int{p1[0], p1[1], p2[0], p2[1]}
				result = normalizeExtendedAtomStereo(idx, tParity)
			} else {
				if len(query.BondedAtomList(atom)) < 3 {
					continue
				}
				qLig := sortedLigands(query.BondedAtomList(atom))
				targetImages := resolveAtomLigands(target, mapping, atom, qLig)
				result = normalizeAtomStereo(targetImages, tParity)
			}

			if result != qParity {
				return false
			}
		}
	}

	if query.BondStereo != nil {
		for b, qConf := range query.BondStereo {
			if qConf == molecule.BondStereoNone {
				continue
			}
			beg, end := query.BondBeg[b], query.BondEnd[b]
			imageBeg, imageEnd := mapping[beg], mapping[end]

			var tConf molecule.BondStereo
			if target.BondStereo != nil {
				if tb := target.Bond(imageBeg, imageEnd); tb >= 0 {
					tConf = target.BondStereo[tb]
				}
			}

			needCompare, passWithoutCompare := bondStereoGate(opts.GraphMode, qConf, tConf)
			if !needCompare {
				if !passWithoutCompare {
					return false
				}
				continue
			}

			cwBeg := walkChain(query, end, beg)
			cwEnd := walkChain(query, beg, end)
			if !cwBeg.valid || !cwEnd.valid {
				continue
			}
			pBeg := resolvePair(target, mapping, cwBeg)
			pEnd := resolvePair(target, mapping, cwEnd)
			idx := [4]int{pBeg[0], pBeg[1], pEnd[0], pEnd[1]}

			if normalizeBondStereo(idx, tConf) != qConf {
				return false
			}
		}
	}

	return true
}

// isExtendedTetrahedralCentre detects an allene-like centre: exactly two
// neighbours, both reached via double bonds (spec.md §4.2 "Tetrahedral").
func isExtendedTetrahedralCentre(m *molecule.Molecule, atom int) bool {
	neighbors := m.BondedAtomList(atom)
	if len(neighbors) != 2 {
		return false
	}
	for _, nb := range neighbors {
		bond := m.Bond(atom, nb)
		if bond < 0 || m.BondType[bond] != molecule.BondDouble {
			return false
		}
	}
	return true
}

// chainWalk is the result of walking a cumulated double-bond chain from one
// side until a non-degree-2 terminus is reached.
type chainWalk struct {
	terminus int
	prev     int
	ligands  [2]int // non-chain neighbours of terminus, pad-filled
	valid    bool   // terminus had exactly 1 or 2 real non-chain neighbours
}

// walkChain implements the chain traversal shared by extended tetrahedral
// centres and (possibly cumulene) stereo bonds (spec.md §4.2 "Tetrahedral",
// "Bond stereo"): starting at cur having arrived from prev, keep stepping
// across degree-2 atoms joined by double bonds until a terminus of any other
// degree is reached. Called with cur already at a non-chain atom, the loop
// exits immediately and this degenerates into the plain two-ligand case.
func walkChain(m *molecule.Molecule, prev, cur int) chainWalk {
	for {
		neighbors := m.BondedAtomList(cur)
		if len(neighbors) != 2 {
			break
		}
		next := ligandPad
		for _, nb := range neighbors {
			if nb != prev {
				next = nb
			}
		}
		if next == ligandPad {
			break
		}
		bond := m.Bond(cur, next)
		if bond < 0 || m.BondType[bond] != molecule.BondDouble {
			break
		}
		prev, cur = cur, next
	}

	// A terminus contributes a resolvable pair only when it has exactly one
	// (degree-2, chain ends in a single bond) or two (degree-3 junction)
	// real non-chain neighbours. A degree-1 dead end (zero) or a >=4
	// junction (three or more) can't be resolved, matching the original's
	// implicit exclusion: only newListSize == 2 or == 3 ever populate
	// queryTerminalAtoms/queryAtoms at all.
	var nonChain []int
	for _, nb := range m.BondedAtomList(cur) {
		if nb != prev {
			nonChain = append(nonChain, nb)
		}
	}

	lig := [2]int{ligandPad, ligandPad}
	switch len(nonChain) {
	case 1:
		lig[0] = nonChain[0]
	case 2:
		lig[0], lig[1] = nonChain[0], nonChain[1]
	default:
		return chainWalk{terminus: cur, prev: prev, ligands: lig, valid: false}
	}
	return chainWalk{terminus: cur, prev: prev, ligands: lig, valid: true}
}

// resolvePair sorts a chain walk's query-side ligand pair and maps it to
// target atoms, padding via uniqueOtherNeighbor where the query side had
// fewer than two explicit ligands.
func resolvePair(target *molecule.Molecule, mapping []int, cw chainWalk) [2]int {
	sorted := cw.ligands
	if sorted[0] > sorted[1] {
		sorted[0], sorted[1] = sorted[1], sorted[0]
	}

	image := mapping[cw.terminus]
	used := []int{mapping[cw.prev]}

	var out [2]int
	for i, q := range sorted {
		if q == ligandPad {
			out[i] = uniqueOtherNeighbor(target, image, used)
		} else {
			out[i] = mapping[q]
		}
		used = append(used, out[i])
	}
	return out
}

// sortedLigands returns up to four query neighbours, pad-filled and sorted
// ascending (spec.md §4.2 "take up to four query neighbours, pad ..., sort").
func sortedLigands(neighbors []int) [4]int {
	var lig [4]int
	for i := range lig {
		lig[i] = ligandPad
	}
	for i, nb := range neighbors {
		if i >= 4 {
			break
		}
		lig[i] = nb
	}
	sort.Ints(lig[:])
	return lig
}

// resolveAtomLigands maps a sorted, pad-filled query ligand tuple to target
// atoms, replacing each pad slot with molecule_get_last_chiral_ligand's
// equivalent: the unique target neighbour of image not already used.
func resolveAtomLigands(target *molecule.Molecule, mapping []int, atom int, qLig [4]int) [4]int {
	image := mapping[atom]
	used := make([]int, 0, 4)

	var out [4]int
	for i, q := range qLig {
		if q == ligandPad {
			out[i] = uniqueOtherNeighbor(target, image, used)
		} else {
			out[i] = mapping[q]
		}
		used = append(used, out[i])
	}
	return out
}

// uniqueOtherNeighbor returns the first neighbour of center not present in
// excluded, or ligandPad if every neighbour is excluded.
func uniqueOtherNeighbor(m *molecule.Molecule, center int, excluded []int) int {
	for _, nb := range m.BondedAtomList(center) {
		skip := false
		for _, e := range excluded {
			if e == nb {
				skip = true
				break
			}
		}
		if !skip {
			return nb
		}
	}
	return ligandPad
}

// evenPermutations is the alternating group A4, encoded per spec.md §4.2
// "normalize_atom_stereo": each hex nibble is the 1-based rank of idx[i].
var evenPermutations = map[int]bool{
	0x1234: true, 0x1423: true, 0x1342: true, 0x2314: true,
	0x2431: true, 0x2143: true, 0x3124: true, 0x3412: true,
	0x3241: true, 0x4213: true, 0x4321: true, 0x4132: true,
}

// normalizeAtomStereo implements spec.md §4.2's rank-permutation parity
// flip for non-extended tetrahedral centres.
func normalizeAtomStereo(idx [4]int, parity molecule.TetrahedralStereo) molecule.TetrahedralStereo {
	order := 0
	for _, v := range idx {
		rank := 1
		for _, w := range idx {
			if w < v {
				rank++
			}
		}
		order = order<<4 | rank
	}
	if evenPermutations[order] {
		return parity
	}
	return molecule.TetrahedralStereo(^uint8(parity) & 0x03)
}

// flipBinaryParity swaps the two defined stereo states, leaving NONE and
// UNDEFINED unchanged.
func flipBinaryParity(v uint8) uint8 {
	switch v {
	case 1:
		return 2
	case 2:
		return 1
	default:
		return v
	}
}

func normalizeBondStereoRaw(idx [4]int, conf uint8) uint8 {
	if idx[0] > idx[1] {
		conf = flipBinaryParity(conf)
	}
	if idx[2] > idx[3] {
		conf = flipBinaryParity(conf)
	}
	return conf
}

// normalizeBondStereo implements spec.md §4.2's normalize_bond_stereo,
// used for both ordinary and extended (cumulene) stereo bonds.
func normalizeBondStereo(idx [4]int, conf molecule.BondStereo) molecule.BondStereo {
	return molecule.BondStereo(normalizeBondStereoRaw(idx, uint8(conf)))
}

// normalizeExtendedAtomStereo applies the same pairwise-swap rule to an
// allene centre's parity: extended tetrahedral centres are validated with
// normalize_bond_stereo rather than the rank-permutation form (spec.md
// §4.2 "For extended centres ... compare normalize_bond_stereo").
func normalizeExtendedAtomStereo(idx [4]int, parity molecule.TetrahedralStereo) molecule.TetrahedralStereo {
	return molecule.TetrahedralStereo(normalizeBondStereoRaw(idx, uint8(parity)))
}

// tetrahedralGate implements spec.md §4.2 "Undefined vs none" for atom
// parities. needCompare false means the verdict is passWithoutCompare and
// no normalize_atom_stereo call should happen.
func tetrahedralGate(mode GraphMode, qParity, tParity molecule.TetrahedralStereo) (needCompare, passWithoutCompare bool) {
	if mode == GraphExact {
		if qParity == molecule.StereoUndefined {
			return false, tParity == molecule.StereoUndefined
		}
		if tParity == molecule.StereoUndefined {
			return false, false
		}
		return true, false
	}
	if qParity == molecule.StereoUndefined {
		return false, true
	}
	if tParity == molecule.StereoNone || tParity == molecule.StereoUndefined {
		return false, true
	}
	return true, false
}

// bondStereoGate is tetrahedralGate's counterpart for bond configurations.
func bondStereoGate(mode GraphMode, qConf, tConf molecule.BondStereo) (needCompare, passWithoutCompare bool) {
	if mode == GraphExact {
		if qConf == molecule.BondStereoUndefined {
			return false, tConf == molecule.BondStereoUndefined
		}
		if tConf == molecule.BondStereoUndefined {
			return false, false
		}
		return true, false
	}
	if qConf == molecule.BondStereoUndefined {
		return false, true
	}
	if tConf == molecule.BondStereoNone || tConf == molecule.BondStereoUndefined {
		return false, true
	}
	return true, false
}
