package stereo

import (
	"sort"

	"github.com/cx-luo/go-chem/internal/molecule"
)

// CanonResult is what a Canonicalizer produces for one connected component:
// a stable rank per atom (used to order emission deterministically) and,
// when tautomer mode was requested, the detected tautomer groups.
type CanonResult struct {
	Rank           map[int]int
	TautomerGroups [][]int
}

// Canonicalizer is the collaborator spec.md §4.3 treats as an opaque
// canonicalization library (Canon_INChI / GetBaseCanonRanking /
// mark_alt_bonds_and_taut_groups). Extract depends only on this interface;
// builtinCanonicalizer is the default, dependency-free implementation.
type Canonicalizer interface {
	Canonicalize(m *molecule.Molecule, component []int, opts ExtractOptions) (CanonResult, error)
}

// builtinCanonicalizer performs the deterministic ranking and tautomer-group
// detection describable purely from spec.md §4.3, without reimplementing
// the full InChI canonicalization algorithm (out of scope per spec.md §1;
// mirrors the teacher's practice of wrapping an external InChI engine
// behind a Go-facing API instead of reimplementing it — see
// src/molecule/molecule_stereocenters.go).
type builtinCanonicalizer struct{}

// DefaultCanonicalizer is used by Extract when no Canonicalizer is supplied.
var DefaultCanonicalizer Canonicalizer = builtinCanonicalizer{}

func (builtinCanonicalizer) Canonicalize(m *molecule.Molecule, component []int, opts ExtractOptions) (CanonResult, error) {
	rank := morganRank(m, component)

	var groups [][]int
	if opts.TautomerMode {
		groups = detectTautomerGroups(m, component)
	}

	return CanonResult{Rank: rank, TautomerGroups: groups}, nil
}

// morganRank assigns a stable canonical rank to every atom of the component
// via iterative neighbour-invariant refinement (the classic Morgan
// extended-connectivity scheme), standing in for Canon_INChI's base
// ranking. Stops early only when a round leaves every atom's invariant value
// unchanged; otherwise it runs component-size rounds.
func morganRank(m *molecule.Molecule, component []int) map[int]int {
	invariant := make(map[int]int, len(component))
	for _, a := range component {
		invariant[a] = initialInvariant(m, a)
	}

	for i := 0; i < len(component); i++ {
		next := make(map[int]int, len(component))
		changed := false
		for _, a := range component {
			neighborInv := make([]int, 0, len(m.BondedAtomList(a)))
			for _, nb := range m.BondedAtomList(a) {
				neighborInv = append(neighborInv, invariant[nb])
			}
			sort.Ints(neighborInv)
			next[a] = hashInvariant(invariant[a], neighborInv)
		}
		for _, a := range component {
			if next[a] != invariant[a] {
				changed = true
			}
		}
		invariant = next
		if !changed {
			break
		}
	}

	sorted := make([]int, len(component))
	copy(sorted, component)
	sort.Slice(sorted, func(i, j int) bool {
		if invariant[sorted[i]] != invariant[sorted[j]] {
			return invariant[sorted[i]] < invariant[sorted[j]]
		}
		return sorted[i] < sorted[j]
	})

	rank := make(map[int]int, len(component))
	for i, a := range sorted {
		rank[a] = i
	}
	return rank
}

func initialInvariant(m *molecule.Molecule, a int) int {
	n := int(m.AtomNumber[a])
	degree := len(m.BondedAtomList(a))
	h := int(m.AtomHydrogens[a])
	return (n+128)*1024 + degree*16 + h
}

func hashInvariant(self int, neighborInv []int) int {
	h := self
	for _, v := range neighborInv {
		h = h*1000003 + v
	}
	return h
}

// detectTautomerGroups implements a conservative stand-in for
// mark_alt_bonds_and_taut_groups: groups exocyclic heteroatoms (N, O, S)
// that share a common attachment atom, the classic keto-enol/carboxylate
// resonance pattern. Full InChI tautomer perception requires the library
// this core treats as opaque and is out of scope (spec.md §1).
//
// Each returned group has the shape (num[0], num[1], endpoint atoms...)
// spec.md §6 and original_source/jni/inchi.c's setTautomericGroup call
// require: two leading numeric group descriptors followed by endpoint
// (heteroatom) indices only — never an attachment atom in the endpoint
// list. The real InChI engine's num[0]/num[1] are opaque group-table
// fields (endpoint count and a group charge/identifier); since this
// heuristic has no such table, num[0] is the real endpoint count and
// num[1] carries the attachment atom index, which is otherwise needed by
// callers and has no other slot in the contract (see DESIGN.md Open
// Question #7).
func detectTautomerGroups(m *molecule.Molecule, component []int) [][]int {
	byAttachment := make(map[int][]int)
	for _, a := range component {
		if !isTautomerHetero(m.AtomNumber[a]) {
			continue
		}
		neighbors := m.BondedAtomList(a)
		if len(neighbors) != 1 {
			continue
		}
		attachment := neighbors[0]
		byAttachment[attachment] = append(byAttachment[attachment], a)
	}

	var groups [][]int
	attachments := make([]int, 0, len(byAttachment))
	for k := range byAttachment {
		attachments = append(attachments, k)
	}
	sort.Ints(attachments)
	for _, attachment := range attachments {
		members := byAttachment[attachment]
		if len(members) < 2 {
			continue
		}
		sort.Ints(members)
		group := append([]int{len(members), attachment}, members...)
		groups = append(groups, group)
	}
	return groups
}

func isTautomerHetero(n int8) bool {
	switch n {
	case 7, 8, 16: // N, O, S
		return true
	default:
		return false
	}
}
