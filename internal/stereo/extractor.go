package stereo

import (
	"context"
	"sort"

	"github.com/cx-luo/go-chem/internal/molecule"
)

// Extract implements spec.md §4.3: decode targetBytes in extended form,
// split into connected components, canonicalize each, and emit stereo
// atoms, stereo bonds, alternating bonds, and tautomer groups through
// sinks. A per-component canonicalization failure aborts the whole call.
func Extract(ctx context.Context, targetBytes []byte, opts ExtractOptions, sinks Sinks) error {
	return ExtractWith(ctx, targetBytes, opts, sinks, DefaultCanonicalizer)
}

// ExtractWith is Extract with an explicit Canonicalizer, for callers (and
// tests) that want to substitute the canonicalization collaborator.
func ExtractWith(ctx context.Context, targetBytes []byte, opts ExtractOptions, sinks Sinks, canon Canonicalizer) error {
	m, err := molecule.Decode(targetBytes, molecule.DecodeOptions{
		Extended:     true,
		WithCharges:  opts.WithCharges,
		WithIsotopes: opts.WithIsotopes,
		WithStereo:   true,
	})
	if err != nil {
		return err
	}

	for _, component := range connectedComponents(m) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		heavy := dropTerminalHydrogens(m, component)

		result, err := canon.Canonicalize(m, heavy, opts)
		if err != nil {
			return err
		}

		emitStereoAtoms(m, heavy, result, sinks)
		emitStereoBonds(m, heavy, sinks)

		if opts.TautomerMode {
			emitAlternatingBonds(m, heavy, sinks)
			for _, group := range result.TautomerGroups {
				if sinks.SetTautomericGroup != nil {
					sinks.SetTautomericGroup(group)
				}
			}
		}
	}

	return nil
}

// connectedComponents returns each connected component of m as a sorted
// slice of atom indices.
func connectedComponents(m *molecule.Molecule) [][]int {
	seen := make([]bool, m.AtomCount)
	var components [][]int

	for start := 0; start < m.AtomCount; start++ {
		if seen[start] {
			continue
		}
		stack := []int{start}
		seen[start] = true
		var comp []int
		for len(stack) > 0 {
			a := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, a)
			for _, nb := range m.BondedAtomList(a) {
				if !seen[nb] {
					seen[nb] = true
					stack = append(stack, nb)
				}
			}
		}
		sort.Ints(comp)
		components = append(components, comp)
	}
	return components
}

// dropTerminalHydrogens implements spec.md §4.3 step 1: remove terminal
// explicit H/D/T atoms from the working set before canonical ranking
// (their isotope information, if any, is carried on the atom's own Mass
// field and is not separately counted here since it stays addressable via
// m.Mass for any caller that needs it).
func dropTerminalHydrogens(m *molecule.Molecule, component []int) []int {
	heavy := make([]int, 0, len(component))
	for _, a := range component {
		if m.AtomNumber[a] == molecule.ElemH && len(m.BondedAtomList(a)) == 1 {
			continue
		}
		heavy = append(heavy, a)
	}
	return heavy
}

// emitStereoAtoms implements spec.md §4.3 step 6 "Stereo atoms": every
// component atom whose tetrahedral parity is not NONE (UNDEFINED included),
// ordered by canonical rank.
func emitStereoAtoms(m *molecule.Molecule, heavy []int, result CanonResult, sinks Sinks) {
	if sinks.SetStereoAtoms == nil || m.Stereo == nil {
		return
	}
	ordered := make([]int, len(heavy))
	copy(ordered, heavy)
	sort.Slice(ordered, func(i, j int) bool { return result.Rank[ordered[i]] < result.Rank[ordered[j]] })

	var entries []int
	for _, a := range ordered {
		if m.Stereo[a] == molecule.StereoNone {
			continue
		}
		entries = append(entries, a, int(m.Stereo[a]))
	}
	if len(entries) > 0 {
		sinks.SetStereoAtoms(entries)
	}
}

// emitStereoBonds implements spec.md §4.3 step 6 "Stereo bonds": every
// bond in the component whose configuration is not NONE (UNDEFINED
// included). Cumulated
// (cumulene) chains re-emit per the odd/even rule, walking the chain the
// way internal/vf2/stereo.go does for matching; unlike the matcher this
// operates on a single molecule, with no query/target mapping involved.
func emitStereoBonds(m *molecule.Molecule, heavy []int, sinks Sinks) {
	if sinks.SetStereoBonds == nil || m.BondStereo == nil {
		return
	}
	inComponent := make(map[int]bool, len(heavy))
	for _, a := range heavy {
		inComponent[a] = true
	}

	var entries []int
	seenBond := make(map[int]bool)
	for b, conf := range m.BondStereo {
		if conf == molecule.BondStereoNone {
			continue
		}
		if seenBond[b] {
			continue
		}
		beg, end := m.BondBeg[b], m.BondEnd[b]
		if !inComponent[beg] || !inComponent[end] {
			continue
		}
		seenBond[b] = true

		begWalk := walkCumulene(m, end, beg)
		endWalk := walkCumulene(m, beg, end)
		chainLength := begWalk.steps + endWalk.steps + 1

		if chainLength == 1 {
			entries = append(entries, beg, end, int(conf))
			continue
		}

		negated := flipParityValue(int(conf))
		if chainLength%2 == 1 {
			// Odd cumulated chain: re-emit as a stereo atom at the
			// shorter-walked terminus (best-effort terminus choice; full
			// InChI-faithful midpoint selection is out of scope).
			terminus := begWalk.terminus
			if endWalk.steps < begWalk.steps {
				terminus = endWalk.terminus
			}
			if sinks.SetStereoAtoms != nil {
				sinks.SetStereoAtoms([]int{terminus, negated})
			}
		} else {
			entries = append(entries, begWalk.terminus, endWalk.terminus, negated)
		}
	}
	if len(entries) > 0 {
		sinks.SetStereoBonds(entries)
	}
}

// emitAlternatingBonds implements spec.md §4.3 step 6 "Alternating bonds"
// (tautomer mode only). The wire format's bond-type vocabulary has no
// dedicated BOND_TAUTOM/BOND_ALT12NS markers (those are internal to the
// canonicalization library); aromatic bonds are this core's nearest
// equivalent to "alternating" and are emitted instead.
func emitAlternatingBonds(m *molecule.Molecule, heavy []int, sinks Sinks) {
	if sinks.SetAlternatingBonds == nil {
		return
	}
	inComponent := make(map[int]bool, len(heavy))
	for _, a := range heavy {
		inComponent[a] = true
	}

	var entries []int
	for b, bt := range m.BondType {
		if bt != molecule.BondAromatic {
			continue
		}
		beg, end := m.BondBeg[b], m.BondEnd[b]
		if !inComponent[beg] || !inComponent[end] {
			continue
		}
		entries = append(entries, beg, end)
	}
	if len(entries) > 0 {
		sinks.SetAlternatingBonds(entries)
	}
}

type cumuleneWalk struct {
	terminus int
	steps    int
}

// walkCumulene walks a chain of degree-2, double-bonded atoms starting at
// cur (having arrived from prev) until a non-degree-2 terminus is reached,
// counting the number of bonds stepped across.
func walkCumulene(m *molecule.Molecule, prev, cur int) cumuleneWalk {
	steps := 0
	for {
		neighbors := m.BondedAtomList(cur)
		if len(neighbors) != 2 {
			break
		}
		next := -1
		for _, nb := range neighbors {
			if nb != prev {
				next = nb
			}
		}
		if next == -1 {
			break
		}
		bond := m.Bond(cur, next)
		if bond < 0 || m.BondType[bond] != molecule.BondDouble {
			break
		}
		prev, cur = cur, next
		steps++
	}
	return cumuleneWalk{terminus: cur, steps: steps}
}

func flipParityValue(v int) int {
	switch v {
	case 1:
		return 2
	case 2:
		return 1
	default:
		return v
	}
}
