package molecule

// Extend returns an extended copy of a non-extended Molecule: every implicit
// hydrogen recorded in AtomHydrogens is materialized as an explicit atom,
// attached to its heavy atom by a single bond (spec.md §4.1 "extend
// operation"). The source Molecule is left unmodified.
func Extend(m *Molecule) (*Molecule, error) {
	if m.Extended {
		return m, nil
	}

	totalH := 0
	for i := 0; i < m.HeavyAtomCount; i++ {
		totalH += int(m.AtomHydrogens[i])
	}

	out := newMolecule(m.AtomCount + totalH)
	out.HeavyAtomCount = m.HeavyAtomCount
	out.HydrogenAtomCount = totalH
	out.Extended = true
	out.HasPseudoAtom = m.HasPseudoAtom
	out.HeavyBondCount = m.HeavyBondCount

	copy(out.AtomNumber, m.AtomNumber)
	for i := m.HeavyAtomCount; i < out.AtomCount; i++ {
		out.AtomNumber[i] = ElemH
	}

	if m.Charge != nil {
		out.Charge = make([]int8, out.AtomCount)
		copy(out.Charge, m.Charge)
	}
	if m.Mass != nil {
		out.Mass = make([]int8, out.AtomCount)
		copy(out.Mass, m.Mass)
	}
	if m.Stereo != nil {
		out.Stereo = make([]TetrahedralStereo, out.AtomCount)
		copy(out.Stereo, m.Stereo)
	}
	if m.RestH != nil {
		out.RestH = make([]bool, out.AtomCount)
		copy(out.RestH, m.RestH)
	}

	for i, bt := range m.BondType {
		if out.appendBond(m.BondBeg[i], m.BondEnd[i], bt) < 0 {
			return nil, decodeErrorf("atom bonded-list overflow while copying heavy bond %d-%d during extend", m.BondBeg[i], m.BondEnd[i])
		}
	}
	if m.BondStereo != nil {
		out.BondStereo = make([]BondStereo, len(m.BondStereo))
		copy(out.BondStereo, m.BondStereo)
	}

	nextH := m.HeavyAtomCount
	for a := 0; a < m.HeavyAtomCount; a++ {
		for k := 0; k < int(m.AtomHydrogens[a]); k++ {
			hIdx := nextH
			nextH++
			if out.appendBond(a, hIdx, BondSingle) < 0 {
				return nil, decodeErrorf("atom bonded-list overflow while attaching materialized hydrogen to atom %d", a)
			}
		}
		out.AtomHydrogens[a] = 0
	}

	out.HydrogenBondCount = len(out.BondBeg) - out.HeavyBondCount
	out.BondCount = len(out.BondBeg)

	return out, nil
}
