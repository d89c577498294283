package molecule

// DecodeOptions are the filtering switches passed to Decode (spec.md §4.1,
// §6). When a switch is off, the corresponding attribute array is omitted
// entirely from the resulting Molecule.
type DecodeOptions struct {
	Extended               bool
	WithCharges            bool
	WithIsotopes           bool
	WithStereo             bool
	WithRGroups            bool
	IgnoreChargedHydrogens bool
	IgnoreHydrogenIsotopes bool
}

const headerSize = 10

// header mirrors the 10-byte big-endian wire header of spec.md §4.1.
type header struct {
	xAtomCount   int
	cAtomCount   int
	hAtomCount   int
	xBondCount   int
	specialCount int
}

func readBE16(data []byte, off int) int {
	return int(data[off])<<8 | int(data[off+1])
}

func parseHeader(data []byte) (header, error) {
	if len(data) < headerSize {
		return header{}, decodeErrorf("truncated header: need %d bytes, have %d", headerSize, len(data))
	}
	return header{
		xAtomCount:   readBE16(data, 0),
		cAtomCount:   readBE16(data, 2),
		hAtomCount:   readBE16(data, 4),
		xBondCount:   readBE16(data, 6),
		specialCount: readBE16(data, 8),
	}, nil
}

// heavyBondRecord is one decoded 4-byte bond record, before 12-bit range
// validation and before dropping bonds whose endpoint is outside atomCount.
type heavyBondRecord struct {
	x, y int
	bt   BondType
}

func parseHeavyBonds(data []byte, off, count int) ([]heavyBondRecord, int, error) {
	records := make([]heavyBondRecord, 0, count)
	for i := 0; i < count; i++ {
		base := off + i*4
		if base+4 > len(data) {
			return nil, off, decodeErrorf("truncated heavy bond record %d", i)
		}
		b0, b1, b2, bt := data[base], data[base+1], data[base+2], data[base+3]
		x := int(b0) | ((int(b1) << 4) & 0xF00)
		y := int(b2) | ((int(b1) << 8) & 0xF00)
		if x > MaxAtomIdx || y > MaxAtomIdx {
			return nil, off, decodeErrorf("bond record %d: atom index exceeds 12-bit limit", i)
		}
		records = append(records, heavyBondRecord{x: x, y: y, bt: BondType(bt)})
	}
	return records, off + count*4, nil
}

// hydrogenRecord is one decoded 2-byte hydrogen record.
type hydrogenRecord struct {
	present  bool
	boundIdx int
	bt       BondType
}

func parseHydrogenRecords(data []byte, off, count int) ([]hydrogenRecord, int, error) {
	records := make([]hydrogenRecord, 0, count)
	for i := 0; i < count; i++ {
		base := off + i*2
		if base+2 > len(data) {
			return nil, off, decodeErrorf("truncated hydrogen record %d", i)
		}
		value := int(data[base])<<8 | int(data[base+1])
		if value == 0 {
			records = append(records, hydrogenRecord{present: false})
			continue
		}
		boundIdx := value & 0xFFF
		bt := BondType((value >> 12) & 0xF)
		records = append(records, hydrogenRecord{present: true, boundIdx: boundIdx, bt: bt})
	}
	return records, off + count*2, nil
}

// specialRecord is one decoded 3-byte special attribute record.
type specialRecord struct {
	kind    specialRecordKind
	idx     int
	payload byte
}

func parseSpecials(data []byte, off, count int) ([]specialRecord, int, error) {
	records := make([]specialRecord, 0, count)
	for i := 0; i < count; i++ {
		base := off + i*3
		if base+3 > len(data) {
			return nil, off, decodeErrorf("truncated special record %d", i)
		}
		b0, lo, payload := data[base], data[base+1], data[base+2]
		kind := specialRecordKind(b0 >> 4)
		hi := b0 & 0x0F
		idx := (int(hi)<<8 | int(lo)) & 0xFFF
		records = append(records, specialRecord{kind: kind, idx: idx, payload: payload})
	}
	return records, off + count*3, nil
}

// Decode parses the compact wire format of spec.md §4.1 into a Molecule.
func Decode(data []byte, opts DecodeOptions) (*Molecule, error) {
	hdr, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	heavyAtomCount := hdr.xAtomCount + hdr.cAtomCount
	atomCount := heavyAtomCount
	if opts.Extended {
		atomCount += hdr.hAtomCount
	}

	off := headerSize
	if off+hdr.xAtomCount > len(data) {
		return nil, decodeErrorf("truncated non-carbon atom table")
	}
	nonCarbonNumbers := data[off : off+hdr.xAtomCount]
	off += hdr.xAtomCount

	bondRecords, off2, err := parseHeavyBonds(data, off, hdr.xBondCount)
	if err != nil {
		return nil, err
	}
	off = off2

	hydrogenRecords, off3, err := parseHydrogenRecords(data, off, hdr.hAtomCount)
	if err != nil {
		return nil, err
	}
	off = off3

	specials, _, err := parseSpecials(data, off, hdr.specialCount)
	if err != nil {
		return nil, err
	}

	m := newMolecule(atomCount)
	m.HeavyAtomCount = heavyAtomCount
	// hydrogenAtomCount is header metadata about the molecule's total
	// hydrogen population, independent of whether those hydrogens got
	// their own atom-array slots (spec.md §3.1, §4.2 similarity score).
	m.HydrogenAtomCount = hdr.hAtomCount
	m.Extended = opts.Extended

	for i := 0; i < hdr.xAtomCount; i++ {
		m.AtomNumber[i] = int8(nonCarbonNumbers[i])
		if m.IsPseudoAtom(i) {
			m.HasPseudoAtom = true
		}
	}
	for i := 0; i < hdr.cAtomCount; i++ {
		m.AtomNumber[hdr.xAtomCount+i] = ElemC
	}
	if opts.Extended {
		for i := 0; i < hdr.hAtomCount; i++ {
			m.AtomNumber[heavyAtomCount+i] = ElemH
		}
	}

	if opts.WithCharges {
		m.Charge = make([]int8, atomCount)
	}
	if opts.WithIsotopes {
		m.Mass = make([]int8, atomCount)
	}
	if opts.WithStereo {
		m.Stereo = make([]TetrahedralStereo, atomCount)
		m.BondStereo = nil // allocated alongside BondType once bond count is known
	}

	// Heavy-heavy bonds: drop any whose endpoint lies outside atomCount
	// (spec.md §4.1) -- this is how the non-extended form represents
	// hydrogens that are implicit rather than materialized.
	droppedHeavyBonds := 0
	for _, rec := range bondRecords {
		if rec.x >= atomCount || rec.y >= atomCount {
			droppedHeavyBonds++
			continue
		}
		if m.appendBond(rec.x, rec.y, rec.bt) < 0 {
			return nil, decodeErrorf("atom bonded-list overflow (>%d neighbours) while adding heavy bond %d-%d", BondListBaseSize, rec.x, rec.y)
		}
	}
	m.HeavyBondCount = hdr.xBondCount - droppedHeavyBonds

	// Preliminary scan for ignoreChargedHydrogens / ignoreHydrogenIsotopes:
	// mark which hydrogen records correspond to a hydrogen atom flagged as
	// charged/isotopic in the specials table, BEFORE the hydrogen pass
	// below folds counts into atomHydrogens. Mandatory two-pass per
	// spec.md §9.
	droppedFromHCount := make(map[int]bool)
	if !opts.Extended && (opts.IgnoreChargedHydrogens || opts.IgnoreHydrogenIsotopes) {
		for _, sp := range specials {
			if opts.IgnoreChargedHydrogens && sp.kind == recordCharge && sp.idx >= heavyAtomCount {
				droppedFromHCount[sp.idx] = true
			}
			if opts.IgnoreHydrogenIsotopes && sp.kind == recordIsotope && sp.idx >= heavyAtomCount {
				droppedFromHCount[sp.idx] = true
			}
		}
	}

	if opts.Extended {
		for i, rec := range hydrogenRecords {
			hIdx := heavyAtomCount + i
			if !rec.present || rec.boundIdx >= heavyAtomCount {
				// A multivalent or dangling hydrogen: no single bound
				// atom to attach to directly; left unbonded here, the
				// isExtendedSearchNeeded/feasibility layers treat this
				// as the multivalent-hydrogen case of spec.md §4.1(b)-(d).
				continue
			}
			bondIdx := m.appendBond(hIdx, rec.boundIdx, rec.bt)
			if bondIdx < 0 {
				return nil, decodeErrorf("atom bonded-list overflow while attaching hydrogen %d to atom %d", hIdx, rec.boundIdx)
			}
		}
		m.HydrogenBondCount = len(m.BondBeg) - m.HeavyBondCount
		m.BondCount = len(m.BondBeg)
	} else {
		foldedH := 0
		for i, rec := range hydrogenRecords {
			hIdx := heavyAtomCount + i
			if !rec.present {
				continue
			}
			if droppedFromHCount[hIdx] {
				continue
			}
			if rec.boundIdx < heavyAtomCount {
				m.AtomHydrogens[rec.boundIdx]++
				foldedH++
			}
		}
		m.HydrogenBondCount = foldedH
		m.BondCount = m.HeavyBondCount
	}

	if opts.WithStereo {
		m.BondStereo = make([]BondStereo, len(m.BondType))
	}

	for _, sp := range specials {
		if sp.idx >= atomCount && sp.kind != recordBondStereo {
			continue
		}
		switch sp.kind {
		case recordCharge:
			if opts.WithCharges && sp.idx < atomCount {
				m.Charge[sp.idx] = int8(sp.payload)
			}
		case recordIsotope:
			if opts.WithIsotopes && sp.idx < atomCount {
				m.Mass[sp.idx] = int8(sp.payload)
			}
		case recordTetrahedralStereo:
			if opts.WithStereo && sp.idx < atomCount {
				m.Stereo[sp.idx] = TetrahedralStereo(sp.payload)
			}
		case recordBondStereo:
			if opts.WithStereo && sp.idx < len(m.BondStereo) {
				m.BondStereo[sp.idx] = BondStereo(sp.payload)
			}
		}
	}

	return m, nil
}

// IsExtendedSearchNeeded implements the §4.1 predicate over the raw wire
// bytes and decode switches, without requiring a full extended decode.
func IsExtendedSearchNeeded(data []byte, opts DecodeOptions) (bool, error) {
	hdr, err := parseHeader(data)
	if err != nil {
		return false, err
	}
	heavyAtomCount := hdr.xAtomCount + hdr.cAtomCount

	off := headerSize
	if off+hdr.xAtomCount > len(data) {
		return false, decodeErrorf("truncated non-carbon atom table")
	}
	nonCarbonNumbers := data[off : off+hdr.xAtomCount]
	off += hdr.xAtomCount

	if opts.WithRGroups {
		for _, b := range nonCarbonNumbers {
			if int8(b) < 0 {
				return true, nil
			}
		}
	}

	bondRecords, off2, err := parseHeavyBonds(data, off, hdr.xBondCount)
	if err != nil {
		return false, err
	}
	off = off2
	for _, rec := range bondRecords {
		// (b) any heavy-bond endpoint references a hydrogen index.
		if rec.x >= heavyAtomCount || rec.y >= heavyAtomCount {
			return true, nil
		}
	}

	hydrogenRecords, off3, err := parseHydrogenRecords(data, off, hdr.hAtomCount)
	if err != nil {
		return false, err
	}
	off = off3

	// (c)/(d): materialize each hydrogen's total bond count from its own
	// record plus any heavy-bond record that targets its extended-space
	// index, and require exactly one.
	extraBonds := make(map[int]int, hdr.hAtomCount)
	for _, rec := range bondRecords {
		if rec.x >= heavyAtomCount {
			extraBonds[rec.x]++
		}
		if rec.y >= heavyAtomCount {
			extraBonds[rec.y]++
		}
	}
	for i, rec := range hydrogenRecords {
		hIdx := heavyAtomCount + i
		total := extraBonds[hIdx]
		if rec.present && rec.boundIdx < heavyAtomCount {
			total++
		}
		if total != 1 {
			return true, nil
		}
	}

	specials, _, err := parseSpecials(data, off, hdr.specialCount)
	if err != nil {
		return false, err
	}
	for _, sp := range specials {
		if opts.WithCharges && sp.kind == recordCharge && sp.idx >= heavyAtomCount {
			return true, nil
		}
		if opts.WithIsotopes && sp.kind == recordIsotope && sp.idx >= heavyAtomCount {
			return true, nil
		}
	}

	return false, nil
}
