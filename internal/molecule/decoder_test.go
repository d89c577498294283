// Package molecule_test exercises the wire-format decoder.
// coding=utf-8
// @Project : go-chem
package molecule_test

import (
	"testing"

	"github.com/cx-luo/go-chem/internal/molecule"
)

// buildBenzene encodes C6H6 as a cyclic aromatic ring: 6 carbons, 6
// hydrogens, 6 aromatic heavy bonds, no specials (spec.md §8 Scenario A).
func buildBenzene() []byte {
	data := []byte{
		0, 0, // xAtomCount
		0, 6, // cAtomCount
		0, 6, // hAtomCount
		0, 6, // xBondCount
		0, 0, // specialCount
	}
	for i := 0; i < 6; i++ {
		a := i
		b := (i + 1) % 6
		b0 := byte(a & 0xFF)
		b1 := byte(((a >> 4) & 0xF0) | ((b >> 8) & 0x0F))
		b2 := byte(b & 0xFF)
		data = append(data, b0, b1, b2, byte(molecule.BondAromatic))
	}
	for i := 0; i < 6; i++ {
		// bt must be SINGLE (not 0/NONE): a value of exactly 0 is the wire
		// format's "absent" sentinel, which would swallow carbon 0's hydrogen.
		value := (int(molecule.BondSingle) << 12) | i
		data = append(data, byte(value>>8), byte(value&0xFF))
	}
	return data
}

func TestDecodeBenzeneNonExtended(t *testing.T) {
	data := buildBenzene()

	m, err := molecule.Decode(data, molecule.DecodeOptions{})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if m.HeavyAtomCount != 6 {
		t.Errorf("HeavyAtomCount = %d, want 6", m.HeavyAtomCount)
	}
	if m.AtomCount != 6 {
		t.Errorf("AtomCount = %d, want 6 (non-extended)", m.AtomCount)
	}
	if m.HeavyBondCount != 6 {
		t.Errorf("HeavyBondCount = %d, want 6", m.HeavyBondCount)
	}
	for i := 0; i < 6; i++ {
		if m.AtomNumber[i] != molecule.ElemC {
			t.Errorf("atom %d number = %d, want carbon", i, m.AtomNumber[i])
		}
		if m.AtomHydrogens[i] != 1 {
			t.Errorf("atom %d implicit H = %d, want 1", i, m.AtomHydrogens[i])
		}
	}
	for i := 0; i < 6; i++ {
		j := (i + 1) % 6
		if m.Bond(i, j) < 0 {
			t.Errorf("expected bond between %d and %d", i, j)
		}
		if m.BondType[m.Bond(i, j)] != molecule.BondAromatic {
			t.Errorf("bond %d-%d type = %v, want aromatic", i, j, m.BondType[m.Bond(i, j)])
		}
	}
}

func TestDecodeBenzeneExtended(t *testing.T) {
	data := buildBenzene()

	m, err := molecule.Decode(data, molecule.DecodeOptions{Extended: true})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if m.AtomCount != 12 {
		t.Fatalf("AtomCount = %d, want 12 (extended)", m.AtomCount)
	}
	for i := 6; i < 12; i++ {
		if m.AtomNumber[i] != molecule.ElemH {
			t.Errorf("atom %d number = %d, want hydrogen", i, m.AtomNumber[i])
		}
		if len(m.BondedAtomList(i)) != 1 {
			t.Errorf("hydrogen atom %d has %d bonds, want 1", i, len(m.BondedAtomList(i)))
		}
	}
	if m.BondCount != 12 {
		t.Errorf("BondCount = %d, want 12 (6 heavy + 6 H)", m.BondCount)
	}
}

func TestDecodeSpecialsCharge(t *testing.T) {
	// Single carbanion: one carbon atom, no bonds, one charge special of -1.
	data := []byte{
		0, 0, // xAtomCount
		0, 1, // cAtomCount
		0, 0, // hAtomCount
		0, 0, // xBondCount
		0, 1, // specialCount
	}
	// special record: kind=CHARGE(0), idx=0 -> b0 = 0<<4|0 = 0, lo=0, payload = -1
	data = append(data, 0x00, 0x00, 0xFF) // 0xFF reads back as int8(-1)

	m, err := molecule.Decode(data, molecule.DecodeOptions{WithCharges: true})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if m.Charge == nil {
		t.Fatal("Charge table not allocated though WithCharges was set")
	}
	if m.Charge[0] != -1 {
		t.Errorf("Charge[0] = %d, want -1", m.Charge[0])
	}

	m2, err := molecule.Decode(data, molecule.DecodeOptions{WithCharges: false})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if m2.Charge != nil {
		t.Error("Charge table allocated though WithCharges was false")
	}
}

func TestDecodeTruncatedHeaderFails(t *testing.T) {
	_, err := molecule.Decode([]byte{0, 1, 2}, molecule.DecodeOptions{})
	if err == nil {
		t.Fatal("expected decode error for truncated header")
	}
}

func TestDecodeBondListOverflow(t *testing.T) {
	// 17 carbons in a star around atom 0: atom 0 gets degree 16 (ok boundary)
	// then a further bond pushes it to 17 and must fail.
	const spokes = 17
	data := []byte{
		0, 0,
		byte((spokes + 1) >> 8), byte((spokes + 1) & 0xFF),
		0, 0,
		byte(spokes >> 8), byte(spokes & 0xFF),
		0, 0,
	}
	for i := 1; i <= spokes; i++ {
		a, b := 0, i
		b0 := byte(a & 0xFF)
		b1 := byte(((a >> 4) & 0xF0) | ((b >> 8) & 0x0F))
		b2 := byte(b & 0xFF)
		data = append(data, b0, b1, b2, byte(molecule.BondSingle))
	}

	_, err := molecule.Decode(data, molecule.DecodeOptions{})
	if err == nil {
		t.Fatal("expected bonded-list overflow error for degree-17 atom")
	}
}

func TestDecodeBondListBoundaryAccepted(t *testing.T) {
	const spokes = 16
	data := []byte{
		0, 0,
		byte((spokes + 1) >> 8), byte((spokes + 1) & 0xFF),
		0, 0,
		byte(spokes >> 8), byte(spokes & 0xFF),
		0, 0,
	}
	for i := 1; i <= spokes; i++ {
		a, b := 0, i
		b0 := byte(a & 0xFF)
		b1 := byte(((a >> 4) & 0xF0) | ((b >> 8) & 0x0F))
		b2 := byte(b & 0xFF)
		data = append(data, b0, b1, b2, byte(molecule.BondSingle))
	}

	m, err := molecule.Decode(data, molecule.DecodeOptions{})
	if err != nil {
		t.Fatalf("degree-16 atom should decode successfully: %v", err)
	}
	if len(m.BondedAtomList(0)) != 16 {
		t.Errorf("atom 0 degree = %d, want 16", len(m.BondedAtomList(0)))
	}
}
