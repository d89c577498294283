// Package vf2_test exercises the handle lifecycle, feasibility gates, and
// similarity scoring of the VF2 matcher.
// coding=utf-8
// @Project : go-chem
package vf2_test

import (
	"context"
	"testing"

	"github.com/cx-luo/go-chem/internal/molecule"
	"github.com/cx-luo/go-chem/internal/vf2"
)

func beByte(v int) (byte, byte) {
	return byte(v >> 8), byte(v & 0xFF)
}

func bondRecordBytes(x, y int, bt molecule.BondType) []byte {
	b0 := byte(x & 0xFF)
	b1 := byte(((x >> 4) & 0xF0) | ((y >> 8) & 0x0F))
	b2 := byte(y & 0xFF)
	return []byte{b0, b1, b2, byte(bt)}
}

func hydrogenRecordBytes(boundIdx int, bt molecule.BondType) []byte {
	value := (int(bt) << 12) | boundIdx
	hi, lo := beByte(value)
	return []byte{hi, lo}
}

// buildAromaticRing encodes an n-membered all-carbon aromatic ring, one
// implicit hydrogen per ring atom (spec.md §8 Scenario A/B).
func buildAromaticRing(n int) []byte {
	xAtomCount, hAtomCount, xBondCount := 0, n, n
	h0, h1 := beByte(xAtomCount)
	c0, c1 := beByte(n)
	hh0, hh1 := beByte(hAtomCount)
	b0, b1 := beByte(xBondCount)
	s0, s1 := beByte(0)
	data := []byte{h0, h1, c0, c1, hh0, hh1, b0, b1, s0, s1}

	for i := 0; i < n; i++ {
		data = append(data, bondRecordBytes(i, (i+1)%n, molecule.BondAromatic)...)
	}
	for i := 0; i < n; i++ {
		data = append(data, hydrogenRecordBytes(i, molecule.BondSingle)...)
	}
	return data
}

// buildRingPlusFreeCarbon encodes the same 6-membered aromatic ring as
// buildAromaticRing(6) (atoms 0..5, one implicit H each) plus a disconnected
// saturated carbon (atom 6, four implicit H). A separate, unbonded atom
// exercises substructure matching against a strictly larger target without
// the query's per-atom hydrogen requirement ever needing to be relaxed
// (spec.md §4.2 "Hydrogen count" is a hard per-atom gate: a ring position
// whose hydrogen was replaced by a substituent cannot satisfy it, so this
// fixture keeps the ring atoms hydrogen-identical to the query instead).
func buildRingPlusFreeCarbon() []byte {
	const ringSize = 6
	cAtomCount := ringSize + 1
	xBondCount := ringSize
	hAtomCount := ringSize + 4

	h0, h1 := beByte(0)
	c0, c1 := beByte(cAtomCount)
	hh0, hh1 := beByte(hAtomCount)
	b0, b1 := beByte(xBondCount)
	s0, s1 := beByte(0)
	data := []byte{h0, h1, c0, c1, hh0, hh1, b0, b1, s0, s1}

	for i := 0; i < ringSize; i++ {
		data = append(data, bondRecordBytes(i, (i+1)%ringSize, molecule.BondAromatic)...)
	}

	for i := 0; i < ringSize; i++ {
		data = append(data, hydrogenRecordBytes(i, molecule.BondSingle)...)
	}
	for i := 0; i < 4; i++ {
		data = append(data, hydrogenRecordBytes(ringSize, molecule.BondSingle)...)
	}
	return data
}

func mustHandle(t *testing.T, query []byte, opts vf2.HandleOptions) *vf2.Handle {
	t.Helper()
	h, err := vf2.NewHandle(query, nil, opts)
	if err != nil {
		t.Fatalf("NewHandle failed: %v", err)
	}
	return h
}

func TestMatchReflexiveExact(t *testing.T) {
	benzene := buildAromaticRing(6)
	h := mustHandle(t, benzene, vf2.HandleOptions{GraphMode: vf2.GraphExact})

	res, err := h.Match(context.Background(), benzene, 0)
	if err != nil {
		t.Fatalf("benzene should exactly match itself: %v", err)
	}
	if res.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0 for exact self-match", res.Score)
	}
	if len(res.AtomMapping) != 6 {
		t.Fatalf("AtomMapping length = %d, want 6", len(res.AtomMapping))
	}
}

func TestMatchSubstructureRingInLargerTarget(t *testing.T) {
	benzene := buildAromaticRing(6)
	target := buildRingPlusFreeCarbon()

	h := mustHandle(t, benzene, vf2.HandleOptions{GraphMode: vf2.GraphSubstructure})
	res, err := h.Match(context.Background(), target, 0)
	if err != nil {
		t.Fatalf("benzene should be a substructure of the larger target: %v", err)
	}

	// heavy atoms 6/7, heavy bonds 6/6, hydrogen atoms 6/10, hydrogen bonds 6/10.
	want := (8*(6.0/7.0) + 4*(6.0/6.0) + 2*(6.0/10.0) + 6.0/10.0) / 15
	if diff := res.Score - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Score = %v, want %v", res.Score, want)
	}
}

func TestMatchExactRejectsSuperset(t *testing.T) {
	benzene := buildAromaticRing(6)
	target := buildRingPlusFreeCarbon()

	h := mustHandle(t, benzene, vf2.HandleOptions{GraphMode: vf2.GraphExact})
	_, err := h.Match(context.Background(), target, 0)
	if err == nil {
		t.Fatal("exact mode should reject a proper superset")
	}
}

func TestMatchNoMatchWhenQueryLargerThanTarget(t *testing.T) {
	bigger := buildRingPlusFreeCarbon()
	benzene := buildAromaticRing(6)

	h := mustHandle(t, bigger, vf2.HandleOptions{GraphMode: vf2.GraphSubstructure})
	_, err := h.Match(context.Background(), benzene, 0)
	if err == nil {
		t.Fatal("the larger molecule should not be found as a substructure of plain benzene")
	}
}

func TestMatchIterationLimitExceeded(t *testing.T) {
	benzene := buildAromaticRing(6)
	target := buildRingPlusFreeCarbon()

	h := mustHandle(t, benzene, vf2.HandleOptions{GraphMode: vf2.GraphSubstructure})
	_, err := h.Match(context.Background(), target, 1)
	if err != vf2.ErrLimitExceeded {
		t.Fatalf("Match with iterationLimit=1 = %v, want ErrLimitExceeded", err)
	}
}

func TestMatchDeterministic(t *testing.T) {
	benzene := buildAromaticRing(6)
	target := buildRingPlusFreeCarbon()

	h := mustHandle(t, benzene, vf2.HandleOptions{GraphMode: vf2.GraphSubstructure})
	r1, err := h.Match(context.Background(), target, 0)
	if err != nil {
		t.Fatalf("first match failed: %v", err)
	}
	r2, err := h.Match(context.Background(), target, 0)
	if err != nil {
		t.Fatalf("second match failed: %v", err)
	}
	for i := range r1.AtomMapping {
		if r1.AtomMapping[i] != r2.AtomMapping[i] {
			t.Fatalf("mapping not deterministic: %v vs %v", r1.AtomMapping, r2.AtomMapping)
		}
	}
}

func TestHandleCloneIndependence(t *testing.T) {
	benzene := buildAromaticRing(6)
	h := mustHandle(t, benzene, vf2.HandleOptions{GraphMode: vf2.GraphExact})

	clone, err := h.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	if clone.Query().AtomCount != h.Query().AtomCount {
		t.Errorf("clone atom count = %d, want %d", clone.Query().AtomCount, h.Query().AtomCount)
	}

	if _, err := clone.Match(context.Background(), benzene, 0); err != nil {
		t.Errorf("clone should match independently: %v", err)
	}
}
