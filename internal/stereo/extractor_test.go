// Package stereo_test exercises component splitting and stereo/tautomer
// emission. The cumulene odd/even re-emission rule has no test here.
// coding=utf-8
// @Project : go-chem
package stereo_test

import (
	"context"
	"testing"

	"github.com/cx-luo/go-chem/internal/stereo"
)

func beByte(v int) (byte, byte) {
	return byte(v >> 8), byte(v & 0xFF)
}

func header(xAtomCount, cAtomCount, hAtomCount, xBondCount, specialCount int) []byte {
	h0, h1 := beByte(xAtomCount)
	c0, c1 := beByte(cAtomCount)
	hh0, hh1 := beByte(hAtomCount)
	b0, b1 := beByte(xBondCount)
	s0, s1 := beByte(specialCount)
	return []byte{h0, h1, c0, c1, hh0, hh1, b0, b1, s0, s1}
}

func bondRecordBytes(x, y, bt int) []byte {
	b0 := byte(x & 0xFF)
	b1 := byte(((x >> 4) & 0xF0) | ((y >> 8) & 0x0F))
	b2 := byte(y & 0xFF)
	return []byte{b0, b1, b2, byte(bt)}
}

func tetrahedralSpecialBytes(idx, payload int) []byte {
	const kindTetrahedral = 2
	b0 := byte(kindTetrahedral<<4 | ((idx >> 8) & 0x0F))
	lo := byte(idx & 0xFF)
	return []byte{b0, lo, byte(payload)}
}

func bondStereoSpecialBytes(idx, payload int) []byte {
	const kindBondStereo = 3
	b0 := byte(kindBondStereo<<4 | ((idx >> 8) & 0x0F))
	lo := byte(idx & 0xFF)
	return []byte{b0, lo, byte(payload)}
}

func TestExtractStereoAtomSingleComponent(t *testing.T) {
	data := header(0, 1, 0, 0, 1)
	data = append(data, tetrahedralSpecialBytes(0, 1)...) // clockwise

	var got []int
	err := stereo.Extract(context.Background(), data, stereo.ExtractOptions{}, stereo.Sinks{
		SetStereoAtoms: func(entries []int) { got = append(got, entries...) },
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("stereo atoms = %v, want [0 1]", got)
	}
}

func TestExtractStereoBondDirect(t *testing.T) {
	data := header(0, 2, 0, 1, 1)
	data = append(data, bondRecordBytes(0, 1, 2)...) // double bond
	data = append(data, bondStereoSpecialBytes(0, 1)...)

	var got []int
	err := stereo.Extract(context.Background(), data, stereo.ExtractOptions{}, stereo.Sinks{
		SetStereoBonds: func(entries []int) { got = append(got, entries...) },
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 1 {
		t.Fatalf("stereo bonds = %v, want [0 1 1]", got)
	}
}

func TestExtractTwoDisconnectedComponents(t *testing.T) {
	data := header(0, 2, 0, 0, 2)
	data = append(data, tetrahedralSpecialBytes(0, 1)...)
	data = append(data, tetrahedralSpecialBytes(1, 2)...)

	var calls [][]int
	err := stereo.Extract(context.Background(), data, stereo.ExtractOptions{}, stereo.Sinks{
		SetStereoAtoms: func(entries []int) {
			cp := make([]int, len(entries))
			copy(cp, entries)
			calls = append(calls, cp)
		},
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected one SetStereoAtoms call per component, got %d calls: %v", len(calls), calls)
	}
}

func TestExtractTautomerGroup(t *testing.T) {
	// atoms 0,1 = O (non-carbon, listed first), atom 2 = C bonded to both.
	data := header(2, 1, 0, 2, 0)
	data = append(data, byte(8), byte(8)) // two oxygens, non-carbon heavies
	data = append(data, bondRecordBytes(2, 0, 1)...)
	data = append(data, bondRecordBytes(2, 1, 1)...)

	var group []int
	err := stereo.Extract(context.Background(), data, stereo.ExtractOptions{TautomerMode: true}, stereo.Sinks{
		SetTautomericGroup: func(entries []int) { group = entries },
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	// (num[0], num[1], endpoint atoms...): num[0] is the endpoint count,
	// num[1] the attachment atom, followed by the heteroatom endpoints
	// themselves (spec.md §6) — never the attachment atom as an endpoint.
	if len(group) != 4 || group[0] != 2 || group[1] != 2 || group[2] != 0 || group[3] != 1 {
		t.Fatalf("tautomer group = %v, want [2 2 0 1] (count, attachment, endpoints...)", group)
	}
}
