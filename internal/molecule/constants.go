// Package molecule decodes the compact wire-format molecule graph and
// exposes the adjacency/bond-matrix/property tables the matcher and the
// stereo extractor build on.
// coding=utf-8
// @Project : go-chem
package molecule

// Special, negative atomic-number sentinels for pseudo-atoms (spec.md §3.1).
// The values mirror the original C source's `-'?'`/`-'R'`/`-'Q'`/`-'M'`/`-'X'`
// encoding so the wire format's non-carbon atom-number bytes decode unchanged.
const (
	AtomUnknown = -'?'
	AtomRGroup  = -'R'
	AtomAnyHetero = -'Q'
	AtomAnyMetal  = -'M'
	AtomAnyHalogen = -'X'

	ElemH = 1
	ElemC = 6
)

// BondType enumerates bond orders and the relaxed query bond types.
type BondType uint8

const (
	BondNone     BondType = 0
	BondSingle   BondType = 1
	BondDouble   BondType = 2
	BondTriple   BondType = 3
	BondQuadruple BondType = 4
	BondQuintuple BondType = 5
	BondSextuple  BondType = 6

	BondAromatic          BondType = 11
	BondSingleOrDouble    BondType = 12
	BondSingleOrAromatic  BondType = 13
	BondDoubleOrAromatic  BondType = 14
	BondAny               BondType = 15
)

// TetrahedralStereo is the per-atom chirality parity.
type TetrahedralStereo uint8

const (
	StereoNone          TetrahedralStereo = 0
	StereoClockwise     TetrahedralStereo = 1
	StereoAntiClockwise TetrahedralStereo = 2
	StereoUndefined     TetrahedralStereo = 3
)

// BondStereo is the cis/trans configuration of a double bond.
type BondStereo uint8

const (
	BondStereoNone      BondStereo = 0
	BondStereoOpposite  BondStereo = 1
	BondStereoTogether  BondStereo = 2
	BondStereoUndefined BondStereo = 3
)

// specialRecordKind is the tag on a §4.1 "special" wire record.
type specialRecordKind uint8

const (
	recordCharge            specialRecordKind = 0
	recordIsotope            specialRecordKind = 1
	recordTetrahedralStereo specialRecordKind = 2
	recordBondStereo        specialRecordKind = 3
)

// BondListBaseSize is the maximum degree a decoded atom may have
// (spec.md §3.1, §6): exceeding it is a decode failure.
const BondListBaseSize = 16

// MaxAtomIdx is the 12-bit atom index ceiling the wire format allows.
const MaxAtomIdx = 0xFFF

// UndefinedIdx marks an absent index. It is not the stereo ligand padding
// sentinel: that is internal/vf2's ligandPad (MaxAtomIdx+1), which sorts last.
const UndefinedIdx = -1

// MinDotProduct is the cutoff below which a stereo-bond z-product is treated
// as too close to planar to carry a reliable parity (spec.md §6, §9); it is
// a property of the canonicalization library this core treats as opaque, so
// the constant is kept here for callers that need to reproduce its cutoff.
const MinDotProduct = 0.3
