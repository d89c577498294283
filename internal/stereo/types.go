package stereo

// ExtractOptions selects which optional passes Extract performs (spec.md
// §4.3 steps 2-5).
type ExtractOptions struct {
	TautomerMode bool
	WithCharges  bool
	WithIsotopes bool
}

// Sinks are the four emission callbacks of spec.md §6, each receiving its
// flattened signed-16-bit-style record stream as plain ints (Go callers do
// not need the original's fixed-width encoding).
type Sinks struct {
	SetStereoAtoms      func(entries []int)
	SetStereoBonds      func(entries []int)
	SetAlternatingBonds func(entries []int)
	SetTautomericGroup  func(entries []int)
}
