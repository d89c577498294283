package vf2

import "github.com/cx-luo/go-chem/internal/molecule"

// similarityScore implements spec.md §4.2 "Similarity score": a weighted
// blend of the four count ratios, each query/target, treated as 1.0 when
// the target count is 0. The /15 normalisation is the canonical form; the
// sibling "/16" weighting from the other native.c variant is not used here.
func similarityScore(query, target *molecule.Molecule) float64 {
	heavyAtomRatio := ratio(query.HeavyAtomCount, target.HeavyAtomCount)
	heavyBondRatio := ratio(query.HeavyBondCount, target.HeavyBondCount)
	hydrogenAtomRatio := ratio(query.HydrogenAtomCount, target.HydrogenAtomCount)
	hydrogenBondRatio := ratio(query.HydrogenBondCount, target.HydrogenBondCount)

	return (8*heavyAtomRatio + 4*heavyBondRatio + 2*hydrogenAtomRatio + hydrogenBondRatio) / 15
}

func ratio(queryCount, targetCount int) float64 {
	if targetCount == 0 {
		return 1.0
	}
	return float64(queryCount) / float64(targetCount)
}
