// Package stereo extracts per-component canonical stereo/tautomer
// descriptions from a decoded molecule (spec.md §4.3).
// coding=utf-8
// @Project : go-chem
package stereo

import "fmt"

// ErrCanon means the canonicalization collaborator returned a negative
// status code (spec.md §7 "CanonError"); per-component failures abort
// extraction of the whole molecule.
var ErrCanon = fmt.Errorf("stereo: canonicalization failed")

// CanonError carries the sign-preserved code the canonicalization
// collaborator returned, wrapping ErrCanon so callers can use errors.Is.
type CanonError struct {
	Code    int
	Message string
}

func (e *CanonError) Error() string {
	return fmt.Sprintf("stereo: canonicalization error %d: %s", e.Code, e.Message)
}

func (e *CanonError) Unwrap() error {
	return ErrCanon
}
