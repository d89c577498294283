// Package vf2 implements the parent-guided VF2 graph-isomorphism search
// specialised for chemical graphs (spec.md §4.2).
// coding=utf-8
// @Project : go-chem
package vf2

import "fmt"

// ErrNoMatch means the search exhausted every candidate without finding a
// mapping. Not a true error: callers distinguish it from ErrLimitExceeded
// and ErrOutOfMemory with errors.Is.
var ErrNoMatch = fmt.Errorf("vf2: no match")

// ErrLimitExceeded means the iteration budget reached zero before the
// search concluded (spec.md §4.2 "Iteration limit").
var ErrLimitExceeded = fmt.Errorf("vf2: iteration limit exceeded")

// ErrOutOfMemory means scratch allocation failed. Kept as a distinct
// sentinel per spec.md §7 even though the default Go-allocation path makes
// it effectively unreachable.
var ErrOutOfMemory = fmt.Errorf("vf2: out of memory")
