// Package memfrag provides in-memory reference implementations of
// fragment.Fragment: DenseFragment for a fully-populated rectangular
// write, SparseFragment for a scattered coordinate list. Real fragments
// read from a persisted tile store; on-disk format is out of scope.
// These exist for tests and the demo command.
package memfrag

import "errors"

var (
	ErrCellNotFound = errors.New("memfrag: position has no backing cell")
	ErrNoMoreCoords = errors.New("memfrag: no coordinate at or after start")
)
