// Package fragment defines the Fragment collaborator contract: the
// append-only, recency-ordered batch of cell writes the read-state
// engine merges across. Tile decoding and on-disk format are out of
// scope; this package only specifies the operations the merge engine
// calls. Two in-memory reference implementations (dense and sparse),
// used by tests and the demo command, live in package memfrag.
package fragment

import (
	"github.com/arcbyte/arraydb/cellrange"
	"github.com/arcbyte/arraydb/coord"
)

// Fragment is the per-fragment collaborator contract, specialized to
// coordinate scalar kind T. FragmentID is not part of the interface —
// the read-state engine derives recency purely from a fragment's index
// in Array.Fragments(): newer fragments sit at higher indices.
type Fragment[T coord.Number] interface {
	// Dense reports whether this fragment stores a dense (fully
	// populated) tile at its current position, vs. a sparse coordinate
	// list.
	Dense() bool

	// GlobalTileCoords returns the fragment's current tile coordinates
	// in the tile-index lattice, or nil once the fragment has been
	// advanced past its last tile.
	GlobalTileCoords() []T

	// GetNextOverlappingTileMult advances the fragment to its next
	// tile that overlaps the query subarray (dense fragments advance
	// exactly one tile; sparse fragments may skip several). Advancing
	// past the last tile makes GlobalTileCoords return nil.
	GetNextOverlappingTileMult()

	// MaxOverlap reports whether this fragment's current tile is dense
	// and fully covers overlapRange (tile-local coordinates).
	MaxOverlap(overlapRange coord.Range[T]) bool

	// ComputeFragmentCellRanges appends this fragment's own candidate
	// FragmentCellRanges for its current tile to the merge pool. Called
	// for every fragment ordered after the max-overlap fragment whose
	// current tile coincides with the range tile.
	ComputeFragmentCellRanges(fragmentID int, tileDomain coord.Range[T]) ([]cellrange.FragmentCellRange[T], error)

	// CoordsExist reports whether a sparse fragment actually stores a
	// cell at coords (used to discard unary sparse ranges with no
	// backing cell).
	CoordsExist(coords []T) bool

	// GetFirstTwoCoords returns the first two actual coordinates in
	// this fragment's current tile at or after start, in cell order.
	// If only one coordinate exists at or after start, c2 is nil.
	GetFirstTwoCoords(start []T) (c1, c2 []T, err error)

	// GetCellPosRangesSparse converts a coordinate range belonging to
	// this (sparse) fragment into one or more tile-local position
	// ranges — sparse cells inside a coordinate interval need not be
	// contiguous in storage order.
	GetCellPosRangesSparse(tileDomain coord.Range[T], r coord.Range[T]) ([]cellrange.FragmentCellPosRange, error)

	// CopyCellRange copies attribute attr's values for tile-local
	// position range pos — belonging to the tile named by tileDomain,
	// which the caller passes explicitly because copying may be
	// deferred or resumed well after this fragment's own cursor has
	// advanced past that tile while serving a different attribute — into
	// buf at *offset, advancing *offset by the bytes written. Returns
	// overflow=true if buf could not hold the whole range; the
	// fragment's own cursor remembers where it stopped so a resumed
	// call continues correctly.
	CopyCellRange(attr int, buf []byte, offset *int, tileDomain coord.Range[T], pos cellrange.CellPosRange) (overflow bool, err error)

	// ResetOverflow clears this fragment's per-attribute overflow
	// flags (resume cursors are kept); called once at the start of every
	// top-level Read.
	ResetOverflow()
	// Overflow reports whether attribute attr overflowed on the last
	// CopyCellRange call.
	Overflow(attr int) bool
	// TileDone notifies the fragment that attribute attr has finished
	// consuming the fragment's current tile, so any decoded buffers for
	// it may be released.
	TileDone(attr int)
}
