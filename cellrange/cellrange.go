// Package cellrange holds the small, dependency-free value types shared
// between the fragment collaborator contract and the merge engine:
// FragmentCellRange (coordinate-domain candidate/output of the merge),
// CellPosRange and FragmentCellPosRange (position-domain output after
// tile-local conversion). Kept separate from both fragment and
// mergeengine so neither package has to import the other just to talk
// about these types.
package cellrange

import "github.com/arcbyte/arraydb/coord"

// EmptyFill is the fragment id used for dense gaps that no fragment
// covers. Only ever appears when the array is dense.
const EmptyFill = -1

// FragmentCellRange is (fragment_id, coordinate range) — a candidate fed
// into the merge priority queue, or one of its disjoint, override-resolved
// outputs.
type FragmentCellRange[T coord.Number] struct {
	FragmentID int
	Range      coord.Range[T]
}

// CellPosRange is a closed interval of integer cell positions inside the
// current tile, in global cell order.
type CellPosRange struct {
	First, Last int64
}

// Len returns the number of cell positions the range spans.
func (r CellPosRange) Len() int64 { return r.Last - r.First + 1 }

// FragmentCellPosRange is (fragment_id, CellPosRange) — the position-domain
// counterpart of FragmentCellRange, after tile-local conversion.
type FragmentCellPosRange struct {
	FragmentID int
	Pos        CellPosRange
}
