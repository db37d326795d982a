// Package mergeengine implements the per-tile merge engine: overlap
// classification against the current tile, the priority-queue merge of
// candidate FragmentCellRanges into a disjoint, override-resolved
// sequence, and the position-range conversion into tile-local
// FragmentCellPosRanges. This is the hard part of the read coordinator:
// a merge of priority-ordered cell-range streams with interval
// trimming and per-fragment recency override.
package mergeengine

import (
	"github.com/arcbyte/arraydb/cellrange"
	"github.com/arcbyte/arraydb/coord"
	"github.com/arcbyte/arraydb/schema"
)

// OverlapType classifies how a query rectangle overlaps a tile.
type OverlapType int

const (
	Full OverlapType = iota
	PartialContig
	PartialNonContig
)

// TileGlobalDomain returns the current tile's bounds in global
// coordinates: [domain.Lo + tileCoords*extent, domain.Lo + (tileCoords+1)*extent - 1].
func TileGlobalDomain[T coord.Number](sch schema.Schema[T], tileCoords []T) coord.Range[T] {
	dom := sch.Domain()
	extents := sch.TileExtents()
	n := sch.DimNum()
	lo := make([]T, n)
	hi := make([]T, n)
	for i := 0; i < n; i++ {
		lo[i] = dom.Lo[i] + tileCoords[i]*extents[i]
		hi[i] = lo[i] + extents[i] - 1
	}
	return coord.Range[T]{Lo: lo, Hi: hi}
}

// IntersectRange returns the elementwise intersection of a and b, and
// whether that intersection is non-empty.
func IntersectRange[T coord.Number](a, b coord.Range[T]) (coord.Range[T], bool) {
	n := len(a.Lo)
	lo := make([]T, n)
	hi := make([]T, n)
	ok := true
	for i := 0; i < n; i++ {
		if a.Lo[i] > b.Lo[i] {
			lo[i] = a.Lo[i]
		} else {
			lo[i] = b.Lo[i]
		}
		if a.Hi[i] < b.Hi[i] {
			hi[i] = a.Hi[i]
		} else {
			hi[i] = b.Hi[i]
		}
		if lo[i] > hi[i] {
			ok = false
		}
	}
	return coord.Range[T]{Lo: lo, Hi: hi}, ok
}

// OverlapTileLocal intersects queryGlobal with the tile named by
// tileDomain (a TileGlobalDomain result) and expresses the result in
// tile-local coordinates (0-based per dimension). ok is false when there
// is no overlap.
func OverlapTileLocal[T coord.Number](sch schema.Schema[T], queryGlobal coord.Range[T], tileDomain coord.Range[T]) (coord.Range[T], bool) {
	overlap, ok := IntersectRange(queryGlobal, tileDomain)
	if !ok {
		return coord.Range[T]{}, false
	}
	n := sch.DimNum()
	lo := make([]T, n)
	hi := make([]T, n)
	for i := 0; i < n; i++ {
		lo[i] = overlap.Lo[i] - tileDomain.Lo[i]
		hi[i] = overlap.Hi[i] - tileDomain.Lo[i]
	}
	return coord.Range[T]{Lo: lo, Hi: hi}, true
}

// ClassifyOverlap determines whether a tile-local overlap range spans the
// whole tile (Full), a contiguous run in storage order (PartialContig),
// or several disjoint runs (PartialNonContig). Tile extents come from
// sch.
func ClassifyOverlap[T coord.Number](sch schema.Schema[T], overlapTileLocal coord.Range[T]) OverlapType {
	extents := sch.TileExtents()
	n := sch.DimNum()

	full := true
	for i := 0; i < n; i++ {
		if overlapTileLocal.Lo[i] != 0 || overlapTileLocal.Hi[i] != extents[i]-1 {
			full = false
			break
		}
	}
	if full {
		return Full
	}

	// Contiguous iff every dimension but the slowest-varying one (first
	// for row-major, last for column-major) spans the whole tile.
	contig := true
	if sch.CellOrder() == schema.RowMajor {
		for i := 1; i < n; i++ {
			if overlapTileLocal.Lo[i] != 0 || overlapTileLocal.Hi[i] != extents[i]-1 {
				contig = false
				break
			}
		}
	} else {
		for i := 0; i < n-1; i++ {
			if overlapTileLocal.Lo[i] != 0 || overlapTileLocal.Hi[i] != extents[i]-1 {
				contig = false
				break
			}
		}
	}
	if contig {
		return PartialContig
	}
	return PartialNonContig
}

// OverlapCellRanges generates the global-coordinate FragmentCellRanges
// covering overlapTileLocal, attributing them to fragID (which may be
// cellrange.EmptyFill for a dense gap no fragment covers). Full and
// PartialContig overlaps produce one range; PartialNonContig walks the
// outer dimensions in storage order and emits one slab per outer
// position, holding the innermost dimension to its full overlap span.
func OverlapCellRanges[T coord.Number](sch schema.Schema[T], fragID int, tileDomain coord.Range[T], overlapTileLocal coord.Range[T], ot OverlapType) []cellrange.FragmentCellRange[T] {
	n := sch.DimNum()
	lo := overlapTileLocal.Lo
	hi := overlapTileLocal.Hi
	globalLo := make([]T, n)
	globalHi := make([]T, n)
	for i := 0; i < n; i++ {
		globalLo[i] = tileDomain.Lo[i] + lo[i]
		globalHi[i] = tileDomain.Lo[i] + hi[i]
	}

	if ot == Full || ot == PartialContig {
		return []cellrange.FragmentCellRange[T]{{
			FragmentID: fragID,
			Range:      coord.Range[T]{Lo: globalLo, Hi: globalHi},
		}}
	}

	var out []cellrange.FragmentCellRange[T]
	coords := make([]T, n)
	copy(coords, globalLo)

	if sch.CellOrder() == schema.RowMajor {
		for coords[0] <= globalHi[0] {
			rangeLo := make([]T, n)
			rangeHi := make([]T, n)
			for i := 0; i < n-1; i++ {
				rangeLo[i] = coords[i]
				rangeHi[i] = coords[i]
			}
			rangeLo[n-1] = globalLo[n-1]
			rangeHi[n-1] = globalHi[n-1]
			out = append(out, cellrange.FragmentCellRange[T]{FragmentID: fragID, Range: coord.Range[T]{Lo: rangeLo, Hi: rangeHi}})

			i := n - 2
			coords[i]++
			for i > 0 && coords[i] > globalHi[i] {
				coords[i] = globalLo[i]
				i--
				coords[i]++
			}
		}
	} else {
		for coords[n-1] <= globalHi[n-1] {
			rangeLo := make([]T, n)
			rangeHi := make([]T, n)
			for i := n - 1; i > 0; i-- {
				rangeLo[i] = coords[i]
				rangeHi[i] = coords[i]
			}
			rangeLo[0] = globalLo[0]
			rangeHi[0] = globalHi[0]
			out = append(out, cellrange.FragmentCellRange[T]{FragmentID: fragID, Range: coord.Range[T]{Lo: rangeLo, Hi: rangeHi}})

			i := 1
			coords[i]++
			for i < n-1 && coords[i] > globalHi[i] {
				coords[i] = globalLo[i]
				i++
				coords[i]++
			}
		}
	}
	return out
}
