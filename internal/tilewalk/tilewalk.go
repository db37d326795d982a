// Package tilewalk implements the range-tile iterator: the sequence of
// tile-index coordinates a subarray touches, walked exactly once in
// tile order with no backtracking.
package tilewalk

import (
	"github.com/arcbyte/arraydb/coord"
	"github.com/arcbyte/arraydb/schema"
)

// Iterator walks the tile-index lattice cells a subarray overlaps, in
// the schema's tile order. Current returns nil once the walk is done.
type Iterator[T coord.Number] struct {
	domain  coord.Range[T] // range_global_tile_domain
	current []T            // range_global_tile_coords; nil when done
	order   schema.CellOrder
}

// New computes the tile-index lattice intersected with subarray and
// places the walk at its lower corner. If the intersection is empty
// the returned iterator is already Done.
func New[T coord.Number](sch schema.Schema[T], subarray coord.Range[T]) *Iterator[T] {
	dom := sch.Domain()
	extents := sch.TileExtents()
	n := sch.DimNum()

	latticeLo := make([]T, n)
	latticeHi := make([]T, n)
	subLo := make([]T, n)
	subHi := make([]T, n)

	for i := 0; i < n; i++ {
		latticeLo[i] = 0
		span := dom.Hi[i] - dom.Lo[i] + 1
		latticeHi[i] = ceilDiv(span, extents[i]) - 1

		subLo[i] = floorDiv(subarray.Lo[i]-dom.Lo[i], extents[i])
		subHi[i] = floorDiv(subarray.Hi[i]-dom.Lo[i], extents[i])
	}

	lo := make([]T, n)
	hi := make([]T, n)
	for i := 0; i < n; i++ {
		lo[i] = maxT(latticeLo[i], subLo[i])
		hi[i] = minT(latticeHi[i], subHi[i])
		if lo[i] > hi[i] {
			return &Iterator[T]{order: sch.CellOrder()}
		}
	}

	current := make([]T, n)
	copy(current, lo)

	return &Iterator[T]{
		domain:  coord.Range[T]{Lo: lo, Hi: hi},
		current: current,
		order:   sch.CellOrder(),
	}
}

// Current returns the walk's current tile-index coordinates, or nil if
// the walk is Done.
func (it *Iterator[T]) Current() []T { return it.current }

// Domain returns range_global_tile_domain.
func (it *Iterator[T]) Domain() coord.Range[T] { return it.domain }

// Done reports whether the walk has visited every tile.
func (it *Iterator[T]) Done() bool { return it.current == nil }

// Advance moves to the next tile in tile order. Advancing past Domain
// releases the coordinates and marks Done.
func (it *Iterator[T]) Advance() {
	if it.current == nil {
		return
	}
	next := coord.NextTileCoords(it.domain, it.current, it.order)
	if !coord.InDomain(it.domain, next) {
		it.current = nil
		return
	}
	it.current = next
}

// ceilDiv and floorDiv round through int64, which is exact for the
// int32/int64 coordinate kinds tiling is meant for; float32/float64
// domains are permitted by coord.Number but tile-extent division on
// them truncates to the nearest integer lattice index, same as the
// original's integer-only tile arithmetic assumed of any coordinate kind.
func ceilDiv[T coord.Number](a, b T) T {
	ai, bi := int64(a), int64(b)
	return T((ai + bi - 1) / bi)
}

func floorDiv[T coord.Number](a, b T) T {
	ai, bi := int64(a), int64(b)
	q := ai / bi
	if (ai%bi != 0) && ((ai < 0) != (bi < 0)) {
		q--
	}
	return T(q)
}

func maxT[T coord.Number](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func minT[T coord.Number](a, b T) T {
	if a < b {
		return a
	}
	return b
}
