package memfrag

import (
	"github.com/arcbyte/arraydb/cellrange"
	"github.com/arcbyte/arraydb/coord"
	"github.com/arcbyte/arraydb/internal/mergeengine"
	"github.com/arcbyte/arraydb/internal/tilewalk"
	"github.com/arcbyte/arraydb/schema"
)

// ValueFunc computes an attribute's encoded bytes at a global coordinate.
type ValueFunc[T coord.Number] func(coords []T) []byte

// DenseFragment is a fully-populated rectangular fragment: every cell in
// Bounds has a value for every attribute in Values.
type DenseFragment[T coord.Number] struct {
	sch    schema.Schema[T]
	bounds coord.Range[T]
	values map[int]ValueFunc[T]

	walk *tilewalk.Iterator[T]

	overflow map[int]bool
	cursor   map[int]int64
}

// NewDenseFragment builds a DenseFragment covering bounds (global
// coordinates), restricted to tiles overlapping subarray, with per
// attribute id a function computing that attribute's bytes at any
// global coordinate inside bounds.
func NewDenseFragment[T coord.Number](sch schema.Schema[T], subarray, bounds coord.Range[T], values map[int]ValueFunc[T]) *DenseFragment[T] {
	overlap, ok := mergeengine.IntersectRange[T](subarray, bounds)
	f := &DenseFragment[T]{
		sch:      sch,
		bounds:   bounds,
		values:   values,
		overflow: map[int]bool{},
		cursor:   map[int]int64{},
	}
	if ok {
		f.walk = tilewalk.New[T](sch, overlap)
	} else {
		f.walk = &tilewalk.Iterator[T]{} // zero value: already Done
	}
	return f
}

func (f *DenseFragment[T]) Dense() bool { return true }

func (f *DenseFragment[T]) GlobalTileCoords() []T { return f.walk.Current() }

func (f *DenseFragment[T]) GetNextOverlappingTileMult() {
	f.walk.Advance()
	f.overflow = map[int]bool{}
	f.cursor = map[int]int64{}
}

func (f *DenseFragment[T]) MaxOverlap(overlapRange coord.Range[T]) bool {
	tileDomain := mergeengine.TileGlobalDomain[T](f.sch, f.walk.Current())
	n := f.sch.DimNum()
	for i := 0; i < n; i++ {
		lo := tileDomain.Lo[i] + overlapRange.Lo[i]
		hi := tileDomain.Lo[i] + overlapRange.Hi[i]
		if lo < f.bounds.Lo[i] || hi > f.bounds.Hi[i] {
			return false
		}
	}
	return true
}

func (f *DenseFragment[T]) ComputeFragmentCellRanges(fragmentID int, tileDomain coord.Range[T]) ([]cellrange.FragmentCellRange[T], error) {
	overlapGlobal, ok := mergeengine.IntersectRange[T](f.bounds, tileDomain)
	if !ok {
		return nil, nil
	}
	overlapLocal, ok := mergeengine.OverlapTileLocal[T](f.sch, overlapGlobal, tileDomain)
	if !ok {
		return nil, nil
	}
	ot := mergeengine.ClassifyOverlap[T](f.sch, overlapLocal)
	return mergeengine.OverlapCellRanges[T](f.sch, fragmentID, tileDomain, overlapLocal, ot), nil
}

func (f *DenseFragment[T]) CoordsExist(coords []T) bool {
	return coord.InDomain(f.bounds, coords)
}

func (f *DenseFragment[T]) GetFirstTwoCoords(start []T) ([]T, []T, error) {
	// Dense fragments never reach the sparse-multi merge path; provided
	// for interface completeness.
	c2 := append([]T{}, start...)
	c2 = f.sch.NextCellCoords(f.bounds, c2)
	return start, c2, nil
}

func (f *DenseFragment[T]) GetCellPosRangesSparse(tileDomain, r coord.Range[T]) ([]cellrange.FragmentCellPosRange, error) {
	n := f.sch.DimNum()
	lo := make([]T, n)
	hi := make([]T, n)
	for i := 0; i < n; i++ {
		lo[i] = r.Lo[i] - tileDomain.Lo[i]
		hi[i] = r.Hi[i] - tileDomain.Lo[i]
	}
	return []cellrange.FragmentCellPosRange{{
		Pos: cellrange.CellPosRange{First: f.sch.CellPos(lo), Last: f.sch.CellPos(hi)},
	}}, nil
}

func (f *DenseFragment[T]) CopyCellRange(attr int, buf []byte, offset *int, tileDomain coord.Range[T], pos cellrange.CellPosRange) (bool, error) {
	extents := f.sch.TileExtents()
	order := f.sch.CellOrder()

	start := pos.First
	if c, ok := f.cursor[attr]; ok {
		start = c
	}

	coordsAttr := attr == f.sch.AttributeNum()
	valueFn := f.values[attr]

	for p := start; p <= pos.Last; p++ {
		local := coord.CoordsFromPos(extents, p, order, nil)
		global := make([]T, len(local))
		for i := range local {
			global[i] = tileDomain.Lo[i] + local[i]
		}
		var val []byte
		if coordsAttr {
			val = coord.Encode(global)
		} else {
			val = valueFn(global)
		}
		if *offset+len(val) > len(buf) {
			f.cursor[attr] = p
			f.overflow[attr] = true
			return true, nil
		}
		copy(buf[*offset:], val)
		*offset += len(val)
	}

	delete(f.cursor, attr)
	f.overflow[attr] = false
	return false, nil
}

func (f *DenseFragment[T]) ResetOverflow() {
	for k := range f.overflow {
		f.overflow[k] = false
	}
}

func (f *DenseFragment[T]) Overflow(attr int) bool { return f.overflow[attr] }

func (f *DenseFragment[T]) TileDone(attr int) { delete(f.cursor, attr) }
