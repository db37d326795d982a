package memfrag

import (
	"sort"

	"github.com/arcbyte/arraydb/cellrange"
	"github.com/arcbyte/arraydb/coord"
	"github.com/arcbyte/arraydb/internal/mergeengine"
	"github.com/arcbyte/arraydb/schema"
)

// Cell is one stored coordinate/value pair belonging to a SparseFragment.
type Cell[T coord.Number] struct {
	Coords []T
	Values map[int][]byte
}

// SparseFragment stores an explicit, possibly discontiguous list of
// cells, sorted into the schema's cell order at construction.
type SparseFragment[T coord.Number] struct {
	sch   schema.Schema[T]
	cells []Cell[T]

	tiles   [][]T // sorted unique tile coordinates the (subarray-filtered) cells occupy
	tileIdx int

	overflow map[int]bool
	cursor   map[int]int64
}

// NewSparseFragment sorts cells into cell order, discards any outside
// subarray, and builds the tile-visit sequence over what remains.
func NewSparseFragment[T coord.Number](sch schema.Schema[T], subarray coord.Range[T], cells []Cell[T]) *SparseFragment[T] {
	var kept []Cell[T]
	for _, c := range cells {
		if coord.InDomain(subarray, c.Coords) {
			kept = append(kept, c)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		return sch.CellOrderCmp(kept[i].Coords, kept[j].Coords) < 0
	})

	dom := sch.Domain()
	extents := sch.TileExtents()
	n := sch.DimNum()
	seen := map[string]bool{}
	var tiles [][]T
	for _, c := range kept {
		tc := make([]T, n)
		for i := 0; i < n; i++ {
			tc[i] = T((int64(c.Coords[i]) - int64(dom.Lo[i])) / int64(extents[i]))
		}
		key := tileKey(tc)
		if !seen[key] {
			seen[key] = true
			tiles = append(tiles, tc)
		}
	}
	sort.Slice(tiles, func(i, j int) bool {
		return sch.TileOrderCmp(tiles[i], tiles[j]) < 0
	})

	return &SparseFragment[T]{
		sch:      sch,
		cells:    kept,
		tiles:    tiles,
		overflow: map[int]bool{},
		cursor:   map[int]int64{},
	}
}

func tileKey[T coord.Number](tc []T) string {
	b := make([]byte, 0, len(tc)*8)
	for _, v := range tc {
		b = append(b, coord.Encode([]T{v})...)
	}
	return string(b)
}

func (f *SparseFragment[T]) Dense() bool { return false }

func (f *SparseFragment[T]) GlobalTileCoords() []T {
	if f.tileIdx >= len(f.tiles) {
		return nil
	}
	return f.tiles[f.tileIdx]
}

func (f *SparseFragment[T]) GetNextOverlappingTileMult() {
	f.tileIdx++
	f.overflow = map[int]bool{}
	f.cursor = map[int]int64{}
}

func (f *SparseFragment[T]) MaxOverlap(coord.Range[T]) bool { return false }

func (f *SparseFragment[T]) currentTileDomain() coord.Range[T] {
	return mergeengine.TileGlobalDomain[T](f.sch, f.GlobalTileCoords())
}

func (f *SparseFragment[T]) cellsInCurrentTile() []Cell[T] {
	td := f.currentTileDomain()
	var out []Cell[T]
	for _, c := range f.cells {
		if coord.InDomain(td, c.Coords) {
			out = append(out, c)
		}
	}
	return out
}

func (f *SparseFragment[T]) ComputeFragmentCellRanges(fragmentID int, tileDomain coord.Range[T]) ([]cellrange.FragmentCellRange[T], error) {
	var out []cellrange.FragmentCellRange[T]
	for _, c := range f.cellsInCurrentTile() {
		out = append(out, cellrange.FragmentCellRange[T]{
			FragmentID: fragmentID,
			Range:      coord.Range[T]{Lo: c.Coords, Hi: c.Coords},
		})
	}
	return out, nil
}

func (f *SparseFragment[T]) CoordsExist(coords []T) bool {
	for _, c := range f.cells {
		if f.sch.CellOrderCmp(c.Coords, coords) == 0 {
			return true
		}
	}
	return false
}

func (f *SparseFragment[T]) GetFirstTwoCoords(start []T) ([]T, []T, error) {
	var c1, c2 []T
	for _, c := range f.cellsInCurrentTile() {
		if f.sch.CellOrderCmp(c.Coords, start) < 0 {
			continue
		}
		if c1 == nil {
			c1 = c.Coords
			continue
		}
		c2 = c.Coords
		break
	}
	if c1 == nil {
		return nil, nil, ErrNoMoreCoords
	}
	return c1, c2, nil
}

func (f *SparseFragment[T]) GetCellPosRangesSparse(tileDomain, r coord.Range[T]) ([]cellrange.FragmentCellPosRange, error) {
	var out []cellrange.FragmentCellPosRange
	for _, c := range f.cellsInCurrentTile() {
		if f.sch.CellOrderCmp(c.Coords, r.Lo) < 0 || f.sch.CellOrderCmp(c.Coords, r.Hi) > 0 {
			continue
		}
		n := f.sch.DimNum()
		local := make([]T, n)
		for i := 0; i < n; i++ {
			local[i] = c.Coords[i] - tileDomain.Lo[i]
		}
		pos := f.sch.CellPos(local)
		out = append(out, cellrange.FragmentCellPosRange{Pos: cellrange.CellPosRange{First: pos, Last: pos}})
	}
	return out, nil
}

// findByPos locates the stored cell at tile-local position pos within
// the tile named by tileDomain. tileDomain is passed explicitly rather
// than derived from this fragment's current walk position, since a
// deferred or resumed copy for one attribute may run after the shared
// walk has already advanced past that tile while serving another.
func (f *SparseFragment[T]) findByPos(tileDomain coord.Range[T], pos int64) (Cell[T], bool) {
	extents := f.sch.TileExtents()
	order := f.sch.CellOrder()
	target := coord.CoordsFromPos(extents, pos, order, nil)
	for i := range target {
		target[i] += tileDomain.Lo[i]
	}
	for _, c := range f.cells {
		if !coord.InDomain(tileDomain, c.Coords) {
			continue
		}
		if f.sch.CellOrderCmp(c.Coords, target) == 0 {
			return c, true
		}
	}
	return Cell[T]{}, false
}

func (f *SparseFragment[T]) CopyCellRange(attr int, buf []byte, offset *int, tileDomain coord.Range[T], pos cellrange.CellPosRange) (bool, error) {
	start := pos.First
	if c, ok := f.cursor[attr]; ok {
		start = c
	}

	for p := start; p <= pos.Last; p++ {
		cell, ok := f.findByPos(tileDomain, p)
		if !ok {
			return false, ErrCellNotFound
		}
		var val []byte
		if attr == f.sch.AttributeNum() {
			val = coord.Encode(cell.Coords)
		} else {
			val = cell.Values[attr]
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

func (f *SparseFragment[T]) ResetOverflow() {
	for k := range f.overflow {
		f.overflow[k] = false
	}
}

func (f *SparseFragment[T]) Overflow(attr int) bool { return f.overflow[attr] }

func (f *SparseFragment[T]) TileDone(attr int) { delete(f.cursor, attr) }
