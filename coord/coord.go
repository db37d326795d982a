// Package coord implements the coordinate arithmetic a schema exposes to
// the read-state engine: advancing a coordinate to its neighbor in storage
// cell order, advancing a tile coordinate to the next tile, and the two
// total orders (cell order, tile order) the merge engine and range-tile
// iterator are built on.
//
// Every function here is pure and templated over the four coordinate
// scalar kinds an array schema can declare (int32, int64, float32,
// float64). None of it knows about fragments, tiles-as-storage, or
// overlap — it is the same leaf layer a schema would hand to any
// consumer that needs to walk a dense domain cell by cell or tile by
// tile in a configured cell order.
package coord

import (
	"encoding/binary"
	"math"
)

// Number is the set of scalar kinds a coordinate may hold.
type Number interface {
	~int32 | ~int64 | ~float32 | ~float64
}

// CellOrder is the total order cells are visited in within a tile.
type CellOrder int

const (
	RowMajor CellOrder = iota
	ColumnMajor
)

// Range is a closed hyper-rectangle: Lo[i] <= Hi[i] for every dimension i.
// Both slices have the same length (the dimensionality D). A Range owns
// its backing slices; callers that need to keep a Range after passing it
// on should Clone it first.
type Range[T Number] struct {
	Lo, Hi []T
}

// Clone returns a deep copy, so the result shares no backing array with r.
func (r Range[T]) Clone() Range[T] {
	lo := make([]T, len(r.Lo))
	hi := make([]T, len(r.Hi))
	copy(lo, r.Lo)
	copy(hi, r.Hi)
	return Range[T]{Lo: lo, Hi: hi}
}

// DimNum returns the dimensionality of r.
func (r Range[T]) DimNum() int { return len(r.Lo) }

// CellOrderCmp returns <0, 0, >0 as a precedes, equals, or follows b in the
// given cell order. Comparison walks dimensions outside-in: row-major
// compares dimension 0 first (the slowest-varying), column-major compares
// the last dimension first.
func CellOrderCmp[T Number](a, b []T, order CellOrder) int {
	n := len(a)
	if order == RowMajor {
		for i := 0; i < n; i++ {
			if a[i] < b[i] {
				return -1
			}
			if a[i] > b[i] {
				return 1
			}
		}
		return 0
	}
	for i := n - 1; i >= 0; i-- {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// TileOrderCmp orders tile coordinates the same way CellOrderCmp orders
// cell coordinates — tiles are just coordinates one level up the lattice.
func TileOrderCmp[T Number](a, b []T, order CellOrder) int {
	return CellOrderCmp(a, b, order)
}

// NextCellCoords advances coords by one cell inside tileDomain under the
// given cell order, in place, and returns it. Advancing the last cell
// carries out of the slowest-varying dimension (dimension 0 for
// row-major, the last dimension for column-major), leaving it one past
// tileDomain.Hi there: callers detect "past the end" with InDomain or by
// comparing against tileDomain.Hi before advancing.
func NextCellCoords[T Number](tileDomain Range[T], coords []T, order CellOrder) []T {
	n := len(coords)
	if order == RowMajor {
		i := n - 1
		coords[i]++
		for i > 0 && coords[i] > tileDomain.Hi[i] {
			coords[i] = tileDomain.Lo[i]
			i--
			coords[i]++
		}
		return coords
	}
	i := 0
	coords[i]++
	for i < n-1 && coords[i] > tileDomain.Hi[i] {
		coords[i] = tileDomain.Lo[i]
		i++
		coords[i]++
	}
	return coords
}

// PrevCellCoords is the inverse of NextCellCoords.
func PrevCellCoords[T Number](tileDomain Range[T], coords []T, order CellOrder) []T {
	n := len(coords)
	if order == RowMajor {
		i := n - 1
		coords[i]--
		for i > 0 && coords[i] < tileDomain.Lo[i] {
			coords[i] = tileDomain.Hi[i]
			i--
			coords[i]--
		}
		return coords
	}
	i := 0
	coords[i]--
	for i < n-1 && coords[i] < tileDomain.Lo[i] {
		coords[i] = tileDomain.Hi[i]
		i++
		coords[i]--
	}
	return coords
}

// NextTileCoords advances tileCoords by one tile inside tileDomain (the
// tile-index lattice bounds), in the given tile order, in place.
func NextTileCoords[T Number](tileDomain Range[T], tileCoords []T, order CellOrder) []T {
	return NextCellCoords(tileDomain, tileCoords, order)
}

// CellPos returns the integer position of coords within a tile of the
// given extents, under the given cell order. coords must already be
// tile-local (0-based within [0, extents[i])).
func CellPos[T Number](extents []T, coords []T, order CellOrder) int64 {
	n := len(extents)
	var pos int64
	if order == RowMajor {
		for i := 0; i < n; i++ {
			pos = pos*int64(extents[i]) + int64(coords[i])
		}
		return pos
	}
	for i := n - 1; i >= 0; i-- {
		pos = pos*int64(extents[i]) + int64(coords[i])
	}
	return pos
}

// CoordsFromPos is the inverse of CellPos: given a tile's extents and a
// cell order, it decodes an integer position back into tile-local
// coordinates. dst is reused if non-nil and long enough, else allocated.
func CoordsFromPos[T Number](extents []T, pos int64, order CellOrder, dst []T) []T {
	n := len(extents)
	if dst == nil || len(dst) < n {
		dst = make([]T, n)
	}
	if order == RowMajor {
		for i := n - 1; i >= 0; i-- {
			e := int64(extents[i])
			dst[i] = T(pos % e)
			pos /= e
		}
		return dst
	}
	for i := 0; i < n; i++ {
		e := int64(extents[i])
		dst[i] = T(pos % e)
		pos /= e
	}
	return dst
}

// ElemSize returns the on-the-wire byte width of one T scalar.
func ElemSize[T Number]() int {
	var v T
	switch any(v).(type) {
	case int32, float32:
		return 4
	default:
		return 8
	}
}

// Encode serializes a coordinate tuple to little-endian bytes, the same
// layout the coordinates pseudo-attribute uses.
func Encode[T Number](coords []T) []byte {
	size := ElemSize[T]()
	buf := make([]byte, size*len(coords))
	for i, v := range coords {
		b := buf[i*size : (i+1)*size]
		switch x := any(v).(type) {
		case int32:
			binary.LittleEndian.PutUint32(b, uint32(x))
		case int64:
			binary.LittleEndian.PutUint64(b, uint64(x))
		case float32:
			binary.LittleEndian.PutUint32(b, math.Float32bits(x))
		case float64:
			binary.LittleEndian.PutUint64(b, math.Float64bits(x))
		}
	}
	return buf
}

// InDomain reports whether coords lies within [d.Lo, d.Hi] in every
// dimension.
func InDomain[T Number](d Range[T], coords []T) bool {
	for i := range coords {
		if coords[i] < d.Lo[i] || coords[i] > d.Hi[i] {
			return false
		}
	}
	return true
}
