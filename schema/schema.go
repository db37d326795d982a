// Package schema defines the ArraySchema collaborator contract the
// read-state engine consumes: dimensionality, domain, tile extents,
// cell order, per-attribute sizing, and the coordinate-arithmetic
// primitives of coord.Number, specialized to one schema instance.
//
// CoordType models the "tagged variant over runtime typing" design note:
// a schema declares which of the four supported scalar kinds its
// coordinates use, and callers at the public boundary (readstate.NewFromCoordType)
// switch on it once to select the generic instantiation, then stay in it
// for the lifetime of the reader.
package schema

import "github.com/arcbyte/arraydb/coord"

// CoordType identifies which scalar kind a schema's coordinates use.
type CoordType int

const (
	CoordInt32 CoordType = iota
	CoordInt64
	CoordFloat32
	CoordFloat64
)

func (c CoordType) String() string {
	switch c {
	case CoordInt32:
		return "int32"
	case CoordInt64:
		return "int64"
	case CoordFloat32:
		return "float32"
	case CoordFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// CellOrder re-exports coord.CellOrder so callers need not import coord
// just to configure a schema.
type CellOrder = coord.CellOrder

const (
	RowMajor    = coord.RowMajor
	ColumnMajor = coord.ColumnMajor
)

// Schema is the ArraySchema collaborator contract the read-state engine
// and merge engine are built against, specialized to one coordinate
// scalar kind T.
type Schema[T coord.Number] interface {
	// AttributeNum returns the number of real (non-coordinate) attributes.
	// The coordinates pseudo-attribute is addressed by id == AttributeNum().
	AttributeNum() int
	DimNum() int

	// Domain returns the global logical domain, [lo,hi] per dimension.
	Domain() coord.Range[T]
	// TileExtents returns the tile extent per dimension.
	TileExtents() []T
	CellOrder() CellOrder
	CoordType() CoordType
	// CoordsSize returns the byte size of one full coordinate tuple.
	CoordsSize() int

	// VarSize reports whether attribute id is variable-length.
	VarSize(attr int) bool
	// AttrSize returns the fixed element byte size for attribute id.
	// Meaningless (and unused) when VarSize(attr) is true.
	AttrSize(attr int) int
	// FillValue returns the empty-fill bytes for attribute id, used to
	// pad dense gaps no fragment covers (fragment_id == -1 ranges).
	FillValue(attr int) []byte

	// Coordinate arithmetic, pre-bound to this schema's cell order so
	// callers never have to thread CellOrder through.
	NextCellCoords(tileDomain coord.Range[T], coords []T) []T
	PrevCellCoords(tileDomain coord.Range[T], coords []T) []T
	NextTileCoords(tileDomain coord.Range[T], tileCoords []T) []T
	CellOrderCmp(a, b []T) int
	TileOrderCmp(a, b []T) int
	CellPos(coords []T) int64
}
