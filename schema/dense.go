package schema

import "github.com/arcbyte/arraydb/coord"

// AttrDef describes one requestable attribute. The coordinates
// pseudo-attribute has no AttrDef: DenseSchema answers for id
// AttributeNum() itself, with the schema's coords size.
type AttrDef struct {
	Name     string
	Size     int // bytes per element; ignored if VarSize
	VarSize  bool
	FillByte byte // the fill value is FillByte repeated Size times
}

// DenseSchema is a reference ArraySchema implementation over a dense,
// regularly tiled domain. It exists for tests and demonstration — real
// schemas live in the array-format collaborator, which this module
// does not implement.
type DenseSchema[T coord.Number] struct {
	domain      coord.Range[T]
	tileExtents []T
	order       CellOrder
	coordType   CoordType
	attrs       []AttrDef
}

// AttrNames returns the requestable attribute names in declaration order
// (the coordinates pseudo-attribute is not included; it has no name and
// is always addressed by id AttributeNum()).
func (s *DenseSchema[T]) AttrNames() []string {
	names := make([]string, len(s.attrs))
	for i, a := range s.attrs {
		names[i] = a.Name
	}
	return names
}

// NewDenseSchema builds a DenseSchema over domain with the given tile
// extents, cell order, and attribute list (coordinates excluded — the
// pseudo-attribute id AttributeNum() is synthesized).
func NewDenseSchema[T coord.Number](domain coord.Range[T], tileExtents []T, order CellOrder, coordType CoordType, attrs []AttrDef) *DenseSchema[T] {
	return &DenseSchema[T]{
		domain:      domain,
		tileExtents: tileExtents,
		order:       order,
		coordType:   coordType,
		attrs:       attrs,
	}
}

func (s *DenseSchema[T]) AttributeNum() int { return len(s.attrs) }
func (s *DenseSchema[T]) DimNum() int       { return s.domain.DimNum() }
func (s *DenseSchema[T]) Domain() coord.Range[T] {
	return s.domain
}
func (s *DenseSchema[T]) TileExtents() []T   { return s.tileExtents }
func (s *DenseSchema[T]) CellOrder() CellOrder { return s.order }
func (s *DenseSchema[T]) CoordType() CoordType { return s.coordType }

func (s *DenseSchema[T]) CoordsSize() int {
	var t T
	return s.DimNum() * sizeOf(t)
}

func (s *DenseSchema[T]) VarSize(attr int) bool {
	if attr == s.AttributeNum() {
		return false // coordinates are always fixed-size
	}
	return s.attrs[attr].VarSize
}

func (s *DenseSchema[T]) AttrSize(attr int) int {
	if attr == s.AttributeNum() {
		return s.CoordsSize()
	}
	return s.attrs[attr].Size
}

func (s *DenseSchema[T]) FillValue(attr int) []byte {
	if attr == s.AttributeNum() {
		return make([]byte, s.CoordsSize())
	}
	a := s.attrs[attr]
	fill := make([]byte, a.Size)
	for i := range fill {
		fill[i] = a.FillByte
	}
	return fill
}

func (s *DenseSchema[T]) NextCellCoords(tileDomain coord.Range[T], coords []T) []T {
	return coord.NextCellCoords(tileDomain, coords, s.order)
}

func (s *DenseSchema[T]) PrevCellCoords(tileDomain coord.Range[T], coords []T) []T {
	return coord.PrevCellCoords(tileDomain, coords, s.order)
}

func (s *DenseSchema[T]) NextTileCoords(tileDomain coord.Range[T], tileCoords []T) []T {
	return coord.NextTileCoords(tileDomain, tileCoords, s.order)
}

func (s *DenseSchema[T]) CellOrderCmp(a, b []T) int {
	return coord.CellOrderCmp(a, b, s.order)
}

func (s *DenseSchema[T]) TileOrderCmp(a, b []T) int {
	return coord.TileOrderCmp(a, b, s.order)
}

func (s *DenseSchema[T]) CellPos(coords []T) int64 {
	return coord.CellPos(s.tileExtents, coords, s.order)
}

// sizeOf returns the byte width of the concrete Number instantiation.
func sizeOf[T coord.Number](v T) int {
	switch any(v).(type) {
	case int32, float32:
		return 4
	case int64, float64:
		return 8
	default:
		return 8
	}
}
