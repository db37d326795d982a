package readstate

import (
	"github.com/arcbyte/arraydb/dataset"
	"github.com/arcbyte/arraydb/schema"
)

// Reader is the non-generic boundary of the read-state core: callers
// that only know a schema's coord type at runtime go through
// NewFromCoordType once, then stay in the resolved generic
// instantiation for the life of the reader.
type Reader interface {
	Read(buffers [][]byte) (written []int, done bool, err error)
}

// NewFromCoordType selects the ReadState[T] instantiation matching ct
// and type-asserts arr into the matching dataset.Array[T], returning a
// Reader that erases T from the caller's view. arr must be the
// dataset.Array[T] variant corresponding to ct, e.g. a
// dataset.Array[int64] when ct is schema.CoordInt64; a mismatch returns
// ErrUnsupportedCoordType rather than panicking.
func NewFromCoordType(ct schema.CoordType, arr any, opts ...Option) (Reader, error) {
	switch ct {
	case schema.CoordInt32:
		a, ok := arr.(dataset.Array[int32])
		if !ok {
			return nil, ErrUnsupportedCoordType
		}
		rs, err := New[int32](a, opts...)
		if err != nil {
			return nil, err
		}
		return rs, nil
	case schema.CoordInt64:
		a, ok := arr.(dataset.Array[int64])
		if !ok {
			return nil, ErrUnsupportedCoordType
		}
		rs, err := New[int64](a, opts...)
		if err != nil {
			return nil, err
		}
		return rs, nil
	case schema.CoordFloat32:
		a, ok := arr.(dataset.Array[float32])
		if !ok {
			return nil, ErrUnsupportedCoordType
		}
		rs, err := New[float32](a, opts...)
		if err != nil {
			return nil, err
		}
		return rs, nil
	case schema.CoordFloat64:
		a, ok := arr.(dataset.Array[float64])
		if !ok {
			return nil, ErrUnsupportedCoordType
		}
		rs, err := New[float64](a, opts...)
		if err != nil {
			return nil, err
		}
		return rs, nil
	default:
		return nil, ErrUnsupportedCoordType
	}
}
