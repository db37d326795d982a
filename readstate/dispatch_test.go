package readstate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arcbyte/arraydb/dataset"
	"github.com/arcbyte/arraydb/fragment"
	"github.com/arcbyte/arraydb/memfrag"
	"github.com/arcbyte/arraydb/schema"
)

func TestNewFromCoordTypeDispatchesOnMatch(t *testing.T) {
	sch := testSchema()
	dom := sch.Domain()
	frag0 := memfrag.NewDenseFragment[int64](sch, dom, dom, map[int]memfrag.ValueFunc[int64]{
		0: rowMajorValue,
	})
	arr := dataset.NewInMemoryArray[int64](sch, []fragment.Fragment[int64]{frag0}, dom, []int{0}, true)

	r, err := NewFromCoordType(schema.CoordInt64, arr)
	require.NoError(t, err)
	require.NotNil(t, r)

	buf := make([]byte, 16*8)
	written, done, err := r.Read([][]byte{buf})
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, 16*8, written[0])
}

func TestNewFromCoordTypeRejectsMismatchedCoordType(t *testing.T) {
	sch := testSchema()
	dom := sch.Domain()
	frag0 := memfrag.NewDenseFragment[int64](sch, dom, dom, map[int]memfrag.ValueFunc[int64]{
		0: rowMajorValue,
	})
	arr := dataset.NewInMemoryArray[int64](sch, []fragment.Fragment[int64]{frag0}, dom, []int{0}, true)

	r, err := NewFromCoordType(schema.CoordInt32, arr)
	require.ErrorIs(t, err, ErrUnsupportedCoordType)
	require.Nil(t, r)
}

func TestNewFromCoordTypeRejectsUnknownCoordType(t *testing.T) {
	r, err := NewFromCoordType(schema.CoordType(99), nil)
	require.ErrorIs(t, err, ErrUnsupportedCoordType)
	require.Nil(t, r)
}
