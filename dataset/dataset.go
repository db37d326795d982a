// Package dataset defines the Array collaborator contract: the schema,
// the recency-ordered fragment list, the requested attribute ids, and
// the query subarray a read-state instance is built from. Array storage
// and fragment persistence are out of scope; InMemoryArray exists for
// tests and the demo command.
package dataset

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/arcbyte/arraydb/coord"
	"github.com/arcbyte/arraydb/fragment"
	"github.com/arcbyte/arraydb/schema"
)

// Array is the collaborator contract the read-state engine consumes: a
// schema, a recency-ordered fragment list (index encodes recency —
// higher index is newer), the caller's requested attribute ids, and the
// query subarray.
//
// Dense is an array-level property rather than something inferred per
// fragment, since the engine branches on it once per read rather than
// asking each fragment in turn.
type Array[T coord.Number] interface {
	Schema() schema.Schema[T]
	Fragments() []fragment.Fragment[T]
	FragmentNum() int
	AttributeIDs() []int
	Range() coord.Range[T]
	Dense() bool
}

// InMemoryArray is a reference Array implementation over an in-memory
// fragment list.
type InMemoryArray[T coord.Number] struct {
	sch      schema.Schema[T]
	frags    []fragment.Fragment[T]
	attrIDs  []int
	subarray coord.Range[T]
	dense    bool
}

// NewInMemoryArray builds an Array over frags (in recency order, oldest
// first) restricted to subarray and attrIDs.
func NewInMemoryArray[T coord.Number](sch schema.Schema[T], frags []fragment.Fragment[T], subarray coord.Range[T], attrIDs []int, dense bool) *InMemoryArray[T] {
	return &InMemoryArray[T]{sch: sch, frags: frags, attrIDs: attrIDs, subarray: subarray, dense: dense}
}

func (a *InMemoryArray[T]) Schema() schema.Schema[T]         { return a.sch }
func (a *InMemoryArray[T]) Fragments() []fragment.Fragment[T] { return a.frags }
func (a *InMemoryArray[T]) FragmentNum() int                 { return len(a.frags) }
func (a *InMemoryArray[T]) AttributeIDs() []int              { return a.attrIDs }
func (a *InMemoryArray[T]) Range() coord.Range[T]            { return a.subarray }
func (a *InMemoryArray[T]) Dense() bool                      { return a.dense }

// AttributeIndex maps attribute names to ids via their xxhash digest, for
// schemas whose consumers address attributes by name rather than
// position.
type AttributeIndex struct {
	byHash map[uint64]int
	byName map[uint64]string
}

// NewAttributeIndex builds an AttributeIndex from a schema's declared
// attribute names, in declaration order (id 0, 1, 2, ...).
func NewAttributeIndex(names []string) *AttributeIndex {
	idx := &AttributeIndex{byHash: make(map[uint64]int, len(names)), byName: make(map[uint64]string, len(names))}
	for i, n := range names {
		h := xxhash.Sum64String(n)
		idx.byHash[h] = i
		idx.byName[h] = n
	}
	return idx
}

// Resolve returns the attribute ids for names, in the same order, or an
// error naming the first unknown attribute.
func (idx *AttributeIndex) Resolve(names []string) ([]int, error) {
	ids := make([]int, len(names))
	for i, n := range names {
		h := xxhash.Sum64String(n)
		id, ok := idx.byHash[h]
		if !ok {
			return nil, fmt.Errorf("dataset: unknown attribute %q", n)
		}
		ids[i] = id
	}
	return ids, nil
}
