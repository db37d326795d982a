package mergeengine

import (
	"testing"

	"github.com/arcbyte/arraydb/coord"
	"github.com/arcbyte/arraydb/schema"
)

func coordRange(lo0, hi0, lo1, hi1 int64) coord.Range[int64] {
	return coord.Range[int64]{Lo: []int64{lo0, lo1}, Hi: []int64{hi0, hi1}}
}

func testSchema2x2() *schema.DenseSchema[int64] {
	domain := coordRange(0, 3, 0, 3)
	return schema.NewDenseSchema[int64](domain, []int64{2, 2}, schema.RowMajor, schema.CoordInt64, []schema.AttrDef{
		{Name: "a", Size: 8},
	})
}

// TestPartialContigTile checks a subarray [1..2, 0..3] over a dense
// 2x2-tiled [0..3,0..3] domain. Tile (0,0)'s overlap with the subarray is
// its second row, which is PartialContig (the inner, column dimension
// spans the whole tile), emitted as a single slab.
func TestPartialContigTile(t *testing.T) {
	sch := testSchema2x2()
	tileDomain := TileGlobalDomain[int64](sch, []int64{0, 0})

	query := coordRange(1, 2, 0, 3)
	overlapLocal, ok := OverlapTileLocal[int64](sch, query, tileDomain)
	if !ok {
		t.Fatalf("expected overlap")
	}

	ot := ClassifyOverlap[int64](sch, overlapLocal)
	if ot != PartialContig {
		t.Fatalf("got %v, want PartialContig", ot)
	}

	ranges := OverlapCellRanges[int64](sch, 0, tileDomain, overlapLocal, ot)
	if len(ranges) != 1 {
		t.Fatalf("expected one slab, got %d", len(ranges))
	}
}

// TestPartialNonContigTileSlabs checks that an overlap spanning both
// rows of a tile but only its second column is PartialNonContig, and
// must be emitted as two length-1 row slabs rather than one range.
func TestPartialNonContigTileSlabs(t *testing.T) {
	sch := testSchema2x2()
	tileDomain := TileGlobalDomain[int64](sch, []int64{0, 0})

	overlapLocal := coordRange(0, 1, 1, 1)
	ot := ClassifyOverlap[int64](sch, overlapLocal)
	if ot != PartialNonContig {
		t.Fatalf("got %v, want PartialNonContig", ot)
	}

	ranges := OverlapCellRanges[int64](sch, 0, tileDomain, overlapLocal, ot)
	if len(ranges) != 2 {
		t.Fatalf("expected two length-1 slabs, got %d", len(ranges))
	}
	for _, r := range ranges {
		if r.Range.Lo[1] != r.Range.Hi[1] {
			t.Fatalf("expected single-column slab, got %v..%v", r.Range.Lo, r.Range.Hi)
		}
	}
}

func TestClassifyOverlapFull(t *testing.T) {
	sch := testSchema2x2()
	overlapLocal := coordRange(0, 1, 0, 1)
	if got := ClassifyOverlap[int64](sch, overlapLocal); got != Full {
		t.Fatalf("got %v, want Full", got)
	}
}

func TestIntersectRangeDisjoint(t *testing.T) {
	a := coordRange(0, 1, 0, 1)
	b := coordRange(2, 3, 2, 3)
	if _, ok := IntersectRange[int64](a, b); ok {
		t.Fatalf("expected no overlap")
	}
}

func TestTileGlobalDomain(t *testing.T) {
	sch := testSchema2x2()
	got := TileGlobalDomain[int64](sch, []int64{1, 0})
	want := coordRange(2, 3, 0, 1)
	for i := range want.Lo {
		if got.Lo[i] != want.Lo[i] || got.Hi[i] != want.Hi[i] {
			t.Fatalf("got %v..%v, want %v..%v", got.Lo, got.Hi, want.Lo, want.Hi)
		}
	}
}
