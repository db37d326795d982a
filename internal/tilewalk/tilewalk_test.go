package tilewalk

import (
	"testing"

	"github.com/arcbyte/arraydb/coord"
	"github.com/arcbyte/arraydb/schema"
)

func testSchema() *schema.DenseSchema[int64] {
	domain := coord.Range[int64]{Lo: []int64{0, 0}, Hi: []int64{3, 3}}
	return schema.NewDenseSchema[int64](domain, []int64{2, 2}, schema.RowMajor, schema.CoordInt64, []schema.AttrDef{
		{Name: "a", Size: 8},
	})
}

// TestFullDomainWalk checks that for a subarray equal to the whole
// domain, the walk visits every one of the 2x2 tile lattice's four
// cells exactly once, in tile order.
func TestFullDomainWalk(t *testing.T) {
	sch := testSchema()
	subarray := sch.Domain()
	it := New[int64](sch, subarray)

	var visited [][]int64
	for !it.Done() {
		c := it.Current()
		visited = append(visited, append([]int64{}, c...))
		it.Advance()
	}

	want := [][]int64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	if len(visited) != len(want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i][0] != want[i][0] || visited[i][1] != want[i][1] {
			t.Fatalf("visited[%d] = %v, want %v", i, visited[i], want[i])
		}
	}
}

// TestSubarrayRestrictsWalk checks that a subarray touching only one
// column of tiles visits only that column.
func TestSubarrayRestrictsWalk(t *testing.T) {
	sch := testSchema()
	subarray := coord.Range[int64]{Lo: []int64{0, 0}, Hi: []int64{3, 1}}
	it := New[int64](sch, subarray)

	var visited [][]int64
	for !it.Done() {
		visited = append(visited, append([]int64{}, it.Current()...))
		it.Advance()
	}

	want := [][]int64{{0, 0}, {1, 0}}
	if len(visited) != len(want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
}

func TestEmptyIntersectionIsImmediatelyDone(t *testing.T) {
	sch := testSchema()
	subarray := coord.Range[int64]{Lo: []int64{10, 10}, Hi: []int64{12, 12}}
	it := New[int64](sch, subarray)
	if !it.Done() {
		t.Fatalf("expected Done for out-of-domain subarray")
	}
}

func TestWalkStrictlyIncreasingNoRepeat(t *testing.T) {
	sch := testSchema()
	it := New[int64](sch, sch.Domain())

	seen := map[[2]int64]bool{}
	var prev []int64
	for !it.Done() {
		cur := it.Current()
		key := [2]int64{cur[0], cur[1]}
		if seen[key] {
			t.Fatalf("tile %v visited twice", cur)
		}
		seen[key] = true
		if prev != nil && sch.TileOrderCmp(prev, cur) >= 0 {
			t.Fatalf("tile order not strictly increasing: %v then %v", prev, cur)
		}
		prev = append([]int64{}, cur...)
		it.Advance()
	}
}
