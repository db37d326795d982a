package coord

import "testing"

func TestCellOrderCmpRowMajor(t *testing.T) {
	a := []int64{0, 1}
	b := []int64{0, 2}
	if CellOrderCmp(a, b, RowMajor) >= 0 {
		t.Fatalf("expected a < b")
	}
	c := []int64{1, 0}
	if CellOrderCmp(c, b, RowMajor) <= 0 {
		t.Fatalf("expected c > b in row-major")
	}
}

func TestCellOrderCmpColumnMajor(t *testing.T) {
	// In column-major, the last dimension is slowest-varying.
	a := []int64{1, 0}
	b := []int64{0, 1}
	if CellOrderCmp(a, b, ColumnMajor) >= 0 {
		t.Fatalf("expected a < b in column-major")
	}
}

func TestNextCellCoordsRowMajorWraps(t *testing.T) {
	tile := Range[int64]{Lo: []int64{0, 0}, Hi: []int64{1, 1}}
	coords := []int64{0, 1}
	got := NextCellCoords(tile, coords, RowMajor)
	want := []int64{1, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestNextPrevCellCoordsRoundTrip(t *testing.T) {
	tile := Range[int64]{Lo: []int64{0, 0}, Hi: []int64{2, 2}}
	coords := []int64{1, 2}
	advanced := NextCellCoords(tile, append([]int64{}, coords...), RowMajor)
	back := PrevCellCoords(tile, append([]int64{}, advanced...), RowMajor)
	for i := range coords {
		if back[i] != coords[i] {
			t.Fatalf("round trip mismatch: got %v want %v", back, coords)
		}
	}
}

func TestCellPosRowMajor(t *testing.T) {
	extents := []int64{2, 2}
	tests := []struct {
		coords []int64
		want   int64
	}{
		{[]int64{0, 0}, 0},
		{[]int64{0, 1}, 1},
		{[]int64{1, 0}, 2},
		{[]int64{1, 1}, 3},
	}
	for _, tc := range tests {
		if got := CellPos(extents, tc.coords, RowMajor); got != tc.want {
			t.Fatalf("CellPos(%v) = %d, want %d", tc.coords, got, tc.want)
		}
	}
}

func TestCellPosColumnMajor(t *testing.T) {
	extents := []int64{2, 2}
	tests := []struct {
		coords []int64
		want   int64
	}{
		{[]int64{0, 0}, 0},
		{[]int64{1, 0}, 1},
		{[]int64{0, 1}, 2},
		{[]int64{1, 1}, 3},
	}
	for _, tc := range tests {
		if got := CellPos(extents, tc.coords, ColumnMajor); got != tc.want {
			t.Fatalf("CellPos(%v) = %d, want %d", tc.coords, got, tc.want)
		}
	}
}

func TestInDomain(t *testing.T) {
	d := Range[int64]{Lo: []int64{0, 0}, Hi: []int64{3, 3}}
	if !InDomain(d, []int64{2, 2}) {
		t.Fatalf("expected inside domain")
	}
	if InDomain(d, []int64{4, 2}) {
		t.Fatalf("expected outside domain")
	}
}

func TestCellPosCoordsFromPosRoundTrip(t *testing.T) {
	extents := []int64{3, 4}
	for _, order := range []CellOrder{RowMajor, ColumnMajor} {
		for r := int64(0); r < 3; r++ {
			for c := int64(0); c < 4; c++ {
				coords := []int64{r, c}
				pos := CellPos(extents, coords, order)
				back := CoordsFromPos(extents, pos, order, nil)
				if back[0] != r || back[1] != c {
					t.Fatalf("order=%v coords=%v pos=%d back=%v", order, coords, pos, back)
				}
			}
		}
	}
}

func TestRangeClone(t *testing.T) {
	r := Range[int64]{Lo: []int64{0, 0}, Hi: []int64{1, 1}}
	c := r.Clone()
	c.Lo[0] = 5
	if r.Lo[0] == 5 {
		t.Fatalf("Clone aliased backing array")
	}
}
