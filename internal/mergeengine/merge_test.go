package mergeengine

import (
	"testing"

	"github.com/arcbyte/arraydb/cellrange"
	"github.com/arcbyte/arraydb/coord"
	"github.com/arcbyte/arraydb/fragment"
)

// fakeDenseFragment is a minimal fragment.Fragment stub for Merge tests;
// only the methods Merge actually calls need real behavior.
type fakeDenseFragment struct{}

func (fakeDenseFragment) Dense() bool                          { return true }
func (fakeDenseFragment) GlobalTileCoords() []int64            { return nil }
func (fakeDenseFragment) GetNextOverlappingTileMult()           {}
func (fakeDenseFragment) MaxOverlap(coord.Range[int64]) bool    { return false }
func (fakeDenseFragment) ComputeFragmentCellRanges(int, coord.Range[int64]) ([]cellrange.FragmentCellRange[int64], error) {
	return nil, nil
}
func (fakeDenseFragment) CoordsExist([]int64) bool { return true }
func (fakeDenseFragment) GetFirstTwoCoords(start []int64) ([]int64, []int64, error) {
	return start, nil, nil
}
func (fakeDenseFragment) GetCellPosRangesSparse(coord.Range[int64], coord.Range[int64]) ([]cellrange.FragmentCellPosRange, error) {
	return nil, nil
}
func (fakeDenseFragment) CopyCellRange(int, []byte, *int, coord.Range[int64], cellrange.CellPosRange) (bool, error) {
	return false, nil
}
func (fakeDenseFragment) ResetOverflow()        {}
func (fakeDenseFragment) Overflow(int) bool     { return false }
func (fakeDenseFragment) TileDone(int)          {}

var _ fragment.Fragment[int64] = fakeDenseFragment{}

// TestMergeNewerFragmentOverrides checks that fragment 1 (global
// [1..2,1..2], a sub-rectangle of tile (0,0)'s domain [0..1,0..1]
// intersected down to [1..1,1..1]) overrides fragment 0's full-tile
// range wherever they overlap: fragment 1's cell survives unmodified and
// no fragment 0 range still claims that cell.
func TestMergeNewerFragmentOverrides(t *testing.T) {
	sch := testSchema2x2()
	tileDomain := TileGlobalDomain[int64](sch, []int64{0, 0})

	frags := []fragment.Fragment[int64]{fakeDenseFragment{}, fakeDenseFragment{}}

	candidates := []cellrange.FragmentCellRange[int64]{
		{FragmentID: 0, Range: coordRange(0, 1, 0, 1)},
		{FragmentID: 1, Range: coordRange(1, 1, 1, 1)},
	}

	merged, err := Merge[int64](sch, frags, tileDomain, candidates)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	var sawNewer bool
	for _, m := range merged {
		if m.FragmentID == 1 {
			sawNewer = true
			if sch.CellOrderCmp(m.Range.Lo, []int64{1, 1}) != 0 || sch.CellOrderCmp(m.Range.Hi, []int64{1, 1}) != 0 {
				t.Fatalf("expected fragment 1's exact cell to survive unmodified, got %v..%v", m.Range.Lo, m.Range.Hi)
			}
		}
	}
	if !sawNewer {
		t.Fatalf("expected fragment 1's override range in output, got %+v", merged)
	}

	// Fragment 0 must not claim the overridden cell (1,1).
	for _, m := range merged {
		if m.FragmentID != 0 {
			continue
		}
		lo, hi := m.Range.Lo, m.Range.Hi
		if sch.CellOrderCmp(lo, []int64{1, 1}) <= 0 && sch.CellOrderCmp([]int64{1, 1}, hi) <= 0 {
			t.Fatalf("fragment 0 range %v..%v still claims overridden cell (1,1)", lo, hi)
		}
	}
}

func TestToPosRangesDense(t *testing.T) {
	sch := testSchema2x2()
	tileDomain := TileGlobalDomain[int64](sch, []int64{0, 0})
	frags := []fragment.Fragment[int64]{fakeDenseFragment{}}

	merged := []cellrange.FragmentCellRange[int64]{
		{FragmentID: 0, Range: coordRange(0, 1, 0, 1)},
	}

	out, err := ToPosRanges[int64](sch, frags, tileDomain, merged)
	if err != nil {
		t.Fatalf("ToPosRanges: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected one pos range, got %d", len(out))
	}
	if out[0].Pos.First != 0 || out[0].Pos.Last != 3 {
		t.Fatalf("expected whole-tile pos range [0,3], got [%d,%d]", out[0].Pos.First, out[0].Pos.Last)
	}
}
