// Package readstate implements the multi-fragment read coordinator: the
// range-tile walk, per-tile merge, and per-attribute copy engine,
// assembled into a suspendable Read operation that resumes exactly
// where a prior call left off.
package readstate

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"github.com/arcbyte/arraydb/cellrange"
	"github.com/arcbyte/arraydb/coord"
	"github.com/arcbyte/arraydb/dataset"
	"github.com/arcbyte/arraydb/fragment"
	"github.com/arcbyte/arraydb/internal/mergeengine"
	"github.com/arcbyte/arraydb/internal/tilewalk"
	"github.com/arcbyte/arraydb/schema"
)

// preparedTile is one entry of FragmentCellPosRangesVec: the
// override-resolved, position-converted ranges for one range tile, plus
// the fragment ids whose current tile coincided with it (so each
// attribute can send TileDone to them when it finishes the tile).
type preparedTile[T coord.Number] struct {
	tileDomain coord.Range[T]
	ranges     []cellrange.FragmentCellPosRange
	coinciding *bitset.BitSet
}

// ReadState is the multi-fragment read coordinator, generic over the
// array's coordinate scalar kind. It is single-threaded and
// cooperatively re-entrant: construct one per reader, drive it with
// successive Read calls, discard it when done.
type ReadState[T coord.Number] struct {
	sch       schema.Schema[T]
	fragments []fragment.Fragment[T]
	subarray  coord.Range[T]
	attrIDs   []int
	dense     bool

	walk *tilewalk.Iterator[T]

	posVec []preparedTile[T]

	vecPos   map[int]int
	innerPos map[int]int
	tileDone *bitset.BitSet
	overflow *bitset.BitSet
	fillCur  map[int]int64

	done bool

	id      uuid.UUID
	logger  log.Logger
	metrics *metrics
}

// New builds a ReadState over arr. Returns ErrNoFragments if arr has no
// fragments.
func New[T coord.Number](arr dataset.Array[T], opts ...Option) (*ReadState[T], error) {
	if arr.FragmentNum() == 0 {
		return nil, ErrNoFragments
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	attrIDs := arr.AttributeIDs()
	sch := arr.Schema()
	for _, a := range attrIDs {
		if sch.VarSize(a) {
			return nil, ErrVarSizeUnsupported
		}
	}

	rs := &ReadState[T]{
		sch:       sch,
		fragments: arr.Fragments(),
		subarray:  arr.Range(),
		attrIDs:   attrIDs,
		dense:     arr.Dense(),
		walk:      tilewalk.New[T](sch, arr.Range()),
		vecPos:    make(map[int]int, len(attrIDs)),
		innerPos:  make(map[int]int, len(attrIDs)),
		tileDone:  bitset.New(uint(sch.AttributeNum() + 1)),
		overflow:  bitset.New(uint(sch.AttributeNum() + 1)),
		fillCur:   make(map[int]int64),
		id:        uuid.New(),
		logger:    o.logger,
		metrics:   newMetrics(o.registerer),
	}
	for _, a := range attrIDs {
		rs.tileDone.Set(uint(a))
	}
	return rs, nil
}

// Read streams cells for the requested attributes into buffers (one
// slot per attribute, in the same order as the array's AttributeIDs)
// until every buffer is full or the read completes. written[i] is the
// number of bytes placed in buffers[i]. done is true once the subarray
// has been fully delivered, which is reported on the same call that
// writes the last cells; any later call writes zero bytes and returns
// done. A subsequent call with freshly sized buffers resumes exactly
// where this one left off.
func (rs *ReadState[T]) Read(buffers [][]byte) ([]int, bool, error) {
	if len(buffers) != len(rs.attrIDs) {
		return nil, false, ErrBufferCountMismatch
	}
	if rs.done {
		return make([]int, len(buffers)), true, nil
	}

	for _, f := range rs.fragments {
		f.ResetOverflow()
	}
	rs.overflow.ClearAll()

	written := make([]int, len(buffers))

	for i, a := range rs.attrIDs {
		offset := 0
		for {
			if !rs.tileDone.Test(uint(a)) {
				overflowed, err := rs.copyCellRanges(a, buffers[i], &offset)
				if err != nil {
					return nil, false, err
				}
				if overflowed {
					rs.overflow.Set(uint(a))
					break
				}
				continue
			}

			if rs.vecPos[a] == len(rs.posVec) {
				if rs.walk.Done() {
					break
				}
				if err := rs.prepareNextTile(); err != nil {
					return nil, false, err
				}
				rs.tileDone.Clear(uint(a))
				continue
			}

			overflowed, err := rs.copyCellRanges(a, buffers[i], &offset)
			if err != nil {
				return nil, false, err
			}
			if overflowed {
				rs.overflow.Set(uint(a))
				break
			}
		}
		written[i] = offset
		rs.gc()
	}

	rs.done = rs.walk.Done()
	for _, a := range rs.attrIDs {
		if rs.vecPos[a] != len(rs.posVec) || !rs.tileDone.Test(uint(a)) {
			rs.done = false
			break
		}
	}

	return written, rs.done, nil
}

func (rs *ReadState[T]) prepareNextTile() error {
	tileCoords := rs.walk.Current()
	tileDomain := mergeengine.TileGlobalDomain[T](rs.sch, tileCoords)

	for _, f := range rs.fragments {
		for f.GlobalTileCoords() != nil && rs.sch.TileOrderCmp(f.GlobalTileCoords(), tileCoords) < 0 {
			f.GetNextOverlappingTileMult()
		}
	}

	overlapGlobal, ok := mergeengine.IntersectRange[T](rs.subarray, tileDomain)
	if !ok {
		level.Warn(rs.logger).Log("msg", "range tile had no subarray overlap, skipping", "instance", rs.id)
		rs.walk.Advance()
		return nil
	}
	overlapLocal, _ := mergeengine.OverlapTileLocal[T](rs.sch, overlapGlobal, tileDomain)
	ot := mergeengine.ClassifyOverlap[T](rs.sch, overlapLocal)

	coinciding := bitset.New(uint(len(rs.fragments)))
	maxOverlapI := cellrange.EmptyFill
	for i := len(rs.fragments) - 1; i >= 0; i-- {
		cur := rs.fragments[i].GlobalTileCoords()
		if cur == nil || rs.sch.TileOrderCmp(cur, tileCoords) != 0 {
			continue
		}
		coinciding.Set(uint(i))
		if maxOverlapI == cellrange.EmptyFill && rs.fragments[i].MaxOverlap(overlapLocal) {
			maxOverlapI = i
		}
	}

	var candidates []cellrange.FragmentCellRange[T]
	if maxOverlapI != cellrange.EmptyFill {
		candidates = append(candidates, mergeengine.OverlapCellRanges[T](rs.sch, maxOverlapI, tileDomain, overlapLocal, ot)...)
	} else if rs.dense {
		candidates = append(candidates, mergeengine.OverlapCellRanges[T](rs.sch, cellrange.EmptyFill, tileDomain, overlapLocal, ot)...)
	}

	for i := maxOverlapI + 1; i < len(rs.fragments); i++ {
		if !coinciding.Test(uint(i)) {
			continue
		}
		ranges, err := rs.fragments[i].ComputeFragmentCellRanges(i, tileDomain)
		if err != nil {
			rs.metrics.fragmentsFailed.Inc()
			return fmt.Errorf("%w: fragment %d ComputeFragmentCellRanges: %v", ErrFragmentFailed, i, err)
		}
		candidates = append(candidates, ranges...)
	}

	merged, err := mergeengine.Merge[T](rs.sch, rs.fragments, tileDomain, candidates)
	if err != nil {
		rs.metrics.fragmentsFailed.Inc()
		return fmt.Errorf("%w: merge: %v", ErrFragmentFailed, err)
	}

	posRanges, err := mergeengine.ToPosRanges[T](rs.sch, rs.fragments, tileDomain, merged)
	if err != nil {
		rs.metrics.fragmentsFailed.Inc()
		return fmt.Errorf("%w: position conversion: %v", ErrFragmentFailed, err)
	}

	rs.posVec = append(rs.posVec, preparedTile[T]{tileDomain: tileDomain, ranges: posRanges, coinciding: coinciding})
	rs.metrics.tilesPrepared.Inc()
	level.Debug(rs.logger).Log("msg", "prepared range tile", "instance", rs.id, "tile", fmt.Sprint(tileCoords), "ranges", len(posRanges))

	rs.walk.Advance()
	return nil
}

func (rs *ReadState[T]) copyCellRanges(attr int, buf []byte, offset *int) (bool, error) {
	tile := rs.posVec[rs.vecPos[attr]]
	ranges := tile.ranges

	for rs.innerPos[attr] < len(ranges) {
		fcpr := ranges[rs.innerPos[attr]]

		if fcpr.FragmentID == cellrange.EmptyFill {
			overflowed := rs.copyEmptyFill(attr, buf, offset, fcpr.Pos)
			if overflowed {
				rs.metrics.overflowEvents.Inc()
				return true, nil
			}
		} else {
			f := rs.fragments[fcpr.FragmentID]
			overflowed, err := f.CopyCellRange(attr, buf, offset, tile.tileDomain, fcpr.Pos)
			if err != nil {
				rs.metrics.fragmentsFailed.Inc()
				return false, fmt.Errorf("%w: fragment %d CopyCellRange: %v", ErrFragmentFailed, fcpr.FragmentID, err)
			}
			if overflowed {
				rs.metrics.overflowEvents.Inc()
				return true, nil
			}
		}
		rs.metrics.cellsCopied.Add(float64(fcpr.Pos.Len()))
		rs.innerPos[attr]++
	}

	for i, ok := tile.coinciding.NextSet(0); ok; i, ok = tile.coinciding.NextSet(i + 1) {
		rs.fragments[i].TileDone(attr)
	}
	rs.vecPos[attr]++
	rs.innerPos[attr] = 0
	rs.tileDone.Set(uint(attr))
	return false, nil
}

// copyEmptyFill fills a dense gap no fragment covers with the
// attribute's configured fill value, honoring a mid-range resume cursor
// across overflowing calls.
func (rs *ReadState[T]) copyEmptyFill(attr int, buf []byte, offset *int, pos cellrange.CellPosRange) bool {
	fill := rs.sch.FillValue(attr)
	n := pos.Len()

	start := int64(0)
	if c, ok := rs.fillCur[attr]; ok {
		start = c
	}

	for j := start; j < n; j++ {
		if *offset+len(fill) > len(buf) {
			rs.fillCur[attr] = j
			return true
		}
		copy(buf[*offset:], fill)
		*offset += len(fill)
	}
	delete(rs.fillCur, attr)
	return false
}

func (rs *ReadState[T]) gc() {
	m := len(rs.posVec)
	for _, a := range rs.attrIDs {
		if rs.vecPos[a] < m {
			m = rs.vecPos[a]
		}
	}
	if m <= 0 {
		return
	}
	rs.posVec = rs.posVec[m:]
	for _, a := range rs.attrIDs {
		rs.vecPos[a] -= m
	}
}
