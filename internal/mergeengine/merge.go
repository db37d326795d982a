package mergeengine

import (
	"container/heap"

	"github.com/arcbyte/arraydb/cellrange"
	"github.com/arcbyte/arraydb/coord"
	"github.com/arcbyte/arraydb/fragment"
	"github.com/arcbyte/arraydb/schema"
)

// pqueue is a container/heap priority queue over candidate
// FragmentCellRanges. Less reports "pops first": earlier cell-order start
// wins, ties broken by the newer (higher) fragment id, so the queue
// always pops the newest of the earliest-starting ranges.
type pqueue[T coord.Number] struct {
	items []cellrange.FragmentCellRange[T]
	sch   schema.Schema[T]
}

func (q *pqueue[T]) Len() int { return len(q.items) }

func (q *pqueue[T]) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	cmp := q.sch.CellOrderCmp(a.Range.Lo, b.Range.Lo)
	if cmp != 0 {
		return cmp < 0
	}
	return a.FragmentID > b.FragmentID
}

func (q *pqueue[T]) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *pqueue[T]) Push(x any) {
	q.items = append(q.items, x.(cellrange.FragmentCellRange[T]))
}

func (q *pqueue[T]) Pop() any {
	old := q.items
	n := len(old)
	it := old[n-1]
	q.items = old[:n-1]
	return it
}

func (q *pqueue[T]) peek() cellrange.FragmentCellRange[T] { return q.items[0] }

// Merge runs the priority-queue pop/override loop over candidates (the
// seed max-overlap ranges plus every other coinciding fragment's own
// contributed ranges) and returns the disjoint, override-resolved
// sequence of FragmentCellRanges for the tile named by tileDomain (its
// global bounds, from TileGlobalDomain).
//
// Newer fragment ids always win overlaps, regardless of which endpoint
// of an overlapping pair started first.
func Merge[T coord.Number](sch schema.Schema[T], fragments []fragment.Fragment[T], tileDomain coord.Range[T], candidates []cellrange.FragmentCellRange[T]) ([]cellrange.FragmentCellRange[T], error) {
	q := &pqueue[T]{sch: sch}
	heap.Init(q)
	for _, c := range candidates {
		heap.Push(q, c)
	}

	var result []cellrange.FragmentCellRange[T]

	for q.Len() > 0 {
		popped := heap.Pop(q).(cellrange.FragmentCellRange[T])
		poppedRange := popped.Range
		poppedFragID := popped.FragmentID

		dense := poppedFragID == cellrange.EmptyFill || fragments[poppedFragID].Dense()
		isUnary := sch.CellOrderCmp(poppedRange.Lo, poppedRange.Hi) == 0

		if isUnary && !dense && !fragments[poppedFragID].CoordsExist(poppedRange.Lo) {
			continue // no actual cell there; discard
		}

		if q.Len() == 0 {
			result = append(result, cellrange.FragmentCellRange[T]{FragmentID: poppedFragID, Range: poppedRange})
			continue
		}

		if dense || isUnary {
			// Discard or trim queue entries that are older and start
			// inside popped's span.
			for q.Len() > 0 {
				top := q.peek()
				if top.FragmentID >= poppedFragID {
					break
				}
				if sch.CellOrderCmp(top.Range.Lo, poppedRange.Lo) < 0 ||
					sch.CellOrderCmp(top.Range.Lo, poppedRange.Hi) > 0 {
					break
				}
				heap.Pop(q)
				if sch.CellOrderCmp(top.Range.Hi, poppedRange.Hi) > 0 {
					newLo := cloneCoords(poppedRange.Hi)
					sch.NextCellCoords(tileDomain, newLo)
					heap.Push(q, cellrange.FragmentCellRange[T]{
						FragmentID: top.FragmentID,
						Range:      coord.Range[T]{Lo: newLo, Hi: cloneCoords(top.Range.Hi)},
					})
				}
			}

			// A newer top starting inside popped overrides popped's tail.
			if q.Len() > 0 {
				top := q.peek()
				if top.FragmentID > poppedFragID &&
					sch.CellOrderCmp(top.Range.Lo, poppedRange.Lo) >= 0 &&
					sch.CellOrderCmp(top.Range.Lo, poppedRange.Hi) <= 0 {
					if sch.CellOrderCmp(top.Range.Hi, poppedRange.Hi) < 0 {
						suffixLo := cloneCoords(top.Range.Hi)
						sch.NextCellCoords(tileDomain, suffixLo)
						heap.Push(q, cellrange.FragmentCellRange[T]{
							FragmentID: poppedFragID,
							Range:      coord.Range[T]{Lo: suffixLo, Hi: cloneCoords(poppedRange.Hi)},
						})
					}
					newHi := cloneCoords(top.Range.Lo)
					sch.PrevCellCoords(tileDomain, newHi)
					poppedRange.Hi = newHi
				}
			}

			result = append(result, cellrange.FragmentCellRange[T]{FragmentID: poppedFragID, Range: poppedRange})
		} else {
			// Sparse-multi popped.
			top := q.peek()
			if sch.CellOrderCmp(top.Range.Lo, poppedRange.Hi) > 0 {
				result = append(result, cellrange.FragmentCellRange[T]{FragmentID: poppedFragID, Range: poppedRange})
				continue
			}

			c1, c2, err := fragments[poppedFragID].GetFirstTwoCoords(poppedRange.Lo)
			if err != nil {
				return nil, err
			}
			if sch.CellOrderCmp(c1, tileDomain.Hi) <= 0 {
				heap.Push(q, cellrange.FragmentCellRange[T]{FragmentID: poppedFragID, Range: coord.Range[T]{Lo: c1, Hi: cloneCoords(c1)}})
			}
			if c2 != nil && sch.CellOrderCmp(c2, tileDomain.Hi) <= 0 && sch.CellOrderCmp(c2, poppedRange.Hi) <= 0 {
				heap.Push(q, cellrange.FragmentCellRange[T]{FragmentID: poppedFragID, Range: coord.Range[T]{Lo: c2, Hi: cloneCoords(poppedRange.Hi)}})
			}
		}
	}

	return result, nil
}

func cloneCoords[T coord.Number](src []T) []T {
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}

// ToPosRanges converts merged, override-resolved FragmentCellRanges into
// tile-local FragmentCellPosRanges. Dense and empty-fill ranges
// translate directly via Schema.CellPos; sparse ranges delegate to the
// owning fragment's GetCellPosRangesSparse, which may split one
// coordinate range into several position ranges.
func ToPosRanges[T coord.Number](sch schema.Schema[T], fragments []fragment.Fragment[T], tileDomain coord.Range[T], merged []cellrange.FragmentCellRange[T]) ([]cellrange.FragmentCellPosRange, error) {
	var out []cellrange.FragmentCellPosRange
	n := sch.DimNum()

	for _, fcr := range merged {
		if fcr.FragmentID == cellrange.EmptyFill || fragments[fcr.FragmentID].Dense() {
			lo := make([]T, n)
			hi := make([]T, n)
			for i := 0; i < n; i++ {
				lo[i] = fcr.Range.Lo[i] - tileDomain.Lo[i]
				hi[i] = fcr.Range.Hi[i] - tileDomain.Lo[i]
			}
			out = append(out, cellrange.FragmentCellPosRange{
				FragmentID: fcr.FragmentID,
				Pos: cellrange.CellPosRange{
					First: sch.CellPos(lo),
					Last:  sch.CellPos(hi),
				},
			})
			continue
		}

		sparse, err := fragments[fcr.FragmentID].GetCellPosRangesSparse(tileDomain, fcr.Range)
		if err != nil {
			return nil, err
		}
		for _, s := range sparse {
			s.FragmentID = fcr.FragmentID
			out = append(out, s)
		}
	}

	return out, nil
}
