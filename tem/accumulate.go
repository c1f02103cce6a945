package tem

import (
	"fmt"

	"github.com/maseology/basinmorph/grid"
)

// Accumulation upslope cell counts (self included) and a topological
// processing order, upstream cells first.
type Accumulation struct {
	GD    *grid.Definition
	Upcnt []int // 0 for no-data cells
	Order []int // valid cell ids, every cell after all cells draining into it
}

// Accumulate counts contributing cells using Kahn's algorithm over
// in-degrees, seeding the queue in cell id order. Progress is reported every
// interval cells, <=0: one grid row.
func (t *TEM) Accumulate(progress ProgressFunc, interval int) (*Accumulation, error) {
	n := t.GD.Ncells()
	indeg := make([]int, n)
	nvalid := 0
	for cid := range t.Dir {
		if !t.IsValid(cid) {
			continue
		}
		nvalid++
		if ds := t.Downslope(cid); ds >= 0 {
			indeg[ds]++
		}
	}

	acc := &Accumulation{GD: t.GD, Upcnt: make([]int, n), Order: make([]int, 0, nvalid)}
	queue := make([]int, 0, nvalid)
	for cid := range t.Dir {
		if t.IsValid(cid) && indeg[cid] == 0 {
			queue = append(queue, cid)
		}
	}
	if interval <= 0 {
		interval = t.GD.Ncol
	}
	rpt := NewReporter(progress, "accumulate", nvalid, interval)
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		acc.Order = append(acc.Order, c)
		acc.Upcnt[c]++
		rpt.Step()
		if ds := t.Downslope(c); ds >= 0 {
			acc.Upcnt[ds] += acc.Upcnt[c]
			if indeg[ds]--; indeg[ds] == 0 {
				queue = append(queue, ds)
			}
		}
	}
	if len(acc.Order) != nvalid {
		return nil, fmt.Errorf("%w: %d of %d cells could not be ordered", ErrCycleDetected, nvalid-len(acc.Order), nvalid)
	}
	return acc, nil
}

// ContributingArea upslope area of a cell, in squared grid units.
func (a *Accumulation) ContributingArea(cid int) float64 {
	return float64(a.Upcnt[cid]) * a.GD.CellArea()
}
