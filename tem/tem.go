package tem

import (
	"fmt"
	"math"

	"github.com/maseology/basinmorph/grid"
)

const (
	// Sink marks a valid cell without a downslope neighbour (pit or outlet).
	Sink int8 = -1
	// NoFlow marks a no-data cell.
	NoFlow int8 = -2
)

// TEM topologic elevation model: a single-direction flow grid over a DEM.
// Dir holds, per cell, the neighbourhood index of the steepest downslope
// neighbour (or Sink/NoFlow).
type TEM struct {
	GD    *grid.Definition
	N     int       // neighbour count (4 or 8)
	Dir   []int8    // flow direction index
	Zc    []float64 // conditioned elevations (nil when directions were supplied)
	Slope []float64 // gradient toward the downslope cell (rise/run), 0 at sinks
}

// TEC topologic elevation cell
type TEC struct {
	Z, S, A float64 // conditioned elevation, downslope gradient, flow aspect (radians clockwise from north)
	Ds      int     // downslope cell id, -1 at sinks
}

// New wraps a flow direction grid supplied by the host.
func New(gd *grid.Definition, dir []int8, neighbours int) (*TEM, error) {
	nbr, err := grid.NewNeighbourhood(neighbours)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", grid.ErrInvalidGrid, err)
	}
	if gd == nil || len(dir) != gd.Ncells() {
		return nil, fmt.Errorf("%w: tem.New: direction grid does not match its definition", grid.ErrInvalidGrid)
	}
	t := &TEM{GD: gd, N: nbr.Len(), Dir: make([]int8, len(dir)), Slope: make([]float64, len(dir))}
	copy(t.Dir, dir)
	for cid, k := range t.Dir {
		switch {
		case k == Sink || k == NoFlow:
			continue
		case k < 0 || int(k) >= nbr.Len():
			return nil, fmt.Errorf("%w: tem.New: cell %d has direction %d", grid.ErrInvalidGrid, cid, k)
		}
		ds := gd.Neighbour(cid, int(k), nbr)
		if ds < 0 {
			return nil, fmt.Errorf("%w: tem.New: cell %d drains off the grid", grid.ErrInvalidGrid, cid)
		}
		if t.Dir[ds] == NoFlow {
			return nil, fmt.Errorf("%w: tem.New: cell %d drains into no-data cell %d", grid.ErrInvalidGrid, cid, ds)
		}
	}
	return t, nil
}

// Neighbourhood returns the neighbourhood used to route the grid.
func (t *TEM) Neighbourhood() grid.Neighbourhood {
	if t.N == 4 {
		return grid.D4
	}
	return grid.D8
}

// NumCells number of cells that carry a flow direction (valid cells)
func (t *TEM) NumCells() int {
	n := 0
	for _, k := range t.Dir {
		if k != NoFlow {
			n++
		}
	}
	return n
}

// IsValid returns false for no-data cells.
func (t *TEM) IsValid(cid int) bool { return t.Dir[cid] != NoFlow }

// Downslope returns the cell cid drains to, -1 for sinks and no-data.
func (t *TEM) Downslope(cid int) int {
	k := t.Dir[cid]
	if k < 0 {
		return -1
	}
	return t.GD.Neighbour(cid, int(k), t.Neighbourhood())
}

// UpIDs returns the cells draining directly into cid, in neighbourhood order.
func (t *TEM) UpIDs(cid int) []int {
	nbr := t.Neighbourhood()
	var us []int
	for k := 0; k < nbr.Len(); k++ {
		u := t.GD.Neighbour(cid, k, nbr)
		if u >= 0 && t.Dir[u] == int8(nbr.Opposite(k)) {
			us = append(us, u)
		}
	}
	return us
}

// Sinks returns all valid cells without a downslope neighbour.
func (t *TEM) Sinks() []int {
	var s []int
	for cid, k := range t.Dir {
		if k == Sink {
			s = append(s, cid)
		}
	}
	return s
}

// StepLength returns the distance travelled from cid to its downslope cell.
func (t *TEM) StepLength(cid int) float64 {
	k := t.Dir[cid]
	if k < 0 {
		return 0.
	}
	return t.GD.Distance(int(k), t.Neighbourhood())
}

// TEC returns the topologic properties of a cell.
func (t *TEM) TEC(cid int) TEC {
	c := TEC{Ds: t.Downslope(cid), S: t.Slope[cid], A: math.NaN()}
	if t.Zc != nil {
		c.Z = t.Zc[cid]
	}
	if k := t.Dir[cid]; k >= 0 {
		dr, dc := t.Neighbourhood().Offset(int(k))
		c.A = math.Atan2(float64(dc), float64(-dr))
		if c.A < 0 {
			c.A += 2. * math.Pi
		}
	}
	return c
}
