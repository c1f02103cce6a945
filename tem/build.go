package tem

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/maseology/basinmorph/grid"
)

// Options control how a TEM is built from a DEM.
type Options struct {
	Neighbours       int          // 4 or 8 (0 defaults to 8)
	FillSinks        bool         // fill depressions before routing
	FlatIncrement    float64      // elevation step used to drain flats, <=0: smallest representable step
	Progress         ProgressFunc // optional
	ProgressInterval int          // cells between progress calls, <=0: one grid row
}

// DefaultOptions D8 routing over a sink-filled surface
func DefaultOptions() Options {
	return Options{Neighbours: 8, FillSinks: true}
}

func (o Options) interval(gd *grid.Definition) int {
	if o.ProgressInterval > 0 {
		return o.ProgressInterval
	}
	return gd.Ncol
}

// Build conditions the DEM and assigns a single steepest-descent direction
// to every valid cell.
func Build(dem *grid.DEM, opt Options) (*TEM, error) {
	if dem == nil || dem.GD == nil {
		return nil, fmt.Errorf("%w: tem.Build: nil DEM", grid.ErrInvalidGrid)
	}
	nbr, err := grid.NewNeighbourhood(opt.Neighbours)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", grid.ErrInvalidGrid, err)
	}
	t := &TEM{
		GD:    dem.GD,
		N:     nbr.Len(),
		Zc:    condition(dem, nbr, opt),
		Dir:   make([]int8, dem.GD.Ncells()),
		Slope: make([]float64, dem.GD.Ncells()),
	}
	t.route(dem, nbr, NewReporter(opt.Progress, "route", dem.NumValid(), opt.interval(dem.GD)))
	return t, nil
}

type floodCell struct {
	z   float64
	seq int
	cid int
}

type floodQueue []floodCell

func (q floodQueue) Len() int { return len(q) }
func (q floodQueue) Less(i, j int) bool {
	if q[i].z == q[j].z {
		return q[i].seq < q[j].seq
	}
	return q[i].z < q[j].z
}
func (q floodQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *floodQueue) Push(x any)   { *q = append(*q, x.(floodCell)) }
func (q *floodQueue) Pop() any {
	old := *q
	n := len(old)
	c := old[n-1]
	*q = old[:n-1]
	return c
}

// condition is a priority flood from the grid boundary. Each cell is
// visited once, lowest first; flats (and depressions when filling) are
// raised just above the cell that reached them.
func condition(dem *grid.DEM, nbr grid.Neighbourhood, opt Options) []float64 {
	gd := dem.GD
	n := gd.Ncells()
	zc := make([]float64, n)
	done := make([]bool, n)
	for i := range zc {
		zc[i] = math.NaN()
	}

	inc := func(z float64) float64 { return math.Nextafter(z, math.Inf(1)) }
	if opt.FlatIncrement > 0. {
		inc = func(z float64) float64 { return z + opt.FlatIncrement }
	}

	q := &floodQueue{}
	seq := 0
	push := func(cid int, z float64) {
		zc[cid] = z
		done[cid] = true
		heap.Push(q, floodCell{z: z, seq: seq, cid: cid})
		seq++
	}
	for cid := 0; cid < n; cid++ {
		if !dem.IsNoData(cid) && onBoundary(dem, cid, nbr) {
			push(cid, dem.Z[cid])
		}
	}

	rpt := NewReporter(opt.Progress, "condition", dem.NumValid(), opt.interval(gd))
	for q.Len() > 0 {
		c := heap.Pop(q).(floodCell).cid
		rpt.Step()
		up := inc(zc[c])
		for k := 0; k < nbr.Len(); k++ {
			nb := gd.Neighbour(c, k, nbr)
			if nb < 0 || done[nb] || dem.IsNoData(nb) {
				continue
			}
			z := dem.Z[nb]
			if opt.FillSinks {
				if z < up {
					z = up
				}
			} else if z >= dem.Z[c] && z < up {
				z = up
			}
			push(nb, z)
		}
	}
	return zc
}

// onBoundary is true for cells on the grid edge or next to no-data.
func onBoundary(dem *grid.DEM, cid int, nbr grid.Neighbourhood) bool {
	for k := 0; k < nbr.Len(); k++ {
		nb := dem.GD.Neighbour(cid, k, nbr)
		if nb < 0 || dem.IsNoData(nb) {
			return true
		}
	}
	return false
}

func (t *TEM) route(dem *grid.DEM, nbr grid.Neighbourhood, rpt *Reporter) {
	for cid := range t.Dir {
		if dem.IsNoData(cid) {
			t.Dir[cid] = NoFlow
			continue
		}
		best, gmax := Sink, 0.
		for k := 0; k < nbr.Len(); k++ {
			nb := t.GD.Neighbour(cid, k, nbr)
			if nb < 0 || dem.IsNoData(nb) {
				continue
			}
			if g := (t.Zc[cid] - t.Zc[nb]) / t.GD.Distance(k, nbr); g > gmax {
				best, gmax = int8(k), g
			}
		}
		t.Dir[cid] = best
		t.Slope[cid] = gmax
		rpt.Step()
	}
}
