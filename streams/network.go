package streams

import (
	"fmt"
	"sort"

	"github.com/maseology/basinmorph/grid"
	"github.com/twpayne/go-geom"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Network a set of ordered stream segments.
type Network struct {
	Segments  []*Segment
	Threshold int // cells, 0 for host-supplied networks
}

// FromLines builds a geometry-only network from host-supplied stream lines
// carrying a Strahler order attribute.
func FromLines(lines []*geom.LineString, orders []int) (*Network, error) {
	if len(lines) != len(orders) {
		return nil, fmt.Errorf("%w: streams.FromLines: %d lines with %d orders", grid.ErrInvalidGrid, len(lines), len(orders))
	}
	nw := &Network{Segments: make([]*Segment, len(lines))}
	for i, ln := range lines {
		if ln == nil || ln.NumCoords() < 2 {
			return nil, fmt.Errorf("%w: streams.FromLines: line %d has fewer than two vertices", grid.ErrInvalidGrid, i)
		}
		if orders[i] < 1 {
			return nil, fmt.Errorf("%w: streams.FromLines: line %d has order %d", grid.ErrInvalidGrid, i, orders[i])
		}
		s := &Segment{ID: i, Kind: Confluence, Downstream: -1, Order: orders[i], Line: ln, Length: ln.Length()}
		if s.Order == 1 {
			s.Kind = Source
		}
		nw.Segments[i] = s
	}
	return nw, nil
}

// Len number of segments
func (nw *Network) Len() int { return len(nw.Segments) }

// OrderCounts number of segments per Strahler order
func (nw *Network) OrderCounts() map[int]int {
	m := make(map[int]int)
	for _, s := range nw.Segments {
		m[s.Order]++
	}
	return m
}

// MaxOrder highest Strahler order, 0 for an empty network
func (nw *Network) MaxOrder() int {
	o := 0
	for _, s := range nw.Segments {
		if s.Order > o {
			o = s.Order
		}
	}
	return o
}

// TotalLength sum of segment lengths
func (nw *Network) TotalLength() float64 {
	l := make([]float64, len(nw.Segments))
	for i, s := range nw.Segments {
		l[i] = s.Length
	}
	return floats.Sum(l)
}

// MainChannelLength total length of the highest-order segments
func (nw *Network) MainChannelLength() float64 {
	o, l := nw.MaxOrder(), 0.
	for _, s := range nw.Segments {
		if s.Order == o {
			l += s.Length
		}
	}
	return l
}

// BifurcationRatios N(k)/N(k+1) for every consecutive order pair present.
func (nw *Network) BifurcationRatios() map[int]float64 {
	cnt := nw.OrderCounts()
	m := make(map[int]float64)
	for k, n := range cnt {
		if n1 := cnt[k+1]; n1 > 0 {
			m[k] = float64(n) / float64(n1)
		}
	}
	return m
}

// MeanBifurcationRatio average of the per-order ratios, false when the
// network holds a single order.
func (nw *Network) MeanBifurcationRatio() (float64, bool) {
	rb := nw.BifurcationRatios()
	if len(rb) == 0 {
		return 0., false
	}
	ks := make([]int, 0, len(rb))
	for k := range rb {
		ks = append(ks, k)
	}
	sort.Ints(ks)
	v := make([]float64, len(ks))
	for i, k := range ks {
		v[i] = rb[k]
	}
	return stat.Mean(v, nil), true
}

// Cells all stream cells of the network
func (nw *Network) Cells() []int {
	var c []int
	for _, s := range nw.Segments {
		c = append(c, s.Cells...)
	}
	sort.Ints(c)
	return c
}
