package watershed

import (
	"github.com/maseology/basinmorph/grid"
	"github.com/maseology/basinmorph/tem"
	"github.com/twpayne/go-geom"
)

// Basin the cells draining to an outlet cell and their outline.
type Basin struct {
	GD          *grid.Definition
	Outlet      int        // outlet cell id
	OutletXY    geom.Coord // outlet cell centre
	OutletTEC   tem.TEC    // elevation, slope and aspect at the outlet
	Cells       []int      // breadth-first from the outlet
	FlowDist    []float64  // flow distance to the outlet, parallel to Cells
	Polygon     *geom.Polygon
	Approximate bool // measured without a projected reference
}

// Mask returns a grid-sized membership array.
func (b *Basin) Mask() []bool {
	m := make([]bool, b.GD.Ncells())
	for _, c := range b.Cells {
		m[c] = true
	}
	return m
}

// LongestFlowPath longest flow distance from any basin cell to the outlet.
func (b *Basin) LongestFlowPath() float64 {
	l := 0.
	for _, d := range b.FlowDist {
		if d > l {
			l = d
		}
	}
	return l
}

// Area of the basin polygon.
func (b *Basin) Area() float64 { return b.Polygon.Area() }

// Perimeter total length of the polygon rings, holes included.
func (b *Basin) Perimeter() float64 { return b.Polygon.Length() }
