package morph

import (
	"math"

	"github.com/maseology/basinmorph/grid"
)

// hornSlope returns the slope of a cell in degrees from Horn's 3x3
// finite-difference gradient. Neighbours off the grid or without data take
// the centre value.
func hornSlope(dem *grid.DEM, cid int) float64 {
	gd := dem.GD
	r, c := gd.RowCol(cid)
	z0 := dem.Z[cid]
	z := func(dr, dc int) float64 {
		if v, ok := dem.Elevation(gd.CellID(r+dr, c+dc)); ok {
			return v
		}
		return z0
	}
	a, b, cc := z(-1, -1), z(-1, 0), z(-1, 1)
	d, f := z(0, -1), z(0, 1)
	g, h, i := z(1, -1), z(1, 0), z(1, 1)
	dzdx := ((cc + 2.*f + i) - (a + 2.*d + g)) / (8. * gd.Cw)
	dzdy := ((g + 2.*h + i) - (a + 2.*b + cc)) / (8. * gd.Cw)
	return math.Atan(math.Hypot(dzdx, dzdy)) * 180. / math.Pi
}
