package grid

import (
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// CellsInPolygon returns the valid cells whose centres fall inside the
// polygon's exterior ring and outside all of its holes, in ascending id order.
func (d *DEM) CellsInPolygon(p *geom.Polygon) []int {
	if p == nil || p.Empty() || p.NumLinearRings() == 0 {
		return nil
	}
	gd := d.GD
	b := p.Bounds()
	r0, r1 := clampIndex((gd.Yul-b.Max(1))/gd.Cw, gd.Nrow), clampIndex((gd.Yul-b.Min(1))/gd.Cw, gd.Nrow)
	c0, c1 := clampIndex((b.Min(0)-gd.Xul)/gd.Cw, gd.Ncol), clampIndex((b.Max(0)-gd.Xul)/gd.Cw, gd.Ncol)

	layout := p.Layout()
	rings := make([][]float64, p.NumLinearRings())
	for i := range rings {
		rings[i] = p.LinearRing(i).FlatCoords()
	}

	var cids []int
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			cid := gd.CellID(r, c)
			if d.IsNoData(cid) {
				continue
			}
			x, y := gd.CellCentroid(cid)
			if inside(layout, geom.Coord{x, y}, rings) {
				cids = append(cids, cid)
			}
		}
	}
	return cids
}

func inside(layout geom.Layout, pt geom.Coord, rings [][]float64) bool {
	if !xy.IsPointInRing(layout, pt, rings[0]) {
		return false
	}
	for _, h := range rings[1:] {
		if xy.IsPointInRing(layout, pt, h) {
			return false
		}
	}
	return true
}

func clampIndex(v float64, n int) int {
	i := int(math.Floor(v))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Sample returns the elevations of the given cells, skipping no-data.
func (d *DEM) Sample(cids []int) []float64 {
	z := make([]float64, 0, len(cids))
	for _, c := range cids {
		if v, ok := d.Elevation(c); ok {
			z = append(z, v)
		}
	}
	return z
}
