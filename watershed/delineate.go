package watershed

import (
	"fmt"
	"math"

	"github.com/maseology/basinmorph/grid"
	"github.com/maseology/basinmorph/tem"
	"github.com/twpayne/go-geom"
)

// Options control basin delineation.
type Options struct {
	SnapRadius       float64 // search distance from the pour point, <=0: containing cell only
	MinAccumulation  int     // minimum upslope cells of the outlet
	Progress         tem.ProgressFunc
	ProgressInterval int // cells between progress calls, <=0: one grid row
}

// Delineate collects every cell whose flow path ends at the outlet snapped
// from the pour point, and traces its outline.
func Delineate(dem *grid.DEM, t *tem.TEM, acc *tem.Accumulation, pour geom.Coord, opt Options) (*Basin, error) {
	if dem == nil || t == nil || acc == nil || len(t.Dir) != dem.GD.Ncells() || len(acc.Upcnt) != dem.GD.Ncells() {
		return nil, fmt.Errorf("%w: watershed.Delineate: grids do not match", grid.ErrInvalidGrid)
	}
	outlet, err := snap(t, acc, pour, opt)
	if err != nil {
		return nil, err
	}

	b := &Basin{GD: t.GD, Outlet: outlet, OutletTEC: t.TEC(outlet), Approximate: dem.Approximate()}
	if t.Zc == nil {
		b.OutletTEC.Z = dem.Z[outlet]
	}
	x, y := t.GD.CellCentroid(outlet)
	b.OutletXY = geom.Coord{x, y}

	interval := opt.ProgressInterval
	if interval <= 0 {
		interval = t.GD.Ncol
	}
	rpt := tem.NewReporter(opt.Progress, "delineate", acc.Upcnt[outlet], interval)
	b.Cells, b.FlowDist = []int{outlet}, []float64{0.}
	for i := 0; i < len(b.Cells); i++ {
		c := b.Cells[i]
		rpt.Step()
		for _, u := range t.UpIDs(c) {
			b.Cells = append(b.Cells, u)
			b.FlowDist = append(b.FlowDist, b.FlowDist[i]+t.StepLength(u))
		}
	}
	if len(b.Cells) == 0 {
		return nil, ErrEmptyBasin
	}

	b.Polygon = trace(t.GD, b.Mask())
	if dem.Ref.EPSG > 0 {
		b.Polygon.SetSRID(dem.Ref.EPSG)
	}
	return b, nil
}

// snap returns the nearest cell to the pour point meeting the minimum
// accumulation; ties go to the larger accumulation, then the smaller id.
func snap(t *tem.TEM, acc *tem.Accumulation, pour geom.Coord, opt Options) (int, error) {
	gd := t.GD
	minacc := opt.MinAccumulation
	if minacc < 1 {
		minacc = 1
	}
	ok := func(cid int) bool { return cid >= 0 && t.IsValid(cid) && acc.Upcnt[cid] >= minacc }

	if !(opt.SnapRadius > 0.) {
		if cid := gd.PointToCellID(pour[0], pour[1]); ok(cid) {
			return cid, nil
		}
		return -1, fmt.Errorf("%w: no cell at (%.1f, %.1f) with at least %d upslope cells", ErrPourPointUnreachable, pour[0], pour[1], minacc)
	}

	xmin, ymin, xmax, ymax := gd.Extent()
	dx := math.Max(0., math.Max(xmin-pour[0], pour[0]-xmax))
	dy := math.Max(0., math.Max(ymin-pour[1], pour[1]-ymax))
	if math.Hypot(dx, dy) > opt.SnapRadius {
		return -1, fmt.Errorf("%w: (%.1f, %.1f) is farther than %.1f from the grid extent", ErrPourPointUnreachable, pour[0], pour[1], opt.SnapRadius)
	}

	r0 := int(math.Floor((gd.Yul - pour[1] - opt.SnapRadius) / gd.Cw))
	r1 := int(math.Floor((gd.Yul - pour[1] + opt.SnapRadius) / gd.Cw))
	c0 := int(math.Floor((pour[0] - gd.Xul - opt.SnapRadius) / gd.Cw))
	c1 := int(math.Floor((pour[0] - gd.Xul + opt.SnapRadius) / gd.Cw))
	best, bestd := -1, math.Inf(1)
	for r := max(r0, 0); r <= min(r1, gd.Nrow-1); r++ {
		for c := max(c0, 0); c <= min(c1, gd.Ncol-1); c++ {
			cid := gd.CellID(r, c)
			if !ok(cid) {
				continue
			}
			x, y := gd.CellCentroid(cid)
			d := math.Hypot(x-pour[0], y-pour[1])
			switch {
			case d > opt.SnapRadius:
			case d < bestd, d == bestd && acc.Upcnt[cid] > acc.Upcnt[best]:
				best, bestd = cid, d
			}
		}
	}
	if best < 0 {
		return -1, fmt.Errorf("%w: no cell within %.1f of (%.1f, %.1f) with at least %d upslope cells", ErrPourPointUnreachable, opt.SnapRadius, pour[0], pour[1], minacc)
	}
	return best, nil
}
