package grid

import (
	"fmt"
	"math"
)

// Reference is the coordinate reference system supplied by the host. The
// library never reprojects; it only needs to know whether map units are
// planar.
type Reference struct {
	Name      string `yaml:"name"`
	EPSG      int    `yaml:"epsg"`
	Projected bool   `yaml:"projected"`
}

// DEM digital elevation model. Immutable once built by NewDEM.
type DEM struct {
	GD     *Definition
	Z      []float64 // row-major elevations
	NoData float64
	Ref    Reference
	nvalid int
}

// NewDEM validates and wraps an elevation array. Cells equal to nodata (or
// NaN) are treated as no-data.
func NewDEM(gd *Definition, z []float64, nodata float64, ref Reference) (*DEM, error) {
	if err := gd.validate(); err != nil {
		return nil, err
	}
	if len(z) != gd.Ncells() {
		return nil, fmt.Errorf("%w: %d elevations for a %dx%d grid", ErrInvalidGrid, len(z), gd.Nrow, gd.Ncol)
	}
	d := &DEM{GD: gd, Z: make([]float64, len(z)), NoData: nodata, Ref: ref}
	copy(d.Z, z)
	for i, v := range d.Z {
		if d.IsNoData(i) {
			continue
		}
		if math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: infinite elevation at cell %d", ErrInvalidGrid, i)
		}
		d.nvalid++
	}
	if d.nvalid == 0 {
		return nil, fmt.Errorf("%w: no valid elevations", ErrInvalidGrid)
	}
	return d, nil
}

// IsNoData returns true if cid carries no elevation.
func (d *DEM) IsNoData(cid int) bool {
	v := d.Z[cid]
	return math.IsNaN(v) || v == d.NoData
}

// NumValid number of cells with an elevation
func (d *DEM) NumValid() int { return d.nvalid }

// Elevation returns the elevation of cid, false on no-data or out of range.
func (d *DEM) Elevation(cid int) (float64, bool) {
	if cid < 0 || cid >= len(d.Z) || d.IsNoData(cid) {
		return 0., false
	}
	return d.Z[cid], true
}

// ValueAt returns the elevation of the cell containing (x,y).
func (d *DEM) ValueAt(x, y float64) (float64, bool) {
	return d.Elevation(d.GD.PointToCellID(x, y))
}

// Approximate returns true when lengths and areas derived from this grid
// are not in planar units.
func (d *DEM) Approximate() bool { return !d.Ref.Projected }
