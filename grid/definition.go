package grid

import (
	"fmt"
	"math"
)

// Definition describes a regular raster of square cells. Cell IDs are
// row-major, row 0 being the northern-most row.
type Definition struct {
	Nrow, Ncol int
	Cw         float64 // cell width
	Xul, Yul   float64 // upper-left corner
}

// NewDefinition returns a validated grid definition.
func NewDefinition(nrow, ncol int, cw, xul, yul float64) (*Definition, error) {
	gd := &Definition{Nrow: nrow, Ncol: ncol, Cw: cw, Xul: xul, Yul: yul}
	if err := gd.validate(); err != nil {
		return nil, err
	}
	return gd, nil
}

func (gd *Definition) validate() error {
	switch {
	case gd == nil:
		return fmt.Errorf("%w: nil grid definition", ErrInvalidGrid)
	case gd.Nrow <= 0 || gd.Ncol <= 0:
		return fmt.Errorf("%w: grid dimensions %dx%d", ErrInvalidGrid, gd.Nrow, gd.Ncol)
	case !(gd.Cw > 0) || math.IsInf(gd.Cw, 0):
		return fmt.Errorf("%w: cell width %v", ErrInvalidGrid, gd.Cw)
	case math.IsNaN(gd.Xul) || math.IsNaN(gd.Yul) || math.IsInf(gd.Xul, 0) || math.IsInf(gd.Yul, 0):
		return fmt.Errorf("%w: grid origin (%v, %v)", ErrInvalidGrid, gd.Xul, gd.Yul)
	}
	return nil
}

// Ncells total number of cells
func (gd *Definition) Ncells() int { return gd.Nrow * gd.Ncol }

// CellArea area of a single cell
func (gd *Definition) CellArea() float64 { return gd.Cw * gd.Cw }

// CellID returns the cell id of a row/column pair, -1 when outside the grid.
func (gd *Definition) CellID(row, col int) int {
	if row < 0 || col < 0 || row >= gd.Nrow || col >= gd.Ncol {
		return -1
	}
	return row*gd.Ncol + col
}

// RowCol returns the row and column of a cell id.
func (gd *Definition) RowCol(cid int) (row, col int) {
	return cid / gd.Ncol, cid % gd.Ncol
}

// PointToCellID returns the id of the cell containing (x,y), -1 when outside.
// Points on the shared edge of two cells belong to the southern/eastern cell.
func (gd *Definition) PointToCellID(x, y float64) int {
	c := math.Floor((x - gd.Xul) / gd.Cw)
	r := math.Floor((gd.Yul - y) / gd.Cw)
	if c < 0 || r < 0 || c >= float64(gd.Ncol) || r >= float64(gd.Nrow) {
		return -1
	}
	return gd.CellID(int(r), int(c))
}

// CellCentroid returns the coordinate of the cell centre.
func (gd *Definition) CellCentroid(cid int) (x, y float64) {
	r, c := gd.RowCol(cid)
	return gd.Xul + (float64(c)+.5)*gd.Cw, gd.Yul - (float64(r)+.5)*gd.Cw
}

// Extent returns the grid bounds (xmin, ymin, xmax, ymax).
func (gd *Definition) Extent() (xmin, ymin, xmax, ymax float64) {
	return gd.Xul, gd.Yul - float64(gd.Nrow)*gd.Cw, gd.Xul + float64(gd.Ncol)*gd.Cw, gd.Yul
}

// Neighbour returns the id of the k'th neighbour of cid in the given
// neighbourhood, -1 when it falls off the grid.
func (gd *Definition) Neighbour(cid, k int, nbr Neighbourhood) int {
	r, c := gd.RowCol(cid)
	o := nbr.offsets[k]
	return gd.CellID(r+o.dr, c+o.dc)
}

// Distance between the centres of cid and its k'th neighbour.
func (gd *Definition) Distance(k int, nbr Neighbourhood) float64 {
	return nbr.offsets[k].f * gd.Cw
}
