package streams

import (
	"fmt"
	"math"

	"github.com/maseology/basinmorph/grid"
	"github.com/maseology/basinmorph/tem"
	"github.com/twpayne/go-geom"
)

// Options control stream extraction.
type Options struct {
	Threshold int    // minimum contributing cells of a stream cell
	Mask      []bool // optional, restricts extraction to true cells
}

// ThresholdFromArea converts a drainage area [km²] into a stream cell
// threshold for cells of the given area [m²].
func ThresholdFromArea(km2, cellArea float64) int {
	n := int(math.Ceil(km2 * 1000. * 1000. / cellArea))
	if n < 1 {
		return 1
	}
	return n
}

// Extract traces the stream network of all cells whose accumulation meets
// the threshold and assigns Strahler order and Shreve magnitude.
func Extract(t *tem.TEM, acc *tem.Accumulation, opt Options) (*Network, error) {
	if opt.Threshold < 1 {
		return nil, fmt.Errorf("%w: %d cells", ErrInvalidThreshold, opt.Threshold)
	}
	n := t.GD.Ncells()
	if len(acc.Upcnt) != n || (opt.Mask != nil && len(opt.Mask) != n) {
		return nil, fmt.Errorf("%w: streams.Extract: grids do not match the flow direction grid", grid.ErrInvalidGrid)
	}

	strm := make([]bool, n)
	for cid := range strm {
		strm[cid] = t.IsValid(cid) && acc.Upcnt[cid] >= opt.Threshold && (opt.Mask == nil || opt.Mask[cid])
	}

	// heads: stream cells with no or several stream inflows
	nw := &Network{Threshold: opt.Threshold}
	segid := make(map[int]int)
	for cid, ok := range strm {
		if !ok {
			continue
		}
		nin := 0
		for _, u := range t.UpIDs(cid) {
			if strm[u] {
				nin++
			}
		}
		if nin == 1 {
			continue
		}
		s := &Segment{ID: len(nw.Segments), Kind: Source, Downstream: -1}
		if nin > 1 {
			s.Kind = Confluence
		}
		segid[cid] = s.ID
		nw.Segments = append(nw.Segments, s)
	}

	heads := make([]int, len(nw.Segments))
	for cid, id := range segid {
		heads[id] = cid
	}
	for id, s := range nw.Segments {
		c := heads[id]
		s.Cells = []int{c}
		coords := []geom.Coord{centroid(t.GD, c)}
		for {
			ds := t.Downslope(c)
			if ds < 0 || !strm[ds] {
				break
			}
			if dsid, ok := segid[ds]; ok {
				s.Downstream = dsid
				coords = append(coords, centroid(t.GD, ds))
				nw.Segments[dsid].Tributaries = append(nw.Segments[dsid].Tributaries, id)
				break
			}
			s.Cells = append(s.Cells, ds)
			coords = append(coords, centroid(t.GD, ds))
			c = ds
		}
		s.Line = geom.NewLineString(geom.XY).MustSetCoords(coords)
		s.Length = s.Line.Length()
	}

	if err := nw.order(); err != nil {
		return nil, err
	}
	return nw, nil
}

func centroid(gd *grid.Definition, cid int) geom.Coord {
	x, y := gd.CellCentroid(cid)
	return geom.Coord{x, y}
}

// order assigns Strahler order and Shreve magnitude using a worklist,
// upstream segments first.
func (nw *Network) order() error {
	pending := make([]int, len(nw.Segments))
	queue := make([]int, 0, len(nw.Segments))
	for _, s := range nw.Segments {
		pending[s.ID] = len(s.Tributaries)
		if pending[s.ID] == 0 {
			queue = append(queue, s.ID)
		}
	}
	nordered := 0
	for len(queue) > 0 {
		s := nw.Segments[queue[0]]
		queue = queue[1:]
		nordered++
		if len(s.Tributaries) == 0 {
			s.Order, s.Magnitude = 1, 1
		} else {
			omax, nmax := 0, 0
			for _, id := range s.Tributaries {
				tr := nw.Segments[id]
				switch {
				case tr.Order > omax:
					omax, nmax = tr.Order, 1
				case tr.Order == omax:
					nmax++
				}
				s.Magnitude += tr.Magnitude
			}
			s.Order = omax
			if nmax > 1 {
				s.Order++
			}
		}
		if s.Downstream >= 0 {
			if pending[s.Downstream]--; pending[s.Downstream] == 0 {
				queue = append(queue, s.Downstream)
			}
		}
	}
	if nordered != len(nw.Segments) {
		return fmt.Errorf("%w: %d stream segments could not be ordered", tem.ErrCycleDetected, len(nw.Segments)-nordered)
	}
	return nil
}
