package watershed

import (
	"sort"

	"github.com/maseology/basinmorph/grid"
	"github.com/twpayne/go-geom"
)

// edge headings, counter-clockwise
const (
	east = iota
	north
	west
	south
)

// vertex offsets (row, col) of one step along each heading
var step = [4][2]int{{0, 1}, {-1, 0}, {0, -1}, {1, 0}}

// trace outlines the masked cells along cell edges. Edges are directed with
// the basin on their left so the exterior ring runs counter-clockwise and
// holes clockwise. Where two cells touch only at a corner the walk takes the
// right-most turn, which keeps diagonally connected cells in one ring.
func trace(gd *grid.Definition, mask []bool) *geom.Polygon {
	nv := gd.Ncol + 1
	in := func(r, c int) bool {
		cid := gd.CellID(r, c)
		return cid >= 0 && mask[cid]
	}

	// outgoing edge headings per vertex, as a bit set
	out := make(map[int]uint8)
	add := func(i, j, h int) { out[i*nv+j] |= 1 << h }
	for cid, ok := range mask {
		if !ok {
			continue
		}
		r, c := gd.RowCol(cid)
		if !in(r+1, c) {
			add(r+1, c, east)
		}
		if !in(r, c+1) {
			add(r+1, c+1, north)
		}
		if !in(r-1, c) {
			add(r, c+1, west)
		}
		if !in(r, c-1) {
			add(r, c, south)
		}
	}

	starts := make([]int, 0, len(out))
	for v := range out {
		starts = append(starts, v)
	}
	sort.Ints(starts)

	used := make(map[int]uint8, len(out))
	var rings [][]geom.Coord
	for _, v0 := range starts {
		for h0 := 0; h0 < 4; h0++ {
			if out[v0]&(1<<h0) == 0 || used[v0]&(1<<h0) != 0 {
				continue
			}
			var vs, hs []int
			v, h := v0, h0
			for {
				vs, hs = append(vs, v), append(hs, h)
				used[v] |= 1 << h
				i, j := v/nv, v%nv
				v = (i+step[h][0])*nv + j + step[h][1]
				h = turn(out[v], h)
				if v == v0 && h == h0 {
					break
				}
			}
			rings = append(rings, corners(gd, vs, hs))
		}
	}

	// exterior first, holes in tracing order
	ext := 0
	for i, r := range rings {
		if signedArea(r) > signedArea(rings[ext]) {
			ext = i
		}
	}
	ordered := append([][]geom.Coord{rings[ext]}, rings[:ext]...)
	ordered = append(ordered, rings[ext+1:]...)
	return geom.NewPolygon(geom.XY).MustSetCoords(ordered)
}

// turn picks the outgoing edge of a vertex for a walk arriving with
// heading h: right, straight, then left.
func turn(out uint8, h int) int {
	for _, k := range [3]int{(h + 3) % 4, h, (h + 1) % 4} {
		if out&(1<<k) != 0 {
			return k
		}
	}
	return (h + 2) % 4
}

// corners keeps the vertices where the heading changes and closes the ring.
func corners(gd *grid.Definition, vs, hs []int) []geom.Coord {
	nv := gd.Ncol + 1
	n := len(vs)
	cs := make([]geom.Coord, 0, n+1)
	for k := 0; k < n; k++ {
		if hs[k] == hs[(k+n-1)%n] {
			continue
		}
		i, j := vs[k]/nv, vs[k]%nv
		cs = append(cs, geom.Coord{gd.Xul + float64(j)*gd.Cw, gd.Yul - float64(i)*gd.Cw})
	}
	return append(cs, cs[0])
}

func signedArea(cs []geom.Coord) float64 {
	a := 0.
	for k := 1; k < len(cs); k++ {
		a += cs[k-1][0]*cs[k][1] - cs[k][0]*cs[k-1][1]
	}
	return a / 2.
}
