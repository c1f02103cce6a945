package watershed

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/maseology/basinmorph/grid"
	"github.com/maseology/basinmorph/tem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

func route(t *testing.T, nrow, ncol int, f func(r, c int) float64) (*grid.DEM, *tem.TEM, *tem.Accumulation) {
	t.Helper()
	gd, err := grid.NewDefinition(nrow, ncol, 10., 0., float64(nrow)*10.)
	require.NoError(t, err)
	z := make([]float64, gd.Ncells())
	for i := range z {
		z[i] = f(gd.RowCol(i))
	}
	dem, err := grid.NewDEM(gd, z, -9999., grid.Reference{Name: "test", EPSG: 32617, Projected: true})
	require.NoError(t, err)
	tm, err := tem.Build(dem, tem.DefaultOptions())
	require.NoError(t, err)
	acc, err := tm.Accumulate(nil, 0)
	require.NoError(t, err)
	return dem, tm, acc
}

func eastSlope(r, c int) float64 { return 100. - float64(c) }

func sorted(c []int) []int {
	s := append([]int(nil), c...)
	sort.Ints(s)
	return s
}

func TestDelineateRow(t *testing.T) {
	dem, tm, acc := route(t, 5, 6, eastSlope)
	b, err := Delineate(dem, tm, acc, geom.Coord{55., 25.}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 17, b.Outlet)
	assert.Equal(t, geom.Coord{55., 25.}, b.OutletXY)
	assert.Equal(t, []int{17, 16, 15, 14, 13, 12}, b.Cells)
	assert.Equal(t, []float64{0, 10, 20, 30, 40, 50}, b.FlowDist)
	assert.Equal(t, 50., b.LongestFlowPath())
	assert.InDelta(t, 600., b.Area(), 1e-9)
	assert.InDelta(t, 140., b.Perimeter(), 1e-9)
	assert.Equal(t, 5, b.Polygon.LinearRing(0).NumCoords(), "collinear vertices are dropped")
	assert.Equal(t, 32617, b.Polygon.SRID())
	assert.False(t, b.Approximate)

	m := b.Mask()
	assert.Len(t, m, 30)
	assert.True(t, m[12])
	assert.False(t, m[6])
}

func TestDelineateValley(t *testing.T) {
	// V-shaped valley draining to the middle row, then east
	dem, tm, acc := route(t, 7, 9, func(r, c int) float64 {
		return 10.*math.Abs(float64(r-3)) + float64(8-c)
	})
	b, err := Delineate(dem, tm, acc, geom.Coord{85., 35.}, Options{SnapRadius: 10., MinAccumulation: 10})
	require.NoError(t, err)
	assert.Equal(t, 3*9+8, b.Outlet)
	assert.Len(t, b.Cells, 63)
	assert.InDelta(t, 63.*100., b.Area(), 1e-9)
	assert.Equal(t, sorted(b.Cells), dem.CellsInPolygon(b.Polygon))
	assert.Greater(t, signedArea(b.Polygon.LinearRing(0).Coords()), 0.)
	assert.Equal(t, -1, b.OutletTEC.Ds)
	assert.True(t, math.IsNaN(b.OutletTEC.A))

	// one cell beside the channel
	b, err = Delineate(dem, tm, acc, geom.Coord{85., 45.}, Options{SnapRadius: 10., MinAccumulation: 5})
	require.NoError(t, err)
	assert.Equal(t, 3*9+8, b.Outlet)
	assert.Len(t, b.Cells, 63)
}

func TestDelineateLShape(t *testing.T) {
	gd, err := grid.NewDefinition(3, 3, 1., 0., 3.)
	require.NoError(t, err)
	sk := tem.Sink
	tm, err := tem.New(gd, []int8{
		2, sk, sk,
		2, sk, sk,
		1, 1, sk,
	}, 8)
	require.NoError(t, err)
	acc, err := tm.Accumulate(nil, 0)
	require.NoError(t, err)
	dem, err := grid.NewDEM(gd, []float64{5, 9, 9, 4, 9, 9, 3, 2, 1}, -9999., grid.Reference{})
	require.NoError(t, err)

	b, err := Delineate(dem, tm, acc, geom.Coord{2.5, .5}, Options{})
	require.NoError(t, err)
	assert.True(t, b.Approximate)
	assert.Equal(t, []int{8, 7, 6, 3, 0}, b.Cells)
	assert.InDelta(t, 5., b.Area(), 1e-12)
	assert.InDelta(t, 12., b.Perimeter(), 1e-12)
	assert.Equal(t,
		[]geom.Coord{{0, 3}, {0, 0}, {3, 0}, {3, 1}, {1, 1}, {1, 3}, {0, 3}},
		b.Polygon.LinearRing(0).Coords())

	// the notch stays outside the polygon
	ring := b.Polygon.LinearRing(0).FlatCoords()
	assert.False(t, xy.IsPointInRing(geom.XY, geom.Coord{1.5, 1.5}, ring))
	assert.True(t, xy.IsPointInRing(geom.XY, geom.Coord{.5, 1.5}, ring))
	assert.Equal(t, []int{0, 3, 6, 7, 8}, dem.CellsInPolygon(b.Polygon))
}

func TestTraceHole(t *testing.T) {
	gd, err := grid.NewDefinition(5, 5, 1., 0., 5.)
	require.NoError(t, err)
	mask := make([]bool, 25)
	for r := 1; r <= 3; r++ {
		for c := 1; c <= 3; c++ {
			mask[gd.CellID(r, c)] = r != 2 || c != 2
		}
	}
	p := trace(gd, mask)
	require.Equal(t, 2, p.NumLinearRings())
	assert.InDelta(t, 8., p.Area(), 1e-12)
	assert.InDelta(t, 16., p.Length(), 1e-12)
	assert.Less(t, signedArea(p.LinearRing(1).Coords()), 0.)
	assert.Equal(t, 5, p.LinearRing(1).NumCoords())
}

func TestTraceDiagonal(t *testing.T) {
	gd, err := grid.NewDefinition(2, 2, 1., 0., 2.)
	require.NoError(t, err)
	p := trace(gd, []bool{true, false, false, true})
	require.Equal(t, 1, p.NumLinearRings())
	assert.InDelta(t, 2., p.Area(), 1e-12)
	assert.Equal(t, 9, p.LinearRing(0).NumCoords())
}

func TestSnap(t *testing.T) {
	dem, tm, acc := route(t, 5, 6, eastSlope)

	_, err := Delineate(dem, tm, acc, geom.Coord{1000., 1000.}, Options{SnapRadius: 20.})
	assert.ErrorIs(t, err, ErrPourPointUnreachable)
	_, err = Delineate(dem, tm, acc, geom.Coord{5., 25.}, Options{MinAccumulation: 2})
	assert.ErrorIs(t, err, ErrPourPointUnreachable)
	_, err = Delineate(dem, tm, acc, geom.Coord{-30., 25.}, Options{SnapRadius: 20.})
	assert.ErrorIs(t, err, ErrPourPointUnreachable, "beyond the grid extent")

	var tests = []struct {
		name   string
		pour   geom.Coord
		opt    Options
		outlet int
	}{
		{"containing cell", geom.Coord{33., 21.}, Options{}, 15},
		{"nearest", geom.Coord{52., 24.}, Options{SnapRadius: 15., MinAccumulation: 6}, 17},
		{"equal distance, smaller id", geom.Coord{45., 30.}, Options{SnapRadius: 15., MinAccumulation: 6}, 11},
		{"equal distance, larger accumulation", geom.Coord{50., 25.}, Options{SnapRadius: 5.}, 17},
		{"accumulation filter", geom.Coord{25., 25.}, Options{SnapRadius: 40., MinAccumulation: 6}, 17},
		{"west of the grid", geom.Coord{-5., 25.}, Options{SnapRadius: 10.}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Delineate(dem, tm, acc, tt.pour, tt.opt)
			require.NoError(t, err)
			assert.Equal(t, tt.outlet, b.Outlet)
		})
	}
}

func TestOutletTEC(t *testing.T) {
	dem, tm, acc := route(t, 5, 6, eastSlope)
	b, err := Delineate(dem, tm, acc, geom.Coord{33., 21.}, Options{})
	require.NoError(t, err)
	require.Equal(t, 15, b.Outlet)
	assert.Equal(t, 16, b.OutletTEC.Ds)
	assert.Equal(t, 97., b.OutletTEC.Z)
	assert.InDelta(t, .1, b.OutletTEC.S, 1e-12)
	assert.InDelta(t, math.Pi/2., b.OutletTEC.A, 1e-12)

	// supplied directions carry no conditioned surface
	sk := tem.Sink
	raw, err := tem.New(dem.GD, []int8{
		1, 1, 1, 1, 1, sk,
		1, 1, 1, 1, 1, sk,
		1, 1, 1, 1, 1, sk,
		1, 1, 1, 1, 1, sk,
		1, 1, 1, 1, 1, sk,
	}, 8)
	require.NoError(t, err)
	racc, err := raw.Accumulate(nil, 0)
	require.NoError(t, err)
	b, err = Delineate(dem, raw, racc, geom.Coord{33., 21.}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 97., b.OutletTEC.Z)
}

func TestDelineateRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 10; i++ {
		nrow, ncol := 5+rng.Intn(20), 5+rng.Intn(20)
		dem, tm, acc := route(t, nrow, ncol, func(r, c int) float64 {
			return float64(r+c) + rng.Float64()*4.
		})
		outlet := 0
		for cid, n := range acc.Upcnt {
			if n > acc.Upcnt[outlet] {
				outlet = cid
			}
		}
		x, y := dem.GD.CellCentroid(outlet)
		b, err := Delineate(dem, tm, acc, geom.Coord{x, y}, Options{})
		require.NoError(t, err)
		assert.Len(t, b.Cells, acc.Upcnt[outlet])
		assert.InDelta(t, float64(len(b.Cells))*100., b.Area(), 1e-6)
		assert.Equal(t, sorted(b.Cells), dem.CellsInPolygon(b.Polygon))
	}
}

func TestDelineateProgress(t *testing.T) {
	dem, tm, acc := route(t, 5, 6, eastSlope)
	var last [2]int
	_, err := Delineate(dem, tm, acc, geom.Coord{55., 25.}, Options{Progress: func(stage string, done, total int) {
		assert.Equal(t, "delineate", stage)
		last = [2]int{done, total}
	}})
	require.NoError(t, err)
	assert.Equal(t, [2]int{6, 6}, last)

	var done []int
	_, err = Delineate(dem, tm, acc, geom.Coord{55., 25.}, Options{ProgressInterval: 4, Progress: func(_ string, d, _ int) {
		done = append(done, d)
	}})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 6}, done)
}
