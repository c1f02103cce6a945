package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maseology/basinmorph"
	"github.com/maseology/basinmorph/grid"
	"github.com/maseology/basinmorph/gridio"
	"github.com/maseology/basinmorph/morph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestHostConfig(t *testing.T) {
	ctx := context.Background()
	hc, err := loadHostConfig(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, defaultHostConfig(), hc)

	fp := filepath.Join(t.TempDir(), "basin.yaml")
	require.NoError(t, os.WriteFile(fp, []byte(`dem: dem.asc
epsg: 32617
utm_zone: 17
stream_threshold: 200
snap_radius: 100
out: results
`), 0644))
	hc, err = loadHostConfig(ctx, fp)
	require.NoError(t, err)
	assert.Equal(t, "dem.asc", hc.DEM)
	assert.Equal(t, 200, hc.StreamThreshold)
	assert.Equal(t, 100., hc.SnapRadius)
	assert.Equal(t, 8, hc.Neighbours)
	assert.Equal(t, "results", hc.Out)
	assert.Equal(t, grid.Reference{EPSG: 32617, Projected: true}, hc.reference())

	for _, s := range []string{"utm_zone: 61\n", "stream_threshold: 0\n", "unknown: 1\n"} {
		hc := defaultHostConfig()
		assert.ErrorIs(t, hc.decode(strings.NewReader(s)), basinmorph.ErrInvalidConfig, s)
	}
}

func TestPourPoint(t *testing.T) {
	nan := math.NaN()
	hc := defaultHostConfig()

	c, err := pourPoint(hc, 5., 6., nan, nan)
	require.NoError(t, err)
	assert.Equal(t, geom.Coord{5., 6.}, c)

	_, err = pourPoint(hc, 5., nan, nan, nan)
	assert.ErrorIs(t, err, basinmorph.ErrInvalidConfig)

	hc.Geographic = true
	c, err = pourPoint(hc, nan, nan, 43.5, -79.5)
	require.NoError(t, err)
	assert.Equal(t, geom.Coord{-79.5, 43.5}, c)

	hc.Geographic, hc.UTMZone = false, 17
	c, err = pourPoint(hc, nan, nan, 43.5, -81.)
	require.NoError(t, err)
	assert.InDelta(t, 500000., c.X(), 1.)
	assert.Greater(t, c.Y(), 4.8e6)

	hc.UTMZone = 18
	_, err = pourPoint(hc, nan, nan, 43.5, -81.)
	assert.ErrorIs(t, err, basinmorph.ErrInvalidConfig)
}

func TestWriteOutputs(t *testing.T) {
	gd, err := grid.NewDefinition(5, 6, 10., 0., 50.)
	require.NoError(t, err)
	z := make([]float64, gd.Ncells())
	for i := range z {
		r, c := gd.RowCol(i)
		z[i] = 100. - float64(c) + 5.*math.Abs(float64(r-2))
	}
	dem, err := grid.NewDEM(gd, z, -9999., grid.Reference{EPSG: 32617, Projected: true})
	require.NoError(t, err)

	cfg := basinmorph.DefaultConfig()
	cfg.StreamThreshold = 3
	cfg.SnapRadius = 10.
	cfg.Logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	a, err := basinmorph.Run(dem, geom.Coord{55., 25.}, cfg, nil)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, writeOutputs(context.Background(), gridio.NewStore(dir), a, 3, cfg.Logger))
	for _, fn := range []string{"flowdir.bil", "flowdir.hdr", "upcnt.bil", "upcnt.hdr", "streams.geojson",
		"basin.geojson", "basin.wkt", "morphometry.csv", "hypsometric.png"} {
		assert.FileExists(t, filepath.Join(dir, fn))
	}

	f, err := os.Open(filepath.Join(dir, "morphometry.csv"))
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, len(a.Result.Rows)+1)
	assert.Equal(t, []string{"key", "parameter", "value", "unit", "interpretation"}, recs[0])
	assert.Equal(t, morph.Area, recs[1][0])

	png, err := os.ReadFile(filepath.Join(dir, "hypsometric.png"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	// a supplied basin has no grids to write
	h, err := basinmorph.Analyze(dem, a.Basin.Polygon, a.Basin.OutletXY, nil, cfg)
	require.NoError(t, err)
	dir = t.TempDir()
	require.NoError(t, writeOutputs(context.Background(), gridio.NewStore(dir), h, 3, cfg.Logger))
	assert.NoFileExists(t, filepath.Join(dir, "flowdir.bil"))
	assert.FileExists(t, filepath.Join(dir, "morphometry.csv"))
}
