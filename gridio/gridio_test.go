package gridio

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maseology/basinmorph/grid"
	"github.com/maseology/basinmorph/tem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asc = `ncols        4
nrows        3
xllcorner    500.0
yllcorner    1000.0
cellsize     10.0
NODATA_value -9999
 9  8  7  6
 8  7  6  5
 7  6  5 -9999
`

func TestDecodeASC(t *testing.T) {
	dem, err := DecodeASC(strings.NewReader(asc), grid.Reference{EPSG: 32617, Projected: true})
	require.NoError(t, err)
	assert.Equal(t, grid.Definition{Nrow: 3, Ncol: 4, Cw: 10., Xul: 500., Yul: 1030.}, *dem.GD)
	assert.Equal(t, 11, dem.NumValid())
	assert.True(t, dem.IsNoData(11))
	z, ok := dem.ValueAt(505., 1025.)
	require.True(t, ok)
	assert.Equal(t, 9., z)

	centre := strings.NewReplacer("xllcorner    500.0", "xllcenter 505", "yllcorner    1000.0", "yllcenter 1005").Replace(asc)
	dem, err = DecodeASC(strings.NewReader(centre), grid.Reference{})
	require.NoError(t, err)
	assert.Equal(t, 500., dem.GD.Xul)
	assert.Equal(t, 1030., dem.GD.Yul)
}

func TestDecodeASCErrors(t *testing.T) {
	var tests = map[string]string{
		"bad header":   strings.Replace(asc, "cellsize     10.0", "cellsize ten", 1),
		"missing rows": strings.Replace(asc, "nrows        3\n", "", 1),
		"short body":   strings.Replace(asc, " 7  6  5 -9999\n", "", 1),
		"bad value":    strings.Replace(asc, " 8  7  6  5", " 8  x  6  5", 1),
	}
	for name, doc := range tests {
		_, err := DecodeASC(strings.NewReader(doc), grid.Reference{})
		assert.ErrorIs(t, err, grid.ErrInvalidGrid, name)
	}
}

func TestReadASC(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "dem.asc")
	require.NoError(t, os.WriteFile(fp, []byte(asc), 0644))
	dem, err := ReadASC(context.Background(), fp, grid.Reference{})
	require.NoError(t, err)
	assert.Equal(t, 12, dem.GD.Ncells())
}

func routed(t *testing.T) (*grid.DEM, *tem.TEM, *tem.Accumulation) {
	t.Helper()
	dem, err := DecodeASC(strings.NewReader(asc), grid.Reference{Projected: true})
	require.NoError(t, err)
	tm, err := tem.Build(dem, tem.DefaultOptions())
	require.NoError(t, err)
	acc, err := tm.Accumulate(nil, 0)
	require.NoError(t, err)
	return dem, tm, acc
}

func TestWriteGrids(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st := NewStore(dir + "/")
	_, tm, acc := routed(t)

	require.NoError(t, st.WriteDirections(ctx, "flowdir.bil", tm))
	require.NoError(t, st.WriteAccumulation(ctx, "upcnt.bil", acc))

	b, err := os.ReadFile(filepath.Join(dir, "upcnt.bil"))
	require.NoError(t, err)
	require.Len(t, b, 12*4)
	a := make([]int32, 12)
	require.NoError(t, binary.Read(bytes.NewReader(b), binary.LittleEndian, a))
	assert.Equal(t, int32(-9999), a[11])
	for i := 0; i < 11; i++ {
		assert.Equal(t, int32(acc.Upcnt[i]), a[i])
	}

	h, err := os.ReadFile(filepath.Join(dir, "flowdir.hdr"))
	require.NoError(t, err)
	assert.Contains(t, string(h), "NROWS 3\nNCOLS 4\n")
	assert.Contains(t, string(h), "PIXELTYPE SIGNEDINT")
	assert.Contains(t, string(h), "ULXMAP 505\nULYMAP 1025\n")

	require.NoError(t, st.WriteFloats(ctx, "zc.bil", tm.GD, tm.Zc))
	b, err = os.ReadFile(filepath.Join(dir, "zc.bil"))
	require.NoError(t, err)
	assert.Len(t, b, 12*4)
}

func TestFingerprint(t *testing.T) {
	dem, _, _ := routed(t)
	a, err := Fingerprint(dem, tem.DefaultOptions())
	require.NoError(t, err)
	b, err := Fingerprint(dem, tem.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Fingerprint(dem, tem.Options{Neighbours: 4, FillSinks: true})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	z := append([]float64(nil), dem.Z...)
	z[0] += .001
	dem2, err := grid.NewDEM(dem.GD, z, dem.NoData, dem.Ref)
	require.NoError(t, err)
	d, err := Fingerprint(dem2, tem.DefaultOptions())
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}

func TestFlowCache(t *testing.T) {
	ctx := context.Background()
	st := NewStore(t.TempDir())
	dem, tm, acc := routed(t)
	key, err := Fingerprint(dem, tem.DefaultOptions())
	require.NoError(t, err)

	_, ok, err := st.LoadFlow(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.SaveFlow(ctx, key, &Flow{TEM: tm, Acc: acc}))
	f, ok, err := st.LoadFlow(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tm.Dir, f.TEM.Dir)
	assert.Equal(t, tm.Slope, f.TEM.Slope)
	assert.Equal(t, acc.Upcnt, f.Acc.Upcnt)
	assert.Equal(t, acc.Order, f.Acc.Order)
	assert.Equal(t, *tm.GD, *f.TEM.GD)
	assert.Equal(t, tm.UpIDs(0), f.TEM.UpIDs(0))
}
