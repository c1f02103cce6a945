package morph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBandsCoverCatalogue(t *testing.T) {
	bs := DefaultBands()
	require.NoError(t, bs.Validate())
	for _, c := range catalogue {
		_, ok := bs.Interpret(c.key, 1.)
		assert.True(t, ok, c.key)
	}
}

func TestInterpretBoundaries(t *testing.T) {
	bs := DefaultBands()
	var tests = []struct {
		key   string
		value float64
		label string
	}{
		{DrainageDensity, .4999, "Very coarse drainage texture"},
		{DrainageDensity, .5, "Coarse drainage texture"},
		{DrainageDensity, 3.5, "Very fine drainage texture"},
		{BifurcationRatio, 3., "Normal bifurcation ratio for natural drainage systems"},
		{BifurcationRatio, 5., "Normal bifurcation ratio for natural drainage systems"},
		{BifurcationRatio, 5.0001, "High bifurcation ratio, indicating steep slopes and structural control"},
		{HypsometricIntegral, .6, "Young stage (inequilibrium)"},
		{HypsometricIntegral, .35, "Mature stage (equilibrium)"},
		{HypsometricIntegral, .3499, "Old stage (monadnock)"},
		{MeanSlopeDeg, 2.86, "Moderately steep"},
		{MeanSlopePct, 10., "Steep"},
		{TcUSDA, 59.9, "Very short time of concentration, indicating rapid response to rainfall"},
		{TcKerby, 360., "Long time of concentration, indicating slow response to rainfall"},
		{Area, 1000., "Large basin"},
	}
	for _, tt := range tests {
		l, ok := bs.Interpret(tt.key, tt.value)
		assert.True(t, ok)
		assert.Equal(t, tt.label, l, "%s=%v", tt.key, tt.value)
	}

	_, ok := bs.Interpret("asymmetry_factor", 1.)
	assert.False(t, ok)
}

func TestLoadBands(t *testing.T) {
	bs, err := LoadBands(strings.NewReader(`
area:
  - {below: 10, label: tiny}
  - {upto: 20, label: small}
  - {label: big}
`))
	require.NoError(t, err)
	l, _ := bs.Interpret("area", 20.)
	assert.Equal(t, "small", l)
	l, _ = bs.Interpret("area", 20.5)
	assert.Equal(t, "big", l)

	var bad = map[string]string{
		"not increasing": "area: [{below: 2, label: a}, {below: 1, label: b}, {label: c}]",
		"bounded last":   "area: [{below: 1, label: a}, {below: 2, label: b}]",
		"unbounded":      "area: [{label: a}, {label: b}]",
		"both bounds":    "area: [{below: 1, upto: 1, label: a}, {label: b}]",
		"no label":       "area: [{below: 1}, {label: b}]",
		"empty":          "area: []",
		"not yaml":       "area: [{below: one, label: a}",
	}
	for name, doc := range bad {
		_, err := LoadBands(strings.NewReader(doc))
		assert.ErrorIs(t, err, ErrInvalidBands, name)
	}
}

func TestMergeBands(t *testing.T) {
	over, err := LoadBands(strings.NewReader("area: [{below: 1, label: tiny}, {label: big}]\n"))
	require.NoError(t, err)
	bs := DefaultBands().Merge(over)
	require.NoError(t, bs.Validate())

	l, _ := bs.Interpret(Area, .5)
	assert.Equal(t, "tiny", l)
	l, _ = bs.Interpret(Area, 1000.)
	assert.Equal(t, "big", l)
	for _, c := range catalogue {
		_, ok := bs.Interpret(c.key, 1.)
		assert.True(t, ok, c.key)
	}

	l, _ = DefaultBands().Interpret(Area, 1000.)
	assert.Equal(t, "Large basin", l, "defaults are left untouched")
}
