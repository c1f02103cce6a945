package report

import (
	"math"
	"strconv"

	"github.com/maseology/basinmorph/streams"
	"github.com/maseology/basinmorph/watershed"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// BasinFeatures returns the basin polygon as a feature collection. The
// outlet aspect is omitted when the outlet drains off the grid.
func BasinFeatures(b *watershed.Basin, area, perimeter float64) *geojson.FeatureCollection {
	x, y := b.OutletXY.X(), b.OutletXY.Y()
	props := map[string]any{
		"outlet_cid":   b.Outlet,
		"outlet_x":     x,
		"outlet_y":     y,
		"outlet_z":     b.OutletTEC.Z,
		"outlet_slope": b.OutletTEC.S,
		"ncells":       len(b.Cells),
		"area_km2":     area,
		"perim_km":     perimeter,
		"approximate":  b.Approximate,
	}
	if a := b.OutletTEC.A; !math.IsNaN(a) {
		props["outlet_aspect_deg"] = a * 180. / math.Pi
	}
	return &geojson.FeatureCollection{Features: []*geojson.Feature{{
		ID:         "basin",
		Geometry:   b.Polygon,
		Properties: props,
	}}}
}

// StreamFeatures returns one line feature per segment carrying its order
// attributes.
func StreamFeatures(nw *streams.Network) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, nw.Len())}
	for _, s := range nw.Segments {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       s.Kind.String() + "-" + strconv.Itoa(s.ID),
			Geometry: s.Line,
			Properties: map[string]any{
				"segment":    s.ID,
				"downstream": s.Downstream,
				"strahler":   s.Order,
				"shreve":     s.Magnitude,
				"length_m":   s.Length,
			},
		})
	}
	return fc
}
