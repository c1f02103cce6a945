package gridio

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/maseology/basinmorph/grid"
	"github.com/maseology/basinmorph/streams"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"
	"github.com/viant/afs"
)

// OrderProperty the feature property holding a stream line's Strahler order.
const OrderProperty = "strahler"

// WriteFeatures writes a GeoJSON feature collection.
func (s *Store) WriteFeatures(ctx context.Context, name string, fc *geojson.FeatureCollection) error {
	b, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("gridio.WriteFeatures %s: %v", name, err)
	}
	return s.Put(ctx, name, b)
}

// WriteWKT writes a geometry as well-known text, coordinates rounded to prec
// decimals.
func (s *Store) WriteWKT(ctx context.Context, name string, g geom.T, prec int) error {
	txt, err := wkt.Marshal(g, wkt.EncodeOptionWithMaxDecimalDigits(prec))
	if err != nil {
		return fmt.Errorf("gridio.WriteWKT %s: %v", name, err)
	}
	return s.Put(ctx, name, []byte(txt+"\n"))
}

// ReadPolygonWKT reads a basin polygon given as a WKT POLYGON, or a
// MULTIPOLYGON of one part.
func ReadPolygonWKT(ctx context.Context, url string) (*geom.Polygon, error) {
	b, err := afs.New().DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("gridio.ReadPolygonWKT %v", err)
	}
	g, err := wkt.Unmarshal(strings.TrimSpace(string(b)))
	if err != nil {
		return nil, fmt.Errorf("%w: gridio.ReadPolygonWKT %s: %v", grid.ErrInvalidGrid, url, err)
	}
	switch p := g.(type) {
	case *geom.Polygon:
		return p, nil
	case *geom.MultiPolygon:
		if p.NumPolygons() == 1 {
			return p.Polygon(0), nil
		}
	}
	return nil, fmt.Errorf("%w: gridio.ReadPolygonWKT %s: expecting a single polygon", grid.ErrInvalidGrid, url)
}

// ReadStreamsGeoJSON reads stream lines and their orders from a GeoJSON
// feature collection. Multi-part lines contribute one segment per part.
func ReadStreamsGeoJSON(ctx context.Context, url string) (*streams.Network, error) {
	b, err := afs.New().DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("gridio.ReadStreamsGeoJSON %v", err)
	}
	return DecodeStreams(b)
}

// DecodeStreams decodes a GeoJSON feature collection of ordered stream lines.
func DecodeStreams(b []byte) (*streams.Network, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("%w: gridio.DecodeStreams: %v", grid.ErrInvalidGrid, err)
	}
	var (
		lines  []*geom.LineString
		orders []int
	)
	for i, f := range fc.Features {
		o, ok := f.Properties[OrderProperty].(float64)
		if !ok {
			return nil, fmt.Errorf("%w: gridio.DecodeStreams: feature %d has no numeric %q", grid.ErrInvalidGrid, i, OrderProperty)
		}
		switch g := f.Geometry.(type) {
		case *geom.LineString:
			lines, orders = append(lines, g), append(orders, int(o))
		case *geom.MultiLineString:
			for j := 0; j < g.NumLineStrings(); j++ {
				lines, orders = append(lines, g.LineString(j)), append(orders, int(o))
			}
		default:
			return nil, fmt.Errorf("%w: gridio.DecodeStreams: feature %d is not a line", grid.ErrInvalidGrid, i)
		}
	}
	return streams.FromLines(lines, orders)
}
