// Command basinmorph delineates the watershed draining to a pour point on an
// ESRI ASCII grid DEM and reports its morphometric parameters.
//
//	basinmorph -config basin.yaml -x 612345 -y 4851234
//	basinmorph -dem dem.asc -lat 43.78 -lon -79.61 -out out/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"time"

	UTM "github.com/im7mortal/UTM"
	"github.com/maseology/basinmorph"
	"github.com/maseology/basinmorph/grid"
	"github.com/maseology/basinmorph/gridio"
	"github.com/maseology/basinmorph/streams"
	"github.com/twpayne/go-geom"
)

func main() {
	var (
		cfgFP   = flag.String("config", "", "YAML configuration file")
		demFP   = flag.String("dem", "", "ESRI ASCII grid DEM, overrides the configuration")
		outDir  = flag.String("out", "", "output directory, overrides the configuration")
		x       = flag.Float64("x", math.NaN(), "pour point easting")
		y       = flag.Float64("y", math.NaN(), "pour point northing")
		lat     = flag.Float64("lat", math.NaN(), "pour point latitude, converted to UTM")
		lon     = flag.Float64("lon", math.NaN(), "pour point longitude, converted to UTM")
		quiet   = flag.Bool("quiet", false, "no progress bars")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	lvl := slog.LevelInfo
	if *verbose {
		lvl = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	ctx := context.Background()
	hc, err := loadHostConfig(ctx, *cfgFP)
	if err != nil {
		log.Fatalf("basinmorph: %v", err)
	}
	hc.Logger = logger
	if *demFP != "" {
		hc.DEM = *demFP
	}
	if *outDir != "" {
		hc.Out = *outDir
	}
	if hc.DEM == "" {
		log.Fatalf("basinmorph: no DEM given, set -dem or dem: in the configuration")
	}

	pour, err := pourPoint(hc, *x, *y, *lat, *lon)
	if err != nil {
		log.Fatalf("basinmorph: %v", err)
	}

	tt := time.Now()
	dem, err := gridio.ReadASC(ctx, hc.DEM, hc.reference())
	if err != nil {
		log.Fatalf("basinmorph: %s: %v", basinmorph.Kind(err), err)
	}
	logger.Info("DEM loaded", "file", hc.DEM, "nrow", dem.GD.Nrow, "ncol", dem.GD.Ncol, "cw", dem.GD.Cw, "elapsed", time.Since(tt))

	var a *basinmorph.Analysis
	if hc.Basin != "" {
		a, err = analyzeSupplied(ctx, hc, dem, pour)
	} else {
		var pb *progress
		var fn func(string, int, int)
		if !*quiet {
			pb = newProgress()
			fn = pb.update
		}
		a, err = basinmorph.RunContext(ctx, dem, pour, hc.Config, fn)
		if pb != nil {
			pb.stop()
		}
	}
	if err != nil {
		log.Fatalf("basinmorph: %s: %v", basinmorph.Kind(err), err)
	}

	if a.Basin != nil && hc.UTMZone > 0 && !hc.Geographic {
		if la, lo, err := UTM.ToLatLon(a.Basin.OutletXY.X(), a.Basin.OutletXY.Y(), hc.UTMZone, "", !hc.Southern); err == nil {
			logger.Info("outlet", "cid", a.Basin.Outlet, "x", a.Basin.OutletXY.X(), "y", a.Basin.OutletXY.Y(), "lat", la, "lon", lo)
		}
	}

	if err := writeOutputs(ctx, gridio.NewStore(hc.Out), a, hc.Precision, logger); err != nil {
		log.Fatalf("basinmorph: %v", err)
	}
	fmt.Println()
	if err := a.Result.WriteTable(os.Stdout, hc.Precision); err != nil {
		log.Fatalf("basinmorph: %v", err)
	}
	logger.Info("complete", "elapsed", time.Since(tt))
}

// pourPoint projected coordinates from -x/-y, or from -lat/-lon in the
// configured UTM zone.
func pourPoint(hc hostConfig, x, y, lat, lon float64) (geom.Coord, error) {
	switch {
	case !math.IsNaN(x) && !math.IsNaN(y):
		return geom.Coord{x, y}, nil
	case !math.IsNaN(lat) && !math.IsNaN(lon):
		if hc.Geographic {
			return geom.Coord{lon, lat}, nil
		}
		e, n, zone, _, err := UTM.FromLatLon(lat, lon, lat >= 0.)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", basinmorph.ErrInvalidConfig, err)
		}
		if hc.UTMZone > 0 && zone != hc.UTMZone {
			return nil, fmt.Errorf("%w: pour point falls in UTM zone %d, DEM is in zone %d", basinmorph.ErrInvalidConfig, zone, hc.UTMZone)
		}
		return geom.Coord{e, n}, nil
	}
	return nil, fmt.Errorf("%w: set the pour point with -x/-y or -lat/-lon", basinmorph.ErrInvalidConfig)
}

// analyzeSupplied describes the basin polygon and stream lines given in the
// configuration.
func analyzeSupplied(ctx context.Context, hc hostConfig, dem *grid.DEM, outlet geom.Coord) (*basinmorph.Analysis, error) {
	poly, err := gridio.ReadPolygonWKT(ctx, hc.Basin)
	if err != nil {
		return nil, err
	}
	var nw *streams.Network
	if hc.Streams != "" {
		if nw, err = gridio.ReadStreamsGeoJSON(ctx, hc.Streams); err != nil {
			return nil, err
		}
	}
	return basinmorph.Analyze(dem, poly, outlet, nw, hc.Config)
}
