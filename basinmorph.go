// Package basinmorph derives flow routing, a Strahler-ordered stream network,
// a watershed and its morphometric parameters from a gridded DEM.
package basinmorph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maseology/basinmorph/grid"
	"github.com/maseology/basinmorph/gridio"
	"github.com/maseology/basinmorph/morph"
	"github.com/maseology/basinmorph/report"
	"github.com/maseology/basinmorph/streams"
	"github.com/maseology/basinmorph/tem"
	"github.com/maseology/basinmorph/watershed"
	"github.com/twpayne/go-geom"
)

// Analysis everything derived for one pour point. Fields are read-only once
// returned.
type Analysis struct {
	DEM          *grid.DEM
	TEM          *tem.TEM
	Acc          *tem.Accumulation
	Network      *streams.Network // whole grid
	Basin        *watershed.Basin
	BasinNetwork *streams.Network // segments inside the basin
	Morphometry  *morph.Morphometry
	Result       *report.Result
	Cached       bool // flow grids were read from the cache
}

// Run is RunContext with a background context.
func Run(dem *grid.DEM, pour geom.Coord, cfg Config, progress tem.ProgressFunc) (*Analysis, error) {
	return RunContext(context.Background(), dem, pour, cfg, progress)
}

// RunContext routes flow over the DEM, extracts streams, delineates the basin
// draining to the pour point and describes it. The context bounds cache and
// band table I/O only.
func RunContext(ctx context.Context, dem *grid.DEM, pour geom.Coord, cfg Config, progress tem.ProgressFunc) (*Analysis, error) {
	if dem == nil || dem.GD == nil {
		return nil, fmt.Errorf("%w: basinmorph.Run: nil DEM", grid.ErrInvalidGrid)
	}
	if len(pour) < 2 {
		return nil, fmt.Errorf("%w: basinmorph.Run: pour point needs x and y", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bands, err := cfg.bands(ctx)
	if err != nil {
		return nil, err
	}
	log := cfg.logger()
	if dem.Approximate() {
		log.Warn("DEM reference is not projected, lengths and areas are approximate", "crs", dem.Ref.Name)
	}

	a := &Analysis{DEM: dem}
	log.Info("step 1: routing flow", "nrow", dem.GD.Nrow, "ncol", dem.GD.Ncol, "valid", dem.NumValid(), "fill_sinks", cfg.FillSinks)
	if err := a.flow(ctx, cfg, progress, log); err != nil {
		return nil, err
	}

	nthresh := cfg.threshold(dem.GD.CellArea())
	log.Info("step 2: extracting streams", "threshold_cells", nthresh)
	if a.Network, err = streams.Extract(a.TEM, a.Acc, streams.Options{Threshold: nthresh}); err != nil {
		return nil, err
	}
	log.Debug("streams extracted", "segments", a.Network.Len(), "max_order", a.Network.MaxOrder())

	minacc := cfg.minAccumulation(nthresh)
	log.Info("step 3: delineating basin", "x", pour.X(), "y", pour.Y(), "snap_radius", cfg.SnapRadius, "min_accumulation", minacc)
	a.Basin, err = watershed.Delineate(dem, a.TEM, a.Acc, pour, watershed.Options{
		SnapRadius:       cfg.SnapRadius,
		MinAccumulation:  minacc,
		Progress:         progress,
		ProgressInterval: cfg.ProgressInterval,
	})
	if err != nil {
		return nil, err
	}
	if a.BasinNetwork, err = streams.Extract(a.TEM, a.Acc, streams.Options{Threshold: nthresh, Mask: a.Basin.Mask()}); err != nil {
		return nil, err
	}
	log.Debug("basin delineated", "outlet", a.Basin.Outlet, "cells", len(a.Basin.Cells), "segments", a.BasinNetwork.Len())

	log.Info("step 4: computing morphometry")
	a.Morphometry, err = morph.Compute(morph.Input{
		DEM:        dem,
		Polygon:    a.Basin.Polygon,
		Outlet:     a.Basin.OutletXY,
		Network:    a.BasinNetwork,
		FlowLength: a.Basin.LongestFlowPath(),
	}, morph.Options{HypsometricSteps: cfg.HypsometricSteps, Bands: bands})
	if err != nil {
		return nil, err
	}
	a.Result = report.Compose(a.Morphometry)
	return a, nil
}

// flow builds or loads the TEM and its accumulation.
func (a *Analysis) flow(ctx context.Context, cfg Config, progress tem.ProgressFunc, log *slog.Logger) error {
	opt := cfg.temOptions(progress)
	var (
		st  *gridio.Store
		key uint64
	)
	if cfg.Cache != "" {
		st = gridio.NewStore(cfg.Cache)
		var err error
		if key, err = gridio.Fingerprint(a.DEM, opt); err != nil {
			return err
		}
		f, ok, err := st.LoadFlow(ctx, key)
		switch {
		case err != nil:
			log.Warn("unreadable flow grid cache, rebuilding", "cache", cfg.Cache, "err", err)
		case ok && f.TEM != nil && f.Acc != nil:
			a.TEM, a.Acc, a.Cached = f.TEM, f.Acc, true
			log.Info("flow grids loaded from cache", "cache", cfg.Cache, "key", fmt.Sprintf("%016x", key))
			return nil
		}
	}

	var err error
	if a.TEM, err = tem.Build(a.DEM, opt); err != nil {
		return err
	}
	if a.Acc, err = a.TEM.Accumulate(progress, cfg.ProgressInterval); err != nil {
		return err
	}
	if st != nil {
		if err := st.SaveFlow(ctx, key, &gridio.Flow{TEM: a.TEM, Acc: a.Acc}); err != nil {
			log.Warn("flow grids not cached", "cache", cfg.Cache, "err", err)
		}
	}
	return nil
}

// Analyze describes a basin given by the host: its polygon, outlet and
// ordered stream lines (nil when none). Flow routing is skipped; the basin
// length falls back to the farthest polygon vertex from the outlet.
func Analyze(dem *grid.DEM, polygon *geom.Polygon, outlet geom.Coord, network *streams.Network, cfg Config) (*Analysis, error) {
	if dem == nil || dem.GD == nil {
		return nil, fmt.Errorf("%w: basinmorph.Analyze: nil DEM", grid.ErrInvalidGrid)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bands, err := cfg.bands(context.Background())
	if err != nil {
		return nil, err
	}
	log := cfg.logger()
	log.Info("computing morphometry of supplied basin", "segments", lenOf(network))

	a := &Analysis{DEM: dem, BasinNetwork: network}
	if a.Morphometry, err = morph.Compute(morph.Input{
		DEM:     dem,
		Polygon: polygon,
		Outlet:  outlet,
		Network: network,
	}, morph.Options{HypsometricSteps: cfg.HypsometricSteps, Bands: bands}); err != nil {
		return nil, err
	}
	a.Result = report.Compose(a.Morphometry)
	return a, nil
}

func lenOf(nw *streams.Network) int {
	if nw == nil {
		return 0
	}
	return nw.Len()
}
