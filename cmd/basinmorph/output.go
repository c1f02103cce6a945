package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"

	"github.com/maseology/basinmorph"
	"github.com/maseology/basinmorph/gridio"
	"github.com/maseology/basinmorph/morph"
	"github.com/maseology/basinmorph/report"
)

// writeOutputs saves the grids and vectors of a delineation (when present),
// the parameter table and the hypsometric plot.
func writeOutputs(ctx context.Context, st *gridio.Store, a *basinmorph.Analysis, prec int, log *slog.Logger) error {
	var written []string
	put := func(name string, err error) error {
		if err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		written = append(written, name)
		return nil
	}

	if a.TEM != nil {
		if err := put("flowdir.bil", st.WriteDirections(ctx, "flowdir.bil", a.TEM)); err != nil {
			return err
		}
		if err := put("upcnt.bil", st.WriteAccumulation(ctx, "upcnt.bil", a.Acc)); err != nil {
			return err
		}
		if err := put("streams.geojson", st.WriteFeatures(ctx, "streams.geojson", report.StreamFeatures(a.Network))); err != nil {
			return err
		}
	}
	if a.Basin != nil {
		area, _ := a.Result.Get(morph.Area)
		perim, _ := a.Result.Get(morph.Perimeter)
		if err := put("basin.geojson", st.WriteFeatures(ctx, "basin.geojson", report.BasinFeatures(a.Basin, area.Value, perim.Value))); err != nil {
			return err
		}
		if err := put("basin.wkt", st.WriteWKT(ctx, "basin.wkt", a.Basin.Polygon, prec)); err != nil {
			return err
		}
	}

	b, err := tableCSV(a.Result, prec)
	if err == nil {
		err = st.Put(ctx, "morphometry.csv", b)
	}
	if err := put("morphometry.csv", err); err != nil {
		return err
	}

	p, err := hypsometricPlot(a.Result)
	if err == nil {
		b, err = renderPNG(p)
	}
	if err == nil {
		err = st.Put(ctx, "hypsometric.png", b)
	}
	if err := put("hypsometric.png", err); err != nil {
		return err
	}

	log.Info("outputs written", "dir", st.URL(""), "files", written)
	return nil
}

func tableCSV(r *report.Result, prec int) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"key", "parameter", "value", "unit", "interpretation"}); err != nil {
		return nil, err
	}
	for _, row := range r.Rows {
		if err := w.Write([]string{row.Key, row.Name, row.FormatValue(prec), row.Unit, row.Interpretation}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
