package basinmorph

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/maseology/basinmorph/morph"
	"github.com/maseology/basinmorph/streams"
	"github.com/maseology/basinmorph/tem"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

const defaultStreamThreshold = 5000 // cells

// Config the analysis parameters. Zero values fall back to DefaultConfig
// only through LoadConfig; a literal Config is used as given.
type Config struct {
	Neighbours       int     `yaml:"neighbours"`        // 4 or 8
	FillSinks        bool    `yaml:"fill_sinks"`        // fill depressions before routing
	FlatIncrement    float64 `yaml:"flat_increment"`    // [m] step used to drain flats, 0: smallest representable
	StreamThreshold  int     `yaml:"stream_threshold"`  // upslope cells forming a stream
	StreamKm2        float64 `yaml:"stream_km2"`        // contributing area forming a stream, overrides StreamThreshold when >0
	SnapRadius       float64 `yaml:"snap_radius"`       // [m]
	MinAccumulation  int     `yaml:"min_accumulation"`  // upslope cells required at the snapped outlet, 0: the stream threshold
	HypsometricSteps int     `yaml:"hypsometric_steps"` // 0: 100
	Bands            string  `yaml:"bands"`             // band table URL merged over the embedded table, empty: embedded table
	Cache            string  `yaml:"cache"`             // flow grid cache URL, empty: no cache
	ProgressInterval int     `yaml:"progress_interval"` // cells between progress calls, 0: one grid row

	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig D8 routing over a filled DEM, 5000-cell streams and a snap
// radius of two 30m cells onto the stream network.
func DefaultConfig() Config {
	return Config{
		Neighbours:      8,
		FillSinks:       true,
		StreamThreshold: defaultStreamThreshold,
		SnapRadius:      60.,
	}
}

// LoadConfig decodes YAML over DefaultConfig. Unknown keys are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks parameter ranges.
func (c Config) Validate() error {
	switch {
	case c.Neighbours != 0 && c.Neighbours != 4 && c.Neighbours != 8:
		return fmt.Errorf("%w: neighbours must be 4 or 8, got %d", ErrInvalidConfig, c.Neighbours)
	case c.FlatIncrement < 0:
		return fmt.Errorf("%w: negative flat_increment", ErrInvalidConfig)
	case c.StreamKm2 < 0:
		return fmt.Errorf("%w: negative stream_km2", ErrInvalidConfig)
	case c.StreamKm2 == 0 && c.StreamThreshold < 1:
		return fmt.Errorf("%w: %w: stream_threshold must be at least 1 cell, got %d", ErrInvalidConfig, streams.ErrInvalidThreshold, c.StreamThreshold)
	case c.SnapRadius < 0:
		return fmt.Errorf("%w: negative snap_radius", ErrInvalidConfig)
	case c.MinAccumulation < 0:
		return fmt.Errorf("%w: negative min_accumulation", ErrInvalidConfig)
	case c.HypsometricSteps < 0:
		return fmt.Errorf("%w: negative hypsometric_steps", ErrInvalidConfig)
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c Config) temOptions(progress tem.ProgressFunc) tem.Options {
	return tem.Options{
		Neighbours:       c.Neighbours,
		FillSinks:        c.FillSinks,
		FlatIncrement:    c.FlatIncrement,
		Progress:         progress,
		ProgressInterval: c.ProgressInterval,
	}
}

// threshold in cells for a grid of the given cell area [m²]
func (c Config) threshold(cellArea float64) int {
	if c.StreamKm2 > 0 {
		return streams.ThresholdFromArea(c.StreamKm2, cellArea)
	}
	return c.StreamThreshold
}

// minAccumulation upslope cells an outlet needs for the given stream threshold
func (c Config) minAccumulation(nthresh int) int {
	if c.MinAccumulation > 0 {
		return c.MinAccumulation
	}
	return nthresh
}

func (c Config) bands(ctx context.Context) (morph.Bands, error) {
	if c.Bands == "" {
		return morph.DefaultBands(), nil
	}
	b, err := afs.New().DownloadWithURL(ctx, c.Bands)
	if err != nil {
		return nil, fmt.Errorf("%w: band table %s: %v", ErrInvalidConfig, c.Bands, err)
	}
	over, err := morph.LoadBands(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return morph.DefaultBands().Merge(over), nil
}
