package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/maseology/basinmorph"
	"github.com/maseology/basinmorph/grid"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// hostConfig the analysis parameters plus the host's inputs and outputs.
type hostConfig struct {
	basinmorph.Config `yaml:",inline"`

	DEM        string `yaml:"dem"`        // ESRI ASCII grid
	CRS        string `yaml:"crs"`        // reference name, informative
	EPSG       int    `yaml:"epsg"`       // 0: unknown
	Geographic bool   `yaml:"geographic"` // DEM coordinates are degrees
	UTMZone    int    `yaml:"utm_zone"`   // zone of the DEM, used for lat/lon pour points
	Southern   bool   `yaml:"southern"`
	Basin      string `yaml:"basin"`   // WKT polygon to describe instead of delineating
	Streams    string `yaml:"streams"` // GeoJSON stream lines of Basin, with strahler orders
	Out        string `yaml:"out"`     // output directory or afs URL
	Precision  int    `yaml:"precision"`
}

func defaultHostConfig() hostConfig {
	return hostConfig{
		Config:    basinmorph.DefaultConfig(),
		Out:       "out",
		Precision: 3,
	}
}

func loadHostConfig(ctx context.Context, url string) (hostConfig, error) {
	hc := defaultHostConfig()
	if url == "" {
		return hc, nil
	}
	b, err := afs.New().DownloadWithURL(ctx, url)
	if err != nil {
		return hc, fmt.Errorf("%w: %v", basinmorph.ErrInvalidConfig, err)
	}
	return hc, hc.decode(bytes.NewReader(b))
}

func (hc *hostConfig) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(hc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", basinmorph.ErrInvalidConfig, err)
	}
	if hc.UTMZone < 0 || hc.UTMZone > 60 {
		return fmt.Errorf("%w: utm_zone %d out of range", basinmorph.ErrInvalidConfig, hc.UTMZone)
	}
	return hc.Validate()
}

func (hc hostConfig) reference() grid.Reference {
	return grid.Reference{Name: hc.CRS, EPSG: hc.EPSG, Projected: !hc.Geographic}
}
