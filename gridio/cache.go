package gridio

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"math"

	"github.com/maseology/basinmorph/grid"
	"github.com/maseology/basinmorph/tem"
	"github.com/minio/highwayhash"
)

var hashKey = []byte("basinmorph/flow-grid-cache/v1...")

// Flow the routed grids of a DEM.
type Flow struct {
	TEM *tem.TEM
	Acc *tem.Accumulation
}

// Fingerprint hashes a DEM and the routing options that shape its flow grids.
func Fingerprint(dem *grid.DEM, opt tem.Options) (uint64, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	gd := dem.GD
	hdr := []float64{float64(gd.Nrow), float64(gd.Ncol), gd.Cw, gd.Xul, gd.Yul, dem.NoData,
		float64(opt.Neighbours), opt.FlatIncrement}
	if opt.FillSinks {
		hdr = append(hdr, 1.)
	} else {
		hdr = append(hdr, 0.)
	}
	buf := make([]byte, 8*(len(hdr)+len(dem.Z)))
	for i, v := range append(hdr, dem.Z...) {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	if _, err := h.Write(buf); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

func cacheName(key uint64) string { return fmt.Sprintf("flow-%016x.gob", key) }

// SaveFlow stores routed grids under their DEM fingerprint.
func (s *Store) SaveFlow(ctx context.Context, key uint64, f *Flow) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(f); err != nil {
		return fmt.Errorf("gridio.SaveFlow %v", err)
	}
	return s.Put(ctx, cacheName(key), buf.Bytes())
}

// LoadFlow returns cached grids, false when none are stored under key.
func (s *Store) LoadFlow(ctx context.Context, key uint64) (*Flow, bool, error) {
	ok, err := s.Exists(ctx, cacheName(key))
	if err != nil || !ok {
		return nil, false, err
	}
	b, err := s.Get(ctx, cacheName(key))
	if err != nil {
		return nil, false, fmt.Errorf("gridio.LoadFlow %v", err)
	}
	var f Flow
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&f); err != nil {
		return nil, false, fmt.Errorf("gridio.LoadFlow %v", err)
	}
	return &f, true, nil
}
