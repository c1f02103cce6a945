package gridio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"path"
	"strings"

	"github.com/maseology/basinmorph/grid"
	"github.com/maseology/basinmorph/tem"
	"github.com/viant/afs"
)

const nodata = -9999

// Store writes analysis outputs under a base URL.
type Store struct {
	fs   afs.Service
	base string
}

// NewStore returns a store rooted at a local directory or afs URL.
func NewStore(baseURL string) *Store {
	return &Store{fs: afs.New(), base: strings.TrimRight(baseURL, "/")}
}

// URL returns the location of a named output.
func (s *Store) URL(name string) string { return s.base + "/" + name }

// Put writes raw bytes.
func (s *Store) Put(ctx context.Context, name string, b []byte) error {
	if err := s.fs.Upload(ctx, s.URL(name), 0644, bytes.NewReader(b)); err != nil {
		return fmt.Errorf("gridio.Put %s: %v", name, err)
	}
	return nil
}

// Get reads raw bytes.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	return s.fs.DownloadWithURL(ctx, s.URL(name))
}

// Exists reports whether a named output is present.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	return s.fs.Exists(ctx, s.URL(name))
}

// WriteInts writes a little-endian int32 band interleaved grid and its
// .hdr header.
func (s *Store) WriteInts(ctx context.Context, name string, gd *grid.Definition, a []int32) error {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, a); err != nil {
		return fmt.Errorf("gridio.WriteInts failed: %v", err)
	}
	if err := s.Put(ctx, name, buf.Bytes()); err != nil {
		return err
	}
	return s.Put(ctx, hdrName(name), header(gd, "SIGNEDINT"))
}

// WriteFloats writes a little-endian float32 band interleaved grid and its
// .hdr header.
func (s *Store) WriteFloats(ctx context.Context, name string, gd *grid.Definition, f []float64) error {
	f32 := make([]float32, len(f))
	for i, v := range f {
		f32[i] = float32(v)
	}
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, f32); err != nil {
		return fmt.Errorf("gridio.WriteFloats failed: %v", err)
	}
	if err := s.Put(ctx, name, buf.Bytes()); err != nil {
		return err
	}
	return s.Put(ctx, hdrName(name), header(gd, "FLOAT"))
}

// WriteDirections writes flow directions as neighbour indices (0-7, N E S W
// NE SE SW NW), -1 at sinks and -9999 at no-data.
func (s *Store) WriteDirections(ctx context.Context, name string, t *tem.TEM) error {
	a := make([]int32, len(t.Dir))
	for i, k := range t.Dir {
		a[i] = int32(k)
		if k == tem.NoFlow {
			a[i] = nodata
		}
	}
	return s.WriteInts(ctx, name, t.GD, a)
}

// WriteAccumulation writes upslope cell counts, -9999 at no-data.
func (s *Store) WriteAccumulation(ctx context.Context, name string, acc *tem.Accumulation) error {
	a := make([]int32, len(acc.Upcnt))
	for i, n := range acc.Upcnt {
		a[i] = int32(n)
		if n == 0 {
			a[i] = nodata
		}
	}
	return s.WriteInts(ctx, name, acc.GD, a)
}

func hdrName(name string) string {
	return strings.TrimSuffix(name, path.Ext(name)) + ".hdr"
}

func header(gd *grid.Definition, pixeltype string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "BYTEORDER I\nLAYOUT BIL\nNROWS %d\nNCOLS %d\nNBANDS 1\nNBITS 32\nPIXELTYPE %s\n", gd.Nrow, gd.Ncol, pixeltype)
	fmt.Fprintf(&b, "ULXMAP %v\nULYMAP %v\nXDIM %v\nYDIM %v\nNODATA %d\n", gd.Xul+gd.Cw/2., gd.Yul-gd.Cw/2., gd.Cw, gd.Cw, nodata)
	return []byte(b.String())
}
