package gridio

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/maseology/basinmorph/grid"
	"github.com/viant/afs"
)

// ReadASC imports an ESRI ASCII grid from any afs URL (local path, file://,
// mem://, cloud storage).
func ReadASC(ctx context.Context, url string, ref grid.Reference) (*grid.DEM, error) {
	b, err := afs.New().DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("gridio.ReadASC: %v", err)
	}
	return DecodeASC(bytes.NewReader(b), ref)
}

// DecodeASC parses an ESRI ASCII grid: a six line header (the NODATA_value
// line is optional) followed by nrows lines of ncols values, north first.
func DecodeASC(r io.Reader, ref grid.Reference) (*grid.DEM, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 64*1024*1024)
	sc.Split(bufio.ScanWords)

	hdr := make(map[string]string, 6)
	var first string
	for sc.Scan() {
		k := strings.ToLower(sc.Text())
		if _, err := strconv.ParseFloat(k, 64); err == nil {
			first = k
			break
		}
		if !sc.Scan() {
			break
		}
		hdr[k] = sc.Text()
	}

	stErr := make([]string, 0)
	errfunc := func(v string, err error) {
		stErr = append(stErr, fmt.Sprintf("failed to read '%v': %v", v, err))
	}
	nc, err := strconv.Atoi(hdr["ncols"])
	if err != nil {
		errfunc("ncols", err)
	}
	nr, err := strconv.Atoi(hdr["nrows"])
	if err != nil {
		errfunc("nrows", err)
	}
	cs, err := strconv.ParseFloat(hdr["cellsize"], 64)
	if err != nil {
		errfunc("cellsize", err)
	}
	nodata := -9999.
	if s, ok := hdr["nodata_value"]; ok {
		if nodata, err = strconv.ParseFloat(s, 64); err != nil {
			errfunc("nodata_value", err)
		}
	}
	corner := func(name string) float64 {
		if s, ok := hdr[name+"corner"]; ok {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				errfunc(name+"corner", err)
			}
			return v
		}
		v, err := strconv.ParseFloat(hdr[name+"center"], 64)
		if err != nil {
			errfunc(name+"center", err)
		}
		return v - cs/2.
	}
	xll, yll := corner("xll"), corner("yll")
	if len(stErr) > 0 {
		return nil, fmt.Errorf("%w: gridio.DecodeASC header: %s", grid.ErrInvalidGrid, strings.Join(stErr, "; "))
	}

	gd, err := grid.NewDefinition(nr, nc, cs, xll, yll+float64(nr)*cs)
	if err != nil {
		return nil, err
	}
	z := make([]float64, 0, gd.Ncells())
	if first != "" {
		v, _ := strconv.ParseFloat(first, 64)
		z = append(z, v)
	}
	for sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: gridio.DecodeASC: value %d: %v", grid.ErrInvalidGrid, len(z), err)
		}
		if math.IsInf(v, 0) {
			v = nodata
		}
		z = append(z, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("gridio.DecodeASC: %v", err)
	}
	return grid.NewDEM(gd, z, nodata, ref)
}
