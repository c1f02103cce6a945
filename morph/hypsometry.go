package morph

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// Hypsometry the area-elevation distribution of a basin, sampled at evenly
// spaced relative heights.
type Hypsometry struct {
	RelativeHeight []float64 // (z-zmin)/(zmax-zmin), ascending from 0 to 1
	RelativeArea   []float64 // fraction of the basin above each height
	Integral       float64
	Defined        bool // false for a basin without relief
}

// hypsometry builds the curve from cell elevations. The area fraction at
// each distinct elevation counts cells below plus half the cells at that
// elevation, interpolated linearly in between.
func hypsometry(z []float64, steps int) Hypsometry {
	zs := append([]float64(nil), z...)
	sort.Float64s(zs)
	zmin, zmax := zs[0], zs[len(zs)-1]
	if !(zmax > zmin) {
		return Hypsometry{}
	}

	n := float64(len(zs))
	var us, fs []float64
	for i := 0; i < len(zs); {
		j := i
		for j < len(zs) && zs[j] == zs[i] {
			j++
		}
		us = append(us, (zs[i]-zmin)/(zmax-zmin))
		fs = append(fs, (float64(i)+.5*float64(j-i))/n)
		i = j
	}

	h := Hypsometry{
		RelativeHeight: floats.Span(make([]float64, steps+1), 0., 1.),
		RelativeArea:   make([]float64, steps+1),
		Defined:        true,
	}
	k := 0
	for i, u := range h.RelativeHeight {
		for k < len(us)-2 && us[k+1] < u {
			k++
		}
		t := (u - us[k]) / (us[k+1] - us[k])
		t = max(0., min(1., t))
		h.RelativeArea[i] = 1. - (fs[k] + t*(fs[k+1]-fs[k]))
	}
	h.Integral = integrate.Trapezoidal(h.RelativeHeight, h.RelativeArea)
	return h
}
