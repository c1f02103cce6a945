package morph

import (
	"fmt"
	"math"

	"github.com/maseology/basinmorph/grid"
	"github.com/maseology/basinmorph/streams"
	"github.com/twpayne/go-geom"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Input the basin to describe. Polygon and DEM share a projected reference
// in metres.
type Input struct {
	DEM        *grid.DEM
	Polygon    *geom.Polygon
	Outlet     geom.Coord
	Network    *streams.Network // streams inside the basin, may be nil
	FlowLength float64          // longest flow path [m], 0: farthest polygon vertex from the outlet
}

// Options control the computation.
type Options struct {
	HypsometricSteps int   // number of intervals of the hypsometric curve, default 100
	Bands            Bands // default: the embedded table
}

type value struct {
	v       float64
	defined bool
	reason  string // why an undefined value is undefined
}

func defined(v float64) value { return value{v: v, defined: true} }

func undefined(reason string) value { return value{v: math.NaN(), reason: reason} }

// Compute derives the morphometric parameters of a basin and interprets
// each against the band table.
func Compute(in Input, opt Options) (*Morphometry, error) {
	if in.DEM == nil {
		return nil, fmt.Errorf("%w: morph.Compute: nil DEM", grid.ErrInvalidGrid)
	}
	if in.Polygon == nil || in.Polygon.Empty() {
		return nil, fmt.Errorf("%w: morph.Compute: no basin polygon", ErrEmptyBasin)
	}
	cids := in.DEM.CellsInPolygon(in.Polygon)
	if len(cids) == 0 {
		return nil, fmt.Errorf("%w: morph.Compute: no DEM cells inside the basin polygon", ErrEmptyBasin)
	}
	if opt.HypsometricSteps < 1 {
		opt.HypsometricSteps = defaultHypsometricSteps
	}
	if opt.Bands == nil {
		opt.Bands = DefaultBands()
	}
	nw := in.Network
	if nw == nil {
		nw = &streams.Network{}
	}

	m := &Morphometry{Approximate: in.DEM.Approximate()}
	if m.Approximate {
		m.Warnings = append(m.Warnings, grid.ErrUnprojectedCRS)
	}
	vals := make(map[string]value, len(catalogue))

	// shape
	a := math.Abs(in.Polygon.Area()) / m2perkm2
	p := in.Polygon.Length() / mperkm
	l := math.Max(in.FlowLength, in.DEM.GD.Cw)
	if !(in.FlowLength > 0.) {
		l = math.Max(farthestVertex(in.Polygon, in.Outlet), in.DEM.GD.Cw)
	}
	l /= mperkm
	vals[Area] = defined(a)
	vals[Perimeter] = defined(p)
	vals[BasinLength] = defined(l)
	vals[BasinWidth] = defined(a / l)
	vals[FormFactor] = defined(a / (l * l))
	vals[ElongationRatio] = defined(2. / l * math.Sqrt(a/math.Pi))
	vals[CircularityRatio] = defined(4. * math.Pi * a / (p * p))
	vals[CompactnessCoefficient] = defined(p / (2. * math.Sqrt(math.Pi*a)))

	// relief
	z := in.DEM.Sample(cids)
	zmax, zmin, zmean := floats.Max(z), floats.Min(z), stat.Mean(z, nil)
	hr := zmax - zmin
	vals[MaxElevation] = defined(zmax)
	vals[MinElevation] = defined(zmin)
	vals[MeanElevation] = defined(zmean)
	vals[Relief] = defined(hr)
	vals[ReliefRatio] = defined(hr / (l * mperkm))
	if hr > 0. {
		vals[ElevationReliefRatio] = defined((zmean - zmin) / hr)
	} else {
		vals[ElevationReliefRatio] = undefined("basin has no relief")
	}

	// drainage
	nu := float64(nw.Len())
	lt := nw.TotalLength() / mperkm
	lc := nw.MainChannelLength() / mperkm
	dd := lt / a
	fs := nu / a
	vals[StreamCount] = defined(nu)
	vals[MaxOrder] = defined(float64(nw.MaxOrder()))
	vals[TotalStreamLength] = defined(lt)
	vals[MainChannelLength] = defined(lc)
	vals[DrainageDensity] = defined(dd)
	vals[StreamFrequency] = defined(fs)
	vals[InfiltrationNumber] = defined(dd * fs)
	vals[DrainageTexture] = defined(nu / p)
	vals[FitnessRatio] = defined(lc / p)
	vals[RuggednessNumber] = defined(dd * hr / mperkm)
	if nu > 0 {
		vals[MeanStreamLength] = defined(lt / nu)
	} else {
		vals[MeanStreamLength] = undefined("no streams in the basin")
	}
	if dd > 0. {
		vals[DrainageIntensity] = defined(fs / dd)
		vals[LengthOverlandFlow] = defined(1. / (2. * dd))
		vals[ChannelMaintenance] = defined(1. / dd)
	} else {
		for _, k := range []string{DrainageIntensity, LengthOverlandFlow, ChannelMaintenance} {
			vals[k] = undefined("zero drainage density")
		}
	}
	if rb, ok := nw.MeanBifurcationRatio(); ok {
		vals[BifurcationRatio] = defined(rb)
	} else {
		vals[BifurcationRatio] = undefined("fewer than two stream orders")
	}

	// slope
	slp := make([]float64, len(cids))
	for i, c := range cids {
		slp[i] = hornSlope(in.DEM, c)
	}
	sdeg := stat.Mean(slp, nil)
	s := math.Tan(sdeg * math.Pi / 180.)
	vals[MeanSlopeDeg] = defined(sdeg)
	vals[MeanSlopePct] = defined(s * 100.)

	// timing
	if s > 0. {
		vals[TcKirpich] = defined(kirpichC * math.Pow(l*mperkm, kirpichL) * math.Pow(s, kirpichS))
		vals[TcKerby] = defined(kerbyC * math.Pow(l*mperkm, kerbyL) / math.Pow(s, kerbyS))
		vals[TcUSDA] = defined(usdaC * l / math.Sqrt(s*100.) * minperhr)
		if lc > 0. {
			vals[TcTemez] = defined(temezC * math.Pow(lc/math.Pow(s, temezS), temezX) * minperhr)
		} else {
			vals[TcTemez] = undefined("no main channel")
		}
	} else {
		for _, k := range []string{TcKirpich, TcKerby, TcUSDA, TcTemez} {
			vals[k] = undefined("zero mean slope")
		}
	}
	if hr > 0. {
		vals[TcGiandotti] = defined((giandottiA*math.Sqrt(a) + giandottiL*lc) / (giandottiH * math.Sqrt(hr)) * minperhr)
	} else {
		vals[TcGiandotti] = undefined("basin has no relief")
	}

	// hypsometry
	m.Hypsometry = hypsometry(z, opt.HypsometricSteps)
	if m.Hypsometry.Defined {
		vals[HypsometricIntegral] = defined(m.Hypsometry.Integral)
	} else {
		vals[HypsometricIntegral] = undefined("basin has no relief")
	}

	m.Params = make([]Parameter, len(catalogue))
	for i, c := range catalogue {
		v := vals[c.key]
		prm := Parameter{Key: c.key, Name: c.name, Unit: c.unit, Value: v.v, Defined: v.defined}
		if v.defined {
			l, ok := opt.Bands.Interpret(c.key, v.v)
			if !ok {
				return nil, fmt.Errorf("%w: no band for %s", ErrInvalidBands, c.key)
			}
			prm.Interpretation = l
		} else {
			prm.Interpretation = "Undefined: " + v.reason
		}
		m.Params[i] = prm
	}
	return m, nil
}

// farthestVertex largest distance from the outlet to a polygon vertex
func farthestVertex(p *geom.Polygon, outlet geom.Coord) float64 {
	fc, d := p.FlatCoords(), 0.
	for i := 0; i+1 < len(fc); i += p.Stride() {
		d = math.Max(d, math.Hypot(fc[i]-outlet[0], fc[i+1]-outlet[1]))
	}
	return d
}
