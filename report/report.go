// Package report assembles a morphometric result into rows, a hypsometric
// curve and GeoJSON features for the host.
package report

import (
	"fmt"
	"io"
	"iter"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/maseology/basinmorph/morph"
)

// Row one line of the results table.
type Row struct {
	Key            string
	Name           string
	Value          float64
	Defined        bool
	Unit           string
	Interpretation string
}

// FormatValue renders the value with the given number of decimals, "n/a"
// when undefined.
func (r Row) FormatValue(prec int) string {
	if !r.Defined || math.IsNaN(r.Value) {
		return "n/a"
	}
	return strconv.FormatFloat(r.Value, 'f', prec, 64)
}

// CurvePoint one point of the hypsometric curve.
type CurvePoint struct {
	RelativeArea, RelativeHeight float64
}

// Result the composed output of one analysis.
type Result struct {
	Rows        []Row
	Approximate bool
	Warnings    []error
	hyp         morph.Hypsometry
}

// Compose assembles a result from a morphometry.
func Compose(m *morph.Morphometry) *Result {
	r := &Result{
		Rows:        make([]Row, len(m.Params)),
		Approximate: m.Approximate,
		Warnings:    append([]error(nil), m.Warnings...),
		hyp:         m.Hypsometry,
	}
	for i, p := range m.Params {
		r.Rows[i] = Row{Key: p.Key, Name: p.Name, Value: p.Value, Defined: p.Defined, Unit: p.Unit, Interpretation: p.Interpretation}
	}
	return r
}

// Get returns the row with the given parameter key.
func (r *Result) Get(key string) (Row, bool) {
	for _, row := range r.Rows {
		if row.Key == key {
			return row, true
		}
	}
	return Row{}, false
}

// HypsometricIntegral returns the integral, false for a basin without relief.
func (r *Result) HypsometricIntegral() (float64, bool) {
	return r.hyp.Integral, r.hyp.Defined
}

// Curve yields the hypsometric curve from the summit (relative height 1)
// down to the outlet. The sequence is empty for a basin without relief and
// may be ranged over any number of times.
func (r *Result) Curve() iter.Seq[CurvePoint] {
	return func(yield func(CurvePoint) bool) {
		h := r.hyp
		for i := len(h.RelativeHeight) - 1; i >= 0; i-- {
			if !yield(CurvePoint{RelativeArea: h.RelativeArea[i], RelativeHeight: h.RelativeHeight[i]}) {
				return
			}
		}
	}
}

// WriteTable writes a tab-aligned table of the rows.
func (r *Result) WriteTable(w io.Writer, prec int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Parameter\tValue\tUnit\tInterpretation")
	for _, row := range r.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Name, row.FormatValue(prec), row.Unit, row.Interpretation)
	}
	for _, err := range r.Warnings {
		fmt.Fprintf(tw, "warning:\t%v\t\t\n", err)
	}
	return tw.Flush()
}
