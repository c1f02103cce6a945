package main

import (
	"bytes"
	"fmt"

	"github.com/maseology/basinmorph/report"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// hypsometricPlot draws the basin curve over the stage reference curves.
func hypsometricPlot(r *report.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Hypsometric curve"
	if hi, ok := r.HypsometricIntegral(); ok {
		p.Title.Text += fmt.Sprintf(" (HI = %.3f)", hi)
	}
	p.X.Label.Text = "relative area (a/A)"
	p.Y.Label.Text = "relative height (h/H)"
	p.X.Min, p.X.Max = 0., 1.
	p.Y.Min, p.Y.Max = 0., 1.
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, s := range report.Reference() {
		fn := plotter.NewFunction(s.F)
		fn.Samples = 101
		fn.Color = plotutil.Color(i + 1)
		fn.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(fn)
		p.Legend.Add(s.Name, fn)
	}

	var xys plotter.XYs
	for pt := range r.Curve() {
		xys = append(xys, plotter.XY{X: pt.RelativeArea, Y: pt.RelativeHeight})
	}
	if len(xys) > 0 {
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		l.Width = vg.Points(2)
		l.Color = plotutil.Color(0)
		p.Add(l)
		p.Legend.Add("Basin", l)
	}
	return p, nil
}

func renderPNG(p *plot.Plot) ([]byte, error) {
	wt, err := p.WriterTo(6*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
