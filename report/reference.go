package report

import "math"

// Stage a reference hypsometric curve of a basin development stage.
type Stage struct {
	Name string
	F    func(x float64) float64 // relative height at relative area x
}

// Reference returns the young, mature and old stage curves.
func Reference() []Stage {
	return []Stage{
		{"Young stage", func(x float64) float64 { return 1. - x*x }},
		{"Mature stage", func(x float64) float64 { return 1. - x }},
		{"Old stage", func(x float64) float64 { return math.Pow(1.-x, 2.) }},
	}
}
