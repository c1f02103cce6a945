package morph

// Parameter one morphometric descriptor.
type Parameter struct {
	Key            string
	Name           string
	Unit           string
	Value          float64
	Defined        bool
	Interpretation string
}

// Morphometry the full parameter set of a basin.
type Morphometry struct {
	Params      []Parameter
	Hypsometry  Hypsometry
	Approximate bool    // measured without a projected reference
	Warnings    []error // non-fatal conditions
}

// Get returns the parameter with the given key.
func (m *Morphometry) Get(key string) (Parameter, bool) {
	for _, p := range m.Params {
		if p.Key == key {
			return p, true
		}
	}
	return Parameter{}, false
}

// parameter keys
const (
	Area                   = "area"
	Perimeter              = "perimeter"
	BasinLength            = "basin_length"
	BasinWidth             = "basin_width"
	FormFactor             = "form_factor"
	ElongationRatio        = "elongation_ratio"
	CircularityRatio       = "circularity_ratio"
	CompactnessCoefficient = "compactness_coefficient"
	MaxElevation           = "max_elevation"
	MinElevation           = "min_elevation"
	MeanElevation          = "mean_elevation"
	Relief                 = "relief"
	ReliefRatio            = "relief_ratio"
	RuggednessNumber       = "ruggedness_number"
	ElevationReliefRatio   = "elevation_relief_ratio"
	StreamCount            = "stream_count"
	MaxOrder               = "max_order"
	TotalStreamLength      = "total_stream_length"
	MainChannelLength      = "main_channel_length"
	MeanStreamLength       = "mean_stream_length"
	DrainageDensity        = "drainage_density"
	StreamFrequency        = "stream_frequency"
	DrainageIntensity      = "drainage_intensity"
	InfiltrationNumber     = "infiltration_number"
	DrainageTexture        = "drainage_texture"
	FitnessRatio           = "fitness_ratio"
	BifurcationRatio       = "bifurcation_ratio"
	LengthOverlandFlow     = "length_overland_flow"
	ChannelMaintenance     = "channel_maintenance"
	MeanSlopeDeg           = "mean_slope_deg"
	MeanSlopePct           = "mean_slope_pct"
	TcKirpich              = "tc_kirpich"
	TcKerby                = "tc_kerby"
	TcGiandotti            = "tc_giandotti"
	TcTemez                = "tc_temez"
	TcUSDA                 = "tc_usda"
	HypsometricIntegral    = "hypsometric_integral"
)

// catalogue output order, names and units
var catalogue = []struct{ key, name, unit string }{
	{Area, "Basin Area (A)", "km²"},
	{Perimeter, "Perimeter (P)", "km"},
	{BasinLength, "Basin Length (Lb)", "km"},
	{BasinWidth, "Basin Width (B)", "km"},
	{FormFactor, "Form Factor (Ff)", ""},
	{ElongationRatio, "Elongation Ratio (Re)", ""},
	{CircularityRatio, "Circularity Ratio (Rc)", ""},
	{CompactnessCoefficient, "Compactness Coefficient (Kc)", ""},
	{MaxElevation, "Maximum Elevation", "m a.s.l."},
	{MinElevation, "Minimum Elevation", "m a.s.l."},
	{MeanElevation, "Mean Elevation", "m a.s.l."},
	{Relief, "Relief (H)", "m"},
	{ReliefRatio, "Relief Ratio (Rh)", ""},
	{RuggednessNumber, "Ruggedness Number (Rn)", ""},
	{ElevationReliefRatio, "Elevation-Relief Ratio (E)", ""},
	{StreamCount, "Number of Streams (Nu)", ""},
	{MaxOrder, "Stream Order", ""},
	{TotalStreamLength, "Total Length of Channels (Lt)", "km"},
	{MainChannelLength, "Main Channel Length (Lc)", "km"},
	{MeanStreamLength, "Mean Stream Length (Lm)", "km"},
	{DrainageDensity, "Drainage Density (Dd)", "km/km²"},
	{StreamFrequency, "Stream Frequency (Fs)", "streams/km²"},
	{DrainageIntensity, "Drainage Intensity (Id)", ""},
	{InfiltrationNumber, "Infiltration Number (If)", ""},
	{DrainageTexture, "Drainage Texture (Dt)", "streams/km"},
	{FitnessRatio, "Fitness Ratio (Rf)", ""},
	{BifurcationRatio, "Bifurcation Ratio (Rb)", ""},
	{LengthOverlandFlow, "Length of Overland Flow (Lo)", "km"},
	{ChannelMaintenance, "Constant of Channel Maintenance (C)", "km²/km"},
	{MeanSlopeDeg, "Mean Slope (degrees)", "degrees"},
	{MeanSlopePct, "Mean Slope (percent)", "%"},
	{TcKirpich, "Time of Concentration - Kirpich (Tc)", "minutes"},
	{TcKerby, "Time of Concentration - Kerby (Tc)", "minutes"},
	{TcGiandotti, "Time of Concentration - Giandotti (Tc)", "minutes"},
	{TcTemez, "Time of Concentration - Témez (Tc)", "minutes"},
	{TcUSDA, "Time of Concentration - USDA (Tc)", "minutes"},
	{HypsometricIntegral, "Hypsometric Integral (HI)", ""},
}
