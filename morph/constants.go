package morph

const (
	m2perkm2 = 1000. * 1000.
	mperkm   = 1000.
	minperhr = 60.

	defaultHypsometricSteps = 100

	// time of concentration coefficients [minutes]
	kirpichC, kirpichL, kirpichS = .021, .77, -.385 // L [m]
	kerbyC, kerbyL, kerbyS       = .828, .467, .235 // L [m]
	giandottiA, giandottiL       = 4., 1.5          // A [km²], Lc [km]
	giandottiH                   = .8               // H [m]
	temezC, temezS, temezX       = .3, .25, .76     // Lc [km]
	usdaC                        = 3.3              // L [km], S [%]
)
