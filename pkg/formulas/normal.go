package formulas

import "math"

// Abramowitz & Stegun 7.1.26 rational approximation coefficients for erf
const (
	asA1 = 0.254829592
	asA2 = -0.284496736
	asA3 = 1.421413741
	asA4 = -1.453152027
	asA5 = 1.061405429
	asP  = 0.3275911
)

// NormalCDF calculates the standard normal cumulative distribution function
// using the Abramowitz & Stegun rational approximation (max error ~1.5e-7)
//
// Formula:
//
//	Φ(z) = 0.5 * (1 + erf(z / sqrt(2)))
//	erf(x) ≈ 1 - (a1*t + a2*t² + a3*t³ + a4*t⁴ + a5*t⁵) * exp(-x²)
//	t = 1 / (1 + p*x)
func NormalCDF(z float64) float64 {
	x := z / math.Sqrt2

	sign := 1.0
	if x < 0 {
		sign = -1.0
		x = -x
	}

	t := 1.0 / (1.0 + asP*x)
	poly := t * (asA1 + t*(asA2+t*(asA3+t*(asA4+t*asA5))))
	erf := 1.0 - poly*math.Exp(-x*x)

	return 0.5 * (1.0 + sign*erf)
}
