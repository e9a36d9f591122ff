package forecast

import (
	"math"

	"github.com/aristath/macro-trader/pkg/formulas"
)

// GARCH(1,1) calibration parameters
const (
	// Calibration uses up to this many of the most recent returns
	garchCalibrationPoints = 180

	// The conditional variance recursion iterates over this many returns
	garchRecursionPoints = 36

	// Stationarity bound on alpha + beta
	maxAlphaPlusBeta = 0.99

	// Omega bounds after recomputation from sample variance
	minOmega = 5e-5
	maxOmega = 5e-4

	// Regime thresholds on annualized volatility (monthly cadence, sqrt(12))
	highVolAnnualized = 0.20
	lowVolAnnualized  = 0.10

	// Default volatility when the series is too short for calibration
	defaultVolatility = 0.10
)

// VolatilityEstimate holds calibrated GARCH(1,1) parameters and the current
// conditional variance. Invariant: Alpha + Beta < 0.99.
type VolatilityEstimate struct {
	Omega               float64 `json:"omega"`
	Alpha               float64 `json:"alpha"`
	Beta                float64 `json:"beta"`
	ConditionalVariance float64 `json:"conditional_variance"`

	// Defaulted marks an estimate that fell back to the 10% default
	Defaulted bool `json:"defaulted,omitempty"`
}

// Volatility returns the current conditional volatility (standard deviation)
func (v VolatilityEstimate) Volatility() float64 {
	if v.ConditionalVariance <= 0 {
		return 0
	}
	return math.Sqrt(v.ConditionalVariance)
}

// EstimateVolatility calibrates a GARCH(1,1) model on a theme's value series
// and runs the variance recursion to the present
//
// Recursion:
//
//	σ²_t = omega + alpha·shock²_{t-1} + beta·σ²_{t-1}
//
// Calibration starts from alpha=0.05, beta=0.90 and nudges the pair toward a
// faster shock response in turbulent regimes (annualized vol > 20%) or a
// slower one in quiet regimes (< 10%). Stationarity (alpha+beta < 0.99) is
// enforced by proportional rescaling; omega is recomputed from the sample
// variance and clamped to [5e-5, 5e-4].
//
// No artificial floor is applied to the resulting volatility.
func EstimateVolatility(series []float64) VolatilityEstimate {
	returns := formulas.CalculateReturns(series)
	if len(returns) > garchCalibrationPoints {
		returns = returns[len(returns)-garchCalibrationPoints:]
	}

	if len(returns) < 2 {
		return VolatilityEstimate{
			Omega:               minOmega,
			Alpha:               0.05,
			Beta:                0.90,
			ConditionalVariance: defaultVolatility * defaultVolatility,
			Defaulted:           true,
		}
	}

	variance := formulas.Variance(returns)

	alpha := 0.05
	beta := 0.90

	// Regime adjustment on annualized volatility (monthly cadence)
	annualized := math.Sqrt(variance * 12)
	switch {
	case annualized > highVolAnnualized:
		alpha = 0.08
		beta = 0.87
	case annualized < lowVolAnnualized:
		alpha = 0.03
		beta = 0.92
	}

	// Stationarity: rescale proportionally if alpha + beta drifts past the bound
	if sum := alpha + beta; sum >= maxAlphaPlusBeta {
		scale := (maxAlphaPlusBeta - 1e-6) / sum
		alpha *= scale
		beta *= scale
	}

	omega := formulas.Clamp(variance*(1-alpha-beta), minOmega, maxOmega)

	// Run the recursion over the most recent returns, seeded with sample variance
	recursion := returns
	if len(recursion) > garchRecursionPoints {
		recursion = recursion[len(recursion)-garchRecursionPoints:]
	}

	conditionalVariance := variance
	for _, shock := range recursion {
		conditionalVariance = omega + alpha*shock*shock + beta*conditionalVariance
	}

	return VolatilityEstimate{
		Omega:               omega,
		Alpha:               alpha,
		Beta:                beta,
		ConditionalVariance: conditionalVariance,
	}
}
