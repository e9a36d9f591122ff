package forecast

import (
	"math"

	"github.com/aristath/macro-trader/internal/modules/themes"
	"github.com/aristath/macro-trader/pkg/formulas"
)

// Transition parameters
const (
	// Forecast horizon in months
	horizonMonths = 6

	// Additional dampening applied to the fitted slope when projecting
	projectionDampening = 0.7

	// Projection is bounded away from the extremes of the score range
	maxProjection = 0.9

	// Floor on each state's probability before renormalization
	minStateProbability = 0.02
)

// Distribution is a theme's 3-state transition probability distribution.
// Invariant: Low + Neutral + High = 1 and each entry >= 0.02.
type Distribution struct {
	Low     float64 `json:"low"`
	Neutral float64 `json:"neutral"`
	High    float64 `json:"high"`

	// Defaulted marks the {33/34/33} fallback used when the trend or
	// volatility estimate is unusable
	Defaulted bool `json:"defaulted,omitempty"`
}

// Prob returns the probability mass assigned to a state
func (d Distribution) Prob(state themes.State) float64 {
	switch state {
	case themes.StateLow:
		return d.Low
	case themes.StateHigh:
		return d.High
	default:
		return d.Neutral
	}
}

// Persistence is the probability mass assigned to the theme's current state
func (d Distribution) Persistence(current themes.State) float64 {
	return d.Prob(current)
}

// defaultDistribution is the neutral fallback when projection is impossible
func defaultDistribution() Distribution {
	return Distribution{Low: 0.33, Neutral: 0.34, High: 0.33, Defaulted: true}
}

// TransitionProbabilities projects a theme value six months forward along its
// dampened trend and converts the distance to each tercile boundary into
// state probabilities under a normal forecast distribution.
//
// When either input estimate took its insufficient-history default there is
// no real trend or volatility to project with, so the distribution takes the
// {33/34/33} default rather than projecting from fallback numbers.
func TransitionProbabilities(current float64, trend TrendFit, vol VolatilityEstimate) Distribution {
	if trend.Defaulted || vol.Defaulted {
		return defaultDistribution()
	}

	projected := formulas.Clamp(
		current+trend.Slope*horizonMonths*projectionDampening,
		-maxProjection, maxProjection)

	horizonVol := vol.Volatility() * math.Sqrt(horizonMonths)
	if horizonVol <= 0 || math.IsNaN(horizonVol) {
		return defaultDistribution()
	}

	// P(value < lower boundary) and P(value > upper boundary) at the horizon
	zLow := (themes.LowerBoundary - projected) / horizonVol
	zHigh := (themes.UpperBoundary - projected) / horizonVol

	pLow := formulas.NormalCDF(zLow)
	pHigh := 1 - formulas.NormalCDF(zHigh)
	pNeutral := 1 - pLow - pHigh

	// Floor and renormalize so every state stays reachable
	pLow = math.Max(pLow, minStateProbability)
	pNeutral = math.Max(pNeutral, minStateProbability)
	pHigh = math.Max(pHigh, minStateProbability)

	total := pLow + pNeutral + pHigh
	return Distribution{
		Low:     pLow / total,
		Neutral: pNeutral / total,
		High:    pHigh / total,
	}
}
