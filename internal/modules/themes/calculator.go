package themes

import (
	"github.com/rs/zerolog"

	"github.com/aristath/macro-trader/internal/modules/indicators"
	"github.com/aristath/macro-trader/pkg/formulas"
)

// Calculator reduces each theme's indicator set to one continuous score in [-1, 1]
//
// Each indicator contributes its position within its own historical percentile
// distribution, mapped onto [-1, 1]:
//
//	below the 33rd percentile  -> [-1.00, -0.33]
//	33rd to 67th percentile    -> [-0.33, +0.33]
//	above the 67th percentile  -> [+0.33, +1.00]
//
// each by linear interpolation within its sub-band. Contributions are weighted
// by temporalWeight(temporal) * indicator.weight. Indicators missing a value
// or percentile data drop out of both numerator and denominator; a theme with
// no usable indicators defaults to 0 (neutral).
type Calculator struct {
	log zerolog.Logger
}

// NewCalculator creates a new theme value calculator
func NewCalculator(log zerolog.Logger) *Calculator {
	return &Calculator{
		log: log.With().Str("service", "theme_calculator").Logger(),
	}
}

// CalculateAll computes the current value of every theme from a snapshot
func (c *Calculator) CalculateAll(snapshot indicators.Snapshot) []Value {
	values := make([]Value, 0, len(indicators.AllThemes))
	for _, theme := range indicators.AllThemes {
		values = append(values, c.Calculate(theme, snapshot.ByTheme(theme)))
	}
	return values
}

// Calculate computes one theme's current value from its indicators
func (c *Calculator) Calculate(theme indicators.Theme, inds []indicators.Indicator) Value {
	var weightedSum, totalWeight float64

	for _, ind := range inds {
		if ind.CurrentValue == nil || ind.Percentiles == nil {
			continue
		}

		score := percentileScore(*ind.CurrentValue, *ind.Percentiles)
		if ind.Inverted {
			score = -score
		}

		weight := indicators.TemporalWeight(ind.Temporal) * ind.Weight
		weightedSum += score * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		c.log.Debug().Str("theme", string(theme)).Msg("No usable indicators, theme defaults to neutral")
		return Value{Theme: theme, Value: 0, State: StateNeutral, Defaulted: true}
	}

	value := formulas.Clamp(weightedSum/totalWeight, -1, 1)
	return Value{Theme: theme, Value: value, State: StateOf(value)}
}

// CalculateSeries reconstructs the theme's historical score series from the
// indicator histories, aligned on the most recent point. Series length is the
// shortest usable indicator history; indicators without percentile data are
// skipped entirely.
func (c *Calculator) CalculateSeries(theme indicators.Theme, inds []indicators.Indicator) []float64 {
	minLen := 0
	for _, ind := range inds {
		if ind.Percentiles == nil || len(ind.History) == 0 {
			continue
		}
		if minLen == 0 || len(ind.History) < minLen {
			minLen = len(ind.History)
		}
	}
	if minLen == 0 {
		return nil
	}

	series := make([]float64, minLen)
	for t := 0; t < minLen; t++ {
		var weightedSum, totalWeight float64
		for _, ind := range inds {
			if ind.Percentiles == nil || len(ind.History) < minLen {
				continue
			}
			// Align on the most recent point
			v := ind.History[len(ind.History)-minLen+t]

			score := percentileScore(v, *ind.Percentiles)
			if ind.Inverted {
				score = -score
			}

			weight := indicators.TemporalWeight(ind.Temporal) * ind.Weight
			weightedSum += score * weight
			totalWeight += weight
		}
		if totalWeight > 0 {
			series[t] = formulas.Clamp(weightedSum/totalWeight, -1, 1)
		}
	}

	return series
}

// percentileScore maps a raw value onto [-1, 1] through the indicator's
// historical percentile bands, interpolating linearly within each sub-band
func percentileScore(value float64, pct indicators.Percentiles) float64 {
	switch {
	case value <= pct.P33:
		span := pct.P33 - pct.Min
		if span <= 0 {
			return LowerBoundary
		}
		t := formulas.Clamp((value-pct.Min)/span, 0, 1)
		return -1 + t*(1+LowerBoundary)

	case value >= pct.P67:
		span := pct.Max - pct.P67
		if span <= 0 {
			return UpperBoundary
		}
		t := formulas.Clamp((value-pct.P67)/span, 0, 1)
		return UpperBoundary + t*(1-UpperBoundary)

	default:
		span := pct.P67 - pct.P33
		if span <= 0 {
			return 0
		}
		t := (value - pct.P33) / span
		return LowerBoundary + t*(UpperBoundary-LowerBoundary)
	}
}
