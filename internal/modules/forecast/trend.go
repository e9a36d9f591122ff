package forecast

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/macro-trader/pkg/formulas"
)

// Trend fit parameters
const (
	// TrendWindow is the look-back window over the theme value series
	TrendWindow = 24

	// Points deviating from the window median by more than 3x the MAD are
	// down-weighted to 0.1 in the regression
	outlierMADFactor = 3.0
	outlierWeight    = 0.1

	// Slopes with R² below this are dampened by R²/0.3
	minTrustedRSquared = 0.3

	// Minimum points for a meaningful fit
	minTrendPoints = 6
)

// TrendFit is a robust linear fit over the recent theme value series
type TrendFit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`

	// Defaulted marks a fit that fell back to flat because of insufficient history
	Defaulted bool `json:"defaulted,omitempty"`
}

// FitTrend fits a line to the most recent TrendWindow points of a theme's
// value series using weighted least squares. Outliers relative to the window
// median (by MAD) are down-weighted rather than discarded, and weak fits
// (R² < 0.3) have their slope dampened proportionally.
func FitTrend(series []float64) TrendFit {
	if len(series) < minTrendPoints {
		last := 0.0
		if len(series) > 0 {
			last = series[len(series)-1]
		}
		return TrendFit{Slope: 0, Intercept: last, RSquared: 0, Defaulted: true}
	}

	window := series
	if len(window) > TrendWindow {
		window = window[len(window)-TrendWindow:]
	}
	n := len(window)

	// Robust weights: down-weight points far from the window median
	median := formulas.Median(window)
	mad := formulas.MedianAbsDeviation(window)

	weights := make([]float64, n)
	for i, v := range window {
		weights[i] = 1.0
		if mad > 0 && math.Abs(v-median) > outlierMADFactor*mad {
			weights[i] = outlierWeight
		}
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}

	intercept, slope := stat.LinearRegression(x, window, weights, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return TrendFit{Slope: 0, Intercept: formulas.Mean(window), RSquared: 0, Defaulted: true}
	}

	r2 := stat.RSquared(x, window, weights, intercept, slope)
	if math.IsNaN(r2) {
		// Zero-variance window: flat series, flat trend
		r2 = 0
		slope = 0
	}
	r2 = formulas.Clamp(r2, 0, 1)

	// A weak trend is not trusted at full strength
	if r2 < minTrustedRSquared {
		slope *= r2 / minTrustedRSquared
	}

	return TrendFit{Slope: slope, Intercept: intercept, RSquared: r2}
}
