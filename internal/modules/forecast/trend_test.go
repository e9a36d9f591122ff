package forecast

import (
	"math"
	"testing"
)

func TestFitTrendUpwardSeries(t *testing.T) {
	series := make([]float64, TrendWindow)
	for i := range series {
		series[i] = -0.5 + 0.03*float64(i)
	}

	fit := FitTrend(series)

	if fit.Defaulted {
		t.Fatal("clean series should not default")
	}
	if math.Abs(fit.Slope-0.03) > 1e-9 {
		t.Errorf("slope = %v, want 0.03", fit.Slope)
	}
	if fit.RSquared < 0.99 {
		t.Errorf("rSquared = %v, want ~1 for a perfect line", fit.RSquared)
	}
}

func TestFitTrendShortSeriesDefaults(t *testing.T) {
	fit := FitTrend([]float64{0.1, 0.2})

	if !fit.Defaulted {
		t.Fatal("short series should take the default path")
	}
	if fit.Slope != 0 {
		t.Errorf("default slope = %v, want 0", fit.Slope)
	}
	if fit.Intercept != 0.2 {
		t.Errorf("default intercept = %v, want last value 0.2", fit.Intercept)
	}
}

func TestFitTrendOutlierDownWeighted(t *testing.T) {
	clean := make([]float64, TrendWindow)
	for i := range clean {
		clean[i] = 0.01 * float64(i)
	}

	spiked := make([]float64, TrendWindow)
	copy(spiked, clean)
	spiked[TrendWindow/2] = 5.0 // far outside 3x MAD

	cleanFit := FitTrend(clean)
	spikedFit := FitTrend(spiked)

	// The outlier must not drag the slope far from the clean fit
	if math.Abs(spikedFit.Slope-cleanFit.Slope) > 0.01 {
		t.Errorf("outlier moved slope from %v to %v", cleanFit.Slope, spikedFit.Slope)
	}
}

func TestFitTrendWeakTrendDampened(t *testing.T) {
	// Alternating noise around zero with a faint drift: R² is tiny, so the
	// reported slope must be dampened well below the raw drift
	series := make([]float64, TrendWindow)
	for i := range series {
		noise := 0.3
		if i%2 == 0 {
			noise = -0.3
		}
		series[i] = noise + 0.001*float64(i)
	}

	fit := FitTrend(series)

	if fit.RSquared >= minTrustedRSquared {
		t.Skipf("series unexpectedly trendy: r2=%v", fit.RSquared)
	}
	if math.Abs(fit.Slope) > 0.001 {
		t.Errorf("weak trend slope = %v, want dampened below raw drift", fit.Slope)
	}
}

func TestFitTrendFlatSeries(t *testing.T) {
	series := make([]float64, TrendWindow)
	for i := range series {
		series[i] = 0.25
	}

	fit := FitTrend(series)
	if fit.Slope != 0 {
		t.Errorf("flat series slope = %v, want 0", fit.Slope)
	}
}
