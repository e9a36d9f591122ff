package forecast

import (
	"math"
	"testing"
)

// noisy deterministic value series for calibration tests
func testSeries(n int, scale float64) []float64 {
	series := make([]float64, n)
	for i := range series {
		series[i] = scale * 0.2 * math.Sin(float64(i)*1.3)
	}
	return series
}

func TestEstimateVolatilityStationarity(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
	}{
		{name: "baseline variance", scale: 1.0},
		{name: "10x variance", scale: 10.0},
		{name: "0.1x variance", scale: 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := EstimateVolatility(testSeries(60, tt.scale))

			if est.Alpha+est.Beta >= 0.99 {
				t.Errorf("alpha+beta = %v, stationarity bound violated", est.Alpha+est.Beta)
			}
			if est.Alpha <= 0 || est.Beta <= 0 {
				t.Errorf("non-positive parameters: alpha=%v beta=%v", est.Alpha, est.Beta)
			}
			if est.Omega < minOmega || est.Omega > maxOmega {
				t.Errorf("omega = %v outside [%v, %v]", est.Omega, minOmega, maxOmega)
			}
			if est.ConditionalVariance <= 0 {
				t.Errorf("conditional variance = %v, want positive", est.ConditionalVariance)
			}
		})
	}
}

func TestEstimateVolatilityRegimeAdjustment(t *testing.T) {
	turbulent := EstimateVolatility(testSeries(60, 5.0))
	quiet := EstimateVolatility(testSeries(60, 0.01))

	if turbulent.Alpha <= quiet.Alpha {
		t.Errorf("turbulent alpha %v should exceed quiet alpha %v", turbulent.Alpha, quiet.Alpha)
	}
	if turbulent.Beta >= quiet.Beta {
		t.Errorf("turbulent beta %v should be below quiet beta %v", turbulent.Beta, quiet.Beta)
	}
}

func TestEstimateVolatilityShortSeriesDefaults(t *testing.T) {
	est := EstimateVolatility([]float64{0.1})

	if !est.Defaulted {
		t.Fatal("short series should take the default path")
	}
	if math.Abs(est.Volatility()-defaultVolatility) > 1e-12 {
		t.Errorf("default volatility = %v, want %v", est.Volatility(), defaultVolatility)
	}
}

func TestEstimateVolatilityZeroVarianceSeries(t *testing.T) {
	series := make([]float64, 50)
	for i := range series {
		series[i] = 0.4
	}

	est := EstimateVolatility(series)

	// Zero shocks: recursion still yields a positive variance from omega
	if est.ConditionalVariance <= 0 {
		t.Errorf("conditional variance = %v, want positive from omega", est.ConditionalVariance)
	}
	if est.Alpha+est.Beta >= 0.99 {
		t.Errorf("alpha+beta = %v, stationarity bound violated", est.Alpha+est.Beta)
	}
}

func TestEstimateVolatilityDeterministic(t *testing.T) {
	series := testSeries(120, 1.0)
	a := EstimateVolatility(series)
	b := EstimateVolatility(series)
	if a != b {
		t.Errorf("estimation not deterministic: %+v vs %+v", a, b)
	}
}
