package indicators

import "testing"

func indicatorWith(value float64, history []float64) Indicator {
	v := value
	return Indicator{
		Key:          "test",
		CurrentValue: &v,
		History:      history,
		Percentiles:  &Percentiles{Min: 0, P33: 33, P67: 67, Max: 100},
	}
}

func TestEvaluateMovingAverage(t *testing.T) {
	flat := []float64{50, 50, 50, 50, 50}
	cmp := Comparison{Kind: ComparisonMA, MAPeriod: 5, MATolerance: 0.02}

	tests := []struct {
		name  string
		value float64
		want  Signal
	}{
		{name: "well above ma", value: 60, want: SignalHigh},
		{name: "well below ma", value: 40, want: SignalLow},
		{name: "inside tolerance band", value: 50.5, want: SignalNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cmp.Evaluate(indicatorWith(tt.value, flat)); got != tt.want {
				t.Errorf("Evaluate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateMovingAverageShortHistory(t *testing.T) {
	cmp := Comparison{Kind: ComparisonMA, MAPeriod: 10, MATolerance: 0.02}
	if got := cmp.Evaluate(indicatorWith(60, []float64{50, 50})); got != SignalNeutral {
		t.Errorf("insufficient history should read neutral, got %v", got)
	}
}

func TestEvaluateFixedThreshold(t *testing.T) {
	cmp := Comparison{Kind: ComparisonFixedThreshold, LowThreshold: 20, HighThreshold: 80}

	tests := []struct {
		value float64
		want  Signal
	}{
		{85, SignalHigh},
		{80, SignalHigh},
		{50, SignalNeutral},
		{20, SignalLow},
		{10, SignalLow},
	}
	for _, tt := range tests {
		if got := cmp.Evaluate(indicatorWith(tt.value, nil)); got != tt.want {
			t.Errorf("Evaluate(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestEvaluateRSI(t *testing.T) {
	// Monotonic rise keeps RSI pinned at 100
	rising := make([]float64, 30)
	for i := range rising {
		rising[i] = float64(i)
	}
	falling := make([]float64, 30)
	for i := range falling {
		falling[i] = float64(30 - i)
	}

	cmp := Comparison{Kind: ComparisonRSI, RSIPeriod: 14, Oversold: 30, Overbought: 70}

	if got := cmp.Evaluate(indicatorWith(29, rising)); got != SignalHigh {
		t.Errorf("rising series RSI = %v, want high", got)
	}
	if got := cmp.Evaluate(indicatorWith(1, falling)); got != SignalLow {
		t.Errorf("falling series RSI = %v, want low", got)
	}
	if got := cmp.Evaluate(indicatorWith(50, []float64{50, 50})); got != SignalNeutral {
		t.Errorf("short history RSI = %v, want neutral", got)
	}
}

func TestEvaluatePercentileBand(t *testing.T) {
	cmp := DefaultComparison()

	tests := []struct {
		value float64
		want  Signal
	}{
		{80, SignalHigh},
		{67, SignalHigh},
		{50, SignalNeutral},
		{33, SignalLow},
		{5, SignalLow},
	}
	for _, tt := range tests {
		if got := cmp.Evaluate(indicatorWith(tt.value, nil)); got != tt.want {
			t.Errorf("Evaluate(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestEvaluatePercentileBandMissingPercentiles(t *testing.T) {
	ind := indicatorWith(80, nil)
	ind.Percentiles = nil
	if got := DefaultComparison().Evaluate(ind); got != SignalNeutral {
		t.Errorf("missing percentiles should read neutral, got %v", got)
	}
}

func TestEvaluateInvertedFlipsSignal(t *testing.T) {
	kinds := []Comparison{
		{Kind: ComparisonFixedThreshold, LowThreshold: 20, HighThreshold: 80},
		DefaultComparison(),
	}

	for _, cmp := range kinds {
		ind := indicatorWith(90, nil)
		ind.Inverted = true
		if got := cmp.Evaluate(ind); got != SignalLow {
			t.Errorf("kind %v: inverted high reading = %v, want low", cmp.Kind, got)
		}
	}
}

func TestEvaluateMissingValue(t *testing.T) {
	ind := Indicator{Key: "empty"}
	if got := DefaultComparison().Evaluate(ind); got != SignalNeutral {
		t.Errorf("missing value should read neutral, got %v", got)
	}
}

func TestSignalString(t *testing.T) {
	tests := []struct {
		signal Signal
		want   string
	}{
		{SignalLow, "low"},
		{SignalNeutral, "neutral"},
		{SignalHigh, "high"},
	}
	for _, tt := range tests {
		if got := tt.signal.String(); got != tt.want {
			t.Errorf("Signal(%d).String() = %q, want %q", tt.signal, got, tt.want)
		}
	}
}
