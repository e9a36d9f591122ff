package indicators

import (
	"github.com/aristath/macro-trader/pkg/formulas"
)

// Signal is the discrete reading a comparison strategy produces for an indicator
type Signal int

const (
	SignalLow     Signal = -1
	SignalNeutral Signal = 0
	SignalHigh    Signal = 1
)

// String returns a display label for a signal
func (s Signal) String() string {
	switch s {
	case SignalLow:
		return "low"
	case SignalHigh:
		return "high"
	default:
		return "neutral"
	}
}

// ComparisonKind enumerates the closed set of comparison strategies
type ComparisonKind int

const (
	// ComparisonMA compares the current value against a trailing moving average
	ComparisonMA ComparisonKind = iota
	// ComparisonFixedThreshold compares the current value against fixed low/high levels
	ComparisonFixedThreshold
	// ComparisonRSI reads an RSI of the history against oversold/overbought levels
	ComparisonRSI
	// ComparisonPercentileBand places the current value within the indicator's
	// own historical percentile bands
	ComparisonPercentileBand
)

// Comparison is a tagged variant over the comparison strategies. Exactly the
// fields of the active Kind are meaningful.
type Comparison struct {
	Kind ComparisonKind

	// ComparisonMA
	MAPeriod    int
	MATolerance float64 // fraction of the MA treated as neutral band

	// ComparisonFixedThreshold
	LowThreshold  float64
	HighThreshold float64

	// ComparisonRSI
	RSIPeriod  int
	Oversold   float64
	Overbought float64
}

// Evaluate derives the discrete signal an indicator is currently emitting.
// The switch over Kind is exhaustive; unknown kinds fall through to neutral
// only because the zero Comparison must remain usable.
func (c Comparison) Evaluate(ind Indicator) Signal {
	if ind.CurrentValue == nil {
		return SignalNeutral
	}
	value := *ind.CurrentValue

	var signal Signal

	switch c.Kind {
	case ComparisonMA:
		ma := formulas.CalculateSMA(ind.History, c.MAPeriod)
		if ma == nil || *ma == 0 {
			return SignalNeutral
		}
		band := c.MATolerance * *ma
		switch {
		case value > *ma+band:
			signal = SignalHigh
		case value < *ma-band:
			signal = SignalLow
		default:
			signal = SignalNeutral
		}

	case ComparisonFixedThreshold:
		switch {
		case value >= c.HighThreshold:
			signal = SignalHigh
		case value <= c.LowThreshold:
			signal = SignalLow
		default:
			signal = SignalNeutral
		}

	case ComparisonRSI:
		rsi := formulas.CalculateRSI(ind.History, c.RSIPeriod)
		if rsi == nil {
			return SignalNeutral
		}
		switch {
		case *rsi >= c.Overbought:
			signal = SignalHigh
		case *rsi <= c.Oversold:
			signal = SignalLow
		default:
			signal = SignalNeutral
		}

	case ComparisonPercentileBand:
		if ind.Percentiles == nil {
			return SignalNeutral
		}
		switch {
		case value >= ind.Percentiles.P67:
			signal = SignalHigh
		case value <= ind.Percentiles.P33:
			signal = SignalLow
		default:
			signal = SignalNeutral
		}
	}

	if ind.Inverted {
		signal = -signal
	}

	return signal
}

// DefaultComparison returns the display comparison used for an indicator when
// none is configured: its position within its own percentile bands.
func DefaultComparison() Comparison {
	return Comparison{Kind: ComparisonPercentileBand}
}
