package formulas

import (
	"github.com/markcheno/go-talib"
)

// CalculateRSI calculates the Relative Strength Index
//
// RSI Formula:
//
//	RSI = 100 - (100 / (1 + RS))
//	where RS = Average Gain / Average Loss over N periods
//
// Args:
//
//	values: Array of values (prices or index levels)
//	length: RSI period (typically 14)
//
// Returns:
//
//	Current RSI value (0-100) or nil if insufficient data
func CalculateRSI(values []float64, length int) *float64 {
	if len(values) < length+1 {
		return nil
	}

	rsi := talib.Rsi(values, length)

	if len(rsi) > 0 && !isNaN(rsi[len(rsi)-1]) {
		result := rsi[len(rsi)-1]
		return &result
	}

	return nil
}

// CalculateSMA calculates a simple moving average over the trailing window
// Returns nil if there are fewer than length points
func CalculateSMA(values []float64, length int) *float64 {
	if len(values) < length || length <= 0 {
		return nil
	}

	sma := talib.Sma(values, length)

	if len(sma) > 0 && !isNaN(sma[len(sma)-1]) {
		result := sma[len(sma)-1]
		return &result
	}

	return nil
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
