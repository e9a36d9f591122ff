package allocation

import (
	"github.com/aristath/macro-trader/internal/modules/indicators"
	"github.com/aristath/macro-trader/internal/modules/scenarios"
	"github.com/aristath/macro-trader/internal/modules/themes"
)

// BaseScenarioReturn is the fixed expected return every scenario starts from
// before theme adjustments
const BaseScenarioReturn = 0.08

// tiltTable maps theme -> state direction -> security -> additive weight tilt.
// Each tilt vector sums to zero so tilted candidates stay near fully
// invested before renormalization. Kept as explicit named tables so the
// theme-to-security mapping stays auditable in isolation.
var tiltTable = map[indicators.Theme]map[themes.State]map[string]float64{
	indicators.ThemeUSD: {
		// Strong dollar: favor domestic assets, trim foreign and gold
		themes.StateHigh: {
			"VTI": 0.04, "QQQ": 0.01, "BND": 0.02,
			DevelopedIntlSymbol: -0.02, "VWO": -0.02, "GLD": -0.03,
		},
		// Dollar decline: foreign equity and hard assets
		themes.StateLow: {
			DevelopedIntlSymbol: 0.03, "VWO": 0.03, "GLD": 0.04, "TIP": 0.01,
			"VTI": -0.04, "QQQ": -0.04, "BND": -0.03,
		},
	},
	indicators.ThemeInnovation: {
		// Innovation boom: growth over value and duration
		themes.StateHigh: {
			"QQQ": 0.06, "VTI": 0.02,
			"VTV": -0.04, "BND": -0.03, "GLD": -0.01,
		},
		// Innovation bust: rotate to value and income
		themes.StateLow: {
			"VTV": 0.03, "BND": 0.02, "TIP": 0.01,
			"QQQ": -0.05, "VTI": -0.01,
		},
	},
	indicators.ThemeValuation: {
		// Cheap markets reverting: value and emerging
		themes.StateHigh: {
			"VTV": 0.04, "VWO": 0.02, "VTI": 0.01,
			"QQQ": -0.05, "BND": -0.02,
		},
		// Stretched valuations: de-risk into income and cash
		themes.StateLow: {
			CashSymbol: 0.04, "BND": 0.04,
			"QQQ": -0.05, "VTI": -0.03,
		},
	},
	indicators.ThemeUSLeadership: {
		// US leadership: domestic tilt
		themes.StateHigh: {
			"VTI": 0.04, "QQQ": 0.02,
			DevelopedIntlSymbol: -0.04, "VWO": -0.02,
		},
		// International leadership
		themes.StateLow: {
			DevelopedIntlSymbol: 0.05, "VWO": 0.03,
			"VTI": -0.05, "QQQ": -0.03,
		},
	},
}

// returnTable maps theme -> state direction -> security -> expected return
// adjustment, dot-producted with allocation weights when scoring a scenario.
// Signs align with tiltTable so a scenario's own candidate is the best
// answer to that scenario.
var returnTable = map[indicators.Theme]map[themes.State]map[string]float64{
	indicators.ThemeUSD: {
		themes.StateHigh: {
			"VTI": 0.02, "QQQ": 0.01, "BND": 0.01,
			DevelopedIntlSymbol: -0.03, "VWO": -0.04, "GLD": -0.03,
		},
		themes.StateLow: {
			DevelopedIntlSymbol: 0.04, "VWO": 0.05, "GLD": 0.06, "TIP": 0.02,
			"VTI": -0.01, "QQQ": -0.02, "BND": -0.01,
		},
	},
	indicators.ThemeInnovation: {
		themes.StateHigh: {
			"QQQ": 0.08, "VTI": 0.03,
			"VTV": -0.02, "BND": -0.01,
		},
		themes.StateLow: {
			"VTV": 0.02, "BND": 0.01, "TIP": 0.01,
			"QQQ": -0.06, "VTI": -0.02,
		},
	},
	indicators.ThemeValuation: {
		themes.StateHigh: {
			"VTV": 0.05, "VWO": 0.03, "VTI": 0.02,
			"QQQ": -0.04,
		},
		themes.StateLow: {
			CashSymbol: 0.01, "BND": 0.02,
			"QQQ": -0.05, "VTI": -0.03,
		},
	},
	indicators.ThemeUSLeadership: {
		themes.StateHigh: {
			"VTI": 0.04, "QQQ": 0.03,
			DevelopedIntlSymbol: -0.03, "VWO": -0.02,
		},
		themes.StateLow: {
			DevelopedIntlSymbol: 0.05, "VWO": 0.04,
			"VTI": -0.03, "QQQ": -0.02,
		},
	},
}

// TiltFor returns the tilt vector a theme contributes in a given state.
// Neutral themes contribute nothing.
func TiltFor(theme indicators.Theme, state themes.State) map[string]float64 {
	if state == themes.StateNeutral {
		return nil
	}
	return tiltTable[theme][state]
}

// ScenarioReturn evaluates an allocation's expected return under a scenario:
// the fixed base return plus each active theme's return table dotted with
// the allocation weights
func ScenarioReturn(alloc Allocation, states scenarios.States) float64 {
	ret := BaseScenarioReturn

	for i, theme := range indicators.AllThemes {
		state := states.State(i)
		if state == themes.StateNeutral {
			continue
		}
		// Sorted symbol order keeps the float accumulation identical
		// across runs regardless of map iteration order
		table := returnTable[theme][state]
		for _, symbol := range sortedSymbols(Allocation(table)) {
			ret += table[symbol] * alloc[symbol]
		}
	}

	return ret
}
