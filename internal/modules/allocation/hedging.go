package allocation

import (
	"github.com/aristath/macro-trader/internal/modules/scenarios"
	"github.com/aristath/macro-trader/internal/modules/themes"
	"github.com/aristath/macro-trader/pkg/formulas"
)

// Hedge weights per hedge mode
const (
	managedFuturesHedgeWeight = 0.05
	developedIntlHedgeWeight  = 0.03
	cashHedgeWeight           = 0.02
)

// Scenario-set thresholds for picking the hedge instrument
const (
	compoundedVolThreshold = 0.60
	intlActiveThreshold    = 0.50
)

// AvgPairwiseCorrelation computes the average Pearson correlation between
// all candidate allocation weight vectors. High correlation means the
// candidates offer little diversification against each other, so less
// residual regret is tolerated.
func AvgPairwiseCorrelation(candidates []Candidate) float64 {
	if len(candidates) < 2 {
		return 1.0
	}

	vectors := make([][]float64, len(candidates))
	for i, c := range candidates {
		vectors[i] = c.Allocation.Vector()
	}

	var sum float64
	var pairs int
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			sum += formulas.Correlation(vectors[i], vectors[j])
			pairs++
		}
	}

	return sum / float64(pairs)
}

// RegretTolerance maps the candidate-set correlation to the residual regret
// tolerated before hedging: >0.7 -> 5%, 0.5-0.7 -> 6%, <0.5 -> 8%
func RegretTolerance(avgCorrelation float64) float64 {
	switch {
	case avgCorrelation > 0.7:
		return 0.05
	case avgCorrelation >= 0.5:
		return 0.06
	default:
		return 0.08
	}
}

// ChooseHedge picks the hedge instrument and weight from the character of
// the selected scenario set:
//
//   - compounded-theme volatility (3+ active themes, or simultaneous
//     Innovation and Valuation activity) in >=60% of scenarios: managed
//     futures at 5%
//   - International theme active in >=50% of scenarios: developed
//     international at 3%
//   - otherwise: 2% cash
func ChooseHedge(selected []scenarios.Scenario) HedgeDecision {
	if len(selected) == 0 {
		return HedgeDecision{Applied: true, Symbol: CashSymbol, Weight: cashHedgeWeight, Reason: "no scenarios selected"}
	}

	compounded := 0
	intlActive := 0
	for _, sc := range selected {
		states := sc.States
		if states.ActiveThemeCount() >= 3 ||
			(states.Innovation != themes.StateNeutral && states.Valuation != themes.StateNeutral) {
			compounded++
		}
		if states.USLeadership == themes.StateLow {
			intlActive++
		}
	}

	n := float64(len(selected))
	switch {
	case float64(compounded)/n >= compoundedVolThreshold:
		return HedgeDecision{
			Applied: true,
			Symbol:  ManagedFuturesSymbol,
			Weight:  managedFuturesHedgeWeight,
			Reason:  "compounded theme volatility across selected scenarios",
		}
	case float64(intlActive)/n >= intlActiveThreshold:
		return HedgeDecision{
			Applied: true,
			Symbol:  DevelopedIntlSymbol,
			Weight:  developedIntlHedgeWeight,
			Reason:  "international leadership active across selected scenarios",
		}
	default:
		return HedgeDecision{
			Applied: true,
			Symbol:  CashSymbol,
			Weight:  cashHedgeWeight,
			Reason:  "baseline cash buffer",
		}
	}
}

// ApplyHedge adds the hedge weight to the allocation and shrinks every other
// weight proportionally so the total still sums to 1
func ApplyHedge(alloc Allocation, hedge HedgeDecision) Allocation {
	if !hedge.Applied || hedge.Weight <= 0 {
		return alloc.Clone()
	}

	out := alloc.Clone()
	hedged := out[hedge.Symbol] + hedge.Weight

	othersTotal := out.Total() - out[hedge.Symbol]
	if othersTotal <= 0 || hedged >= 1 {
		out[hedge.Symbol] += hedge.Weight
		return out.Normalized()
	}

	scale := (1 - hedged) / othersTotal
	for symbol := range out {
		if symbol != hedge.Symbol {
			out[symbol] *= scale
		}
	}
	out[hedge.Symbol] = hedged

	return out
}
