package allocation

import (
	"fmt"
	"sort"
)

// Active (always-enforced) constraints
const (
	// HoldOnlyCeiling is the hold-only security's weight ceiling. The
	// optimizer may cap it downward but never raise it.
	HoldOnlyCeiling = 0.05

	// CashFloor is the minimum cash weight
	CashFloor = 0.01
)

// Monitored concentration limits. Computed and reported as alerts; enforced
// only when the enforcement toggle is on (under consideration).
const (
	MaxPositionConcentration     = 0.35
	MaxSectorConcentration       = 0.50
	MaxAlternativesConcentration = 0.30
)

// Severity thresholds as a fraction of the limit
const (
	alertWarningFraction  = 0.80
	alertCriticalFraction = 0.90
)

// ApplyActiveConstraints applies the always-enforced constraints to an
// allocation and renormalizes:
//
//  1. negative weights are clamped to 0
//  2. the hold-only security is capped at its ceiling (never raised)
//  3. cash is raised to the floor if below it
//
// Normalization runs last so the weights always sum to exactly 1. When the
// cap binds, normalization alone would scale the hold-only security back
// above its ceiling, so the cap is re-asserted afterwards with the excess
// redistributed proportionally over the other weights.
func ApplyActiveConstraints(alloc Allocation) Allocation {
	out := alloc.Clone()

	for symbol, w := range out {
		if w < 0 {
			out[symbol] = 0
		}
	}

	if out[HoldOnlySymbol] > HoldOnlyCeiling {
		out[HoldOnlySymbol] = HoldOnlyCeiling
	}

	if out[CashSymbol] < CashFloor {
		out[CashSymbol] = CashFloor
	}

	out = out.Normalized()

	if excess := out[HoldOnlySymbol] - HoldOnlyCeiling; excess > 0 {
		others := 1 - out[HoldOnlySymbol]
		if others > 0 {
			scale := (1 - HoldOnlyCeiling) / others
			for symbol := range out {
				if symbol != HoldOnlySymbol {
					out[symbol] *= scale
				}
			}
		}
		out[HoldOnlySymbol] = HoldOnlyCeiling
	}

	return out
}

// DetectAlerts computes concentration monitoring alerts for an allocation
func DetectAlerts(alloc Allocation) []ConcentrationAlert {
	var alerts []ConcentrationAlert

	// Single-position concentration
	for _, symbol := range sortedSymbols(alloc) {
		if alert := checkLimit("position", symbol, alloc[symbol], MaxPositionConcentration); alert != nil {
			alerts = append(alerts, *alert)
		}
	}

	// Sector (security type) concentration
	byType := map[SecurityType]float64{}
	for _, sec := range Universe() {
		byType[sec.Type] += alloc[sec.Symbol]
	}
	for _, secType := range []SecurityType{TypeEquity, TypeIncome} {
		if alert := checkLimit("sector", string(secType), byType[secType], MaxSectorConcentration); alert != nil {
			alerts = append(alerts, *alert)
		}
	}
	if alert := checkLimit("alternatives", string(TypeAlternative), byType[TypeAlternative], MaxAlternativesConcentration); alert != nil {
		alerts = append(alerts, *alert)
	}

	return alerts
}

// EnforceLimits caps weights at the monitored concentration limits. Only used
// when the enforcement toggle is on; the default deployment monitors without
// enforcing. Renormalizes last.
func EnforceLimits(alloc Allocation) Allocation {
	out := alloc.Clone()

	for symbol, w := range out {
		if w > MaxPositionConcentration {
			out[symbol] = MaxPositionConcentration
		}
	}

	// Scale down any security type exceeding its cap
	byType := map[SecurityType]float64{}
	for _, sec := range Universe() {
		byType[sec.Type] += out[sec.Symbol]
	}
	caps := map[SecurityType]float64{
		TypeEquity:      MaxSectorConcentration,
		TypeIncome:      MaxSectorConcentration,
		TypeAlternative: MaxAlternativesConcentration,
	}
	for secType, limit := range caps {
		total := byType[secType]
		if total <= limit {
			continue
		}
		scale := limit / total
		for _, sec := range Universe() {
			if sec.Type == secType {
				out[sec.Symbol] *= scale
			}
		}
	}

	return out.Normalized()
}

func checkLimit(alertType, name string, current, limit float64) *ConcentrationAlert {
	if current < limit*alertWarningFraction {
		return nil
	}

	severity := "warning"
	if current >= limit*alertCriticalFraction {
		severity = "critical"
	}

	return &ConcentrationAlert{
		Type:       alertType,
		Name:       name,
		CurrentPct: current,
		LimitPct:   limit,
		Severity:   severity,
	}
}

// sortedSymbols returns the allocation's symbols in deterministic order
func sortedSymbols(alloc Allocation) []string {
	symbols := make([]string, 0, len(alloc))
	for symbol := range alloc {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// FormatWeight renders a weight as a percentage string for logs
func FormatWeight(w float64) string {
	return fmt.Sprintf("%.2f%%", w*100)
}
