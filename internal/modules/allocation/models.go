package allocation

import (
	"github.com/aristath/macro-trader/internal/modules/scenarios"
)

// Allocation maps security symbol to portfolio weight. A valid allocation has
// non-negative weights summing to 1. Allocations are never mutated in place
// by the pipeline; every stage returns a fresh copy.
type Allocation map[string]float64

// Clone returns a copy of the allocation
func (a Allocation) Clone() Allocation {
	out := make(Allocation, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Total returns the sum of all weights. Summation runs in sorted symbol
// order so the rounding is identical across runs regardless of map order.
func (a Allocation) Total() float64 {
	total := 0.0
	for _, symbol := range sortedSymbols(a) {
		total += a[symbol]
	}
	return total
}

// Normalized returns a copy scaled to sum to exactly 1. A zero-total
// allocation falls back to the baseline rather than dividing by zero.
func (a Allocation) Normalized() Allocation {
	total := a.Total()
	if total <= 0 {
		return BaselineAllocation()
	}

	out := make(Allocation, len(a))
	for k, v := range a {
		out[k] = v / total
	}
	return out
}

// Vector returns the weights ordered by the canonical universe, for
// correlation math over candidate allocations
func (a Allocation) Vector() []float64 {
	symbols := UniverseSymbols()
	vec := make([]float64, len(symbols))
	for i, sym := range symbols {
		vec[i] = a[sym]
	}
	return vec
}

// Candidate is one allocation candidate, built for a specific scenario
type Candidate struct {
	Scenario   scenarios.Scenario `json:"scenario"`
	Allocation Allocation         `json:"allocation"`
}

// HedgeDecision records the hedging stage's outcome
type HedgeDecision struct {
	Applied bool    `json:"applied"`
	Symbol  string  `json:"symbol,omitempty"`
	Weight  float64 `json:"weight,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

// ConcentrationAlert reports an allocation approaching or breaching a
// concentration limit. Limits are monitored, not enforced, unless the
// enforcement toggle is on.
type ConcentrationAlert struct {
	Type       string  `json:"type"` // "position", "sector", "alternatives"
	Name       string  `json:"name"`
	CurrentPct float64 `json:"current_pct"`
	LimitPct   float64 `json:"limit_pct"`
	Severity   string  `json:"severity"` // "warning" or "critical"
}

// Diagnostics is the bundle surfaced to downstream collaborators alongside
// the target allocation
type Diagnostics struct {
	SelectedScenarios []scenarios.Scenario `json:"selected_scenarios"`
	Alpha             float64              `json:"alpha"`
	MaxRegret         float64              `json:"max_regret"`
	WeightedRegret    float64              `json:"weighted_regret"`
	AvgCorrelation    float64              `json:"avg_correlation"`
	RegretTolerance   float64              `json:"regret_tolerance"`
	Hedge             HedgeDecision        `json:"hedge"`
	Alerts            []ConcentrationAlert `json:"alerts"`
	DefaultsTaken     []string             `json:"defaults_taken,omitempty"`
}

// Result is the allocator's full output
type Result struct {
	Target      Allocation  `json:"target"`
	Diagnostics Diagnostics `json:"diagnostics"`
}
