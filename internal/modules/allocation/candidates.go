package allocation

import (
	"github.com/aristath/macro-trader/internal/modules/indicators"
	"github.com/aristath/macro-trader/internal/modules/scenarios"
)

// BuildCandidates constructs one allocation candidate per selected scenario:
// the fixed baseline plus the tilt vector of every non-neutral theme in that
// scenario's state combination. Tilts from multiple active themes sum.
// Active constraints are applied and the result renormalized.
func BuildCandidates(selected []scenarios.Scenario) []Candidate {
	candidates := make([]Candidate, 0, len(selected))

	for _, sc := range selected {
		alloc := BaselineAllocation()

		for i, theme := range indicators.AllThemes {
			for symbol, tilt := range TiltFor(theme, sc.States.State(i)) {
				alloc[symbol] += tilt
			}
		}

		alloc = ApplyActiveConstraints(alloc)

		candidates = append(candidates, Candidate{
			Scenario:   sc,
			Allocation: alloc,
		})
	}

	return candidates
}
