package allocation

import (
	"github.com/aristath/macro-trader/internal/modules/scenarios"
)

// Scenario selection parameters
const (
	// Cumulative probability target for the selected set
	selectionCumulativeTarget = 0.85

	// Bounds on the number of selected scenarios
	minSelectedScenarios = 3
	maxSelectedScenarios = 6

	// Scenarios at or above this probability are always included
	forceIncludeProbability = 0.10
)

// SelectScenarios picks the scenario set the allocator plans against.
//
// Scenarios are taken in descending probability order until cumulative
// probability reaches 0.85 with at least 3 included, capped at 6. Any
// scenario with individual probability >= 0.10 is force-included even past
// the cap. If the criteria yield fewer than 3, the top 3 are used.
func SelectScenarios(dist scenarios.Distribution) []scenarios.Scenario {
	sorted := dist.Scenarios // already sorted descending by probability

	var selected []scenarios.Scenario
	cumulative := 0.0

	for _, sc := range sorted {
		if len(selected) >= maxSelectedScenarios {
			break
		}
		selected = append(selected, sc)
		cumulative += sc.Probability
		if cumulative >= selectionCumulativeTarget && len(selected) >= minSelectedScenarios {
			break
		}
	}

	// Force-include high-probability scenarios left outside the cutoff
	for _, sc := range sorted[len(selected):] {
		if sc.Probability >= forceIncludeProbability {
			selected = append(selected, sc)
		}
	}

	if len(selected) < minSelectedScenarios {
		selected = dist.Top(minSelectedScenarios)
	}

	return selected
}
