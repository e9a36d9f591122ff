package allocation

import (
	"math"
	"testing"

	"github.com/aristath/macro-trader/internal/modules/scenarios"
)

// buildDistribution makes a sorted, dense-ranked distribution from raw
// probabilities (ids assigned sequentially)
func buildDistribution(probs []float64) scenarios.Distribution {
	scs := make([]scenarios.Scenario, len(probs))
	for i, p := range probs {
		scs[i] = scenarios.Scenario{ID: i + 1, Probability: p, Rank: i + 1}
	}
	return scenarios.Distribution{Scenarios: scs}
}

func TestSelectScenariosCumulativeTarget(t *testing.T) {
	// 0.50 + 0.25 + 0.15 = 0.90 >= 0.85 at exactly three scenarios
	dist := buildDistribution([]float64{0.50, 0.25, 0.15, 0.05, 0.03, 0.02})

	selected := SelectScenarios(dist)

	if len(selected) != 3 {
		t.Fatalf("selected %d scenarios, want 3", len(selected))
	}
	if cum := cumulativeProbability(selected); cum < selectionCumulativeTarget {
		t.Errorf("cumulative probability %v below target", cum)
	}
}

func TestSelectScenariosMinimumThree(t *testing.T) {
	// One scenario already clears 0.85, but at least 3 must be selected
	dist := buildDistribution([]float64{0.90, 0.04, 0.03, 0.02, 0.01})

	selected := SelectScenarios(dist)

	if len(selected) != 3 {
		t.Fatalf("selected %d scenarios, want minimum 3", len(selected))
	}
}

func TestSelectScenariosCap(t *testing.T) {
	// Flat tail: cumulative never reaches 0.85 within the cap
	probs := make([]float64, 20)
	for i := range probs {
		probs[i] = 0.05
	}
	dist := buildDistribution(probs)

	selected := SelectScenarios(dist)

	if len(selected) != maxSelectedScenarios {
		t.Fatalf("selected %d scenarios, want cap %d", len(selected), maxSelectedScenarios)
	}
}

func TestSelectScenariosForceInclude(t *testing.T) {
	// A 0.12 scenario sits past the cap behind six 0.13s; it must still be
	// included because it clears the force-include probability
	dist := buildDistribution([]float64{0.13, 0.13, 0.13, 0.13, 0.13, 0.13, 0.12, 0.05, 0.05})

	selected := SelectScenarios(dist)

	if len(selected) != maxSelectedScenarios+1 {
		t.Fatalf("selected %d scenarios, want %d", len(selected), maxSelectedScenarios+1)
	}
	found := false
	for _, sc := range selected {
		if sc.ID == 7 {
			found = true
		}
	}
	if !found {
		t.Error("scenario with probability 0.12 was not force-included")
	}
}

func TestSelectScenariosDominantScenario(t *testing.T) {
	// One dominant 0.40 scenario over a long thin tail: it is always in the
	// selected set and the count stays within bounds
	probs := []float64{0.40}
	remaining := 0.60
	for i := 0; i < 80; i++ {
		probs = append(probs, remaining/80)
	}
	dist := buildDistribution(probs)

	selected := SelectScenarios(dist)

	if len(selected) < minSelectedScenarios || len(selected) > maxSelectedScenarios {
		t.Fatalf("selected %d scenarios, want within [%d, %d]", len(selected), minSelectedScenarios, maxSelectedScenarios)
	}
	if selected[0].ID != 1 {
		t.Error("dominant scenario missing from selection")
	}
}

func TestCumulativeProbability(t *testing.T) {
	scs := []scenarios.Scenario{{Probability: 0.5}, {Probability: 0.3}}
	if got := cumulativeProbability(scs); math.Abs(got-0.8) > 1e-12 {
		t.Errorf("cumulative = %v, want 0.8", got)
	}
}
