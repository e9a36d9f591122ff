package allocation

import (
	"math"
	"testing"

	"github.com/aristath/macro-trader/internal/modules/scenarios"
	"github.com/aristath/macro-trader/internal/modules/themes"
)

func testScenario(states scenarios.States, prob float64) scenarios.Scenario {
	return scenarios.Scenario{
		ID:          scenarios.Encode(states),
		States:      states,
		Probability: prob,
	}
}

// a small selected set with distinct state combinations
func testSelected() []scenarios.Scenario {
	return []scenarios.Scenario{
		testScenario(scenarios.States{}, 0.40),
		testScenario(scenarios.States{USD: themes.StateHigh}, 0.25),
		testScenario(scenarios.States{Innovation: themes.StateLow, Valuation: themes.StateHigh}, 0.20),
		testScenario(scenarios.States{USLeadership: themes.StateLow}, 0.15),
	}
}

func TestBuildCandidatesWellFormed(t *testing.T) {
	candidates := BuildCandidates(testSelected())

	if len(candidates) != 4 {
		t.Fatalf("got %d candidates, want 4", len(candidates))
	}

	for _, c := range candidates {
		if total := c.Allocation.Total(); math.Abs(total-1) > 1e-9 {
			t.Errorf("candidate %d total = %v, want 1 ± 1e-9", c.Scenario.ID, total)
		}
		for symbol, w := range c.Allocation {
			if w < 0 {
				t.Errorf("candidate %d has negative weight %v for %s", c.Scenario.ID, w, symbol)
			}
		}
		if c.Allocation[HoldOnlySymbol] > HoldOnlyCeiling+1e-12 {
			t.Errorf("candidate %d hold-only weight %v above ceiling", c.Scenario.ID, c.Allocation[HoldOnlySymbol])
		}
	}
}

func TestRegretMatrixDiagonalZero(t *testing.T) {
	matrix := BuildRegretMatrix(BuildCandidates(testSelected()))

	for c := range matrix.Candidates {
		if d := matrix.Regrets[c][c]; d != 0 {
			t.Errorf("diagonal regret [%d][%d] = %v, want 0", c, c, d)
		}
	}
}

func TestRegretMatrixNonPositive(t *testing.T) {
	matrix := BuildRegretMatrix(BuildCandidates(testSelected()))

	for c := range matrix.Candidates {
		for s := range matrix.Candidates {
			if matrix.Regrets[c][s] > 1e-9 {
				t.Errorf("regret [%d][%d] = %v, want <= 0", c, s, matrix.Regrets[c][s])
			}
		}
	}
}

func TestWeightedRegretRenormalizesProbabilities(t *testing.T) {
	// Probabilities sum to 1.0 here; scaling them by 0.5 must not change the
	// weighted regret because they are renormalized over the selected set
	selected := testSelected()
	matrix := BuildRegretMatrix(BuildCandidates(selected))

	scaled := make([]scenarios.Scenario, len(selected))
	for i, sc := range selected {
		sc.Probability *= 0.5
		scaled[i] = sc
	}
	scaledMatrix := BuildRegretMatrix(BuildCandidates(scaled))

	for c := range matrix.Candidates {
		a := matrix.WeightedRegret(c)
		b := scaledMatrix.WeightedRegret(c)
		if math.Abs(a-b) > 1e-12 {
			t.Errorf("candidate %d weighted regret changed under scaling: %v vs %v", c, a, b)
		}
	}
}

func TestOptimizeDeterministic(t *testing.T) {
	matrix := BuildRegretMatrix(BuildCandidates(testSelected()))

	a := Optimize(matrix)
	b := Optimize(matrix)
	if a != b {
		t.Errorf("optimization not deterministic: %+v vs %+v", a, b)
	}

	if a.CandidateIndex < 0 || a.CandidateIndex >= len(matrix.Candidates) {
		t.Fatalf("candidate index %d out of range", a.CandidateIndex)
	}
	found := false
	for _, alpha := range alphaGrid {
		if a.Alpha == alpha {
			found = true
		}
	}
	if !found {
		t.Errorf("alpha %v not on the grid", a.Alpha)
	}
}

func TestOptimizeScoreConsistent(t *testing.T) {
	matrix := BuildRegretMatrix(BuildCandidates(testSelected()))
	choice := Optimize(matrix)

	want := choice.Alpha*math.Abs(choice.MaxRegret) + (1-choice.Alpha)*math.Abs(choice.WeightedRegret)
	if math.Abs(choice.Score-want) > 1e-12 {
		t.Errorf("score = %v, want %v", choice.Score, want)
	}
}
