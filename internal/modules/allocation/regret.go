package allocation

// RegretMatrix holds the signed regret of every candidate under every
// selected scenario. Regret(c, s) = Return(c, s) - Return(s's own candidate,
// s); zero on the diagonal. Off-diagonal regrets are negative for candidates
// tilted away from the scenario's themes; a candidate tilted toward a
// correlated superset of themes can come out slightly ahead, which the
// optimizer treats like any other entry.
type RegretMatrix struct {
	Candidates []Candidate
	Returns    [][]float64 // [candidate][scenario]
	Regrets    [][]float64 // [candidate][scenario]
}

// BuildRegretMatrix evaluates every candidate under every selected scenario
func BuildRegretMatrix(candidates []Candidate) RegretMatrix {
	n := len(candidates)

	returns := make([][]float64, n)
	for c := range candidates {
		returns[c] = make([]float64, n)
		for s := range candidates {
			returns[c][s] = ScenarioReturn(candidates[c].Allocation, candidates[s].Scenario.States)
		}
	}

	regrets := make([][]float64, n)
	for c := range candidates {
		regrets[c] = make([]float64, n)
		for s := range candidates {
			regrets[c][s] = returns[c][s] - returns[s][s]
		}
	}

	return RegretMatrix{
		Candidates: candidates,
		Returns:    returns,
		Regrets:    regrets,
	}
}

// MaxRegret returns a candidate's worst (most negative) regret across scenarios
func (m RegretMatrix) MaxRegret(candidate int) float64 {
	worst := 0.0
	for _, r := range m.Regrets[candidate] {
		if r < worst {
			worst = r
		}
	}
	return worst
}

// WeightedRegret returns a candidate's probability-weighted regret across
// scenarios, using probabilities renormalized over the selected set
func (m RegretMatrix) WeightedRegret(candidate int) float64 {
	totalProb := 0.0
	for _, c := range m.Candidates {
		totalProb += c.Scenario.Probability
	}
	if totalProb <= 0 {
		return 0
	}

	weighted := 0.0
	for s, c := range m.Candidates {
		weighted += m.Regrets[candidate][s] * c.Scenario.Probability / totalProb
	}
	return weighted
}
