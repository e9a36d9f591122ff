package allocation

import "math"

// alphaGrid is the fixed grid of worst-case versus probability-weighted
// blending factors searched by the dual optimization
var alphaGrid = []float64{0.3, 0.4, 0.5, 0.6, 0.7}

// OptimizationChoice is the winning (alpha, candidate) pair
type OptimizationChoice struct {
	Alpha          float64
	CandidateIndex int
	Score          float64
	MaxRegret      float64
	WeightedRegret float64
}

// Optimize searches the alpha grid times the candidate set for the pair
// minimizing
//
//	score = alpha*|maxRegret| + (1-alpha)*|weightedRegret|
//
// The search space is the discrete per-scenario candidate set, not a
// continuous weight space. Iteration order is fixed and ties keep the first
// minimum, so the result is deterministic.
func Optimize(matrix RegretMatrix) OptimizationChoice {
	best := OptimizationChoice{Score: math.Inf(1), CandidateIndex: -1}

	for _, alpha := range alphaGrid {
		for c := range matrix.Candidates {
			maxRegret := matrix.MaxRegret(c)
			weightedRegret := matrix.WeightedRegret(c)

			score := alpha*math.Abs(maxRegret) + (1-alpha)*math.Abs(weightedRegret)
			if score < best.Score {
				best = OptimizationChoice{
					Alpha:          alpha,
					CandidateIndex: c,
					Score:          score,
					MaxRegret:      maxRegret,
					WeightedRegret: weightedRegret,
				}
			}
		}
	}

	return best
}
