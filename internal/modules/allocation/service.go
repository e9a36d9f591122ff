package allocation

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/macro-trader/internal/modules/scenarios"
)

// Options tune the allocator's final validation stage
type Options struct {
	// EnforceConcentration caps weights at the monitored limits instead of
	// only reporting alerts
	EnforceConcentration bool
}

// Service is the regret-minimization allocator. It is stateless: every run
// takes the scenario distribution and returns a fresh result.
//
// Stages run strictly in order, each feeding the next:
//
//	ScenarioSelection -> CandidateConstruction -> RegretMatrix ->
//	DualOptimization -> SmartHedging -> FinalValidation
//
// The pipeline is not resumable mid-stage; a failed run restarts from
// scenario selection with the same inputs and produces the same output.
type Service struct {
	opts Options
	log  zerolog.Logger
}

// NewService creates a new allocator service
func NewService(opts Options, log zerolog.Logger) *Service {
	return &Service{
		opts: opts,
		log:  log.With().Str("service", "allocator").Logger(),
	}
}

// Allocate runs the full allocator against a scenario distribution
func (s *Service) Allocate(dist scenarios.Distribution) Result {
	var defaults []string

	// Stage 1: scenario selection
	selected := SelectScenarios(dist)
	if len(selected) == minSelectedScenarios && cumulativeProbability(selected) < selectionCumulativeTarget {
		defaults = append(defaults, "scenario selection fell back to top 3")
	}

	// Stage 2: candidate construction
	candidates := BuildCandidates(selected)

	// Stage 3: regret matrix
	matrix := BuildRegretMatrix(candidates)

	// Stage 4: dual optimization
	choice := Optimize(matrix)
	target := candidates[choice.CandidateIndex].Allocation

	s.log.Debug().
		Float64("alpha", choice.Alpha).
		Int("scenario_id", candidates[choice.CandidateIndex].Scenario.ID).
		Float64("max_regret", choice.MaxRegret).
		Float64("weighted_regret", choice.WeightedRegret).
		Msg("Dual optimization selected candidate")

	// Stage 5: smart hedging
	avgCorrelation := AvgPairwiseCorrelation(candidates)
	tolerance := RegretTolerance(avgCorrelation)

	hedge := HedgeDecision{Applied: false}
	if math.Abs(choice.MaxRegret) > tolerance {
		hedge = ChooseHedge(selected)
		target = ApplyHedge(target, hedge)
		s.log.Info().
			Str("symbol", hedge.Symbol).
			Float64("weight", hedge.Weight).
			Str("reason", hedge.Reason).
			Msg("Hedge applied")
	}

	// Stage 6: final validation; renormalization always runs last
	target = ApplyActiveConstraints(target)
	alerts := DetectAlerts(target)
	if s.opts.EnforceConcentration && len(alerts) > 0 {
		target = EnforceLimits(target)
	}

	return Result{
		Target: target,
		Diagnostics: Diagnostics{
			SelectedScenarios: selected,
			Alpha:             choice.Alpha,
			MaxRegret:         choice.MaxRegret,
			WeightedRegret:    choice.WeightedRegret,
			AvgCorrelation:    avgCorrelation,
			RegretTolerance:   tolerance,
			Hedge:             hedge,
			Alerts:            alerts,
			DefaultsTaken:     defaults,
		},
	}
}

func cumulativeProbability(selected []scenarios.Scenario) float64 {
	total := 0.0
	for _, sc := range selected {
		total += sc.Probability
	}
	return total
}
